package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/donhauser001/dhs-atlas/internal/agent"
	"github.com/donhauser001/dhs-atlas/internal/config"
	"github.com/donhauser001/dhs-atlas/internal/llm"
	"github.com/donhauser001/dhs-atlas/internal/store"
	"github.com/donhauser001/dhs-atlas/internal/tools"
	"github.com/donhauser001/dhs-atlas/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive terminal chat with the agent",
	Run:   runChat,
}

func runChat(cmd *cobra.Command, args []string) {
	cfg := config.Get()

	st, err := store.Connect(context.Background(), cfg.MongoURI, cfg.Database)
	if err != nil {
		fmt.Printf("无法连接数据库: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = st.Close(ctx)
	}()

	registry := tools.DefaultRegistry(st)
	provider := llm.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMAPIKey)
	ag := agent.New(provider, registry)

	p := tea.NewProgram(
		tui.New(ag, cfg.LLMModel),
		tea.WithAltScreen(),
		tea.WithoutBracketedPaste(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
