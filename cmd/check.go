package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donhauser001/dhs-atlas/internal/config"
	"github.com/donhauser001/dhs-atlas/internal/llm"
	"github.com/donhauser001/dhs-atlas/internal/store"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check MongoDB and LLM connectivity",
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), llm.DefaultTimeout)
	defer cancel()

	fmt.Printf("MongoDB  %s (%s) ... ", cfg.MongoURI, cfg.Database)
	st, err := store.Connect(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		fmt.Println("FAIL")
		return err
	}
	defer func() { _ = st.Close(context.Background()) }()

	names, err := st.ListCollectionNames(ctx)
	if err != nil {
		fmt.Println("FAIL")
		return err
	}
	fmt.Printf("ok (%d collections)\n", len(names))

	fmt.Printf("LLM      %s (%s) ... ", cfg.LLMBaseURL, cfg.LLMModel)
	provider := llm.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMAPIKey)
	if _, err := provider.Generate(ctx, []llm.Message{{Role: "user", Content: "ping"}}); err != nil {
		fmt.Println("FAIL")
		return err
	}
	fmt.Println("ok")

	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
