// Package tui is the interactive terminal chat client for the agent.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/donhauser001/dhs-atlas/internal/agent"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212"))

	modelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	userStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	assistantStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	thinkingStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true)

	helpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	editorStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241"))
)

type message struct {
	role    string // "user", "assistant", "error"
	content string
}

type responseMsg struct {
	response *agent.ChatResponse
	err      error
}

// Model is the terminal chat model.
type Model struct {
	agent     *agent.Agent
	modelName string
	sessionID string

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	messages []message
	thinking bool
	ready    bool
	width    int
	height   int
}

// New creates the chat model.
func New(ag *agent.Agent, modelName string) Model {
	ta := textarea.New()
	ta.Placeholder = "问点什么，比如：中信出版社的报价单"
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	// Dark style explicitly, avoids terminal color queries
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(80),
	)

	return Model{
		agent:     ag,
		modelName: modelName,
		sessionID: uuid.NewString(),
		textarea:  ta,
		spinner:   sp,
		renderer:  renderer,
	}
}

// Init starts cursor blinking.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(msg.Width - 4)

		vpHeight := msg.Height - 7
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}

		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithStylePath("dark"),
			glamour.WithWordWrap(min(msg.Width-4, 100)),
		)
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.thinking {
				return m, nil
			}
			text := strings.TrimSpace(m.textarea.Value())
			if text == "" {
				return m, nil
			}
			m.textarea.Reset()
			m.messages = append(m.messages, message{role: "user", content: text})
			m.thinking = true
			m.refreshViewport()
			return m, tea.Batch(m.spinner.Tick, m.sendMessage(text))
		}

	case responseMsg:
		m.thinking = false
		if msg.err != nil {
			m.messages = append(m.messages, message{role: "error", content: msg.err.Error()})
		} else {
			m.messages = append(m.messages, message{role: "assistant", content: msg.response.Content})
		}
		m.refreshViewport()

	case spinner.TickMsg:
		if m.thinking {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the screen.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := titleStyle.Render("鲁班 · DHS-Atlas") + "  " + modelStyle.Render(m.modelName)

	body := m.viewport.View()
	if m.thinking {
		body += "\n" + thinkingStyle.Render(m.spinner.View()+" 思考中...")
	}

	editor := editorStyle.Width(m.width - 2).Render(m.textarea.View())
	help := helpStyle.Render("enter 发送 · esc 退出")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, body, editor, help)
}

func (m *Model) sendMessage(text string) tea.Cmd {
	return func() tea.Msg {
		response, err := m.agent.Chat(context.Background(), text, m.sessionID)
		return responseMsg{response: response, err: err}
	}
}

func (m *Model) refreshViewport() {
	var sb strings.Builder
	for _, msg := range m.messages {
		switch msg.role {
		case "user":
			sb.WriteString(userStyle.Render("你") + "\n")
			sb.WriteString(msg.content + "\n\n")
		case "assistant":
			sb.WriteString(assistantStyle.Render("鲁班") + "\n")
			sb.WriteString(m.renderMarkdown(msg.content) + "\n")
		case "error":
			sb.WriteString(errorStyle.Render("错误: "+msg.content) + "\n\n")
		}
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered) + "\n"
}
