// Package agent implements the tool-calling conversation loop: send the
// transcript to the model, parse tool calls out of the reply, dispatch
// them, fold the results back in as a user turn, repeat until the model
// answers without tools or the round budget runs out.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/donhauser001/dhs-atlas/internal/llm"
	"github.com/donhauser001/dhs-atlas/internal/tools"
)

const (
	// maxRounds bounds completion-service calls per chat call.
	maxRounds = 5

	// resultCharLimit bounds one serialized tool result inside a folded
	// user turn.
	resultCharLimit = 2000

	truncationMarker = "...(已截断)"

	// roundLimitReply is the terminal content when the model keeps
	// calling tools past the round budget.
	roundLimitReply = "问题较复杂，请尝试简化您的问题。"

	// foldInstruction closes every folded result turn.
	foldInstruction = "请基于以上工具结果用中文回答用户的问题，结构化数据使用 Markdown 表格展示。"
)

// ChatResponse is the outcome of one chat call.
type ChatResponse struct {
	Content     string             `json:"content"`
	SessionID   string             `json:"sessionId"`
	ToolResults []tools.ToolResult `json:"toolResults,omitempty"`
}

// StreamEvent is one staged event of a streaming chat call.
type StreamEvent struct {
	Type      string // "start", "content", "done", "error"
	SessionID string
	Content   string
	Err       error
}

// Agent runs conversation loops against a completion provider and the
// tool registry. Each chat call gets its own loop; the agent itself only
// carries read-only configuration plus the session store, so concurrent
// calls are safe.
type Agent struct {
	provider llm.Provider
	registry *tools.Registry
	sessions SessionStore
	persona  string
	filters  []ResponseFilter
	prompt   string
}

// Option configures an Agent.
type Option func(*Agent)

// WithSessionStore replaces the default in-memory session store.
func WithSessionStore(store SessionStore) Option {
	return func(a *Agent) { a.sessions = store }
}

// WithPersona replaces the built-in system persona.
func WithPersona(persona string) Option {
	return func(a *Agent) { a.persona = persona }
}

// WithResponseFilter appends a post-processing filter for model output.
func WithResponseFilter(filter ResponseFilter) Option {
	return func(a *Agent) { a.filters = append(a.filters, filter) }
}

// New creates an agent. The system prompt is assembled once from the
// registry, so tools must be registered before calling New.
func New(provider llm.Provider, registry *tools.Registry, opts ...Option) *Agent {
	a := &Agent{
		provider: provider,
		registry: registry,
		sessions: NewMemorySessionStore(),
		filters:  []ResponseFilter{StripThinkTags},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.prompt = BuildSystemPrompt(registry, a.persona)
	return a
}

// SystemPrompt returns the assembled system turn.
func (a *Agent) SystemPrompt() string {
	return a.prompt
}

// Registry returns the tool registry.
func (a *Agent) Registry() *tools.Registry {
	return a.registry
}

// ClearSession drops the stored history for a session. Clearing an
// absent session succeeds.
func (a *Agent) ClearSession(sessionID string) {
	a.sessions.Delete(sessionID)
}

// Chat runs one conversation loop for the message. A transport failure
// from the completion service aborts the call with an error; everything
// a tool can get wrong is folded back into the conversation instead.
func (a *Agent) Chat(ctx context.Context, message, sessionID string) (*ChatResponse, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history := a.sessions.Get(sessionID)

	transcript := make([]llm.Message, 0, len(history)+2)
	transcript = append(transcript, llm.Message{Role: "system", Content: a.prompt})
	transcript = append(transcript, history...)
	transcript = append(transcript, llm.Message{Role: "user", Content: message})

	var results []tools.ToolResult

	for round := 0; round < maxRounds; round++ {
		raw, err := a.provider.Generate(ctx, transcript)
		if err != nil {
			return nil, fmt.Errorf("completion request failed: %w", err)
		}

		text := CleanResponse(raw, a.filters...)

		calls := tools.ParseToolCalls(text)
		if len(calls) == 0 {
			a.saveTurn(sessionID, history, message, text)
			return &ChatResponse{
				Content:     text,
				SessionID:   sessionID,
				ToolResults: results,
			}, nil
		}

		roundResults := make([]tools.ToolResult, 0, len(calls))
		for _, call := range calls {
			result := a.registry.Execute(ctx, call)
			roundResults = append(roundResults, result)
			results = append(results, result)
		}

		transcript = append(transcript,
			llm.Message{Role: "assistant", Content: text},
			llm.Message{Role: "user", Content: foldResults(roundResults)},
		)
	}

	a.saveTurn(sessionID, history, message, roundLimitReply)
	return &ChatResponse{
		Content:     roundLimitReply,
		SessionID:   sessionID,
		ToolResults: results,
	}, nil
}

// ChatStream runs the same loop and reports it as staged events: one
// start, one content with the final answer, then done — or error.
func (a *Agent) ChatStream(ctx context.Context, message, sessionID string) <-chan StreamEvent {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	events := make(chan StreamEvent)
	go func() {
		defer close(events)

		events <- StreamEvent{Type: "start", SessionID: sessionID}

		response, err := a.Chat(ctx, message, sessionID)
		if err != nil {
			events <- StreamEvent{Type: "error", SessionID: sessionID, Err: err}
			return
		}

		events <- StreamEvent{Type: "content", SessionID: sessionID, Content: response.Content}
		events <- StreamEvent{Type: "done", SessionID: sessionID}
	}()
	return events
}

// saveTurn records the completed exchange in the session history. Tool
// rounds are not persisted; follow-up questions only need the visible
// conversation.
func (a *Agent) saveTurn(sessionID string, history []llm.Message, message, answer string) {
	history = append(history,
		llm.Message{Role: "user", Content: message},
		llm.Message{Role: "assistant", Content: answer},
	)
	a.sessions.Put(sessionID, history)
}

// foldResults serializes one round of tool results into the user turn
// that carries them back to the model.
func foldResults(results []tools.ToolResult) string {
	parts := make([]string, 0, len(results)+1)
	for _, result := range results {
		var part string
		if result.OK {
			data, err := json.Marshal(result.Data)
			if err != nil {
				data = []byte(fmt.Sprintf("%v", result.Data))
			}
			part = fmt.Sprintf("工具 %s 结果:\n%s", result.Tool, truncateResult(string(data)))
		} else {
			part = fmt.Sprintf("工具 %s 错误: %s", result.Tool, truncateResult(result.Error))
		}
		parts = append(parts, part)
	}
	parts = append(parts, foldInstruction)
	return strings.Join(parts, "\n\n")
}

// truncateResult caps a serialized result at resultCharLimit characters.
func truncateResult(text string) string {
	runes := []rune(text)
	if len(runes) <= resultCharLimit {
		return text
	}
	return string(runes[:resultCharLimit]) + truncationMarker
}
