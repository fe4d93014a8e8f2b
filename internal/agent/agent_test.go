package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/donhauser001/dhs-atlas/internal/llm"
	"github.com/donhauser001/dhs-atlas/internal/tools"
)

// scriptedProvider returns canned responses in order and records every
// transcript it was called with.
type scriptedProvider struct {
	responses []string
	err       error
	calls     [][]llm.Message
}

func (p *scriptedProvider) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	recorded := make([]llm.Message, len(messages))
	copy(recorded, messages)
	p.calls = append(p.calls, recorded)

	if p.err != nil {
		return "", p.err
	}
	idx := len(p.calls) - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx], nil
}

func (p *scriptedProvider) GenerateStream(ctx context.Context, messages []llm.Message) (<-chan llm.StreamChunk, error) {
	text, err := p.Generate(ctx, messages)
	if err != nil {
		return nil, err
	}
	chunks := make(chan llm.StreamChunk, 1)
	chunks <- llm.StreamChunk{Text: text, Done: true}
	close(chunks)
	return chunks, nil
}

// echoTool returns a fixed payload or error.
type echoTool struct {
	tools.BaseTool
	payload any
	err     error
}

func newEchoTool(name string, payload any, err error) *echoTool {
	return &echoTool{
		BaseTool: tools.BaseTool{
			Def: tools.ToolDefinition{
				Name:        name,
				Description: name + " 测试工具",
				Parameters:  &tools.JSONSchema{Type: "object"},
			},
		},
		payload: payload,
		err:     err,
	}
}

func (t *echoTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	return t.payload, t.err
}

func toolCallBlock(name string) string {
	return "```tool_call\n{\"tool\": \"" + name + "\", \"params\": {}}\n```"
}

func TestChatNoToolResponse(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"这是最终答案。"}}
	ag := New(provider, tools.NewRegistry())

	response, err := ag.Chat(context.Background(), "你好", "s1")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if response.Content != "这是最终答案。" {
		t.Errorf("Content = %q", response.Content)
	}
	if response.SessionID != "s1" {
		t.Errorf("SessionID = %q, want s1", response.SessionID)
	}
	if response.ToolResults != nil {
		t.Errorf("ToolResults = %v, want nil", response.ToolResults)
	}
	if len(provider.calls) != 1 {
		t.Errorf("completion calls = %d, want 1", len(provider.calls))
	}
}

func TestChatToolRoundThenAnswer(t *testing.T) {
	registry := tools.NewRegistry()
	registry.Register(newEchoTool("echo", map[string]any{"value": 42}, nil))

	provider := &scriptedProvider{responses: []string{
		"先查询一下。\n\n" + toolCallBlock("echo"),
		"根据结果，值是 42。",
	}}
	ag := New(provider, registry)

	response, err := ag.Chat(context.Background(), "值是多少", "s1")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if response.Content != "根据结果，值是 42。" {
		t.Errorf("Content = %q", response.Content)
	}
	if len(response.ToolResults) != 1 || !response.ToolResults[0].OK {
		t.Fatalf("ToolResults = %+v, want one ok result", response.ToolResults)
	}

	if len(provider.calls) != 2 {
		t.Fatalf("completion calls = %d, want 2", len(provider.calls))
	}
	second := provider.calls[1]
	folded := second[len(second)-1]
	if folded.Role != "user" {
		t.Errorf("folded turn role = %q, want user", folded.Role)
	}
	if !strings.Contains(folded.Content, "工具 echo 结果:") {
		t.Errorf("folded turn missing result header: %q", folded.Content)
	}
	if !strings.Contains(folded.Content, `{"value":42}`) {
		t.Errorf("folded turn missing serialized data: %q", folded.Content)
	}
	if !strings.Contains(folded.Content, foldInstruction) {
		t.Errorf("folded turn missing closing instruction: %q", folded.Content)
	}
}

func TestChatToolErrorFoldedBack(t *testing.T) {
	registry := tools.NewRegistry()
	registry.Register(newEchoTool("broken", nil, errors.New("store unavailable")))

	provider := &scriptedProvider{responses: []string{
		toolCallBlock("broken"),
		"查询失败了，原因是存储不可用。",
	}}
	ag := New(provider, registry)

	response, err := ag.Chat(context.Background(), "查一下", "s1")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if len(response.ToolResults) != 1 || response.ToolResults[0].OK {
		t.Fatalf("ToolResults = %+v, want one failed result", response.ToolResults)
	}

	second := provider.calls[1]
	folded := second[len(second)-1].Content
	if !strings.Contains(folded, "工具 broken 错误: store unavailable") {
		t.Errorf("folded turn = %q, want error line", folded)
	}
}

func TestChatUnknownToolKeepsLooping(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		toolCallBlock("no_such_tool"),
		"抱歉，没有这个工具。",
	}}
	ag := New(provider, tools.NewRegistry())

	response, err := ag.Chat(context.Background(), "试试", "s1")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if len(response.ToolResults) != 1 {
		t.Fatalf("ToolResults = %+v, want one result", response.ToolResults)
	}
	if !strings.Contains(response.ToolResults[0].Error, "tool not found: no_such_tool") {
		t.Errorf("Error = %q", response.ToolResults[0].Error)
	}
}

func TestChatRoundLimit(t *testing.T) {
	registry := tools.NewRegistry()
	registry.Register(newEchoTool("echo", "data", nil))

	// Always calls a tool, never terminates naturally.
	provider := &scriptedProvider{responses: []string{toolCallBlock("echo")}}
	ag := New(provider, registry)

	response, err := ag.Chat(context.Background(), "一直查", "s1")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if response.Content != roundLimitReply {
		t.Errorf("Content = %q, want round limit reply", response.Content)
	}
	if len(provider.calls) != maxRounds {
		t.Errorf("completion calls = %d, want %d", len(provider.calls), maxRounds)
	}
	if len(response.ToolResults) != maxRounds {
		t.Errorf("ToolResults = %d, want %d", len(response.ToolResults), maxRounds)
	}
}

func TestChatTransportFailure(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("connection refused")}
	ag := New(provider, tools.NewRegistry())

	if _, err := ag.Chat(context.Background(), "你好", "s1"); err == nil {
		t.Fatal("Chat() error = nil, want transport failure")
	}
	if len(provider.calls) != 1 {
		t.Errorf("completion calls = %d, want 1 (no retry)", len(provider.calls))
	}
}

func TestChatTruncatesLongResults(t *testing.T) {
	registry := tools.NewRegistry()
	registry.Register(newEchoTool("big", strings.Repeat("甲", resultCharLimit+500), nil))

	provider := &scriptedProvider{responses: []string{
		toolCallBlock("big"),
		"数据太多了。",
	}}
	ag := New(provider, registry)

	if _, err := ag.Chat(context.Background(), "查", "s1"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	folded := provider.calls[1][len(provider.calls[1])-1].Content
	if !strings.Contains(folded, truncationMarker) {
		t.Error("folded turn missing truncation marker")
	}
	for _, part := range strings.Split(folded, "\n\n") {
		if len([]rune(part)) > resultCharLimit+len([]rune(truncationMarker))+100 {
			t.Errorf("folded part exceeds budget: %d runes", len([]rune(part)))
		}
	}
}

func TestChatStripsThinkBlocks(t *testing.T) {
	provider := &scriptedProvider{responses: []string{
		"<think>我应该直接回答</think>\n\n\n\n最终答案。",
	}}
	ag := New(provider, tools.NewRegistry())

	response, err := ag.Chat(context.Background(), "你好", "s1")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if response.Content != "最终答案。" {
		t.Errorf("Content = %q, want cleaned answer", response.Content)
	}
}

func TestChatGeneratesSessionID(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"答案"}}
	ag := New(provider, tools.NewRegistry())

	response, err := ag.Chat(context.Background(), "你好", "")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if response.SessionID == "" {
		t.Error("SessionID empty, want generated id")
	}
}

func TestChatCarriesHistory(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"第一个答案", "第二个答案"}}
	ag := New(provider, tools.NewRegistry())

	if _, err := ag.Chat(context.Background(), "第一个问题", "s1"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if _, err := ag.Chat(context.Background(), "第二个问题", "s1"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	second := provider.calls[1]
	// system + first q + first a + second q
	if len(second) != 4 {
		t.Fatalf("second transcript length = %d, want 4", len(second))
	}
	if second[1].Content != "第一个问题" || second[2].Content != "第一个答案" {
		t.Errorf("history not carried: %+v", second[1:3])
	}

	ag.ClearSession("s1")
	if _, err := ag.Chat(context.Background(), "第三个问题", "s1"); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	third := provider.calls[2]
	if len(third) != 2 {
		t.Errorf("transcript after clear = %d messages, want 2", len(third))
	}
}

func TestChatStreamEvents(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"流式答案"}}
	ag := New(provider, tools.NewRegistry())

	var events []StreamEvent
	for event := range ag.ChatStream(context.Background(), "你好", "s1") {
		events = append(events, event)
	}

	wantTypes := []string{"start", "content", "done"}
	if len(events) != len(wantTypes) {
		t.Fatalf("events = %d, want %d", len(events), len(wantTypes))
	}
	for i, want := range wantTypes {
		if events[i].Type != want {
			t.Errorf("event[%d].Type = %q, want %q", i, events[i].Type, want)
		}
	}
	if events[1].Content != "流式答案" {
		t.Errorf("content event = %q", events[1].Content)
	}
	if events[0].SessionID != "s1" || events[2].SessionID != "s1" {
		t.Error("start/done events missing session id")
	}
}

func TestChatStreamError(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("connection refused")}
	ag := New(provider, tools.NewRegistry())

	var events []StreamEvent
	for event := range ag.ChatStream(context.Background(), "你好", "s1") {
		events = append(events, event)
	}

	if len(events) != 2 || events[0].Type != "start" || events[1].Type != "error" {
		t.Fatalf("events = %+v, want start then error", events)
	}
	if events[1].Err == nil {
		t.Error("error event missing error")
	}
}
