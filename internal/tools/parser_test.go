package tools

import (
	"reflect"
	"testing"
)

func TestParseToolCalls(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []ToolCall
	}{
		{
			name: "no blocks",
			text: "这是一个普通的回答，没有工具调用。",
			want: []ToolCall{},
		},
		{
			name: "single call",
			text: "我来查一下。\n\n```tool_call\n{\"tool\": \"get_client_detail\", \"params\": {\"name\": \"中信出版社\"}}\n```\n",
			want: []ToolCall{
				{Name: "get_client_detail", Params: map[string]any{"name": "中信出版社"}},
			},
		},
		{
			name: "params optional",
			text: "```tool_call\n{\"tool\": \"list_collections\"}\n```",
			want: []ToolCall{
				{Name: "list_collections", Params: map[string]any{}},
			},
		},
		{
			name: "multiple calls in order",
			text: "```tool_call\n{\"tool\": \"a\", \"params\": {}}\n```\ntext between\n```tool_call\n{\"tool\": \"b\", \"params\": {\"x\": 1}}\n```",
			want: []ToolCall{
				{Name: "a", Params: map[string]any{}},
				{Name: "b", Params: map[string]any{"x": float64(1)}},
			},
		},
		{
			name: "invalid json skipped",
			text: "```tool_call\nnot json at all\n```",
			want: []ToolCall{},
		},
		{
			name: "missing tool key skipped",
			text: "```tool_call\n{\"params\": {\"name\": \"x\"}}\n```",
			want: []ToolCall{},
		},
		{
			name: "other fences ignored",
			text: "```json\n{\"tool\": \"a\"}\n```\n```python\nprint(1)\n```",
			want: []ToolCall{},
		},
		{
			name: "case sensitive fence tag",
			text: "```Tool_Call\n{\"tool\": \"a\"}\n```",
			want: []ToolCall{},
		},
		{
			name: "mixed valid and invalid",
			text: "```tool_call\nbroken\n```\n```tool_call\n{\"tool\": \"count_documents\", \"params\": {\"collection\": \"clients\"}}\n```",
			want: []ToolCall{
				{Name: "count_documents", Params: map[string]any{"collection": "clients"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseToolCalls(tt.text)
			if got == nil {
				t.Fatal("ParseToolCalls returned nil, want empty slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseToolCalls() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
