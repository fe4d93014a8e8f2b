package tools

import (
	"encoding/json"
	"regexp"
)

// toolCallPattern matches fenced code blocks tagged with the literal
// marker tool_call. The tag is case-sensitive; the body is everything up
// to the closing fence.
var toolCallPattern = regexp.MustCompile("(?s)```tool_call\\s*\n(.*?)```")

// ParseToolCalls scans model output for fenced tool_call blocks and
// returns the invocation requests in order of appearance. A block counts
// only if its body is a JSON object with a string "tool" key; "params"
// is optional and defaults to an empty map. Blocks that fail to parse
// are skipped silently, since the model may emit explanatory fenced
// blocks that are not tool calls. Returns an empty slice, never nil.
func ParseToolCalls(text string) []ToolCall {
	calls := []ToolCall{}
	for _, match := range toolCallPattern.FindAllStringSubmatch(text, -1) {
		var call ToolCall
		if err := json.Unmarshal([]byte(match[1]), &call); err != nil {
			continue
		}
		if call.Name == "" {
			continue
		}
		if call.Params == nil {
			call.Params = map[string]any{}
		}
		calls = append(calls, call)
	}
	return calls
}
