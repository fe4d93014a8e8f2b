package tools

// JSONSchema describes tool parameters, OpenAI function-calling style.
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
}

// ToolDefinition is the structured tool definition.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  *JSONSchema `json:"parameters"`
}

// ToolCall is a parsed tool invocation request.
type ToolCall struct {
	Name   string         `json:"tool"`
	Params map[string]any `json:"params,omitempty"`
}

// ToolResult is the outcome of one tool invocation. Either OK is true and
// Data holds the JSON-compatible return value, or OK is false and Error
// holds a message the model can act on.
type ToolResult struct {
	Tool  string `json:"tool"`
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}
