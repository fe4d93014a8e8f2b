package tools

import (
	"context"
	"fmt"
)

// Registry manages tool registration and dispatch. Registration order is
// preserved so prompt assembly and listings are deterministic.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry. Two tools with the same name is
// a programming error, so it panics at startup rather than silently
// shadowing one of them.
func (r *Registry) Register(tool Tool) {
	def := tool.Definition()
	if _, exists := r.tools[def.Name]; exists {
		panic(fmt.Sprintf("tool already registered: %s", def.Name))
	}
	r.tools[def.Name] = tool
	r.order = append(r.order, def.Name)
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tool definitions in registration order.
func (r *Registry) List() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// Execute runs a tool call and always returns a result: unknown tools,
// validation failures, handler errors and handler panics all become
// {ok: false, error} results, because a failed call must be reportable
// back to the model as conversational content.
func (r *Registry) Execute(ctx context.Context, call ToolCall) (result ToolResult) {
	result = ToolResult{Tool: call.Name}

	defer func() {
		if rec := recover(); rec != nil {
			result.OK = false
			result.Data = nil
			result.Error = fmt.Sprintf("tool %s panicked: %v", call.Name, rec)
		}
	}()

	tool, ok := r.Get(call.Name)
	if !ok {
		result.Error = fmt.Sprintf("tool not found: %s", call.Name)
		return result
	}

	params := call.Params
	if params == nil {
		params = map[string]any{}
	}

	if err := tool.Validate(params); err != nil {
		result.Error = err.Error()
		return result
	}

	data, err := tool.Execute(ctx, params)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.OK = true
	result.Data = data
	return result
}
