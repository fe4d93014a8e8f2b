// Package tools defines the data-access tools exposed to the model and
// the registry that parses, validates and dispatches tool calls.
package tools

import (
	"context"
	"fmt"
)

// Tool is the interface all tools must implement.
type Tool interface {
	// Definition returns the structured tool definition
	Definition() ToolDefinition

	// Execute runs the tool and returns a JSON-compatible value
	Execute(ctx context.Context, params map[string]any) (any, error)

	// Validate checks if the parameters are valid
	Validate(params map[string]any) error
}

// BaseTool provides common functionality for tools.
type BaseTool struct {
	Def ToolDefinition
}

// Definition returns the tool definition.
func (b *BaseTool) Definition() ToolDefinition {
	return b.Def
}

// Validate checks that required parameters are present and that supplied
// parameters match their declared schema types.
func (b *BaseTool) Validate(params map[string]any) error {
	if b.Def.Parameters == nil {
		return nil
	}
	for _, required := range b.Def.Parameters.Required {
		if _, ok := params[required]; !ok {
			return fmt.Errorf("missing required parameter: %s", required)
		}
	}
	for name, prop := range b.Def.Parameters.Properties {
		value, ok := params[name]
		if !ok || value == nil {
			continue
		}
		if err := checkType(name, prop.Type, value); err != nil {
			return err
		}
	}
	return nil
}

// checkType verifies a decoded JSON value against a schema type name.
// JSON numbers decode to float64, so integer accepts any float64.
func checkType(name, schemaType string, value any) error {
	ok := true
	switch schemaType {
	case "string":
		_, ok = value.(string)
	case "number", "integer":
		switch value.(type) {
		case float64, int, int64:
		default:
			ok = false
		}
	case "boolean":
		_, ok = value.(bool)
	case "object":
		_, ok = value.(map[string]any)
	case "array":
		switch value.(type) {
		case []any, []string:
		default:
			ok = false
		}
	}
	if !ok {
		return fmt.Errorf("parameter %s: expected %s, got %T", name, schemaType, value)
	}
	return nil
}
