package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// JSONResult renders v as an indented JSON text result.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorResult renders err as {"success":false,"error":"..."} and marks the
// result as an error.
func ErrorResult(err error) *mcp.CallToolResult {
	b, _ := json.Marshal(failure{Error: err.Error()})
	return mcp.NewToolResultError(string(b))
}

// StringArg returns the string argument key, or def when it is missing or
// empty.
func StringArg(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

// IntArg returns the numeric argument key. JSON numbers arrive as float64.
func IntArg(args map[string]any, key string, def int64) (int64, error) {
	switch v := args[key].(type) {
	case nil:
		return def, nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	}
	return 0, fmt.Errorf("%s must be a number", key)
}
