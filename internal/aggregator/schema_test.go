package aggregator

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractParameters_EmptySchema(t *testing.T) {
	// A tool with no schema at all yields no parameters, not an error.
	params := ExtractParameters(mcp.Tool{Name: "bare"})
	assert.Empty(t, params)
}

func TestExtractParameters_WellFormedSchema(t *testing.T) {
	tool := mcp.Tool{
		Name: "query",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sql": map[string]interface{}{
					"type":        "string",
					"description": "SQL statement to execute",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "maximum rows",
				},
				"dry_run": map[string]interface{}{
					"type": "boolean",
				},
			},
			Required: []string{"sql"},
		},
	}

	params := ExtractParameters(tool)
	require.Len(t, params, 3)

	// Parameters come back sorted by name.
	assert.Equal(t, "dry_run", params[0].Name)
	assert.Equal(t, TypeBoolean, params[0].Type)
	assert.False(t, params[0].Required)
	assert.Empty(t, params[0].Description)

	assert.Equal(t, "limit", params[1].Name)
	assert.Equal(t, TypeInteger, params[1].Type)
	assert.Equal(t, "maximum rows", params[1].Description)
	assert.False(t, params[1].Required)

	assert.Equal(t, "sql", params[2].Name)
	assert.Equal(t, TypeString, params[2].Type)
	assert.True(t, params[2].Required)
}

func TestExtractParameters_TypeTable(t *testing.T) {
	tests := []struct {
		rawType  interface{}
		expected ParameterType
	}{
		{"string", TypeString},
		{"number", TypeNumber},
		{"integer", TypeInteger},
		{"boolean", TypeBoolean},
		{"array", TypeArray},
		{"object", TypeObject},
		{"date-time", TypeUnknown},
		{nil, TypeUnknown},
		{42, TypeUnknown},
		{[]interface{}{"string", "null"}, TypeString},
		{[]interface{}{"null", "integer"}, TypeInteger},
		{[]interface{}{true}, TypeUnknown},
	}

	for _, tt := range tests {
		tool := mcp.Tool{
			Name: "typed",
			InputSchema: mcp.ToolInputSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"p": map[string]interface{}{"type": tt.rawType},
				},
			},
		}
		params := ExtractParameters(tool)
		require.Len(t, params, 1)
		assert.Equal(t, tt.expected, params[0].Type, "raw type %v", tt.rawType)
	}
}

func TestExtractParameters_MalformedProperties(t *testing.T) {
	// Property values that are not objects degrade to unknown-typed
	// parameters instead of failing extraction.
	tool := mcp.Tool{
		Name: "odd",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scalar":  "not an object",
				"number":  12.5,
				"listing": []interface{}{"a", "b"},
			},
		},
	}

	params := ExtractParameters(tool)
	require.Len(t, params, 3)
	for _, p := range params {
		assert.Equal(t, TypeUnknown, p.Type)
		assert.False(t, p.Required)
		assert.Empty(t, p.Description)
	}
}

func TestExtractParameters_RequiredExactMatch(t *testing.T) {
	tool := mcp.Tool{
		Name: "exact",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path":  map[string]interface{}{"type": "string"},
				"paths": map[string]interface{}{"type": "array"},
			},
			Required: []string{"path", "nonexistent"},
		},
	}

	params := ExtractParameters(tool)
	require.Len(t, params, 2)
	assert.Equal(t, "path", params[0].Name)
	assert.True(t, params[0].Required)
	assert.Equal(t, "paths", params[1].Name)
	assert.False(t, params[1].Required, "required membership is an exact string match")
}
