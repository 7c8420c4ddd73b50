package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_SuccessfulCall(t *testing.T) {
	client := &mockClient{
		callFn: func(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
			assert.Equal(t, "read_file", name)
			assert.Equal(t, "notes.txt", args["path"])
			return textResult("file contents"), nil
		},
	}

	handler := newHandler(client, "fs", "read_file", "fs-read_file")
	out := handler(context.Background(), `{"path": "notes.txt"}`)
	assert.Equal(t, "file contents", out)
}

func TestHandler_CallsOriginalName(t *testing.T) {
	// The handler must call the provider-side name, not the prefixed
	// registered name.
	client := &mockClient{}
	handler := newHandler(client, "fs", "read_file", "fs-read_file")
	handler(context.Background(), "{}")

	require.Len(t, client.calls, 1)
	assert.Equal(t, "read_file", client.calls[0])
}

func TestHandler_TransportErrorBecomesString(t *testing.T) {
	client := &mockClient{
		callFn: func(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
			return nil, errors.New("connection reset")
		},
	}

	handler := newHandler(client, "db", "query", "query")
	out := handler(context.Background(), "{}")

	assert.Contains(t, out, "Error executing tool query")
	assert.Contains(t, out, "connection reset")
}

func TestHandler_MalformedArguments(t *testing.T) {
	client := &mockClient{}
	handler := newHandler(client, "db", "query", "query")

	out := handler(context.Background(), `{not json`)
	assert.Contains(t, out, "Error executing tool query")
	assert.Empty(t, client.calls, "malformed arguments must not reach the provider")
}

func TestHandler_EmptyArguments(t *testing.T) {
	tests := []string{"", "  ", "null", "{}"}
	for _, argsJSON := range tests {
		client := &mockClient{
			callFn: func(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
				assert.NotNil(t, args)
				assert.Empty(t, args)
				return textResult("ok"), nil
			},
		}
		handler := newHandler(client, "p", "t", "t")
		assert.Equal(t, "ok", handler(context.Background(), argsJSON), "args %q", argsJSON)
	}
}

func TestHandler_ConcatenatesTextParts(t *testing.T) {
	client := &mockClient{
		callFn: func(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
			return textResult("line one", "line two", "line three"), nil
		},
	}

	handler := newHandler(client, "p", "t", "t")
	assert.Equal(t, "line one\nline two\nline three", handler(context.Background(), "{}"))
}

func TestHandler_IgnoresNonTextParts(t *testing.T) {
	client := &mockClient{
		callFn: func(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					mcp.NewTextContent("before"),
					mcp.NewImageContent("ZmFrZQ==", "image/png"),
					mcp.NewTextContent("after"),
				},
			}, nil
		},
	}

	handler := newHandler(client, "p", "t", "t")
	assert.Equal(t, "before\nafter", handler(context.Background(), "{}"))
}

func TestHandler_ProviderReportedError(t *testing.T) {
	client := &mockClient{
		callFn: func(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
			result := textResult("tool exploded")
			result.IsError = true
			return result, nil
		},
	}

	handler := newHandler(client, "p", "t", "t")
	out := handler(context.Background(), "{}")
	assert.Contains(t, out, "Error executing tool t")
	assert.Contains(t, out, "tool exploded")
}

func TestHandler_CancelledContext(t *testing.T) {
	client := &mockClient{
		callFn: func(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
			return nil, ctx.Err()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	handler := newHandler(client, "p", "t", "t")
	out := handler(ctx, "{}")
	assert.Contains(t, out, "Error executing tool t")
	assert.Contains(t, out, "context canceled")
}
