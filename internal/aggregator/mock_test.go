package aggregator

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
)

// mockClient is a test double for provider.Client.
type mockClient struct {
	tools   []mcp.Tool
	initErr error
	listErr error
	callFn  func(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error)

	mu     sync.Mutex
	closed bool
	calls  []string
}

func (m *mockClient) Initialize(ctx context.Context) error {
	return m.initErr
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.tools, nil
}

func (m *mockClient) CallTool(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()

	if m.callFn != nil {
		return m.callFn(ctx, name, args)
	}
	return textResult(fmt.Sprintf("result of %s", name)), nil
}

func (m *mockClient) Ping(ctx context.Context) error {
	return nil
}

func (m *mockClient) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func textResult(texts ...string) *mcp.CallToolResult {
	var content []mcp.Content
	for _, t := range texts {
		content = append(content, mcp.NewTextContent(t))
	}
	return &mcp.CallToolResult{Content: content}
}

// simpleTool builds a schemaless tool for naming and registry tests.
func simpleTool(name string) mcp.Tool {
	return mcp.Tool{Name: name, Description: "test tool " + name}
}
