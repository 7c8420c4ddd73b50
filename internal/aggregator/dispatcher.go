package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"funnel/internal/provider"
	"funnel/pkg/logging"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// newHandler builds the invocation handler for one registered tool.
//
// The returned handler is a stateless closure over the provider client
// and the original tool name; any number of calls, including to the
// same tool, may run concurrently. It is total from the caller's
// perspective: every failure path resolves to an error string instead
// of an error value, so a single bad invocation cannot take down the
// agent pipeline.
func newHandler(client provider.Client, providerID, originalName, registeredName string) Handler {
	return func(ctx context.Context, argsJSON string) string {
		callID := uuid.NewString()

		args, err := parseArgs(argsJSON)
		if err != nil {
			logging.Warn("Dispatcher", "Call %s: malformed arguments for %s: %v", callID, registeredName, err)
			return invocationError(registeredName, err)
		}

		logging.Debug("Dispatcher", "Call %s: invoking %s (provider %s, tool %s)",
			callID, registeredName, providerID, originalName)

		result, err := client.CallTool(ctx, originalName, args)
		if err != nil {
			logging.Error("Dispatcher", err, "Call %s: tool call failed for %s", callID, registeredName)
			return invocationError(registeredName, err)
		}

		text := joinTextContent(result.Content)
		if result.IsError {
			logging.Warn("Dispatcher", "Call %s: provider reported error for %s", callID, registeredName)
			return fmt.Sprintf("Error executing tool %s: %s", registeredName, text)
		}

		return text
	}
}

// parseArgs decodes the JSON argument payload into a string-keyed map.
// An empty payload means no arguments; anything that is valid JSON but
// not an object is rejected.
func parseArgs(argsJSON string) (map[string]interface{}, error) {
	trimmed := strings.TrimSpace(argsJSON)
	if trimmed == "" || trimmed == "null" {
		return map[string]interface{}{}, nil
	}

	var args map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &args); err != nil {
		return nil, fmt.Errorf("invalid argument JSON: %w", err)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return args, nil
}

// joinTextContent concatenates all text parts of a tool result with
// newlines. Non-text parts (images, resources) are ignored, not an
// error.
func joinTextContent(content []mcp.Content) string {
	var parts []string
	for _, item := range content {
		if textContent, ok := mcp.AsTextContent(item); ok {
			parts = append(parts, textContent.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func invocationError(registeredName string, err error) string {
	return fmt.Sprintf("Error executing tool %s: %v", registeredName, err)
}
