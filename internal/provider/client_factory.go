package provider

import (
	"fmt"

	"funnel/internal/config"
	"funnel/pkg/logging"
)

// NewClient creates the provider client matching a resolved transport
// descriptor. The descriptor has already been validated by the config
// resolver, so an unknown type here is a programming error rather than
// a user-input error.
func NewClient(desc config.Descriptor) (Client, error) {
	switch desc.Type {
	case config.TransportStdio:
		if desc.Command == "" {
			return nil, fmt.Errorf("command is required for stdio transport")
		}
		return NewStdioClient(desc.Command, desc.Args, desc.Env), nil

	case config.TransportStreamableHTTP:
		if desc.Endpoint == "" {
			return nil, fmt.Errorf("endpoint is required for streamable-http transport")
		}
		return NewStreamableHTTPClient(desc.Endpoint, desc.Headers, desc.Timeout), nil

	case config.TransportSSE:
		if desc.Endpoint == "" {
			return nil, fmt.Errorf("endpoint is required for sse transport")
		}
		// The SSE transport keeps a long-lived event stream open, so a
		// per-request timeout would sever it. Ignored with a warning.
		if desc.Timeout > 0 {
			logging.Warn("ClientFactory", "Timeout override not supported for SSE transport, ignoring")
		}
		return NewSSEClient(desc.Endpoint, desc.Headers), nil

	default:
		return nil, fmt.Errorf("unsupported transport type: %s (supported: %s, %s, %s)",
			desc.Type, config.TransportStdio, config.TransportStreamableHTTP, config.TransportSSE)
	}
}
