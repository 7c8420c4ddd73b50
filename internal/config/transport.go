package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TransportType selects how a provider connection is established.
type TransportType string

const (
	// TransportStdio runs the provider as a local subprocess speaking
	// MCP over stdin/stdout.
	TransportStdio TransportType = "stdio"
	// TransportSSE connects to a remote provider over Server-Sent Events.
	TransportSSE TransportType = "sse"
	// TransportStreamableHTTP connects to a remote provider over
	// streamable HTTP.
	TransportStreamableHTTP TransportType = "streamable-http"
)

// Sentinel errors for missing mandatory transport fields.
var (
	ErrNoCommand  = errors.New("no command found")
	ErrNoEndpoint = errors.New("HTTP transport requires endpoint")
)

// ConfigError reports an unusable transport configuration for a single
// provider. It is fatal for that provider only; the aggregator logs it
// and continues with the remaining providers.
type ConfigError struct {
	Provider string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Descriptor is a resolved, canonical transport description. It is
// immutable once produced and owned by the provider client created
// from it.
type Descriptor struct {
	Type TransportType

	// Stdio transport fields.
	Command string
	Args    []string
	Env     map[string]string

	// HTTP-family transport fields.
	Endpoint string
	Headers  map[string]string
	Timeout  time.Duration // zero means no override
}

// Key aliases accepted in raw provider configuration. Kept as data so
// adding a spelling is a one-line change, not another branch.
var (
	typeKeys     = []string{"type", "Type"}
	commandKeys  = []string{"command", "Command", "cmd"}
	argsKeys     = []string{"arguments", "Arguments", "args", "Args"}
	envKeys      = []string{"env", "Env"}
	endpointKeys = []string{"url", "Url", "URL", "endpoint", "Endpoint"}
	headerKeys   = []string{"headers", "Headers"}
	timeoutKeys  = []string{"timeout", "Timeout"}
)

// ResolveTransport normalizes a raw provider configuration value into a
// canonical Descriptor.
//
// The type field is matched case-insensitively; "http", "streamable-http"
// and "sse" select an HTTP-family transport, everything else (including
// an absent type) defaults to stdio. The presence of a URL/endpoint key
// also selects HTTP, so configurations that only carry a url work
// without an explicit type.
//
// Quirk, kept for compatibility with loosely written configs: when the
// raw value is a plain string, or a stdio map carries no command key,
// the string (or the sole freeform string value) is split on whitespace
// into command and arguments. This is a last-resort fallback, not a
// guarantee.
func ResolveTransport(providerID string, raw any) (Descriptor, error) {
	// Plain string configuration: treat as a stdio command line.
	if s, ok := raw.(string); ok {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return Descriptor{}, &ConfigError{Provider: providerID, Err: ErrNoCommand}
		}
		return Descriptor{Type: TransportStdio, Command: fields[0], Args: fields[1:]}, nil
	}

	m := asStringMap(raw)
	if m == nil {
		return Descriptor{}, &ConfigError{Provider: providerID, Err: fmt.Errorf("unsupported configuration value of type %T", raw)}
	}

	transportType, _ := lookupString(m, typeKeys)
	transportType = strings.ToLower(strings.TrimSpace(transportType))
	endpoint, hasEndpoint := lookupString(m, endpointKeys)

	isHTTP := hasEndpoint
	switch transportType {
	case "http", "streamable-http", "streamablehttp", "sse":
		isHTTP = true
	}

	if isHTTP {
		if endpoint == "" {
			return Descriptor{}, &ConfigError{Provider: providerID, Err: ErrNoEndpoint}
		}
		desc := Descriptor{
			Type:     TransportStreamableHTTP,
			Endpoint: endpoint,
			Headers:  lookupStringMap(m, headerKeys),
		}
		if transportType == "sse" {
			desc.Type = TransportSSE
		}
		if secs, ok := lookupInt(m, timeoutKeys); ok && secs > 0 {
			desc.Timeout = time.Duration(secs) * time.Second
		}
		return desc, nil
	}

	desc := Descriptor{
		Type: TransportStdio,
		Env:  lookupStringMap(m, envKeys),
	}

	command, hasCommand := lookupString(m, commandKeys)
	if hasCommand && command != "" {
		desc.Command = command
		desc.Args = lookupStringSlice(m, argsKeys)
		// A command carrying embedded whitespace with no separate args
		// is treated as a full command line.
		if len(desc.Args) == 0 && strings.ContainsAny(command, " \t") {
			fields := strings.Fields(command)
			desc.Command = fields[0]
			desc.Args = fields[1:]
		}
		return desc, nil
	}

	// Last resort: a single freeform string value anywhere in the map.
	if line, ok := soleFreeformString(m); ok {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			desc.Command = fields[0]
			desc.Args = fields[1:]
			return desc, nil
		}
	}

	return Descriptor{}, &ConfigError{Provider: providerID, Err: ErrNoCommand}
}

// asStringMap views raw as a string-keyed map. YAML decoding can yield
// map[any]any, so both shapes are accepted.
func asStringMap(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			if ks, ok := k.(string); ok {
				m[ks] = val
			}
		}
		return m
	default:
		return nil
	}
}

func lookupString(m map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

func lookupInt(m map[string]any, keys []string) (int, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case int:
			return n, true
		case int64:
			return int(n), true
		case float64:
			return int(n), true
		}
	}
	return 0, false
}

// lookupStringSlice reads an argument list that may be a real list or a
// single whitespace-separated string.
func lookupStringSlice(m map[string]any, keys []string) []string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case []string:
			return val
		case []any:
			out := make([]string, 0, len(val))
			for _, item := range val {
				out = append(out, fmt.Sprintf("%v", item))
			}
			return out
		case string:
			return strings.Fields(val)
		}
	}
	return nil
}

func lookupStringMap(m map[string]any, keys []string) map[string]string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case map[string]string:
			return val
		case map[string]any:
			out := make(map[string]string, len(val))
			for key, item := range val {
				out[key] = fmt.Sprintf("%v", item)
			}
			return out
		case map[any]any:
			out := make(map[string]string, len(val))
			for key, item := range val {
				if ks, ok := key.(string); ok {
					out[ks] = fmt.Sprintf("%v", item)
				}
			}
			return out
		}
	}
	return nil
}

// soleFreeformString finds the single string value in a map that has no
// recognized transport keys. Used only by the command-line fallback.
func soleFreeformString(m map[string]any) (string, bool) {
	known := make(map[string]bool)
	for _, keys := range [][]string{typeKeys, commandKeys, argsKeys, envKeys, endpointKeys, headerKeys, timeoutKeys} {
		for _, k := range keys {
			known[k] = true
		}
	}

	var found string
	count := 0
	for k, v := range m {
		if known[k] {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			found = s
			count++
		}
	}
	if count == 1 {
		return found, true
	}
	return "", false
}
