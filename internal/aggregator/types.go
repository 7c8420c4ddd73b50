package aggregator

import (
	"context"

	"funnel/internal/config"
	"funnel/internal/provider"
)

// ParameterType is the inferred type of a tool parameter.
type ParameterType string

const (
	TypeString  ParameterType = "string"
	TypeNumber  ParameterType = "number"
	TypeInteger ParameterType = "integer"
	TypeBoolean ParameterType = "boolean"
	TypeArray   ParameterType = "array"
	TypeObject  ParameterType = "object"
	TypeUnknown ParameterType = "unknown"
)

// ParameterContract is the typed description of one tool parameter,
// derived from the provider's JSON Schema. When schema information is
// missing or malformed the type degrades to TypeUnknown and Required
// stays false; extraction never fails.
type ParameterContract struct {
	Name        string
	Description string
	Type        ParameterType
	Required    bool
}

// FunctionContract is the typed description of one callable tool as
// exposed to the agent pipeline. RegisteredName is globally unique
// within a registry, derived (never provider-supplied), and satisfies
// the grammar ^[A-Za-z_][A-Za-z0-9_-]*$.
type FunctionContract struct {
	RegisteredName string
	Provider       string
	OriginalName   string
	Description    string
	Parameters     []ParameterContract
}

// Handler performs the remote invocation for one registered tool.
// Handlers are total: they never panic and never surface an error
// value. Any failure — malformed argument JSON, transport error,
// provider-side error — resolves to a human-readable error string so a
// single bad call cannot break the caller's pipeline.
type Handler func(ctx context.Context, argsJSON string) string

// FunctionDescriptor pairs a contract with its handler. It is the unit
// exchanged with the merge step and ultimately the agent pipeline.
type FunctionDescriptor struct {
	Contract FunctionContract
	Handler  Handler
	Source   string
	Priority int
}

// NamingPolicy controls registered-name construction. With PrefixAll
// false (the default), provider prefixes are applied only to names
// that collide across providers.
type NamingPolicy struct {
	PrefixAll bool
}

// toolKey identifies one (provider, tool) pair across the whole batch.
type toolKey struct {
	Provider string
	Tool     string
}

// NamingMap assigns each (provider, tool) pair its registered name.
// It is built once during registry construction and immutable after.
type NamingMap map[toolKey]string

// Options configures registry construction. The zero value is usable:
// collision-only prefixing, no filtering, real MCP clients.
type Options struct {
	Policy NamingPolicy
	Filter config.FilterRules

	// Source and Priority are stamped onto every descriptor the
	// registry produces, for use by the merge step.
	Source   string
	Priority int

	// ClientFactory overrides provider client construction. Nil means
	// provider.NewClient. Tests inject mock clients here.
	ClientFactory func(id string, desc config.Descriptor) (provider.Client, error)
}

// ProviderStatus reports the discovery outcome for one configured
// provider. Err is non-nil when the provider degraded to an empty tool
// set (unparseable config, unreachable, or protocol failure).
type ProviderStatus struct {
	ID    string
	Tools int
	Err   error
}
