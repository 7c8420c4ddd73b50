// Package provider implements the catalog client for a single tool
// provider: an externally running MCP server reachable over stdio,
// SSE, or streamable HTTP.
//
// Each client exposes the two operations the aggregator needs —
// ListTools for catalog discovery and CallTool for invocation — behind
// the transport-agnostic Client interface. Connections are scoped
// resources: created from a resolved transport descriptor, initialized
// once, and closed when the owning registry is disposed. The wire
// protocol itself (JSON-RPC envelopes, process spawning, HTTP/SSE
// framing) is delegated entirely to github.com/mark3labs/mcp-go.
package provider
