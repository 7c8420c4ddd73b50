// Package aggregator turns the tool catalogs of many independent MCP
// providers into one coherent, callable function set for an LLM agent
// pipeline.
//
// Building a registry walks a fixed pipeline:
//
//  1. Each provider's raw configuration is resolved into a transport
//     descriptor and a catalog client (internal/config,
//     internal/provider).
//  2. All catalogs are discovered concurrently. A provider that cannot
//     be reached degrades to an empty tool set; it never blocks or
//     fails the discovery of its peers.
//  3. Registered names are resolved over the entire cross-provider
//     batch at once. Names that collide across providers get a
//     provider prefix; unique names stay short. The resolution is
//     set-based, so the outcome is independent of provider order.
//  4. Optional allow/deny filters drop tools before they become
//     callable.
//  5. Every surviving tool gets a typed FunctionContract extracted
//     from its JSON Schema and an invocation Handler that never
//     returns an error value — failures become error strings, keeping
//     the agent pipeline alive under partial provider failure.
//
// A built registry is immutable and safe for concurrent use. Merge
// combines descriptor sets from several registries (or other function
// sources) under a priority/conflict policy.
package aggregator
