package aggregator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"funnel/internal/config"
	"funnel/internal/provider"
	"funnel/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/sync/errgroup"
)

// Registry is the aggregated, ready-to-call view over every configured
// provider: one FunctionDescriptor per surviving tool, keyed by its
// globally unique registered name.
//
// A registry is built once and is read-only afterwards; concurrent
// reads (including concurrent handler invocations) are safe without
// locking. There is no re-discovery: refreshing the tool set means
// building a new registry. Close releases every provider connection
// and must be called when the owning middleware is torn down.
type Registry struct {
	descriptors []FunctionDescriptor
	handlers    map[string]Handler
	clients     map[string]provider.Client
	statuses    []ProviderStatus

	closeOnce sync.Once
	closeErr  error
}

// discovery is one provider's outcome: its tool list, or the error
// that degraded it to empty.
type discovery struct {
	tools []mcp.Tool
	err   error
}

// Build constructs a registry from raw provider configuration.
//
// Construction walks a fixed pipeline: resolve each provider's
// transport, discover all catalogs concurrently, resolve names over
// the full cross-provider batch, apply filters, then build dispatch
// handlers. Failures are contained at each stage: a provider with
// unparseable configuration is logged and skipped, and a provider
// whose discovery fails contributes an empty tool set; neither aborts
// the build. The only error Build itself returns is context
// cancellation.
func Build(ctx context.Context, providers map[string]any, opts Options) (*Registry, error) {
	factory := opts.ClientFactory
	if factory == nil {
		factory = func(_ string, desc config.Descriptor) (provider.Client, error) {
			return provider.NewClient(desc)
		}
	}

	reg := &Registry{
		handlers: make(map[string]Handler),
		clients:  make(map[string]provider.Client),
	}

	// Resolve transports and create clients. Per-provider config
	// errors are fatal for that provider only.
	for _, providerID := range sortedKeys(providers) {
		desc, err := config.ResolveTransport(providerID, providers[providerID])
		if err != nil {
			logging.Warn("Aggregator", "Skipping provider %s: %v", providerID, err)
			reg.statuses = append(reg.statuses, ProviderStatus{ID: providerID, Err: err})
			continue
		}

		client, err := factory(providerID, desc)
		if err != nil {
			logging.Warn("Aggregator", "Skipping provider %s: %v", providerID, err)
			reg.statuses = append(reg.statuses, ProviderStatus{ID: providerID, Err: err})
			continue
		}
		reg.clients[providerID] = client
	}

	// Discover all catalogs concurrently. Each provider's failure
	// degrades to an empty tool set for that provider alone, so the
	// group never returns an error from a discovery goroutine.
	var mu sync.Mutex
	discovered := make(map[string]discovery, len(reg.clients))

	g, gctx := errgroup.WithContext(ctx)
	for providerID, client := range reg.clients {
		g.Go(func() error {
			tools, err := discoverProvider(gctx, providerID, client)

			mu.Lock()
			discovered[providerID] = discovery{tools: tools, err: err}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		reg.Close()
		return nil, fmt.Errorf("registry build cancelled: %w", err)
	}

	toolsByProvider := make(map[string][]mcp.Tool, len(discovered))
	for providerID, d := range discovered {
		toolsByProvider[providerID] = d.tools
		reg.statuses = append(reg.statuses, ProviderStatus{ID: providerID, Tools: len(d.tools), Err: d.err})
	}
	sort.Slice(reg.statuses, func(i, j int) bool { return reg.statuses[i].ID < reg.statuses[j].ID })

	// Naming runs once over the entire batch, then filtering, then
	// handler construction.
	names := ResolveNames(toolsByProvider, opts.Policy)
	filter := newToolFilter(opts.Filter)

	registeredBy := make(map[string]toolKey)
	for _, providerID := range sortedKeys(toolsByProvider) {
		client := reg.clients[providerID]
		for _, tool := range toolsByProvider[providerID] {
			key := toolKey{Provider: providerID, Tool: tool.Name}
			registered := names[key]
			if filter.ShouldExclude(providerID, tool.Name, registered) {
				logging.Debug("Aggregator", "Filtered out tool %s (provider %s)", registered, providerID)
				continue
			}
			if prev, dup := registeredBy[registered]; dup {
				if prev == key {
					continue // duplicate listing within one provider
				}
				// Naming guarantees uniqueness; a distinct tool landing on
				// a taken name is an invariant breach, never dropped quietly.
				logging.Error("Aggregator", nil, "Registered name %s already taken by provider %s tool %s, dropping provider %s tool %s",
					registered, prev.Provider, prev.Tool, providerID, tool.Name)
				continue
			}
			registeredBy[registered] = key

			reg.descriptors = append(reg.descriptors, FunctionDescriptor{
				Contract: FunctionContract{
					RegisteredName: registered,
					Provider:       providerID,
					OriginalName:   tool.Name,
					Description:    tool.Description,
					Parameters:     ExtractParameters(tool),
				},
				Handler:  newHandler(client, providerID, tool.Name, registered),
				Source:   opts.Source,
				Priority: opts.Priority,
			})
			reg.handlers[registered] = reg.descriptors[len(reg.descriptors)-1].Handler
		}
	}

	sort.Slice(reg.descriptors, func(i, j int) bool {
		return reg.descriptors[i].Contract.RegisteredName < reg.descriptors[j].Contract.RegisteredName
	})

	logging.Info("Aggregator", "Registry ready: %d tools from %d providers (%d configured)",
		len(reg.descriptors), len(reg.clients), len(providers))

	return reg, nil
}

// discoverProvider initializes one provider connection and fetches its
// catalog. On any failure the connection is closed and an empty tool
// list is returned along with the error for the status report.
func discoverProvider(ctx context.Context, providerID string, client provider.Client) ([]mcp.Tool, error) {
	if err := client.Initialize(ctx); err != nil {
		logging.Warn("Aggregator", "Provider %s failed to initialize, continuing with empty tool set: %v", providerID, err)
		closeDegraded(providerID, client)
		return nil, err
	}

	tools, err := client.ListTools(ctx)
	if err != nil {
		logging.Warn("Aggregator", "Provider %s failed to list tools, continuing with empty tool set: %v", providerID, err)
		closeDegraded(providerID, client)
		return nil, err
	}

	logging.Info("Aggregator", "Discovered %d tools from provider %s", len(tools), providerID)
	return tools, nil
}

// closeDegraded releases the connection of a provider that failed
// discovery so it does not linger until Registry.Close. Clients close
// idempotently, so the later registry-wide Close stays safe.
func closeDegraded(providerID string, client provider.Client) {
	if err := client.Close(); err != nil {
		logging.Debug("Aggregator", "Error closing degraded client for %s: %v", providerID, err)
	}
}

// Descriptors returns every function descriptor in registered-name
// order. The returned slice is a copy; the registry stays immutable.
func (r *Registry) Descriptors() []FunctionDescriptor {
	out := make([]FunctionDescriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Contracts returns the contract of every registered tool in
// registered-name order.
func (r *Registry) Contracts() []FunctionContract {
	out := make([]FunctionContract, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d.Contract)
	}
	return out
}

// Handler returns the invocation handler for a registered name.
func (r *Registry) Handler(registeredName string) (Handler, bool) {
	h, ok := r.handlers[registeredName]
	return h, ok
}

// Providers reports the discovery outcome per configured provider,
// sorted by provider id.
func (r *Registry) Providers() []ProviderStatus {
	out := make([]ProviderStatus, len(r.statuses))
	copy(out, r.statuses)
	return out
}

// Ping checks whether a provider connection is still responsive.
func (r *Registry) Ping(ctx context.Context, providerID string) error {
	client, ok := r.clients[providerID]
	if !ok {
		return fmt.Errorf("provider %s not found", providerID)
	}
	return client.Ping(ctx)
}

// Close releases every provider connection. It is idempotent; no
// connection is reopened afterwards.
func (r *Registry) Close() error {
	r.closeOnce.Do(func() {
		for providerID, client := range r.clients {
			if err := client.Close(); err != nil {
				logging.Warn("Aggregator", "Error closing client for %s: %v", providerID, err)
				if r.closeErr == nil {
					r.closeErr = err
				}
			}
		}
	})
	return r.closeErr
}

// sortedKeys returns the keys of m in sorted order, for deterministic
// iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
