package aggregator

import (
	"sort"
	"strconv"
	"strings"

	"funnel/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

// fallbackName substitutes for names that sanitize to nothing.
const fallbackName = "unknown_tool"

// ResolveNames computes the registered name for every (provider, tool)
// pair in the batch.
//
// Collision membership is computed over the entire batch up front, so
// the resulting map is identical for any permutation of the input —
// processing order never changes the outcome. A tool keeps its short
// name when no other provider advertises the same raw name; otherwise
// (or always, under PrefixAll) it becomes
// sanitize(provider) + "-" + sanitize(tool).
func ResolveNames(toolsByProvider map[string][]mcp.Tool, policy NamingPolicy) NamingMap {
	// Which providers advertise each raw name.
	providersByName := make(map[string]map[string]struct{})
	for providerID, tools := range toolsByProvider {
		for _, tool := range tools {
			set, ok := providersByName[tool.Name]
			if !ok {
				set = make(map[string]struct{})
				providersByName[tool.Name] = set
			}
			set[providerID] = struct{}{}
		}
	}

	names := make(NamingMap)
	for providerID, tools := range toolsByProvider {
		for _, tool := range tools {
			key := toolKey{Provider: providerID, Tool: tool.Name}
			if _, done := names[key]; done {
				continue // duplicate listing within one provider
			}

			collides := len(providersByName[tool.Name]) > 1
			if policy.PrefixAll || collides {
				names[key] = sanitizeName(providerID) + "-" + sanitizeName(tool.Name)
			} else {
				names[key] = sanitizeName(tool.Name)
			}
		}
	}

	dedupeRegisteredNames(names)
	return names
}

// sanitizeName rewrites s into the registered-name grammar
// ^[A-Za-z_][A-Za-z0-9_-]*$: illegal characters become underscores, a
// leading digit gets an underscore prepended, and an empty result is
// replaced with a fixed placeholder.
func sanitizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := b.String()
	if out == "" {
		return fallbackName
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}

// dedupeRegisteredNames guards the uniqueness invariant against raw
// names that become identical only after sanitization (e.g. "a!b" and
// "a?b" both sanitize to "a_b"). This should not occur with reasonable
// providers; when it does, the colliding entries are re-prefixed with
// their provider and, failing that, suffixed with an ordinal chosen
// against every name already assigned in the batch, so suffixing can
// never manufacture a fresh collision. All iteration is in sorted
// order, preserving the order-independence of the overall resolution.
func dedupeRegisteredNames(names NamingMap) {
	byRegistered := groupByRegistered(names)

	// First pass: re-prefix every colliding entry with its provider.
	for registered, keys := range byRegistered {
		if len(keys) < 2 {
			continue
		}
		logging.Error("Namer", nil, "Registered name %q resolved from %d distinct tools, disambiguating", registered, len(keys))
		for _, key := range keys {
			names[key] = sanitizeName(key.Provider) + "-" + sanitizeName(key.Tool)
		}
	}

	// Second pass: any name still shared gets ordinal suffixes. Each
	// candidate is checked against the full set of assigned names, so a
	// suffixed name cannot collide with a tool that carries the suffixed
	// form as its literal name.
	byRegistered = groupByRegistered(names)
	used := make(map[string]bool, len(names))
	for _, registered := range names {
		used[registered] = true
	}

	for _, registered := range sortedKeys(byRegistered) {
		keys := byRegistered[registered]
		if len(keys) < 2 {
			continue
		}
		sortToolKeys(keys)
		ordinal := 2
		for _, key := range keys[1:] {
			candidate := registered + "-" + strconv.Itoa(ordinal)
			for used[candidate] {
				ordinal++
				candidate = registered + "-" + strconv.Itoa(ordinal)
			}
			names[key] = candidate
			used[candidate] = true
			ordinal++
		}
	}
}

func groupByRegistered(names NamingMap) map[string][]toolKey {
	byRegistered := make(map[string][]toolKey)
	for key, registered := range names {
		byRegistered[registered] = append(byRegistered[registered], key)
	}
	return byRegistered
}

func sortToolKeys(keys []toolKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Provider != keys[j].Provider {
			return keys[i].Provider < keys[j].Provider
		}
		return keys[i].Tool < keys[j].Tool
	})
}
