package aggregator

import (
	"funnel/internal/config"
)

// toolFilter applies the configured allow/deny rules to named tools.
// Rules match either the original tool name or the registered name, so
// global lists can reference prefixed names. Provider-level rules win
// over the global lists when both are present; with no configuration
// at all nothing is filtered.
type toolFilter struct {
	rules config.FilterRules
}

func newToolFilter(rules config.FilterRules) *toolFilter {
	return &toolFilter{rules: rules}
}

// ShouldExclude reports whether a tool must not be exposed. It is
// evaluated once per tool, after naming resolution and before contract
// and handler construction.
func (f *toolFilter) ShouldExclude(providerID, originalName, registeredName string) bool {
	if providerRules, ok := f.rules.Providers[providerID]; ok {
		if verdict, decided := applyRules(providerRules.Allow, providerRules.Deny, originalName, registeredName); decided {
			return verdict
		}
	}
	if verdict, decided := applyRules(f.rules.Allow, f.rules.Deny, originalName, registeredName); decided {
		return verdict
	}
	return false
}

// applyRules evaluates one allow/deny layer. Deny wins over allow
// within a layer. A non-empty allow list makes the layer exhaustive:
// tools not on it are excluded. An empty layer decides nothing and
// defers to the next one.
func applyRules(allow, deny []string, originalName, registeredName string) (exclude, decided bool) {
	for _, name := range deny {
		if name == originalName || name == registeredName {
			return true, true
		}
	}
	if len(allow) > 0 {
		for _, name := range allow {
			if name == originalName || name == registeredName {
				return false, true
			}
		}
		return true, true
	}
	if len(deny) > 0 {
		// Deny-only layer: not denied means allowed.
		return false, true
	}
	return false, false
}
