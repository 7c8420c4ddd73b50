package aggregator

import (
	"sort"

	"funnel/pkg/logging"
)

// ConflictPolicy decides which descriptor survives when several
// sources register the same name.
type ConflictPolicy int

const (
	// PreferFirst keeps the earliest-registered descriptor (default).
	PreferFirst ConflictPolicy = iota
	// PreferLast keeps the latest-registered descriptor.
	PreferLast
)

// TieBreak receives every descriptor colliding on one registered name,
// in registration order, and returns the survivor. When set, it
// overrides the ConflictPolicy.
type TieBreak func(registeredName string, candidates []FunctionDescriptor) FunctionDescriptor

// MergeOptions configures Merge. The zero value keeps the first
// registration of each name.
type MergeOptions struct {
	Policy   ConflictPolicy
	TieBreak TieBreak
}

// Merge combines function descriptors from several sources into one
// callable set keyed by registered name. Sources are processed in
// argument order, and within a source in slice order; higher-priority
// descriptors win before the conflict policy is consulted at all.
// Merging is pure: no transports are touched, only the descriptor set
// is computed. The result is sorted by registered name.
func Merge(opts MergeOptions, sources ...[]FunctionDescriptor) []FunctionDescriptor {
	candidates := make(map[string][]FunctionDescriptor)
	var order []string

	for _, source := range sources {
		for _, d := range source {
			name := d.Contract.RegisteredName
			if _, seen := candidates[name]; !seen {
				order = append(order, name)
			}
			candidates[name] = append(candidates[name], d)
		}
	}

	merged := make([]FunctionDescriptor, 0, len(order))
	for _, name := range order {
		merged = append(merged, pickSurvivor(name, candidates[name], opts))
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Contract.RegisteredName < merged[j].Contract.RegisteredName
	})
	return merged
}

func pickSurvivor(name string, colliding []FunctionDescriptor, opts MergeOptions) FunctionDescriptor {
	if len(colliding) == 1 {
		return colliding[0]
	}

	logging.Debug("Merge", "Name %s registered by %d sources, resolving conflict", name, len(colliding))

	if opts.TieBreak != nil {
		return opts.TieBreak(name, colliding)
	}

	// Highest priority wins outright; the policy only breaks priority
	// ties.
	best := colliding[0]
	for _, d := range colliding[1:] {
		switch {
		case d.Priority > best.Priority:
			best = d
		case d.Priority == best.Priority && opts.Policy == PreferLast:
			best = d
		}
	}
	return best
}
