package aggregator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptor(name, source string, priority int) FunctionDescriptor {
	return FunctionDescriptor{
		Contract: FunctionContract{RegisteredName: name},
		Handler: func(ctx context.Context, argsJSON string) string {
			return source
		},
		Source:   source,
		Priority: priority,
	}
}

func TestMerge_DisjointSources(t *testing.T) {
	merged := Merge(MergeOptions{},
		[]FunctionDescriptor{descriptor("alpha", "one", 0)},
		[]FunctionDescriptor{descriptor("beta", "two", 0)},
	)

	require.Len(t, merged, 2)
	assert.Equal(t, "alpha", merged[0].Contract.RegisteredName)
	assert.Equal(t, "beta", merged[1].Contract.RegisteredName)
}

func TestMerge_DefaultPolicyKeepsFirst(t *testing.T) {
	merged := Merge(MergeOptions{},
		[]FunctionDescriptor{descriptor("tool", "first", 0)},
		[]FunctionDescriptor{descriptor("tool", "second", 0)},
	)

	require.Len(t, merged, 1)
	assert.Equal(t, "first", merged[0].Source)
}

func TestMerge_PreferLast(t *testing.T) {
	merged := Merge(MergeOptions{Policy: PreferLast},
		[]FunctionDescriptor{descriptor("tool", "first", 0)},
		[]FunctionDescriptor{descriptor("tool", "second", 0)},
	)

	require.Len(t, merged, 1)
	assert.Equal(t, "second", merged[0].Source)
}

func TestMerge_PriorityBeatsPolicy(t *testing.T) {
	merged := Merge(MergeOptions{Policy: PreferLast},
		[]FunctionDescriptor{descriptor("tool", "important", 10)},
		[]FunctionDescriptor{descriptor("tool", "later", 0)},
	)

	require.Len(t, merged, 1)
	assert.Equal(t, "important", merged[0].Source)
}

func TestMerge_TieBreakReceivesAllCandidates(t *testing.T) {
	var seen []string
	tieBreak := func(name string, candidates []FunctionDescriptor) FunctionDescriptor {
		assert.Equal(t, "tool", name)
		for _, c := range candidates {
			seen = append(seen, c.Source)
		}
		return candidates[len(candidates)-1]
	}

	merged := Merge(MergeOptions{TieBreak: tieBreak},
		[]FunctionDescriptor{descriptor("tool", "a", 0)},
		[]FunctionDescriptor{descriptor("tool", "b", 0)},
		[]FunctionDescriptor{descriptor("tool", "c", 0)},
	)

	require.Len(t, merged, 1)
	assert.Equal(t, "c", merged[0].Source)
	assert.Equal(t, []string{"a", "b", "c"}, seen, "candidates arrive in registration order")
}

func TestMerge_ResultSortedByName(t *testing.T) {
	merged := Merge(MergeOptions{},
		[]FunctionDescriptor{descriptor("zeta", "s", 0), descriptor("alpha", "s", 0), descriptor("mid", "s", 0)},
	)

	require.Len(t, merged, 3)
	assert.Equal(t, "alpha", merged[0].Contract.RegisteredName)
	assert.Equal(t, "mid", merged[1].Contract.RegisteredName)
	assert.Equal(t, "zeta", merged[2].Contract.RegisteredName)
}
