package interpreter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallEngine_branch_truncatesToBaseHeight(t *testing.T) {
	ce := &callEngine{stack: []uint64{1, 2, 3, 4, 5}}
	f := &callFrame{
		labels: []label{{baseHeight: 1, arity: 2, target: 42}},
	}
	ce.branch(f, 0)
	require.Equal(t, []uint64{1, 4, 5}, ce.stack)
	require.Empty(t, f.labels)
	require.Equal(t, 42, f.pc)
}

func TestCallEngine_branch_resolvesByDepth(t *testing.T) {
	ce := &callEngine{stack: []uint64{0, 0, 9}}
	f := &callFrame{
		labels: []label{
			{baseHeight: 0, arity: 0, target: 1},
			{baseHeight: 2, arity: 1, target: 2},
		},
	}
	ce.branch(f, 1) // branch to the outer (depth-1) label: drops everything
	require.Empty(t, ce.stack)
	require.Empty(t, f.labels)
	require.Equal(t, 1, f.pc)
}

func TestCallEngine_popResults(t *testing.T) {
	ce := &callEngine{stack: []uint64{1, 2, 3, 4}}
	f := &callFrame{base: 1}
	res := ce.popResults(f, 2)
	require.Equal(t, []uint64{3, 4}, res)
	require.Equal(t, []uint64{1}, ce.stack)
}

func TestCallFrame_popLabel(t *testing.T) {
	f := &callFrame{labels: []label{{target: 1}, {target: 2}}}
	l := f.popLabel()
	require.Equal(t, int32(2), l.target)
	require.Len(t, f.labels, 1)
}
