package idmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTenNodeMap() *LabeledIdMap {
	m := NewLabeledIdMap(10)
	for i := int64(0); i < 10; i++ {
		mapped := m.Add(i)
		if i%2 == 1 {
			m.AddNodeIdToLabel(mapped, "A")
		} else {
			m.AddNodeIdToLabel(mapped, "B")
		}
	}
	return m
}

func TestRoundTrip(t *testing.T) {
	m := NewLabeledIdMap(0)
	originals := []int64{100, 7, 42, 5}
	mappedIDs := make([]int64, len(originals))
	for i, o := range originals {
		mappedIDs[i] = m.Add(o)
	}
	for _, mapped := range mappedIDs {
		original := m.ToOriginalNodeId(mapped)
		assert.Equal(t, mapped, m.ToMappedNodeId(original))
	}
	assert.Equal(t, NotFound, m.ToMappedNodeId(999))
}

// Scenario 3: filtered label view.
func TestFilteredLabelView(t *testing.T) {
	root := buildTenNodeMap()

	filtered, ok := root.WithFilteredLabels([]NodeLabel{"A"}, 1)
	require.True(t, ok)

	assert.EqualValues(t, 5, filtered.NodeCount())
	assert.EqualValues(t, 10, filtered.RootNodeCount())

	original := filtered.ToOriginalNodeId(0)
	assert.Contains(t, []int64{1, 3, 5, 7, 9}, original)
	assert.False(t, filtered.ContainsOriginalId(0))

	for f := int64(0); f < filtered.NodeCount(); f++ {
		o := filtered.ToOriginalNodeId(f)
		assert.Equal(t, f, filtered.ToMappedNodeId(o))
	}
}

func TestFilteredChainInvariant(t *testing.T) {
	root := buildTenNodeMap()
	filtered, ok := root.WithFilteredLabels([]NodeLabel{"A"}, 1)
	require.True(t, ok)

	assert.LessOrEqual(t, filtered.NodeCount(), filtered.RootNodeCount())
	for f := int64(0); f < filtered.NodeCount(); f++ {
		original := filtered.ToOriginalNodeId(f)
		assert.True(t, filtered.ContainsOriginalId(original))
	}
}

func TestFilteredChainComposesOverNarrowing(t *testing.T) {
	root := NewLabeledIdMap(6)
	for i := int64(0); i < 6; i++ {
		mapped := root.Add(i)
		root.AddNodeIdToLabel(mapped, "X")
		if i < 3 {
			root.AddNodeIdToLabel(mapped, "Y")
		}
	}

	xView, ok := root.WithFilteredLabels([]NodeLabel{"X"}, 1)
	require.True(t, ok)
	xyView, ok := xView.WithFilteredLabels([]NodeLabel{"Y"}, 1)
	require.True(t, ok)

	assert.EqualValues(t, 3, xyView.NodeCount())
	for f := int64(0); f < xyView.NodeCount(); f++ {
		original := xyView.ToOriginalNodeId(f)
		assert.Less(t, original, int64(3))
	}
}

func TestLabelAdditionPropagatesToRoot(t *testing.T) {
	root := buildTenNodeMap()
	filtered, ok := root.WithFilteredLabels([]NodeLabel{"A"}, 1)
	require.True(t, ok)

	filtered.AddNodeIdToLabel(0, "C")
	rootID := filtered.ToRootNodeId(0)
	assert.True(t, root.HasLabel(rootID, "C"))
}

func TestHighestOriginalId(t *testing.T) {
	m := NewLabeledIdMap(0)
	m.Add(5)
	m.Add(1)
	m.Add(9)
	assert.EqualValues(t, 9, m.HighestOriginalId())
}
