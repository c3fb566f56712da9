package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCoversDisjoint(t *testing.T, nodeCount int64, parts []Partition) {
	t.Helper()
	covered := make([]bool, nodeCount)
	for _, p := range parts {
		for v := p.Start; v < p.End(); v++ {
			require.False(t, covered[v], "node %d covered twice", v)
			covered[v] = true
		}
	}
	for v, ok := range covered {
		require.True(t, ok, "node %d not covered", v)
	}
}

func TestRangePartitionCoversDisjoint(t *testing.T) {
	parts := Range(97, 4, 1)
	assertCoversDisjoint(t, 97, parts)
	assert.Len(t, parts, 4)
}

func TestRangePartitionRemainderAbsorbedByLast(t *testing.T) {
	parts := Range(10, 3, 1)
	require.Len(t, parts, 3)
	assert.Equal(t, int64(4), parts[0].Length)
	assert.Equal(t, int64(4), parts[1].Length)
	assert.Equal(t, int64(2), parts[2].Length)
}

func TestNumberAlignedRoundsUpToAlignment(t *testing.T) {
	parts, err := NumberAligned(100, 4, 10, 1000)
	require.NoError(t, err)
	assertCoversDisjoint(t, 100, parts)
	for _, p := range parts[:len(parts)-1] {
		assert.EqualValues(t, 0, p.Length%10)
	}
}

func TestNumberAlignedRejectsTooSmallMax(t *testing.T) {
	_, err := NumberAligned(100, 4, 100, 10)
	assert.Error(t, err)
}

// Spec scenario 4: N=100, degrees [1000]++[0]*99, concurrency=4.
func TestDegreePartitionSkewedGraph(t *testing.T) {
	degrees := make([]int64, 100)
	degrees[0] = 1000
	parts := Degree(100, 4, 0, func(v int64) int64 { return degrees[v] })

	assertCoversDisjoint(t, 100, parts)
	require.NotEmpty(t, parts)
	assert.Equal(t, int64(0), parts[0].Start)
	assert.Equal(t, int64(1), parts[0].Length)
	assert.Equal(t, int64(1000), parts[0].RelationshipCount)

	var totalRel int64
	for _, p := range parts {
		totalRel += p.RelationshipCount
	}
	assert.Equal(t, int64(1000), totalRel)
}

func TestDegreePartitionUniformGraph(t *testing.T) {
	parts := Degree(40, 4, 0, func(v int64) int64 { return 10 })
	assertCoversDisjoint(t, 40, parts)

	var totalRel int64
	for _, p := range parts {
		totalRel += p.RelationshipCount
	}
	assert.EqualValues(t, 400, totalRel)
}

func TestDegreePartitionHotNodeExceedsBatchSize(t *testing.T) {
	degrees := []int64{5000, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	parts := Degree(10, 4, 0, func(v int64) int64 { return degrees[v] })
	assertCoversDisjoint(t, 10, parts)
	assert.Equal(t, int64(1), parts[0].Length, "a node whose own degree exceeds batchSize still forms its own partition")
}
