// Package partition splits a graph's node set [0, N) into work units for
// parallel Pregel supersteps (spec.md §4.5): range-balanced, degree-balanced
// and number-aligned strategies, all over contiguous node ranges; there is
// no bitset-based sparse variant.
package partition

import (
	"fmt"
	"math"
)

// maxNodeCount caps the node span of a single degree partition so that
// offset arithmetic downstream never risks signed overflow (spec.md §4.5:
// "(INT_MAX - 32) / 2").
const maxNodeCount = (math.MaxInt32 - 32) / 2

// Partition is one contiguous [Start, Start+Length) node range, with the
// relationship count it was sized against when built by a degree-aware
// strategy (zero for range/number-aligned partitions).
type Partition struct {
	Start            int64
	Length           int64
	RelationshipCount int64
}

// End returns Start + Length.
func (p Partition) End() int64 { return p.Start + p.Length }

// DegreeFunc returns the degree (relationship count) of mapped node v.
type DegreeFunc func(v int64) int64

// Range splits [0, N) into concurrency contiguous, equal-sized partitions
// (spec.md §4.5): batchSize = max(minBatchSize, ceil(N/concurrency)), last
// partition absorbs the remainder.
func Range(nodeCount int64, concurrency int, minBatchSize int64) []Partition {
	if nodeCount <= 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	batchSize := ceilDiv(nodeCount, int64(concurrency))
	if batchSize < minBatchSize {
		batchSize = minBatchSize
	}
	if batchSize < 1 {
		batchSize = 1
	}

	var partitions []Partition
	for start := int64(0); start < nodeCount; start += batchSize {
		length := batchSize
		if start+length > nodeCount {
			length = nodeCount - start
		}
		partitions = append(partitions, Partition{Start: start, Length: length})
	}
	return partitions
}

// NumberAligned is Range, but the batch size is rounded up to the nearest
// multiple of alignTo and clamped to maxPartitionSize rounded down to
// alignTo (spec.md §4.5, used to keep partitions aligned with property
// pages). Fails with a domain error if maxPartitionSize < alignTo.
func NumberAligned(nodeCount int64, concurrency int, alignTo, maxPartitionSize int64) ([]Partition, error) {
	if alignTo < 1 {
		alignTo = 1
	}
	if maxPartitionSize < alignTo {
		return nil, fmt.Errorf("partition: maxPartitionSize %d is smaller than alignTo %d", maxPartitionSize, alignTo)
	}
	if nodeCount <= 0 {
		return nil, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	raw := ceilDiv(nodeCount, int64(concurrency))
	batchSize := ceilDiv(raw, alignTo) * alignTo
	maxAligned := (maxPartitionSize / alignTo) * alignTo
	if batchSize > maxAligned {
		batchSize = maxAligned
	}
	if batchSize < 1 {
		batchSize = 1
	}

	var partitions []Partition
	for start := int64(0); start < nodeCount; start += batchSize {
		length := batchSize
		if start+length > nodeCount {
			length = nodeCount - start
		}
		partitions = append(partitions, Partition{Start: start, Length: length})
	}
	return partitions, nil
}

// Degree walks [0, N) accumulating degree(v) into a running partition,
// closing it once the sum reaches batchSize = max(minBatch, ceil(E/concurrency))
// and the partition holds at least 0.67*batchSize relationships (spec.md
// §4.5). A single node whose own degree exceeds batchSize still forms its
// own partition (hot-node case, §8 "Partitioning of very hot nodes"). The
// trailing partition is merged into its predecessor if it holds less than
// 0.2*batchSize relationships.
func Degree(nodeCount int64, concurrency int, minBatch int64, degree DegreeFunc) []Partition {
	if nodeCount <= 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}

	totalRelationships := int64(0)
	for v := int64(0); v < nodeCount; v++ {
		totalRelationships += degree(v)
	}

	batchSize := ceilDiv(totalRelationships, int64(concurrency))
	if batchSize < minBatch {
		batchSize = minBatch
	}
	if batchSize < 1 {
		batchSize = 1
	}
	closeThreshold := int64(math.Ceil(0.67 * float64(batchSize)))
	mergeThreshold := int64(math.Ceil(0.2 * float64(batchSize)))

	var partitions []Partition
	start := int64(0)
	runLength := int64(0)
	runRelCount := int64(0)
	remainingConcurrency := concurrency

	flush := func(end int64) {
		if end > start {
			partitions = append(partitions, Partition{Start: start, Length: end - start, RelationshipCount: runRelCount})
			remainingConcurrency--
		}
		start = end
		runLength = 0
		runRelCount = 0
	}

	for v := int64(0); v < nodeCount; v++ {
		d := degree(v)
		runLength++
		runRelCount += d

		atNodeCap := runLength >= maxNodeCount
		metThreshold := runRelCount >= batchSize && runRelCount >= closeThreshold
		if metThreshold || atNodeCap {
			flush(v + 1)
		}
	}
	// A zero-weight tail never crosses the relationship threshold; rather
	// than dump it into one oversized final partition, spread it evenly
	// across whatever concurrency slots are still unused. The merge step
	// below may then fold the last of them into its predecessor (spec.md §8
	// scenario 4: a single hot node followed by 99 zero-degree nodes at
	// concurrency=4 splits the tail into three 33-node partitions, and the
	// merge leaves [0,1), [1,34) and [34,100)).
	if runLength > 0 {
		if remainingConcurrency < 1 {
			remainingConcurrency = 1
		}
		for _, p := range Range(nodeCount-start, remainingConcurrency, 1) {
			partitions = append(partitions, Partition{Start: start + p.Start, Length: p.Length})
		}
	}

	if len(partitions) >= 2 {
		last := partitions[len(partitions)-1]
		if last.RelationshipCount < mergeThreshold {
			prev := partitions[len(partitions)-2]
			partitions[len(partitions)-2] = Partition{
				Start:             prev.Start,
				Length:            prev.Length + last.Length,
				RelationshipCount: prev.RelationshipCount + last.RelationshipCount,
			}
			partitions = partitions[:len(partitions)-1]
		}
	}
	return partitions
}

func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
