package csr

import "math"

// Aggregation is the per-property reduction applied to duplicate
// (source, target) relationship tuples during pre-aggregation
// (spec.md §4.2).
type Aggregation int

const (
	AggregationNone Aggregation = iota
	AggregationSum
	AggregationMin
	AggregationMax
	AggregationSingle
	AggregationCount
)

func (a Aggregation) String() string {
	switch a {
	case AggregationSum:
		return "SUM"
	case AggregationMin:
		return "MIN"
	case AggregationMax:
		return "MAX"
	case AggregationSingle:
		return "SINGLE"
	case AggregationCount:
		return "COUNT"
	default:
		return "NONE"
	}
}

// Merges reports whether this aggregation collapses duplicate target ids.
// AggregationNone is the only one that preserves parallel edges.
func (a Aggregation) Merges() bool { return a != AggregationNone }

// Identity is the neutral element of each reduction: +Inf for MIN, -Inf
// for MAX and 0 otherwise. The importer does not start from it: it seeds a
// survivor with the first occurrence's raw value, or with 1 for COUNT.
func (a Aggregation) Identity() float64 {
	switch a {
	case AggregationMin:
		return math.Inf(1)
	case AggregationMax:
		return math.Inf(-1)
	case AggregationCount:
		return 0
	default:
		return 0
	}
}

// Reduce folds the multiset {survivor, next} into the new survivor value.
// Called once per duplicate after the first occurrence, mirroring
// spec.md §4.2 step 2 ("merge each property value into the survivor's
// column ... using the per-property Aggregation function").
func (a Aggregation) Reduce(survivor, next float64) float64 {
	switch a {
	case AggregationSum:
		return survivor + next
	case AggregationMin:
		return math.Min(survivor, next)
	case AggregationMax:
		return math.Max(survivor, next)
	case AggregationSingle:
		return survivor // first occurrence wins, later values dropped
	case AggregationCount:
		return survivor + 1
	default:
		return next // AggregationNone never reaches here (no merge happens)
	}
}
