package idmap

// filteredIdMap is a two-level chain: original -> root -> filtered, per
// spec.md §4.1. All lookups traverse both levels; RootNodeCount reports the
// unfiltered count, which can never be exceeded by this view's NodeCount.
type filteredIdMap struct {
	root           *LabeledIdMap
	rootNodeCount  int64
	filteredToRoot []int64
	rootToFiltered map[int64]int64
}

var _ FilteredIdMap = (*filteredIdMap)(nil)

func (f *filteredIdMap) ToMappedNodeId(original int64) int64 {
	rootID := f.root.ToMappedNodeId(original)
	if rootID == NotFound {
		return NotFound
	}
	filteredID, ok := f.rootToFiltered[rootID]
	if !ok {
		return NotFound
	}
	return filteredID
}

func (f *filteredIdMap) ToOriginalNodeId(mapped int64) int64 {
	rootID := f.filteredToRoot[mapped]
	return f.root.ToOriginalNodeId(rootID)
}

func (f *filteredIdMap) ContainsOriginalId(original int64) bool {
	return f.ToMappedNodeId(original) != NotFound
}

func (f *filteredIdMap) NodeCount(labels ...NodeLabel) int64 {
	if len(labels) == 0 {
		return int64(len(f.filteredToRoot))
	}
	var count int64
	for filteredID, rootID := range f.filteredToRoot {
		for _, l := range labels {
			if f.root.HasLabel(rootID, l) {
				count++
				_ = filteredID
				break
			}
		}
	}
	return count
}

func (f *filteredIdMap) HighestOriginalId() int64 {
	return f.root.HighestOriginalId()
}

func (f *filteredIdMap) NodeLabels(mapped int64) []NodeLabel {
	return f.root.NodeLabels(f.ToRootNodeId(mapped))
}

func (f *filteredIdMap) HasLabel(mapped int64, label NodeLabel) bool {
	return f.root.HasLabel(f.ToRootNodeId(mapped), label)
}

func (f *filteredIdMap) AddNodeLabel(label NodeLabel) {
	f.root.AddNodeLabel(label)
}

func (f *filteredIdMap) AddNodeIdToLabel(mapped int64, label NodeLabel) {
	f.root.AddNodeIdToLabel(f.ToRootNodeId(mapped), label)
}

func (f *filteredIdMap) AvailableNodeLabels() []NodeLabel {
	return f.root.AvailableNodeLabels()
}

func (f *filteredIdMap) ForEachNodeLabel(mapped int64, fn func(NodeLabel) bool) {
	f.root.ForEachNodeLabel(f.ToRootNodeId(mapped), fn)
}

func (f *filteredIdMap) WithFilteredLabels(labels []NodeLabel, concurrency int) (FilteredIdMap, bool) {
	// Chain composes: filter the root again and re-derive the
	// intersection with this view's own node set.
	rootFiltered, ok := f.root.WithFilteredLabels(labels, concurrency)
	if !ok {
		return nil, false
	}
	rf := rootFiltered.(*filteredIdMap)
	rootIDs := make(map[int64]struct{}, len(rf.filteredToRoot))
	for _, rootID := range rf.filteredToRoot {
		rootIDs[rootID] = struct{}{}
	}

	narrowed := &filteredIdMap{
		root:          f.root,
		rootNodeCount: f.rootNodeCount,
	}
	for _, rootID := range f.filteredToRoot {
		if _, ok := rootIDs[rootID]; ok {
			narrowed.filteredToRoot = append(narrowed.filteredToRoot, rootID)
		}
	}
	if len(narrowed.filteredToRoot) == 0 {
		return nil, false
	}
	narrowed.rootToFiltered = make(map[int64]int64, len(narrowed.filteredToRoot))
	for filteredID, rootID := range narrowed.filteredToRoot {
		narrowed.rootToFiltered[rootID] = int64(filteredID)
	}
	return narrowed, true
}

func (f *filteredIdMap) RootIdMap() IdMap { return f.root }

func (f *filteredIdMap) ToRootNodeId(mapped int64) int64 {
	return f.filteredToRoot[mapped]
}

func (f *filteredIdMap) RootNodeCount() int64 {
	return f.rootNodeCount
}
