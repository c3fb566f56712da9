// Package graphstore is the CSR Graph Store aggregate of spec.md §4.4: a
// builder that validates required components, an immutable topology/idmap
// pair, mutable property stores and schema updated through a single
// internal guard, and the Graph view type algorithms actually consume.
package graphstore

// DatabaseInfo names the originating database/dataset (spec.md §4.4
// metadata).
type DatabaseInfo struct {
	Name     string
	Location string
}

// Capabilities declares what the store was built to support; carried
// through unchanged, queried by callers deciding which algorithms apply.
type Capabilities struct {
	CanWriteToDatabase  bool
	CanWriteToLocalFile bool
}
