// Package dedupe drops repeated guess rows during bulk import.
//
// The historical spreadsheet accumulated copy-paste duplicates, so the
// importer keeps only the first occurrence of each exact row. Live
// recording never deduplicates: the same guess arriving twice is a
// legitimate game event.
package dedupe

import "github.com/mlahde/locus/internal/domain/model"

// Filter remembers every guess row it has seen.
type Filter struct {
	capacity int
	seen     map[model.Guess]struct{}
}

// NewFilter creates an empty filter.
func NewFilter(opts ...Option) *Filter {
	f := &Filter{}
	for _, opt := range opts {
		opt(f)
	}
	f.seen = make(map[model.Guess]struct{}, f.capacity)
	return f
}

// SeenAndRecord reports whether g was seen before and records it if
// not, so the first occurrence passes and every repeat is dropped.
func (f *Filter) SeenAndRecord(g model.Guess) bool {
	if _, ok := f.seen[g]; ok {
		return true
	}
	f.seen[g] = struct{}{}
	return false
}

// Size returns the number of distinct rows recorded.
func (f *Filter) Size() int {
	return len(f.seen)
}
