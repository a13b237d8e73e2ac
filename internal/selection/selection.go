// Package selection owns the set of selected tenant ids and the rule that
// keeps it, and the focused id, consistent with the filtered list.
package selection

import (
	"slices"
	"sort"
)

// Set is an immutable, de-duplicated set of ids. The zero value is empty
// and ready to use. Ids are kept sorted so two equal sets compare and
// serialise identically.
type Set struct {
	ids []string
}

// New builds a set from ids, dropping empties and duplicates.
func New(ids ...string) Set {
	if len(ids) == 0 {
		return Set{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return Set{}
	}
	return Set{ids: out}
}

// Len returns the number of ids.
func (s Set) Len() int { return len(s.ids) }

// Empty reports whether the set has no ids.
func (s Set) Empty() bool { return len(s.ids) == 0 }

// Has reports membership.
func (s Set) Has(id string) bool {
	_, found := slices.BinarySearch(s.ids, id)
	return found
}

// IDs returns a copy of the ids in sorted order.
func (s Set) IDs() []string { return slices.Clone(s.ids) }

// Toggle returns a set with id added, or removed when already present.
// Every call changes the size by exactly one; an empty id is ignored.
func (s Set) Toggle(id string) Set {
	if id == "" {
		return s
	}
	i, found := slices.BinarySearch(s.ids, id)
	out := make([]string, 0, len(s.ids)+1)
	out = append(out, s.ids[:i]...)
	if found {
		out = append(out, s.ids[i+1:]...)
	} else {
		out = append(out, id)
		out = append(out, s.ids[i:]...)
	}
	if len(out) == 0 {
		return Set{}
	}
	return Set{ids: out}
}

// Retain returns the subset of s whose ids satisfy keep.
func (s Set) Retain(keep func(id string) bool) Set {
	var out []string
	for _, id := range s.ids {
		if keep(id) {
			out = append(out, id)
		}
	}
	return Set{ids: out}
}

// Equal reports whether both sets hold the same ids.
func (s Set) Equal(other Set) bool { return slices.Equal(s.ids, other.ids) }

// Reconcile prunes sel to ids present in ordered (the current filtered
// list) and repairs focused: a focused id that dropped out is replaced by
// the first id of ordered, or "" when ordered is empty. An empty focused id
// stays empty.
func Reconcile(sel Set, focused string, ordered []string) (Set, string) {
	present := make(map[string]bool, len(ordered))
	for _, id := range ordered {
		present[id] = true
	}
	pruned := sel.Retain(func(id string) bool { return present[id] })
	if pruned.Equal(sel) {
		pruned = sel
	}

	if focused != "" && !present[focused] {
		focused = ""
		if len(ordered) > 0 {
			focused = ordered[0]
		}
	}
	return pruned, focused
}
