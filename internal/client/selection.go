package client

import "sort"

// Selection tracks multi-selected bucket indices while a view is in
// selection mode. Indices refer to positions in one bucket's ordered list.
type Selection struct {
	indices map[int]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{indices: make(map[int]struct{})}
}

// Toggle flips the selected state of index i.
func (s *Selection) Toggle(i int) {
	if _, ok := s.indices[i]; ok {
		delete(s.indices, i)
		return
	}
	s.indices[i] = struct{}{}
}

// Selected reports whether index i is selected.
func (s *Selection) Selected(i int) bool {
	_, ok := s.indices[i]
	return ok
}

// Count returns the number of selected indices.
func (s *Selection) Count() int { return len(s.indices) }

// Clear deselects everything.
func (s *Selection) Clear() {
	s.indices = make(map[int]struct{})
}

// Descending returns the selected indices sorted high to low, the order
// bulk operations must process them in so in-place removals never shift a
// later target.
func (s *Selection) Descending() []int {
	out := make([]int, 0, len(s.indices))
	for i := range s.indices {
		out = append(out, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
