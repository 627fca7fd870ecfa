package state

import (
	"slices"

	"starcleaner/internal/domain"
)

// Selection is a set of repository ids. The zero value is empty and ready to use.
type Selection struct {
	ids map[int64]struct{}
}

func (s *Selection) ensure() {
	if s.ids == nil {
		s.ids = make(map[int64]struct{})
	}
}

// Toggle flips the selection of id and reports whether it is now selected
func (s *Selection) Toggle(id int64) bool {
	s.ensure()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// SelectAll selects every repository in repos
func (s *Selection) SelectAll(repos []domain.Repository) {
	s.ensure()
	for _, r := range repos {
		s.ids[r.ID] = struct{}{}
	}
}

// Clear deselects everything
func (s *Selection) Clear() {
	s.ids = nil
}

// IsSelected reports whether id is selected
func (s Selection) IsSelected(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids
func (s Selection) Count() int {
	return len(s.ids)
}

// RemoveIDs deselects ids
func (s *Selection) RemoveIDs(ids []int64) {
	for _, id := range ids {
		delete(s.ids, id)
	}
}

// IDs returns the selected ids in ascending order
func (s Selection) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
