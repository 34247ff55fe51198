package exhibits

import (
	"errors"
	"fmt"
	"sort"
)

// OrderTuple is one row of a full-replacement reorder submission. The
// client sends the complete new order for a scope, never a delta.
type OrderTuple struct {
	Type       string  `json:"type"`
	UUID       string  `json:"uuid"`
	Order      int     `json:"order"`
	GridID     *string `json:"grid_id,omitempty"`
	TimelineID *string `json:"timeline_id,omitempty"`
}

var (
	ErrReorderEmpty    = errors.New("reorder submission is empty")
	ErrReorderMixed    = errors.New("reorder tuples reference more than one scope")
	ErrReorderPartial  = errors.New("reorder must cover every item in the scope exactly once")
	ErrReorderSequence = errors.New("order values must be a permutation of 1..N")
	ErrReorderType     = errors.New("submitted type does not match the stored item")
)

// SubmissionScope derives the sibling scope a submission targets. Every
// tuple must agree on grid/timeline linkage; a mixed batch is rejected.
func SubmissionScope(exhibitID string, tuples []OrderTuple) (Scope, error) {
	if len(tuples) == 0 {
		return Scope{}, ErrReorderEmpty
	}
	scope := Scope{ExhibitID: exhibitID}
	if tuples[0].GridID != nil {
		scope.GridID = *tuples[0].GridID
	}
	if tuples[0].TimelineID != nil {
		scope.TimelineID = *tuples[0].TimelineID
	}
	if scope.GridID != "" && scope.TimelineID != "" {
		return Scope{}, ErrReorderMixed
	}
	for _, t := range tuples[1:] {
		gid := ""
		if t.GridID != nil {
			gid = *t.GridID
		}
		tid := ""
		if t.TimelineID != nil {
			tid = *t.TimelineID
		}
		if gid != scope.GridID || tid != scope.TimelineID {
			return Scope{}, ErrReorderMixed
		}
	}
	return scope, nil
}

// ValidateReorder checks a submission against the scope's current rows:
// the UUID set must match exactly, each item's type must match, and the
// order values must form a permutation of 1..N.
func ValidateReorder(current []Item, tuples []OrderTuple) error {
	if len(tuples) == 0 {
		return ErrReorderEmpty
	}
	if len(tuples) != len(current) {
		return fmt.Errorf("%w: scope has %d items, submission has %d", ErrReorderPartial, len(current), len(tuples))
	}

	types := make(map[string]string, len(current))
	for _, it := range current {
		types[it.UUID] = it.Type
	}

	seen := make(map[string]bool, len(tuples))
	orders := make(map[int]bool, len(tuples))
	for _, t := range tuples {
		want, ok := types[t.UUID]
		if !ok {
			return fmt.Errorf("%w: unknown item %s", ErrReorderPartial, t.UUID)
		}
		if seen[t.UUID] {
			return fmt.Errorf("%w: item %s listed twice", ErrReorderPartial, t.UUID)
		}
		seen[t.UUID] = true
		if t.Type != want {
			return fmt.Errorf("%w: item %s is a %s, submission says %s", ErrReorderType, t.UUID, want, t.Type)
		}
		if t.Order < 1 || t.Order > len(tuples) {
			return fmt.Errorf("%w: position %d out of range", ErrReorderSequence, t.Order)
		}
		if orders[t.Order] {
			return fmt.Errorf("%w: position %d used twice", ErrReorderSequence, t.Order)
		}
		orders[t.Order] = true
	}
	return nil
}

// Renumber rewrites orders to a contiguous 1..N, preserving the current
// relative order. Used after a delete punches a hole in the sequence.
// Returns only the items whose order actually changed.
func Renumber(items []Item) []Item {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Order < sorted[b].Order })

	var changed []Item
	for i := range sorted {
		if sorted[i].Order != i+1 {
			sorted[i].Order = i + 1
			changed = append(changed, sorted[i])
		}
	}
	return changed
}

// NextOrder returns the append position for a scope's sibling list.
func NextOrder(items []Item) int {
	max := 0
	for _, it := range items {
		if it.Order > max {
			max = it.Order
		}
	}
	return max + 1
}

// BuildSubmission turns an ordered sibling slice into the full-replacement
// tuple array, numbering positions from 1 in slice order. Grid or timeline
// linkage is attached only for nested scopes.
func BuildSubmission(scope Scope, ordered []Item) []OrderTuple {
	tuples := make([]OrderTuple, 0, len(ordered))
	for i, it := range ordered {
		t := OrderTuple{Type: it.Type, UUID: it.UUID, Order: i + 1}
		if scope.GridID != "" {
			gid := scope.GridID
			t.GridID = &gid
		}
		if scope.TimelineID != "" {
			tid := scope.TimelineID
			t.TimelineID = &tid
		}
		tuples = append(tuples, t)
	}
	return tuples
}
