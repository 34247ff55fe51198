package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"

	"exhibits-app/internal/domain/exhibits"
)

// ItemList is one loaded scope: the ordered items, a uuid → type index,
// and the order version the server handed out with the list. The slice
// order is the visual order; move gestures rearrange it locally and
// Reorder persists the whole thing.
type ItemList struct {
	c     *Client
	scope exhibits.Scope

	items   []exhibits.Item
	types   map[string]string
	version int64

	inflight atomic.Bool
}

// LoadItems fetches the full ordered list for a scope. An empty scope
// comes back as an empty list; callers check Empty before wiring any
// gesture handling.
func (c *Client) LoadItems(ctx context.Context, scope exhibits.Scope) (*ItemList, error) {
	q := url.Values{}
	if scope.GridID != "" {
		q.Set("grid", scope.GridID)
	}
	if scope.TimelineID != "" {
		q.Set("timeline", scope.TimelineID)
	}

	status, raw, err := c.do(ctx, http.MethodGet, "/exhibits/"+scope.ExhibitID+"/items", q, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, raw)
	}

	var resp struct {
		Data         []exhibits.Item `json:"data"`
		OrderVersion int64           `json:"order_version"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	l := &ItemList{
		c:       c,
		scope:   scope,
		items:   resp.Data,
		types:   make(map[string]string, len(resp.Data)),
		version: resp.OrderVersion,
	}
	for _, it := range resp.Data {
		l.types[it.UUID] = it.Type
	}
	return l, nil
}

func (l *ItemList) Empty() bool { return len(l.items) == 0 }

func (l *ItemList) Len() int { return len(l.items) }

// Items returns a copy of the current visual order.
func (l *ItemList) Items() []exhibits.Item {
	out := make([]exhibits.Item, len(l.items))
	copy(out, l.items)
	return out
}

// TypeOf resolves an item's discriminant type from the load-time index.
func (l *ItemList) TypeOf(uuid string) (string, bool) {
	t, ok := l.types[uuid]
	return t, ok
}

func (l *ItemList) indexOf(uuid string) int {
	for i, it := range l.items {
		if it.UUID == uuid {
			return i
		}
	}
	return -1
}

// MoveBefore places uuid directly before target in the visual order.
// This is the dragover half of the gesture: local only, nothing is
// persisted until Reorder.
func (l *ItemList) MoveBefore(uuid, target string) error {
	return l.move(uuid, target, false)
}

// MoveAfter places uuid directly after target in the visual order.
func (l *ItemList) MoveAfter(uuid, target string) error {
	return l.move(uuid, target, true)
}

func (l *ItemList) move(uuid, target string, after bool) error {
	from := l.indexOf(uuid)
	to := l.indexOf(target)
	if from < 0 || to < 0 {
		return ErrUnknownItem
	}
	if from == to {
		return nil
	}

	moved := l.items[from]
	rest := append(l.items[:from:from], l.items[from+1:]...)

	to = 0
	for i, it := range rest {
		if it.UUID == target {
			to = i
			break
		}
	}
	if after {
		to++
	}

	l.items = append(rest[:to:to], append([]exhibits.Item{moved}, rest[to:]...)...)
	return nil
}

// Submission builds the full-replacement order array from the current
// visual order: every sibling, numbered from 1, with grid/timeline
// linkage attached for nested scopes.
func (l *ItemList) Submission() []exhibits.OrderTuple {
	return exhibits.BuildSubmission(l.scope, l.items)
}

// Reorder persists the current visual order. Only one submission may be
// in flight at a time; the stored order version rides along so a stale
// submission is rejected instead of silently clobbering someone else's.
func (l *ItemList) Reorder(ctx context.Context) error {
	if !l.inflight.CompareAndSwap(false, true) {
		return ErrUpdateInFlight
	}
	defer l.inflight.Store(false)

	if l.Empty() {
		return nil
	}

	q := url.Values{}
	q.Set("order_version", strconv.FormatInt(l.version, 10))

	status, raw, err := l.c.do(ctx, http.MethodPost, "/exhibits/"+l.scope.ExhibitID+"/reorder", q, l.Submission())
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return apiError(status, raw)
	}

	var resp struct {
		OrderVersion int64 `json:"order_version"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return err
	}
	l.version = resp.OrderVersion

	// displayed orders now match what was persisted
	for i := range l.items {
		l.items[i].Order = i + 1
	}
	return nil
}

// Publish flips one item to published. The 204 response is the
// precondition signal: the parent exhibit is not published, nothing
// changed, and the caller shows a warning rather than an error.
func (l *ItemList) Publish(ctx context.Context, uuid string) error {
	t, ok := l.types[uuid]
	if !ok {
		return ErrUnknownItem
	}

	q := url.Values{}
	q.Set("type", t)

	status, raw, err := l.c.do(ctx, http.MethodPost, "/exhibits/"+l.scope.ExhibitID+"/items/"+uuid+"/publish", q, nil)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		l.setPublished(uuid, 1)
		return nil
	case http.StatusNoContent:
		return ErrExhibitNotPublished
	default:
		return apiError(status, raw)
	}
}

// Suppress flips one item to unpublished. No precondition; repeating it
// is harmless.
func (l *ItemList) Suppress(ctx context.Context, uuid string) error {
	t, ok := l.types[uuid]
	if !ok {
		return ErrUnknownItem
	}

	q := url.Values{}
	q.Set("type", t)

	status, raw, err := l.c.do(ctx, http.MethodPost, "/exhibits/"+l.scope.ExhibitID+"/items/"+uuid+"/suppress", q, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apiError(status, raw)
	}
	l.setPublished(uuid, 0)
	return nil
}

// Delete removes an item and renumbers the local order the same way the
// server does, so the list stays usable without a reload.
func (l *ItemList) Delete(ctx context.Context, uuid string) error {
	t, ok := l.types[uuid]
	if !ok {
		return ErrUnknownItem
	}

	q := url.Values{}
	q.Set("type", t)

	status, raw, err := l.c.do(ctx, http.MethodDelete, "/exhibits/"+l.scope.ExhibitID+"/items/"+uuid, q, nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return apiError(status, raw)
	}

	if i := l.indexOf(uuid); i >= 0 {
		l.items = append(l.items[:i], l.items[i+1:]...)
	}
	delete(l.types, uuid)
	for i := range l.items {
		l.items[i].Order = i + 1
	}
	return nil
}

func (l *ItemList) setPublished(uuid string, v int) {
	if i := l.indexOf(uuid); i >= 0 {
		l.items[i].IsPublished = v
	}
}
