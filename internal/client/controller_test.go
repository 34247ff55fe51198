package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"exhibits-app/config"
	"exhibits-app/database"
	exhibitsapi "exhibits-app/internal/api/exhibits"
	itemsapi "exhibits-app/internal/api/items"
	"exhibits-app/internal/app/http/middleware"
	"exhibits-app/internal/domain/exhibits"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup spins up the real handlers behind a stub auth layer and returns
// a client pointed at them.
func setup(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	database.OpenTest(t)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", uint(1)) })
	r.GET("/exhibits/:exhibit_id/items", itemsapi.ListItems)
	r.DELETE("/exhibits/:exhibit_id/items/:item_id", itemsapi.DeleteItem)
	r.POST("/exhibits/:exhibit_id/items/:item_id/publish", itemsapi.PublishItem)
	r.POST("/exhibits/:exhibit_id/items/:item_id/suppress", itemsapi.SuppressItem)
	r.POST("/exhibits/:exhibit_id/reorder", itemsapi.ReorderItems)
	r.POST("/exhibits/:exhibit_id/lock", exhibitsapi.LockExhibit)
	r.DELETE("/exhibits/:exhibit_id/lock", exhibitsapi.UnlockExhibit)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-token")
}

func seedExhibit(t *testing.T, published int) exhibits.Exhibit {
	t.Helper()
	e := exhibits.Exhibit{Title: "Test Exhibit", IsPublished: published}
	require.NoError(t, database.DB.Create(&e).Error)
	return e
}

func seedItem(t *testing.T, e exhibits.Exhibit, typ string, order int) exhibits.Item {
	t.Helper()
	it := exhibits.Item{Type: typ, ExhibitID: e.UUID, Order: order}
	require.NoError(t, database.DB.Create(&it).Error)
	return it
}

func uuids(items []exhibits.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.UUID
	}
	return out
}

func TestLoadItemsEmptyScope(t *testing.T) {
	c := setup(t)
	e := seedExhibit(t, 0)

	list, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)
	assert.True(t, list.Empty())

	// reordering an empty list is a no-op, not an error
	assert.NoError(t, list.Reorder(context.Background()))
}

func TestSubmissionMatchesLoadedOrder(t *testing.T) {
	c := setup(t)
	e := seedExhibit(t, 0)
	a := seedItem(t, e, exhibits.TypeItem, 1)
	b := seedItem(t, e, exhibits.TypeHeading, 2)

	list, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)

	tuples := list.Submission()
	require.Len(t, tuples, 2)
	assert.Equal(t, a.UUID, tuples[0].UUID)
	assert.Equal(t, a.Type, tuples[0].Type)
	assert.Equal(t, 1, tuples[0].Order)
	assert.Equal(t, b.UUID, tuples[1].UUID)
	assert.Equal(t, 2, tuples[1].Order)

	// submitting the unchanged order round-trips cleanly
	require.NoError(t, list.Reorder(context.Background()))
	reloaded, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)
	assert.Equal(t, uuids(list.Items()), uuids(reloaded.Items()))
}

func TestMoveBeforePersists(t *testing.T) {
	c := setup(t)
	e := seedExhibit(t, 0)
	a := seedItem(t, e, exhibits.TypeItem, 1)
	b := seedItem(t, e, exhibits.TypeHeading, 2)
	cc := seedItem(t, e, exhibits.TypeGrid, 3)

	list, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)

	// drag the last item to the front
	require.NoError(t, list.MoveBefore(cc.UUID, a.UUID))
	assert.Equal(t, []string{cc.UUID, a.UUID, b.UUID}, uuids(list.Items()))

	tuples := list.Submission()
	for i, tup := range tuples {
		assert.Equal(t, i+1, tup.Order)
	}

	require.NoError(t, list.Reorder(context.Background()))

	reloaded, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)
	assert.Equal(t, []string{cc.UUID, a.UUID, b.UUID}, uuids(reloaded.Items()))
}

func TestMoveAfter(t *testing.T) {
	c := setup(t)
	e := seedExhibit(t, 0)
	a := seedItem(t, e, exhibits.TypeItem, 1)
	b := seedItem(t, e, exhibits.TypeHeading, 2)
	cc := seedItem(t, e, exhibits.TypeGrid, 3)

	list, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)

	require.NoError(t, list.MoveAfter(a.UUID, b.UUID))
	assert.Equal(t, []string{b.UUID, a.UUID, cc.UUID}, uuids(list.Items()))

	assert.ErrorIs(t, list.MoveAfter("nope", b.UUID), ErrUnknownItem)
}

func TestTypeOfIndex(t *testing.T) {
	c := setup(t)
	e := seedExhibit(t, 0)
	g := seedItem(t, e, exhibits.TypeGrid, 1)

	list, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)

	typ, ok := list.TypeOf(g.UUID)
	require.True(t, ok)
	assert.Equal(t, exhibits.TypeGrid, typ)

	_, ok = list.TypeOf("missing")
	assert.False(t, ok)
}

func TestReorderStaleVersionSurfaces(t *testing.T) {
	c := setup(t)
	e := seedExhibit(t, 0)
	a := seedItem(t, e, exhibits.TypeItem, 1)
	b := seedItem(t, e, exhibits.TypeHeading, 2)

	list, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)

	// someone else reorders behind our back
	other, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)
	require.NoError(t, other.MoveBefore(b.UUID, a.UUID))
	require.NoError(t, other.Reorder(context.Background()))

	require.NoError(t, list.MoveBefore(b.UUID, a.UUID))
	err = list.Reorder(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
}

func TestPublishPrecondition(t *testing.T) {
	c := setup(t)
	e := seedExhibit(t, 0)
	it := seedItem(t, e, exhibits.TypeItem, 1)

	list, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)

	err = list.Publish(context.Background(), it.UUID)
	assert.ErrorIs(t, err, ErrExhibitNotPublished)

	// publish the exhibit, then the item goes through
	require.NoError(t, database.DB.Model(&exhibits.Exhibit{}).
		Where("uuid = ?", e.UUID).
		Update("is_published", 1).Error)

	require.NoError(t, list.Publish(context.Background(), it.UUID))
	assert.Equal(t, 1, list.Items()[0].IsPublished)

	require.NoError(t, list.Suppress(context.Background(), it.UUID))
	assert.Equal(t, 0, list.Items()[0].IsPublished)
}

func TestDeleteRenumbersLocally(t *testing.T) {
	c := setup(t)
	e := seedExhibit(t, 0)
	a := seedItem(t, e, exhibits.TypeItem, 1)
	b := seedItem(t, e, exhibits.TypeHeading, 2)
	cc := seedItem(t, e, exhibits.TypeItem, 3)

	list, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)

	require.NoError(t, list.Delete(context.Background(), b.UUID))

	items := list.Items()
	require.Len(t, items, 2)
	assert.Equal(t, []string{a.UUID, cc.UUID}, uuids(items))
	assert.Equal(t, 1, items[0].Order)
	assert.Equal(t, 2, items[1].Order)

	_, ok := list.TypeOf(b.UUID)
	assert.False(t, ok)

	// server agrees after a fresh load
	reloaded, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: e.UUID})
	require.NoError(t, err)
	assert.Equal(t, []string{a.UUID, cc.UUID}, uuids(reloaded.Items()))
}

func TestLockUnlockExhibit(t *testing.T) {
	c := setup(t)
	e := seedExhibit(t, 0)

	require.NoError(t, c.LockExhibit(context.Background(), e.UUID))
	require.NoError(t, c.UnlockExhibit(context.Background(), e.UUID))
}

func TestUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	database.OpenTest(t)
	config.JWT_SECRET = "test-secret"

	r := gin.New()
	r.Use(middleware.AuthMiddleware())
	r.GET("/exhibits/:exhibit_id/items", itemsapi.ListItems)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	c := New(srv.URL, "not-a-jwt")
	_, err := c.LoadItems(context.Background(), exhibits.Scope{ExhibitID: "any"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
