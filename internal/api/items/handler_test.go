package items

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"exhibits-app/database"
	"exhibits-app/internal/domain/exhibits"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	database.OpenTest(t)

	r := gin.New()
	r.GET("/exhibits/:exhibit_id/items", ListItems)
	r.GET("/exhibits/:exhibit_id/items/:item_id", GetItem)
	r.POST("/exhibits/:exhibit_id/items", CreateItem)
	r.PUT("/exhibits/:exhibit_id/items/:item_id", UpdateItem)
	r.DELETE("/exhibits/:exhibit_id/items/:item_id", DeleteItem)
	r.POST("/exhibits/:exhibit_id/items/:item_id/publish", PublishItem)
	r.POST("/exhibits/:exhibit_id/items/:item_id/suppress", SuppressItem)
	r.POST("/exhibits/:exhibit_id/reorder", ReorderItems)
	return r
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

func seedNested(t *testing.T, e exhibits.Exhibit, typ, parentID string, order int) exhibits.Item {
	t.Helper()
	it := exhibits.Item{Type: typ, ExhibitID: e.UUID, Order: order}
	switch typ {
	case exhibits.TypeGridItem:
		it.GridID = &parentID
	case exhibits.TypeTimelineItem:
		it.TimelineID = &parentID
	}
	require.NoError(t, database.DB.Create(&it).Error)
	return it
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func listOrders(t *testing.T, r *gin.Engine, path string) ([]exhibits.Item, int64) {
	t.Helper()
	w := doJSON(r, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data         []exhibits.Item `json:"data"`
		OrderVersion int64           `json:"order_version"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data, resp.OrderVersion
}

func TestListItemsEmptyScope(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)

	data, version := listOrders(t, r, "/exhibits/"+e.UUID+"/items")
	assert.Empty(t, data)
	assert.Equal(t, int64(0), version)
}

func TestListItemsUnknownExhibit(t *testing.T) {
	r := setupRouter(t)
	w := doJSON(r, http.MethodGet, "/exhibits/nope/items", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateItemAppendsAtEnd(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	seedItem(t, e, exhibits.TypeItem, 1)
	seedItem(t, e, exhibits.TypeHeading, 2)

	w := doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/items", gin.H{
		"type": exhibits.TypeItem, "title": "third",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		UUID  string `json:"uuid"`
		Order int    `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.UUID)
	assert.Equal(t, 3, resp.Order)
}

func TestCreateItemRejectsUnknownType(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)

	w := doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/items", gin.H{"type": "banner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateNestedItemNeedsMatchingContainer(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	grid := seedItem(t, e, exhibits.TypeGrid, 1)
	plain := seedItem(t, e, exhibits.TypeItem, 2)

	w := doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/items", gin.H{
		"type": exhibits.TypeGridItem, "is_member_of_grid": grid.UUID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// pointing a griditem at a non-grid parent is rejected
	w = doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/items", gin.H{
		"type": exhibits.TypeGridItem, "is_member_of_grid": plain.UUID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReorderPersistsFullPermutation(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	a := seedItem(t, e, exhibits.TypeItem, 1)
	b := seedItem(t, e, exhibits.TypeHeading, 2)
	cc := seedItem(t, e, exhibits.TypeGrid, 3)

	w := doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/reorder", []exhibits.OrderTuple{
		{Type: cc.Type, UUID: cc.UUID, Order: 1},
		{Type: a.Type, UUID: a.UUID, Order: 2},
		{Type: b.Type, UUID: b.UUID, Order: 3},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data, version := listOrders(t, r, "/exhibits/"+e.UUID+"/items")
	require.Len(t, data, 3)
	assert.Equal(t, []string{cc.UUID, a.UUID, b.UUID}, []string{data[0].UUID, data[1].UUID, data[2].UUID})
	for i, it := range data {
		assert.Equal(t, i+1, it.Order)
	}
	assert.Equal(t, int64(1), version)
}

func TestReorderRejectsPartialSubmission(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	a := seedItem(t, e, exhibits.TypeItem, 1)
	seedItem(t, e, exhibits.TypeHeading, 2)

	w := doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/reorder", []exhibits.OrderTuple{
		{Type: a.Type, UUID: a.UUID, Order: 1},
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	data, _ := listOrders(t, r, "/exhibits/"+e.UUID+"/items")
	assert.Equal(t, a.UUID, data[0].UUID)
}

func TestReorderRejectsStaleVersion(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	a := seedItem(t, e, exhibits.TypeItem, 1)
	b := seedItem(t, e, exhibits.TypeHeading, 2)

	tuples := []exhibits.OrderTuple{
		{Type: b.Type, UUID: b.UUID, Order: 1},
		{Type: a.Type, UUID: a.UUID, Order: 2},
	}

	w := doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/reorder?order_version=7", tuples)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/reorder?order_version=0", tuples)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReorderNestedScope(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	grid := seedItem(t, e, exhibits.TypeGrid, 1)
	x := seedNested(t, e, exhibits.TypeGridItem, grid.UUID, 1)
	y := seedNested(t, e, exhibits.TypeGridItem, grid.UUID, 2)

	w := doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/reorder", []exhibits.OrderTuple{
		{Type: y.Type, UUID: y.UUID, Order: 1, GridID: &grid.UUID},
		{Type: x.Type, UUID: x.UUID, Order: 2, GridID: &grid.UUID},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data, _ := listOrders(t, r, fmt.Sprintf("/exhibits/%s/items?grid=%s", e.UUID, grid.UUID))
	require.Len(t, data, 2)
	assert.Equal(t, y.UUID, data[0].UUID)
	assert.Equal(t, x.UUID, data[1].UUID)

	// top level is untouched
	top, _ := listOrders(t, r, "/exhibits/"+e.UUID+"/items")
	require.Len(t, top, 1)
	assert.Equal(t, grid.UUID, top[0].UUID)
	assert.Equal(t, 1, top[0].Order)
}

func TestPublishItemRequiresPublishedExhibit(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	it := seedItem(t, e, exhibits.TypeItem, 1)

	w := doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/items/"+it.UUID+"/publish?type="+it.Type, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var got exhibits.Item
	require.NoError(t, database.DB.First(&got, "uuid = ?", it.UUID).Error)
	assert.Equal(t, 0, got.IsPublished)
}

func TestPublishItemOnPublishedExhibit(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 1)
	it := seedItem(t, e, exhibits.TypeItem, 1)

	w := doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/items/"+it.UUID+"/publish?type="+it.Type, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var got exhibits.Item
	require.NoError(t, database.DB.First(&got, "uuid = ?", it.UUID).Error)
	assert.Equal(t, 1, got.IsPublished)
}

func TestSuppressItemIsIdempotent(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 1)
	it := seedItem(t, e, exhibits.TypeItem, 1)
	seedItem(t, e, exhibits.TypeHeading, 2)
	require.NoError(t, database.DB.Model(&exhibits.Item{}).
		Where("uuid = ?", it.UUID).
		Update("is_published", 1).Error)

	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/items/"+it.UUID+"/suppress?type="+it.Type, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	var got exhibits.Item
	require.NoError(t, database.DB.First(&got, "uuid = ?", it.UUID).Error)
	assert.Equal(t, 0, got.IsPublished)

	// publication state never touches ordering
	data, _ := listOrders(t, r, "/exhibits/"+e.UUID+"/items")
	require.Len(t, data, 2)
	assert.Equal(t, 1, data[0].Order)
	assert.Equal(t, 2, data[1].Order)
}

func TestPublishSuppressTypeMismatch(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 1)
	it := seedItem(t, e, exhibits.TypeItem, 1)

	w := doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/items/"+it.UUID+"/publish?type=grid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/exhibits/"+e.UUID+"/items/"+it.UUID+"/suppress?type=grid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteItemRenumbersSiblings(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	a := seedItem(t, e, exhibits.TypeItem, 1)
	b := seedItem(t, e, exhibits.TypeHeading, 2)
	cc := seedItem(t, e, exhibits.TypeItem, 3)

	w := doJSON(r, http.MethodDelete, "/exhibits/"+e.UUID+"/items/"+b.UUID+"?type="+b.Type, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	data, _ := listOrders(t, r, "/exhibits/"+e.UUID+"/items")
	require.Len(t, data, 2)
	assert.Equal(t, a.UUID, data[0].UUID)
	assert.Equal(t, 1, data[0].Order)
	assert.Equal(t, cc.UUID, data[1].UUID)
	assert.Equal(t, 2, data[1].Order)
}

func TestDeletePublishedItemForbidden(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 1)
	it := seedItem(t, e, exhibits.TypeItem, 1)
	require.NoError(t, database.DB.Model(&exhibits.Item{}).
		Where("uuid = ?", it.UUID).
		Update("is_published", 1).Error)

	w := doJSON(r, http.MethodDelete, "/exhibits/"+e.UUID+"/items/"+it.UUID+"?type="+it.Type, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteNonEmptyGridConflicts(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	grid := seedItem(t, e, exhibits.TypeGrid, 1)
	child := seedNested(t, e, exhibits.TypeGridItem, grid.UUID, 1)

	w := doJSON(r, http.MethodDelete, "/exhibits/"+e.UUID+"/items/"+grid.UUID+"?type="+grid.Type, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodDelete, "/exhibits/"+e.UUID+"/items/"+child.UUID+"?type="+child.Type, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodDelete, "/exhibits/"+e.UUID+"/items/"+grid.UUID+"?type="+grid.Type, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteTypeMismatch(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	it := seedItem(t, e, exhibits.TypeItem, 1)

	w := doJSON(r, http.MethodDelete, "/exhibits/"+e.UUID+"/items/"+it.UUID+"?type=timeline", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateItemTypeImmutable(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	it := seedItem(t, e, exhibits.TypeItem, 1)

	w := doJSON(r, http.MethodPut, "/exhibits/"+e.UUID+"/items/"+it.UUID, gin.H{"type": "grid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePublishedItemFrozen(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 1)
	it := seedItem(t, e, exhibits.TypeItem, 1)
	heading := seedItem(t, e, exhibits.TypeHeading, 2)
	for _, u := range []string{it.UUID, heading.UUID} {
		require.NoError(t, database.DB.Model(&exhibits.Item{}).
			Where("uuid = ?", u).
			Update("is_published", 1).Error)
	}

	w := doJSON(r, http.MethodPut, "/exhibits/"+e.UUID+"/items/"+it.UUID, gin.H{"title": "new"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// headings stay editable while published
	w = doJSON(r, http.MethodPut, "/exhibits/"+e.UUID+"/items/"+heading.UUID, gin.H{"title": "new"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateItemSanitizesText(t *testing.T) {
	r := setupRouter(t)
	e := seedExhibit(t, 0)
	it := seedItem(t, e, exhibits.TypeItem, 1)

	w := doJSON(r, http.MethodPut, "/exhibits/"+e.UUID+"/items/"+it.UUID, gin.H{
		"item_text": `<p>fine</p><script>alert(1)</script>`,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got exhibits.Item
	require.NoError(t, database.DB.First(&got, "uuid = ?", it.UUID).Error)
	assert.Equal(t, "<p>fine</p>", got.Text)
}
