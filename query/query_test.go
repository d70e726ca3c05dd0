package query_test

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"devconnector/apperr"
	"devconnector/db"
	"devconnector/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var widgetFields = query.Fields{
	"status":    "status",
	"name":      "name",
	"createdAt": "created_at",
}

type widget struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Status    int
	CreatedAt time.Time
}

func mustParse(t *testing.T, raw string) query.ListQuery {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	q, err := query.Parse(values, widgetFields)
	require.NoError(t, err)
	return q
}

func TestParseExample(t *testing.T) {
	q := mustParse(t, "status=gt:5&sort=-createdAt&page=2&limit=10")

	require.Len(t, q.Filters, 1)
	assert.Equal(t, query.Filter{Field: "status", Column: "status", Op: query.OpGt, Values: []string{"5"}}, q.Filters[0])
	assert.Equal(t, []query.SortField{{Column: "created_at", Desc: true}}, q.Sort)
	assert.Equal(t, 10, q.Skip())
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 2, q.Page)
}

func TestParseOperatorSpellings(t *testing.T) {
	tests := []struct {
		raw  string
		op   query.Op
		vals []string
	}{
		{raw: "status=3", op: query.OpEq, vals: []string{"3"}},
		{raw: "status[gte]=3", op: query.OpGte, vals: []string{"3"}},
		{raw: "status.lt=3", op: query.OpLt, vals: []string{"3"}},
		{raw: "status=lte:3", op: query.OpLte, vals: []string{"3"}},
		{raw: "status[in]=1,2,3", op: query.OpIn, vals: []string{"1", "2", "3"}},
		{raw: "name=in:a,b", op: query.OpIn, vals: []string{"a", "b"}},
		{raw: "name=time:noon", op: query.OpEq, vals: []string{"time:noon"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			q := mustParse(t, tt.raw)
			require.Len(t, q.Filters, 1)
			assert.Equal(t, tt.op, q.Filters[0].Op)
			assert.Equal(t, tt.vals, q.Filters[0].Values)
		})
	}
}

func TestParseDefaults(t *testing.T) {
	q := mustParse(t, "page=abc&limit=-4")

	assert.Empty(t, q.Filters)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 25, q.Limit)
	assert.Equal(t, 0, q.Skip())
	assert.Equal(t, []query.SortField{{Column: "created_at", Desc: true}}, q.Sort)

	assert.Equal(t, query.MaxLimit, mustParse(t, "limit=5000").Limit)

	huge := mustParse(t, "page=9223372036854775807&limit=2")
	assert.Equal(t, query.MaxPage, huge.Page)
	assert.Positive(t, huge.Skip())
	p := query.Paginate(huge.Page, huge.Limit, 3)
	assert.Nil(t, p.Next)
	require.NotNil(t, p.Prev)
	assert.Equal(t, query.MaxPage-1, p.Prev.Page)
}

func TestParseSelectAndSort(t *testing.T) {
	q := mustParse(t, "select=name,status&sort=name,-status")

	assert.Equal(t, []string{"name", "status"}, q.Select)
	assert.Equal(t, []query.SortField{{Column: "name"}, {Column: "status", Desc: true}}, q.Sort)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	for _, raw := range []string{"password=x", "select=password", "sort=-password", "status[regex]=1"} {
		t.Run(raw, func(t *testing.T) {
			values, err := url.ParseQuery(raw)
			require.NoError(t, err)
			_, err = query.Parse(values, widgetFields)
			assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
		})
	}
}

func TestPaginate(t *testing.T) {
	p := query.Paginate(1, 10, 25)
	assert.Equal(t, &query.PageRef{Page: 2, Limit: 10}, p.Next)
	assert.Nil(t, p.Prev)

	p = query.Paginate(3, 10, 25)
	assert.Nil(t, p.Next)
	assert.Equal(t, &query.PageRef{Page: 2, Limit: 10}, p.Prev)

	p = query.Paginate(1, 25, 25)
	assert.Nil(t, p.Next)
	assert.Nil(t, p.Prev)
}

func seedWidgets(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	gdb := database.GetDB()
	require.NoError(t, gdb.AutoMigrate(&widget{}))

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 12; i++ {
		w := widget{
			ID:        fmt.Sprintf("w%02d", i),
			Name:      fmt.Sprintf("widget-%02d", i),
			Status:    i,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, gdb.Create(&w).Error)
	}
	return gdb
}

func TestFind(t *testing.T) {
	gdb := seedWidgets(t)
	ctx := context.Background()

	t.Run("filters, sorts and pages", func(t *testing.T) {
		res, err := query.Find[widget](ctx, gdb, mustParse(t, "status=gt:5&sort=-createdAt&page=2&limit=3"))
		require.NoError(t, err)

		// status 6..12 is seven rows; page two of three-per-page is 9, 8, 7
		assert.Equal(t, int64(7), res.Total)
		require.Equal(t, 3, res.Count)
		assert.Equal(t, []int{9, 8, 7}, []int{res.Data[0].Status, res.Data[1].Status, res.Data[2].Status})
		assert.Equal(t, &query.PageRef{Page: 3, Limit: 3}, res.Pagination.Next)
		assert.Equal(t, &query.PageRef{Page: 1, Limit: 3}, res.Pagination.Prev)
	})

	t.Run("in filter", func(t *testing.T) {
		res, err := query.Find[widget](ctx, gdb, mustParse(t, "name[in]=widget-01,widget-03&sort=name"))
		require.NoError(t, err)
		require.Equal(t, 2, res.Count)
		assert.Equal(t, "widget-01", res.Data[0].Name)
		assert.Nil(t, res.Pagination.Next)
	})

	t.Run("projection keeps the key", func(t *testing.T) {
		res, err := query.Find[widget](ctx, gdb, mustParse(t, "select=name&limit=1"))
		require.NoError(t, err)
		require.Equal(t, 1, res.Count)
		assert.NotEmpty(t, res.Data[0].ID)
		assert.NotEmpty(t, res.Data[0].Name)
		assert.Zero(t, res.Data[0].Status)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		res, err := query.Find[widget](ctx, gdb, mustParse(t, "page=9223372036854775807&limit=2"))
		require.NoError(t, err)
		assert.Equal(t, 0, res.Count)
		assert.Equal(t, int64(12), res.Total)
		assert.Nil(t, res.Pagination.Next)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		res, err := query.Find[widget](ctx, gdb, mustParse(t, "status=gt:100"))
		require.NoError(t, err)
		assert.NotNil(t, res.Data)
		assert.Equal(t, 0, res.Count)
	})
}
