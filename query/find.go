package query

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Result is the list envelope returned to clients.
type Result[T any] struct {
	Success    bool       `json:"success"`
	Count      int        `json:"count"`
	Total      int64      `json:"-"`
	Pagination Pagination `json:"pagination"`
	Data       []T        `json:"data"`
}

// Paginate computes next/prev links for a page of a total-sized set.
func Paginate(page, limit int, total int64) Pagination {
	var p Pagination
	if int64(page*limit) < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if (page-1)*limit > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return p
}

// Where adds the filters to tx.
func (q ListQuery) Where(tx *gorm.DB) *gorm.DB {
	for _, f := range q.Filters {
		tx = tx.Where(f.expression())
	}
	return tx
}

func (f Filter) expression() clause.Expression {
	col := clause.Column{Name: f.Column}
	var v any
	if len(f.Values) > 0 {
		v = f.Values[0]
	}
	switch f.Op {
	case OpGt:
		return clause.Gt{Column: col, Value: v}
	case OpGte:
		return clause.Gte{Column: col, Value: v}
	case OpLt:
		return clause.Lt{Column: col, Value: v}
	case OpLte:
		return clause.Lte{Column: col, Value: v}
	case OpIn:
		vals := make([]any, len(f.Values))
		for i, s := range f.Values {
			vals[i] = s
		}
		return clause.IN{Column: col, Values: vals}
	default:
		return clause.Eq{Column: col, Value: v}
	}
}

// Apply adds filters, projection, ordering and paging to tx.
func (q ListQuery) Apply(tx *gorm.DB) *gorm.DB {
	tx = q.Where(tx)
	if len(q.Select) > 0 {
		cols := []string{"id"}
		for _, c := range q.Select {
			if c != "id" {
				cols = append(cols, c)
			}
		}
		tx = tx.Select(cols)
	}
	for _, s := range q.Sort {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
	}
	return tx.Offset(q.Skip()).Limit(q.Limit)
}

// Find runs q against the table of T. The total counts the filtered rows;
// scopes (preloads, joins) are applied to the page query only.
func Find[T any](ctx context.Context, db *gorm.DB, q ListQuery, scopes ...func(*gorm.DB) *gorm.DB) (Result[T], error) {
	var total int64
	if err := q.Where(db.WithContext(ctx).Model(new(T))).Count(&total).Error; err != nil {
		return Result[T]{}, fmt.Errorf("count: %w", err)
	}

	items := make([]T, 0, q.Limit)
	if err := q.Apply(db.WithContext(ctx).Model(new(T)).Scopes(scopes...)).Find(&items).Error; err != nil {
		return Result[T]{}, fmt.Errorf("find: %w", err)
	}

	return Result[T]{
		Success:    true,
		Count:      len(items),
		Total:      total,
		Pagination: Paginate(q.Page, q.Limit, total),
		Data:       items,
	}, nil
}
