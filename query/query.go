// Package query turns list-endpoint query strings into typed filter, sort,
// projection and pagination settings and runs them against any gorm model.
package query

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"devconnector/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	MaxLimit     = 100

	// MaxPage keeps page*limit inside int.
	MaxPage = math.MaxInt / MaxLimit
)

// Op is a filter comparison operator.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

var operators = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

var reserved = map[string]bool{"select": true, "sort": true, "page": true, "limit": true}

var bracketKey = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[([a-z]+)\]$`)

// Fields maps the public field names a resource accepts to store columns.
type Fields map[string]string

type Filter struct {
	Field  string
	Column string
	Op     Op
	Values []string
}

type SortField struct {
	Column string
	Desc   bool
}

// ListQuery is the parsed form of a list request.
type ListQuery struct {
	Filters []Filter
	Select  []string
	Sort    []SortField
	Page    int
	Limit   int
}

// Skip is the number of rows before the requested page.
func (q ListQuery) Skip() int {
	return (q.Page - 1) * q.Limit
}

// Parse reads filters, projection, sort order and paging from values.
// Field names outside fields are rejected.
func Parse(values url.Values, fields Fields) (ListQuery, error) {
	q := ListQuery{
		Page:  positiveInt(values.Get("page"), DefaultPage),
		Limit: positiveInt(values.Get("limit"), DefaultLimit),
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, raw := range values[key] {
			f, err := parseFilter(key, raw, fields)
			if err != nil {
				return q, err
			}
			q.Filters = append(q.Filters, f)
		}
	}

	if sel := values.Get("select"); sel != "" {
		for _, name := range splitList(sel) {
			col, ok := fields[name]
			if !ok {
				return q, apperr.BadRequest("Unknown select field %q", name)
			}
			q.Select = append(q.Select, col)
		}
	}

	sortParam := values.Get("sort")
	if sortParam == "" {
		sortParam = "-createdAt"
	}
	for _, name := range splitList(sortParam) {
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")
		col, ok := fields[name]
		if !ok {
			return q, apperr.BadRequest("Unknown sort field %q", name)
		}
		q.Sort = append(q.Sort, SortField{Column: col, Desc: desc})
	}

	return q, nil
}

func parseFilter(key, raw string, fields Fields) (Filter, error) {
	name, op := key, OpEq
	keyed := false

	if m := bracketKey.FindStringSubmatch(key); m != nil {
		o, ok := operators[m[2]]
		if !ok {
			return Filter{}, apperr.BadRequest("Unknown filter operator %q", m[2])
		}
		name, op, keyed = m[1], o, true
	} else if i := strings.LastIndex(key, "."); i > 0 {
		if o, ok := operators[key[i+1:]]; ok {
			name, op, keyed = key[:i], o, true
		}
	}

	// status=gt:5
	if !keyed {
		if prefix, rest, found := strings.Cut(raw, ":"); found {
			if o, ok := operators[prefix]; ok {
				op, raw = o, rest
			}
		}
	}

	col, ok := fields[name]
	if !ok {
		return Filter{}, apperr.BadRequest("Unknown filter field %q", name)
	}

	vals := []string{raw}
	if op == OpIn {
		vals = splitList(raw)
	}
	return Filter{Field: name, Column: col, Op: op, Values: vals}, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
