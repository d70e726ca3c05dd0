package middleware

import (
	"devconnector/query"

	"github.com/gin-gonic/gin"
)

const listQueryKey = "listQuery"

// ListQuery parses the request's query string against fields and stores the
// result for ParsedQuery.
func ListQuery(fields query.Fields) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := query.Parse(c.Request.URL.Query(), fields)
		if err != nil {
			abort(c, err)
			return
		}
		c.Set(listQueryKey, q)
		c.Next()
	}
}

// ParsedQuery returns the list query stored by ListQuery, or the defaults.
func ParsedQuery(c *gin.Context) query.ListQuery {
	if v, ok := c.Get(listQueryKey); ok {
		if q, ok := v.(query.ListQuery); ok {
			return q
		}
	}
	return query.ListQuery{Page: query.DefaultPage, Limit: query.DefaultLimit}
}
