package models

import (
	"net/url"
	"strconv"
	"strings"
)

// TableQuery is a read of a table: equality filters, one order column,
// limit and offset. It travels as URL query parameters.
type TableQuery struct {
	Filter  map[string]string
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// Values encodes the query as URL parameters:
// filters as "column=eq.value", "order=column.desc", "limit", "offset".
func (q TableQuery) Values() url.Values {
	v := url.Values{}
	for column, value := range q.Filter {
		v.Set(column, "eq."+value)
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		v.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

// ParseTableQuery decodes Values. Parameters other than order, limit and
// offset are taken as filters and must use the "eq." operator.
func ParseTableQuery(v url.Values) (TableQuery, error) {
	var q TableQuery
	for key, values := range v {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		switch key {
		case "order":
			column, dir, _ := strings.Cut(value, ".")
			q.OrderBy = column
			q.Desc = dir == "desc"
		case "limit":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return TableQuery{}, ErrInvalidQuery
			}
			q.Limit = n
		case "offset":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return TableQuery{}, ErrInvalidQuery
			}
			q.Offset = n
		default:
			eq, ok := strings.CutPrefix(value, "eq.")
			if !ok {
				return TableQuery{}, ErrInvalidQuery
			}
			if q.Filter == nil {
				q.Filter = map[string]string{}
			}
			q.Filter[key] = eq
		}
	}
	return q, nil
}
