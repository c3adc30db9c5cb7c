package db

import (
	"fmt"
	"strings"
)

// ListQuery assembles a filtered, paginated SELECT and its COUNT twin.
// Filters use %d where the placeholder number goes; Where fills it in.
type ListQuery struct {
	from    string
	cols    string
	where   []string
	args    []interface{}
	orderBy string
}

// NewListQuery starts a query over from (a table or a join expression).
func NewListQuery(from, cols string) *ListQuery {
	return &ListQuery{from: from, cols: cols}
}

// Where adds "AND clause". Each %d in clause is replaced with the
// positional placeholder of the matching arg, so the clause must carry
// exactly one %d per arg.
func (q *ListQuery) Where(clause string, args ...interface{}) *ListQuery {
	idx := make([]interface{}, len(args))
	for i := range args {
		idx[i] = len(q.args) + i + 1
	}
	q.where = append(q.where, fmt.Sprintf(clause, idx...))
	q.args = append(q.args, args...)
	return q
}

func (q *ListQuery) OrderBy(orderBy string) *ListQuery {
	q.orderBy = orderBy
	return q
}

func (q *ListQuery) whereSQL() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

func (q *ListQuery) CountSQL() string {
	return "SELECT COUNT(*) FROM " + q.from + q.whereSQL()
}

func (q *ListQuery) CountArgs() []interface{} {
	return q.args
}

// DataSQL appends ORDER BY and the LIMIT/OFFSET placeholders.
func (q *ListQuery) DataSQL() string {
	sql := "SELECT " + q.cols + " FROM " + q.from + q.whereSQL()
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	return sql + fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(q.args)+1, len(q.args)+2)
}

func (q *ListQuery) DataArgs(limit, offset int) []interface{} {
	out := make([]interface{}, len(q.args), len(q.args)+2)
	copy(out, q.args)
	return append(out, limit, offset)
}
