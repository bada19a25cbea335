package store

import "gorm.io/gorm/clause"

// Op is a comparison operator usable in a Filter.
type Op string

const (
	OpEq Op = "="
	OpNe Op = "<>"
	OpLt Op = "<"
	OpGt Op = ">"
)

// Filter compares a column (database name) with a value.
type Filter struct {
	Column string
	Op     Op
	Value  interface{}
}

func Eq(column string, value interface{}) Filter { return Filter{Column: column, Op: OpEq, Value: value} }
func Ne(column string, value interface{}) Filter { return Filter{Column: column, Op: OpNe, Value: value} }
func Lt(column string, value interface{}) Filter { return Filter{Column: column, Op: OpLt, Value: value} }
func Gt(column string, value interface{}) Filter { return Filter{Column: column, Op: OpGt, Value: value} }

func (f Filter) expression() clause.Expression {
	col := clause.Column{Name: f.Column}
	switch f.Op {
	case OpNe:
		return clause.Neq{Column: col, Value: f.Value}
	case OpLt:
		return clause.Lt{Column: col, Value: f.Value}
	case OpGt:
		return clause.Gt{Column: col, Value: f.Value}
	default:
		return clause.Eq{Column: col, Value: f.Value}
	}
}

// Query selects, orders and pages rows. The zero Query matches everything
// ordered by id ascending.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Offset  int
	Limit   int
}

// Where starts a query with the given filters.
func Where(filters ...Filter) Query {
	return Query{Filters: filters}
}

// And returns a copy of q with extra filters.
func (q Query) And(filters ...Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), filters...)
	return q
}

// Order returns a copy of q ordered by column.
func (q Query) Order(column string, desc bool) Query {
	q.OrderBy = column
	q.Desc = desc
	return q
}

// Page returns a copy of q limited to one page.
func (q Query) Page(offset, limit int) Query {
	q.Offset = offset
	q.Limit = limit
	return q
}
