package store

import (
	"context"
	"errors"
)

// ErrConflict is returned when a write violates a unique constraint
// (duplicate plate, duplicate goal owner, duplicate email).
var ErrConflict = errors.New("store: unique constraint violation")

// Op is a filter operator, mirroring the remote table API the legacy system
// was built against.
type Op string

const (
	OpEq    Op = "eq"
	OpNeq   Op = "neq"
	OpIn    Op = "in"
	OpGte   Op = "gte"
	OpLt    Op = "lt"
	OpLte   Op = "lte"
	OpILike Op = "ilike"
)

// Filter restricts a select, update, delete or count to matching rows.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, v any) Filter    { return Filter{Column: column, Op: OpEq, Value: v} }
func Neq(column string, v any) Filter   { return Filter{Column: column, Op: OpNeq, Value: v} }
func In(column string, v any) Filter    { return Filter{Column: column, Op: OpIn, Value: v} }
func Gte(column string, v any) Filter   { return Filter{Column: column, Op: OpGte, Value: v} }
func Lt(column string, v any) Filter    { return Filter{Column: column, Op: OpLt, Value: v} }
func Lte(column string, v any) Filter   { return Filter{Column: column, Op: OpLte, Value: v} }
func ILike(column, pattern string) Filter {
	return Filter{Column: column, Op: OpILike, Value: pattern}
}

// Order sorts a select by one column.
type Order struct {
	Column     string
	Descending bool
}

// Range selects an inclusive window of rows, counted from 0.
type Range struct {
	From int
	To   int
}

// Query shapes a Select call.
type Query struct {
	Columns []string
	Filters []Filter
	Order   *Order
	Range   *Range
}

// Store is the contract over named relational collections. Every call is a
// single remote statement; there are no multi-statement transactions, so
// callers sequencing dependent writes own the partial-failure policy.
type Store interface {
	// Insert writes rows (a pointer to a struct or slice of structs) and
	// backfills generated ids into the passed values.
	Insert(ctx context.Context, collection string, rows any) error
	// Update patches all rows matching the filters.
	Update(ctx context.Context, collection string, patch map[string]any, filters ...Filter) error
	// Delete removes all rows matching the filters.
	Delete(ctx context.Context, collection string, filters ...Filter) error
	// Select reads matching rows into dest (a pointer to a slice of structs).
	Select(ctx context.Context, collection string, dest any, q Query) error
	// Count returns the exact number of matching rows.
	Count(ctx context.Context, collection string, filters ...Filter) (int64, error)
}
