package staffdir

import "strings"

// =====================================
// Query Building
// =====================================

// QueryOption interface for shaping repository reads
type QueryOption interface {
	Apply(query *Query)
}

// Query represents a repository read. Conditions carry entity field names
// as validated by the predicate builder; adapters resolve them to columns.
type Query struct {
	Conditions []Condition
	Orders     []Order
	Limit      *int
	Offset     *int
	Preloads   []string
	Deleted    DeletedScope
}

// Condition represents a query condition
type Condition interface {
	Field() string
	Operator() Operator
	Value() interface{}
	String() string
}

// BasicCondition implements Condition
type BasicCondition struct {
	FieldName string
	Op        Operator
	Val       interface{}
}

func (c BasicCondition) Field() string      { return c.FieldName }
func (c BasicCondition) Operator() Operator { return c.Op }
func (c BasicCondition) Value() interface{} { return c.Val }
func (c BasicCondition) String() string {
	return c.FieldName + " " + string(c.Op) + " ?"
}

// CompositeCondition for AND/OR operations
type CompositeCondition struct {
	Conditions []Condition
	Logic      LogicOperator
}

func (c CompositeCondition) Field() string      { return "" }
func (c CompositeCondition) Operator() Operator { return "" }
func (c CompositeCondition) Value() interface{} { return nil }
func (c CompositeCondition) String() string {
	if len(c.Conditions) == 0 {
		return ""
	}

	var parts []string
	for _, cond := range c.Conditions {
		parts = append(parts, cond.String())
	}

	return "(" + strings.Join(parts, " "+string(c.Logic)+" ") + ")"
}

// And combines conditions so that every one must hold.
func And(conditions ...Condition) Condition {
	return CompositeCondition{Conditions: conditions, Logic: LogicAnd}
}

// Or combines conditions so that at least one must hold.
func Or(conditions ...Condition) Condition {
	return CompositeCondition{Conditions: conditions, Logic: LogicOr}
}

// =====================================
// Query Option Implementations
// =====================================

// ConditionOption implements QueryOption for conditions
type ConditionOption struct {
	Condition Condition
}

func (o ConditionOption) Apply(query *Query) {
	query.Conditions = append(query.Conditions, o.Condition)
}

// OrderOption implements QueryOption for ordering
type OrderOption struct {
	Order Order
}

func (o OrderOption) Apply(query *Query) {
	query.Orders = append(query.Orders, o.Order)
}

// LimitOption implements QueryOption for limiting results
type LimitOption struct {
	Count int
}

func (o LimitOption) Apply(query *Query) {
	query.Limit = &o.Count
}

// OffsetOption implements QueryOption for result offset
type OffsetOption struct {
	Count int
}

func (o OffsetOption) Apply(query *Query) {
	query.Offset = &o.Count
}

// PreloadOption implements QueryOption for eager loading
type PreloadOption struct {
	Relations []string
}

func (o PreloadOption) Apply(query *Query) {
	query.Preloads = append(query.Preloads, o.Relations...)
}

// DeletedScopeOption implements QueryOption for soft-delete visibility
type DeletedScopeOption struct {
	Scope DeletedScope
}

func (o DeletedScopeOption) Apply(query *Query) {
	query.Deleted = o.Scope
}

// =====================================
// Query Builder Functions
// =====================================

// Where adds a pre-built condition to the query
func Where(condition Condition) QueryOption {
	return ConditionOption{Condition: condition}
}

// OrderBy creates an ordering option. The field is an entity field name,
// validated by the adapter against the entity's metadata.
func OrderBy(field string, direction OrderDirection) QueryOption {
	return OrderOption{
		Order: Order{
			Field:     field,
			Direction: direction,
		},
	}
}

// Limit creates a limit option
func Limit(count int) QueryOption {
	return LimitOption{Count: count}
}

// Offset creates an offset option
func Offset(count int) QueryOption {
	return OffsetOption{Count: count}
}

// Preload creates an eager-loading option for the named relations
func Preload(relations ...string) QueryOption {
	return PreloadOption{Relations: relations}
}

// IncludeDeleted widens a read to soft-deleted rows as well
func IncludeDeleted() QueryOption {
	return DeletedScopeOption{Scope: DeletedInclude}
}

// OnlyDeleted narrows a read to soft-deleted rows
func OnlyDeleted() QueryOption {
	return DeletedScopeOption{Scope: DeletedOnly}
}

// ActiveOnly narrows a read to rows that are not soft-deleted. This is
// already the default for collection reads; identity lookups need it
// explicitly.
func ActiveOnly() QueryOption {
	return DeletedScopeOption{Scope: DeletedExclude}
}

// NewQuery builds a Query from options
func NewQuery(opts ...QueryOption) *Query {
	q := &Query{}
	for _, opt := range opts {
		opt.Apply(q)
	}
	return q
}
