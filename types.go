package staffdir

// =====================================
// Core Types and Constants
// =====================================

// Operator represents query operators
type Operator string

const (
	OpEqual              Operator = "="
	OpNotEqual           Operator = "!="
	OpGreaterThan        Operator = ">"
	OpGreaterThanOrEqual Operator = ">="
	OpLessThan           Operator = "<"
	OpLessThanOrEqual    Operator = "<="
	OpBetween            Operator = "BETWEEN"
	OpIn                 Operator = "IN"
	OpIsNull             Operator = "IS NULL"
	OpIsNotNull          Operator = "IS NOT NULL"

	// OpEqualFold compares text case-insensitively; both operands are
	// normalized by the adapter, never by the caller.
	OpEqualFold Operator = "=~"
	// OpContains matches case-insensitive substring containment.
	OpContains Operator = "CONTAINS"
)

// LogicOperator represents logic operators for combining conditions
type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
)

// Order represents sorting order
type Order struct {
	Field     string
	Direction OrderDirection
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// DeletedScope controls whether soft-deleted rows participate in a read.
// The zero value defers to the operation's default: lookups by identity
// include deleted rows, collection reads exclude them.
type DeletedScope int

const (
	DeletedDefault DeletedScope = iota
	DeletedExclude
	DeletedInclude
	DeletedOnly
)

// Page is one page of a sorted, filtered listing.
type Page[T any] struct {
	Items      []*T  `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// HasNextPage reports whether a page beyond this one exists.
func (p *Page[T]) HasNextPage() bool {
	return p.Page < p.TotalPages
}

// HasPreviousPage reports whether this is not the first page.
func (p *Page[T]) HasPreviousPage() bool {
	return p.Page > 1
}
