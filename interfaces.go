package staffdir

import "context"

// =====================================
// Repository Contract
// =====================================

// Repository is the single CRUD/query surface shared by every entity
// type. *T must implement Auditable; adapter constructors verify this.
//
// Mutating calls stage their change and stamp audit columns; nothing is
// durable until SaveChanges applies the whole staged batch in one store
// transaction. Every mutating call takes the actor performing it; there
// is no implicit "system" actor.
//
// A read that cannot reach the store reports ErrorTypeStorage; an empty
// result is an empty slice, never an error, so the two are always
// distinguishable.
type Repository[T any] interface {
	// GetByID returns the entity or ErrorTypeNotFound. Soft-deleted rows
	// are returned by default; pass ActiveOnly() to exclude them.
	GetByID(ctx context.Context, id uint, opts ...QueryOption) (*T, error)

	// GetAll returns all active entities. IncludeDeleted()/OnlyDeleted()
	// widen or flip the scope. Order is unspecified without OrderBy.
	GetAll(ctx context.Context, opts ...QueryOption) ([]*T, error)

	// GetWhere returns the active entities matching the condition.
	GetWhere(ctx context.Context, condition Condition, opts ...QueryOption) ([]*T, error)

	// GetWithRelated returns the entity with the named relations loaded in
	// the same round trip.
	GetWithRelated(ctx context.Context, id uint, relations ...string) (*T, error)

	// GetAllWithRelated returns all active entities with the named
	// relations loaded.
	GetAllWithRelated(ctx context.Context, relations ...string) ([]*T, error)

	// GetPaged returns one page of a sorted listing. page and pageSize
	// below 1 are rejected with ErrorTypeInvalidArgument, never clamped.
	// Without an OrderBy option rows are sorted by identity ascending so
	// that pages are stable.
	GetPaged(ctx context.Context, page, pageSize int, opts ...QueryOption) (*Page[T], error)

	// Search returns active entities where any of the listed text fields
	// contains the term, case-insensitively.
	Search(ctx context.Context, term string, fields ...string) ([]*T, error)

	// Count counts active entities matching the options; with no
	// conditions it counts the whole active collection.
	Count(ctx context.Context, opts ...QueryOption) (int64, error)

	// Exists reports whether any active entity matches the options.
	Exists(ctx context.Context, opts ...QueryOption) (bool, error)

	// IsFieldUnique reports whether no other row - soft-deleted rows
	// included, excluding excludeID when non-zero - holds value in the
	// named field. Text fields compare case-insensitively.
	IsFieldUnique(ctx context.Context, field string, value interface{}, excludeID uint) (bool, error)

	// Add stamps creation audit fields and stages an insert. The identity
	// is assigned by the store when SaveChanges runs.
	Add(ctx context.Context, actor string, entity *T) error

	// AddRange stages inserts for several entities at once.
	AddRange(ctx context.Context, actor string, entities []*T) error

	// Update stamps update audit fields and stages a full-row update.
	// Concurrent updates to the same row from separate scopes are not
	// serialized; the last committed write wins.
	Update(ctx context.Context, actor string, entity *T) error

	// UpdateRange stages updates for several entities at once.
	UpdateRange(ctx context.Context, actor string, entities []*T) error

	// SoftDelete stages an Active -> Deleted transition for the row.
	SoftDelete(ctx context.Context, actor string, id uint) error

	// Restore stages a Deleted -> Active transition for the row.
	Restore(ctx context.Context, actor string, id uint) error

	// Delete stages a physical removal, bypassing audit semantics.
	Delete(ctx context.Context, id uint) error

	// SaveChanges applies every staged mutation in one transaction.
	// Either the whole batch is durable afterwards or none of it is; on
	// failure the batch stays staged.
	SaveChanges(ctx context.Context) error

	// DiscardChanges drops all staged mutations without applying them.
	DiscardChanges()
}
