package staffdirbun

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/uptrace/bun"

	"github.com/staffdir/staffdir"
)

type opKind int

const (
	opAdd opKind = iota
	opUpdate
	opSoftDelete
	opRestore
	opDelete
)

type stagedOp[T any] struct {
	kind   opKind
	entity *T
	id     uint
	actor  string
}

// Repository implements staffdir.Repository using Bun. Mutations are
// staged in memory and applied by SaveChanges in a single transaction.
type Repository[T any] struct {
	db   *bun.DB
	meta *staffdir.EntityMeta
	now  func() time.Time

	mu      sync.Mutex
	pending []stagedOp[T]
}

// NewRepository creates a repository for entity type T. *T must implement
// staffdir.Auditable, which every type embedding staffdir.Model does.
func NewRepository[T any](p *Provider) (*Repository[T], error) {
	if _, ok := any(new(T)).(staffdir.Auditable); !ok {
		return nil, staffdir.NewError(staffdir.ErrorTypeInvalidArgument,
			fmt.Sprintf("type %T does not embed the audit model", new(T)))
	}
	meta, err := staffdir.MetaFor[T]()
	if err != nil {
		return nil, err
	}
	return &Repository[T]{
		db:   p.db,
		meta: meta,
		now:  time.Now,
	}, nil
}

func auditOf[T any](entity *T) *staffdir.Audit {
	return any(entity).(staffdir.Auditable).AuditRecord()
}

// =====================================
// Reads
// =====================================

// GetByID returns the entity or a not-found error. Soft-deleted rows are
// visible here by default so that restore flows can load their targets.
func (r *Repository[T]) GetByID(ctx context.Context, id uint, opts ...staffdir.QueryOption) (*T, error) {
	q := staffdir.NewQuery(opts...)

	entity := new(T)
	selectQuery, err := r.buildSelect(r.db.NewSelect().Model(entity), q, staffdir.DeletedInclude)
	if err != nil {
		return nil, err
	}
	if err := selectQuery.Where("id = ?", id).Scan(ctx); err != nil {
		return nil, convertBunError(err)
	}
	return entity, nil
}

// GetAll returns all active entities unless the options widen the scope.
func (r *Repository[T]) GetAll(ctx context.Context, opts ...staffdir.QueryOption) ([]*T, error) {
	return r.findAll(ctx, staffdir.NewQuery(opts...))
}

// GetWhere returns the active entities matching the condition.
func (r *Repository[T]) GetWhere(ctx context.Context, condition staffdir.Condition, opts ...staffdir.QueryOption) ([]*T, error) {
	q := staffdir.NewQuery(opts...)
	q.Conditions = append(q.Conditions, condition)
	return r.findAll(ctx, q)
}

// GetWithRelated returns the entity with the named relations loaded.
func (r *Repository[T]) GetWithRelated(ctx context.Context, id uint, relations ...string) (*T, error) {
	return r.GetByID(ctx, id, staffdir.Preload(relations...))
}

// GetAllWithRelated returns all active entities with the named relations
// loaded.
func (r *Repository[T]) GetAllWithRelated(ctx context.Context, relations ...string) ([]*T, error) {
	return r.GetAll(ctx, staffdir.Preload(relations...))
}

// GetPaged returns one page of a sorted listing plus the total count
// under the same filter. page and pageSize below 1 are rejected.
func (r *Repository[T]) GetPaged(ctx context.Context, page, pageSize int, opts ...staffdir.QueryOption) (*staffdir.Page[T], error) {
	if page < 1 {
		return nil, staffdir.NewError(staffdir.ErrorTypeInvalidArgument,
			fmt.Sprintf("page must be at least 1, got %d", page))
	}
	if pageSize < 1 {
		return nil, staffdir.NewError(staffdir.ErrorTypeInvalidArgument,
			fmt.Sprintf("page size must be at least 1, got %d", pageSize))
	}

	q := staffdir.NewQuery(opts...)

	total, err := r.count(ctx, q)
	if err != nil {
		return nil, err
	}

	if len(q.Orders) == 0 {
		q.Orders = append(q.Orders, staffdir.Order{Field: "ID", Direction: staffdir.OrderAsc})
	}
	limit := pageSize
	offset := (page - 1) * pageSize
	q.Limit = &limit
	q.Offset = &offset

	items, err := r.findAll(ctx, q)
	if err != nil {
		return nil, err
	}

	return &staffdir.Page[T]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Search returns active entities where any of the listed text fields
// contains the term, case-insensitively.
func (r *Repository[T]) Search(ctx context.Context, term string, fields ...string) ([]*T, error) {
	condition, err := staffdir.SearchAny[T](term, fields...)
	if err != nil {
		return nil, err
	}
	return r.GetWhere(ctx, condition)
}

// Count counts active entities matching the options.
func (r *Repository[T]) Count(ctx context.Context, opts ...staffdir.QueryOption) (int64, error) {
	return r.count(ctx, staffdir.NewQuery(opts...))
}

// Exists reports whether any active entity matches the options.
func (r *Repository[T]) Exists(ctx context.Context, opts ...staffdir.QueryOption) (bool, error) {
	count, err := r.Count(ctx, opts...)
	return count > 0, err
}

// IsFieldUnique reports whether no other row holds value in the named
// field. Soft-deleted rows participate so their values stay reserved.
func (r *Repository[T]) IsFieldUnique(ctx context.Context, field string, value interface{}, excludeID uint) (bool, error) {
	condition, err := staffdir.UniqueValue[T](field, value, excludeID)
	if err != nil {
		return false, err
	}
	q := staffdir.NewQuery(staffdir.Where(condition), staffdir.IncludeDeleted())
	count, err := r.count(ctx, q)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *Repository[T]) findAll(ctx context.Context, q *staffdir.Query) ([]*T, error) {
	entities := []*T{}
	selectQuery, err := r.buildSelect(r.db.NewSelect().Model(&entities), q, staffdir.DeletedExclude)
	if err != nil {
		return nil, err
	}
	if err := selectQuery.Scan(ctx); err != nil {
		return nil, convertBunError(err)
	}
	return entities, nil
}

func (r *Repository[T]) count(ctx context.Context, q *staffdir.Query) (int64, error) {
	counted := &staffdir.Query{Conditions: q.Conditions, Deleted: q.Deleted}
	selectQuery, err := r.buildSelect(r.db.NewSelect().Model(new(T)), counted, staffdir.DeletedExclude)
	if err != nil {
		return 0, err
	}
	count, err := selectQuery.Count(ctx)
	if err != nil {
		return 0, convertBunError(err)
	}
	return int64(count), nil
}

// =====================================
// Staged Mutations
// =====================================

// Add stamps creation audit fields and stages an insert.
func (r *Repository[T]) Add(ctx context.Context, actor string, entity *T) error {
	if entity == nil {
		return staffdir.NewError(staffdir.ErrorTypeInvalidArgument, "entity is nil")
	}
	auditOf(entity).StampCreate(actor, r.now())
	r.stage(stagedOp[T]{kind: opAdd, entity: entity, actor: actor})
	return nil
}

// AddRange stages inserts for several entities at once.
func (r *Repository[T]) AddRange(ctx context.Context, actor string, entities []*T) error {
	for _, entity := range entities {
		if err := r.Add(ctx, actor, entity); err != nil {
			return err
		}
	}
	return nil
}

// Update stamps update audit fields and stages a full-row update.
func (r *Repository[T]) Update(ctx context.Context, actor string, entity *T) error {
	if entity == nil {
		return staffdir.NewError(staffdir.ErrorTypeInvalidArgument, "entity is nil")
	}
	if pk := any(entity).(staffdir.Auditable).PK(); pk == 0 {
		return staffdir.NewError(staffdir.ErrorTypeInvalidArgument, "entity has no identity")
	}
	auditOf(entity).StampUpdate(actor, r.now())
	r.stage(stagedOp[T]{kind: opUpdate, entity: entity, actor: actor})
	return nil
}

// UpdateRange stages updates for several entities at once.
func (r *Repository[T]) UpdateRange(ctx context.Context, actor string, entities []*T) error {
	for _, entity := range entities {
		if err := r.Update(ctx, actor, entity); err != nil {
			return err
		}
	}
	return nil
}

// SoftDelete stages an Active to Deleted transition for the row.
func (r *Repository[T]) SoftDelete(ctx context.Context, actor string, id uint) error {
	r.stage(stagedOp[T]{kind: opSoftDelete, id: id, actor: actor})
	return nil
}

// Restore stages a Deleted to Active transition for the row.
func (r *Repository[T]) Restore(ctx context.Context, actor string, id uint) error {
	r.stage(stagedOp[T]{kind: opRestore, id: id, actor: actor})
	return nil
}

// Delete stages a physical removal, bypassing audit semantics.
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	r.stage(stagedOp[T]{kind: opDelete, id: id})
	return nil
}

// SaveChanges applies every staged mutation, in staging order, in one
// transaction. On failure nothing is durable and the batch stays staged.
func (r *Repository[T]) SaveChanges(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) == 0 {
		return nil
	}

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, op := range r.pending {
			if err := r.applyOp(ctx, tx, op); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.pending = nil
	return nil
}

// DiscardChanges drops all staged mutations without applying them.
func (r *Repository[T]) DiscardChanges() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = nil
}

func (r *Repository[T]) stage(op stagedOp[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, op)
}

func (r *Repository[T]) applyOp(ctx context.Context, tx bun.Tx, op stagedOp[T]) error {
	switch op.kind {
	case opAdd:
		_, err := tx.NewInsert().Model(op.entity).Exec(ctx)
		return convertBunError(err)

	case opUpdate:
		_, err := tx.NewUpdate().Model(op.entity).WherePK().Exec(ctx)
		return convertBunError(err)

	case opSoftDelete, opRestore:
		entity := new(T)
		err := tx.NewSelect().Model(entity).Where("id = ?", op.id).Scan(ctx)
		if err != nil {
			return convertBunError(err)
		}
		audit := auditOf(entity)
		if op.kind == opSoftDelete {
			err = audit.MarkDeleted(op.actor, r.now())
		} else {
			err = audit.MarkRestored(op.actor, r.now())
		}
		if err != nil {
			return err
		}
		_, err = tx.NewUpdate().Model(entity).WherePK().Exec(ctx)
		return convertBunError(err)

	case opDelete:
		result, err := tx.NewDelete().Model(new(T)).Where("id = ?", op.id).Exec(ctx)
		if err != nil {
			return convertBunError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return convertBunError(err)
		}
		if affected == 0 {
			return staffdir.NewError(staffdir.ErrorTypeNotFound,
				fmt.Sprintf("%s %d not found", r.meta.Name, op.id))
		}
		return nil

	default:
		return staffdir.NewError(staffdir.ErrorTypeUnsupported, "unknown staged operation")
	}
}
