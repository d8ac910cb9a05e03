package staffdir

import "time"

// =====================================
// Audit / Soft-Delete Policy
// =====================================

// RecordState is the soft-delete state of a record.
type RecordState string

const (
	StateActive  RecordState = "active"
	StateDeleted RecordState = "deleted"
)

// Audit carries the audit columns present on every entity. Adapters stamp
// these on every mutating call; entity and service code must never write
// them directly.
type Audit struct {
	CreatedAt time.Time  `gorm:"column:created_at;not null;autoCreateTime:false" bun:"created_at,notnull" json:"createdAt"`
	CreatedBy string     `gorm:"column:created_by;size:100" bun:"created_by" json:"createdBy"`
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime:false" bun:"updated_at" json:"updatedAt,omitempty"`
	UpdatedBy string     `gorm:"column:updated_by;size:100" bun:"updated_by" json:"updatedBy,omitempty"`
	IsDeleted bool       `gorm:"column:is_deleted;not null;default:false;index" bun:"is_deleted,notnull,default:false" json:"isDeleted"`
}

// AuditRecord returns the record itself so that embedding an Audit
// satisfies Auditable.
func (a *Audit) AuditRecord() *Audit { return a }

// State reports the record's soft-delete state.
func (a *Audit) State() RecordState {
	if a.IsDeleted {
		return StateDeleted
	}
	return StateActive
}

// StampCreate initializes the audit columns for a new record.
func (a *Audit) StampCreate(actor string, now time.Time) {
	a.CreatedAt = now
	a.CreatedBy = actor
	a.UpdatedAt = nil
	a.UpdatedBy = ""
	a.IsDeleted = false
}

// StampUpdate marks the record as mutated. CreatedAt is never touched.
func (a *Audit) StampUpdate(actor string, now time.Time) {
	t := now
	a.UpdatedAt = &t
	a.UpdatedBy = actor
}

// MarkDeleted transitions Active -> Deleted, stamping the update columns.
func (a *Audit) MarkDeleted(actor string, now time.Time) error {
	if a.IsDeleted {
		return NewError(ErrorTypeConflict, "record is already deleted")
	}
	a.IsDeleted = true
	a.StampUpdate(actor, now)
	return nil
}

// MarkRestored transitions Deleted -> Active, stamping the update columns.
func (a *Audit) MarkRestored(actor string, now time.Time) error {
	if !a.IsDeleted {
		return NewError(ErrorTypeConflict, "record is not deleted")
	}
	a.IsDeleted = false
	a.StampUpdate(actor, now)
	return nil
}

// Auditable is implemented by every persisted entity, typically by
// embedding Model.
type Auditable interface {
	PK() uint
	AuditRecord() *Audit
}

// Model is the identity plus audit base every entity embeds.
type Model struct {
	ID uint `gorm:"primaryKey;autoIncrement;column:id" bun:"id,pk,autoincrement" json:"id"`
	Audit
}

// PK returns the store-assigned identity, 0 before the first commit.
func (m *Model) PK() uint { return m.ID }
