package staffdir

import (
	"fmt"
	"strings"
	"time"
)

// =====================================
// Predicate Builder
// =====================================

// PredicateBuilder constructs boolean tests over entity type T by field
// name. Field references are validated against the entity's metadata when
// the predicate is built, so a bad field name or an incompatible value
// type fails here, never inside a running query.
type PredicateBuilder[T any] struct {
	meta  *EntityMeta
	conds []Condition
	err   error
}

// NewPredicate creates a predicate builder for entity type T.
func NewPredicate[T any]() *PredicateBuilder[T] {
	meta, err := MetaFor[T]()
	return &PredicateBuilder[T]{meta: meta, err: err}
}

// Equals adds an exact-equality test on the named field.
func (b *PredicateBuilder[T]) Equals(field string, value interface{}) *PredicateBuilder[T] {
	f, ok := b.resolve(field)
	if !ok {
		return b
	}
	if !b.checkValue(f, value) {
		return b
	}
	b.conds = append(b.conds, BasicCondition{FieldName: f.Name, Op: OpEqual, Val: value})
	return b
}

// EqualsFold adds a case-insensitive equality test on a text field. Both
// operands are normalized identically by the adapter.
func (b *PredicateBuilder[T]) EqualsFold(field string, value string) *PredicateBuilder[T] {
	f, ok := b.resolveKind(field, KindText)
	if !ok {
		return b
	}
	b.conds = append(b.conds, BasicCondition{FieldName: f.Name, Op: OpEqualFold, Val: value})
	return b
}

// Contains adds a case-insensitive substring test on a text field.
func (b *PredicateBuilder[T]) Contains(field string, term string) *PredicateBuilder[T] {
	f, ok := b.resolveKind(field, KindText)
	if !ok {
		return b
	}
	b.conds = append(b.conds, BasicCondition{FieldName: f.Name, Op: OpContains, Val: term})
	return b
}

// Between adds an inclusive range test on a date field.
func (b *PredicateBuilder[T]) Between(field string, from, to time.Time) *PredicateBuilder[T] {
	f, ok := b.resolveKind(field, KindTime)
	if !ok {
		return b
	}
	b.conds = append(b.conds, BasicCondition{
		FieldName: f.Name,
		Op:        OpBetween,
		Val:       []interface{}{from, to},
	})
	return b
}

// NotID excludes the row with the given identity. This is the second half
// of the uniqueness idiom: "same value, different row".
func (b *PredicateBuilder[T]) NotID(id uint) *PredicateBuilder[T] {
	f, ok := b.resolveKind("ID", KindInteger)
	if !ok {
		return b
	}
	b.conds = append(b.conds, BasicCondition{FieldName: f.Name, Op: OpNotEqual, Val: id})
	return b
}

// Build combines the accumulated tests with AND.
func (b *PredicateBuilder[T]) Build() (Condition, error) {
	return b.build(LogicAnd)
}

// BuildOr combines the accumulated tests with OR.
func (b *PredicateBuilder[T]) BuildOr() (Condition, error) {
	return b.build(LogicOr)
}

func (b *PredicateBuilder[T]) build(logic LogicOperator) (Condition, error) {
	if b.err != nil {
		return nil, b.err
	}
	switch len(b.conds) {
	case 0:
		return nil, NewError(ErrorTypeInvalidArgument, "predicate has no conditions")
	case 1:
		return b.conds[0], nil
	default:
		return CompositeCondition{Conditions: b.conds, Logic: logic}, nil
	}
}

func (b *PredicateBuilder[T]) resolve(field string) (FieldMeta, bool) {
	if b.err != nil {
		return FieldMeta{}, false
	}
	f, err := b.meta.Field(field)
	if err != nil {
		b.err = err
		return FieldMeta{}, false
	}
	return f, true
}

func (b *PredicateBuilder[T]) resolveKind(field string, kind FieldKind) (FieldMeta, bool) {
	f, ok := b.resolve(field)
	if !ok {
		return FieldMeta{}, false
	}
	if f.Kind != kind {
		b.err = NewError(ErrorTypeTypeMismatch,
			fmt.Sprintf("field %s.%s does not support this comparison", b.meta.Name, field))
		return FieldMeta{}, false
	}
	return f, true
}

func (b *PredicateBuilder[T]) checkValue(f FieldMeta, value interface{}) bool {
	ok := true
	switch f.Kind {
	case KindText:
		_, ok = value.(string)
	case KindBool:
		_, ok = value.(bool)
	case KindTime:
		_, ok = value.(time.Time)
	case KindInteger:
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		default:
			ok = false
		}
	}
	if !ok {
		b.err = NewError(ErrorTypeTypeMismatch,
			fmt.Sprintf("value %T is not comparable with field %s.%s", value, b.meta.Name, f.Name))
	}
	return ok
}

// =====================================
// Recurring Idioms
// =====================================

// UniqueValue builds the uniqueness-guard predicate: rows whose field
// equals value, optionally excluding one identity. Text fields compare
// case-insensitively. Pass excludeID 0 to exclude nothing.
func UniqueValue[T any](field string, value interface{}, excludeID uint) (Condition, error) {
	b := NewPredicate[T]()
	f, ok := b.resolve(field)
	if !ok {
		return nil, b.err
	}
	if f.Kind == KindText {
		s, isStr := value.(string)
		if !isStr {
			return nil, NewError(ErrorTypeTypeMismatch,
				fmt.Sprintf("value %T is not comparable with text field %q", value, field))
		}
		b.EqualsFold(field, s)
	} else {
		b.Equals(field, value)
	}
	if excludeID != 0 {
		b.NotID(excludeID)
	}
	return b.Build()
}

// SearchAny builds the multi-field search predicate: rows where any of the
// listed text fields contains the term, case-insensitively.
func SearchAny[T any](term string, fields ...string) (Condition, error) {
	if strings.TrimSpace(term) == "" {
		return nil, NewError(ErrorTypeInvalidArgument, "search term is empty")
	}
	if len(fields) == 0 {
		return nil, NewError(ErrorTypeInvalidArgument, "search needs at least one field")
	}
	b := NewPredicate[T]()
	for _, field := range fields {
		b.Contains(field, term)
	}
	return b.BuildOr()
}

// ContainsPattern is the normalized LIKE pattern adapters use for
// OpContains values.
func ContainsPattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
