package staffdir

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"
)

// =====================================
// Entity Metadata
// =====================================

// FieldKind classifies a field for predicate compatibility checks.
type FieldKind int

const (
	KindText FieldKind = iota
	KindInteger
	KindFloat
	KindBool
	KindTime
	KindOther
)

// FieldMeta describes one persisted field of an entity type.
type FieldMeta struct {
	Name     string
	Column   string
	GoType   reflect.Type
	Kind     FieldKind
	Nullable bool
}

// EntityMeta describes an entity type: its persisted fields, keyed by Go
// field name, and the names of its relation fields (pointers or slices of
// other entities, loadable via Preload).
type EntityMeta struct {
	Name      string
	Type      reflect.Type
	Fields    map[string]FieldMeta
	Relations map[string]bool
}

// HasRelation reports whether name is a loadable relation of the entity.
func (m *EntityMeta) HasRelation(name string) bool {
	return m.Relations[name]
}

// Field resolves a field by Go name, failing fast when it does not exist.
func (m *EntityMeta) Field(name string) (FieldMeta, error) {
	f, ok := m.Fields[name]
	if !ok {
		return FieldMeta{}, NewError(ErrorTypeFieldNotFound,
			fmt.Sprintf("entity %s has no field %q", m.Name, name))
	}
	return f, nil
}

var (
	metaMu    sync.RWMutex
	metaCache = map[reflect.Type]*EntityMeta{}
)

// MetaFor returns the cached metadata for entity type T.
func MetaFor[T any]() (*EntityMeta, error) {
	var zero T
	return MetaOf(reflect.TypeOf(zero))
}

// MetaOf returns the cached metadata for the given entity type.
func MetaOf(t reflect.Type) (*EntityMeta, error) {
	if t == nil {
		return nil, NewError(ErrorTypeInvalidArgument, "nil entity type")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, NewError(ErrorTypeInvalidArgument,
			fmt.Sprintf("entity type %s is not a struct", t))
	}

	metaMu.RLock()
	meta, ok := metaCache[t]
	metaMu.RUnlock()
	if ok {
		return meta, nil
	}

	meta = &EntityMeta{
		Name:      t.Name(),
		Type:      t,
		Fields:    map[string]FieldMeta{},
		Relations: map[string]bool{},
	}
	collectFields(t, meta)

	metaMu.Lock()
	metaCache[t] = meta
	metaMu.Unlock()
	return meta, nil
}

func collectFields(t reflect.Type, meta *EntityMeta) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}
		ft := f.Type

		// Embedded structs are flattened the way the stores flatten them.
		if f.Anonymous {
			et := ft
			if et.Kind() == reflect.Ptr {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct && et != timeType {
				collectFields(et, meta)
				continue
			}
		}

		if isRelation(ft) {
			meta.Relations[f.Name] = true
			continue
		}

		meta.Fields[f.Name] = FieldMeta{
			Name:     f.Name,
			Column:   ToSnake(f.Name),
			GoType:   ft,
			Kind:     classify(ft),
			Nullable: ft.Kind() == reflect.Ptr,
		}
	}
}

var timeType = reflect.TypeOf(time.Time{})

func isRelation(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr:
		return t.Elem().Kind() == reflect.Struct && t.Elem() != timeType
	case reflect.Slice:
		et := t.Elem()
		if et.Kind() == reflect.Ptr {
			et = et.Elem()
		}
		return et.Kind() == reflect.Struct
	default:
		return false
	}
}

func classify(t reflect.Type) FieldKind {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == timeType {
		return KindTime
	}
	switch t.Kind() {
	case reflect.String:
		return KindText
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInteger
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Bool:
		return KindBool
	default:
		return KindOther
	}
}

// ToSnake converts a Go field name to the column name both store adapters
// use: SerialNumber -> serial_number, RoleID -> role_id.
func ToSnake(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
