package staffdirgorm

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/staffdir/staffdir"
)

// buildQuery translates a staffdir.Query into a GORM query. Conditions
// and orders carry entity field names; they are resolved to columns here,
// against the entity's metadata, so an unknown name fails before any SQL
// is sent.
func (r *Repository[T]) buildQuery(db *gorm.DB, q *staffdir.Query, defaultScope staffdir.DeletedScope) (*gorm.DB, error) {
	for _, condition := range q.Conditions {
		clause, args, err := renderCondition(r.meta, condition)
		if err != nil {
			return nil, err
		}
		db = db.Where(clause, args...)
	}

	scope := q.Deleted
	if scope == staffdir.DeletedDefault {
		scope = defaultScope
	}
	switch scope {
	case staffdir.DeletedExclude:
		db = db.Where("is_deleted = ?", false)
	case staffdir.DeletedOnly:
		db = db.Where("is_deleted = ?", true)
	}

	for _, order := range q.Orders {
		f, err := r.meta.Field(order.Field)
		if err != nil {
			return nil, err
		}
		db = db.Order(fmt.Sprintf("%s %s", f.Column, order.Direction))
	}

	if q.Limit != nil {
		db = db.Limit(*q.Limit)
	}
	if q.Offset != nil {
		db = db.Offset(*q.Offset)
	}

	for _, relation := range q.Preloads {
		if !r.meta.HasRelation(relation) {
			return nil, staffdir.NewError(staffdir.ErrorTypeFieldNotFound,
				fmt.Sprintf("entity %s has no relation %q", r.meta.Name, relation))
		}
		db = db.Preload(relation)
	}

	return db, nil
}

// renderCondition renders a condition tree to a SQL fragment with
// placeholder arguments. Composites recurse and parenthesize.
func renderCondition(meta *staffdir.EntityMeta, condition staffdir.Condition) (string, []interface{}, error) {
	switch cond := condition.(type) {
	case staffdir.BasicCondition:
		return renderBasicCondition(meta, cond)
	case staffdir.CompositeCondition:
		if len(cond.Conditions) == 0 {
			return "", nil, staffdir.NewError(staffdir.ErrorTypeInvalidArgument,
				"composite condition has no conditions")
		}
		var parts []string
		var args []interface{}
		for _, sub := range cond.Conditions {
			clause, subArgs, err := renderCondition(meta, sub)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, clause)
			args = append(args, subArgs...)
		}
		joined := strings.Join(parts, fmt.Sprintf(" %s ", cond.Logic))
		return "(" + joined + ")", args, nil
	default:
		return "", nil, staffdir.NewError(staffdir.ErrorTypeUnsupported,
			fmt.Sprintf("unsupported condition type %T", condition))
	}
}

func renderBasicCondition(meta *staffdir.EntityMeta, cond staffdir.BasicCondition) (string, []interface{}, error) {
	f, err := meta.Field(cond.Field())
	if err != nil {
		return "", nil, err
	}
	column := f.Column
	value := cond.Value()

	switch cond.Operator() {
	case staffdir.OpEqualFold:
		// Both sides lowered so the comparison folds case on every dialect.
		return fmt.Sprintf("LOWER(%s) = LOWER(?)", column), []interface{}{value}, nil

	case staffdir.OpContains:
		term, ok := value.(string)
		if !ok {
			return "", nil, staffdir.NewError(staffdir.ErrorTypeTypeMismatch,
				fmt.Sprintf("contains value for field %q must be a string", cond.Field()))
		}
		return fmt.Sprintf("LOWER(%s) LIKE ?", column), []interface{}{staffdir.ContainsPattern(term)}, nil

	case staffdir.OpBetween:
		values, ok := value.([]interface{})
		if !ok || len(values) != 2 {
			return "", nil, staffdir.NewError(staffdir.ErrorTypeInvalidArgument,
				fmt.Sprintf("between condition on field %q needs exactly two bounds", cond.Field()))
		}
		return fmt.Sprintf("%s BETWEEN ? AND ?", column), values, nil

	case staffdir.OpIn:
		return fmt.Sprintf("%s IN ?", column), []interface{}{value}, nil

	case staffdir.OpIsNull:
		return fmt.Sprintf("%s IS NULL", column), nil, nil

	case staffdir.OpIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", column), nil, nil

	case staffdir.OpEqual, staffdir.OpNotEqual, staffdir.OpGreaterThan,
		staffdir.OpGreaterThanOrEqual, staffdir.OpLessThan, staffdir.OpLessThanOrEqual:
		return fmt.Sprintf("%s %s ?", column, cond.Operator()), []interface{}{value}, nil

	default:
		return "", nil, staffdir.NewError(staffdir.ErrorTypeUnsupported,
			fmt.Sprintf("unsupported operator %q", cond.Operator()))
	}
}
