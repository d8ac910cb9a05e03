package staffdirgorm

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/staffdir/staffdir"
)

// convertGormError maps GORM errors onto the module's error taxonomy. A
// fault the store could not classify is a storage error, never silently
// absorbed into an empty result.
func convertGormError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeNotFound,
			"record not found", err)
	case errors.Is(err, gorm.ErrInvalidTransaction):
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeTransaction,
			"invalid transaction", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeDuplicate,
			"duplicate key violation", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeConstraint,
			"foreign key violation", err)
	case errors.Is(err, gorm.ErrMissingWhereClause):
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeValidation,
			"missing where clause", err)
	case errors.Is(err, gorm.ErrPrimaryKeyRequired):
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeValidation,
			"primary key required", err)
	case errors.Is(err, gorm.ErrInvalidData):
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeValidation,
			"invalid data", err)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "duplicate") || strings.Contains(errStr, "unique"):
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeDuplicate,
			"duplicate key violation", err)
	case strings.Contains(errStr, "foreign key") || strings.Contains(errStr, "constraint"):
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeConstraint,
			"constraint violation", err)
	case strings.Contains(errStr, "timeout"):
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeTimeout,
			"operation timeout", err)
	default:
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeStorage,
			"database operation failed", err)
	}
}
