package staffdirbun

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/staffdir/staffdir"
)

// convertBunError maps database/sql and driver errors onto the module's
// error taxonomy. A fault the store could not classify is a storage
// error, never silently absorbed into an empty result.
func convertBunError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeNotFound,
			"record not found", err)
	}
	if errors.Is(err, sql.ErrTxDone) {
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeTransaction,
			"transaction already finished", err)
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
