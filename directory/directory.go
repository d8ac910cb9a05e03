// Package directory implements the record services of the staff
// directory on top of the generic repositories: users, roles,
// departments, notes, and page content. Services validate input, enforce
// the uniqueness and referential guards the stores cannot express, and
// commit through the repository unit of work.
package directory

import (
	"github.com/go-playground/validator/v10"

	"github.com/staffdir/staffdir"
)

var validate = validator.New()

// checkInput validates a tagged input struct, reporting a validation
// error that carries the validator's detail as its cause.
func checkInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return staffdir.NewErrorWithCause(staffdir.ErrorTypeValidation,
			"invalid input", err)
	}
	return nil
}
