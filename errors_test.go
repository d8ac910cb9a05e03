package staffdir

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(ErrorTypeNotFound, "user 7 not found")
	assert.Equal(t, "not_found: user 7 not found", err.Error())

	cause := fmt.Errorf("connection refused")
	wrapped := NewErrorWithCause(ErrorTypeStorage, "database operation failed", cause)
	assert.Contains(t, wrapped.Error(), "storage")
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	wrapped := NewErrorWithCause(ErrorTypeStorage, "database operation failed", cause)

	assert.Equal(t, cause, errors.Unwrap(wrapped))
	assert.True(t, errors.Is(wrapped, cause))
}

func TestErrorIsMatchesOnType(t *testing.T) {
	err := NewErrorWithCause(ErrorTypeDuplicate, "email taken", fmt.Errorf("unique violation"))
	assert.True(t, errors.Is(err, NewError(ErrorTypeDuplicate, "")))
	assert.False(t, errors.Is(err, NewError(ErrorTypeNotFound, "")))
}

func TestErrorTypePredicates(t *testing.T) {
	cases := []struct {
		err   error
		check func(error) bool
	}{
		{NewError(ErrorTypeNotFound, ""), IsNotFound},
		{NewError(ErrorTypeDuplicate, ""), IsDuplicate},
		{NewError(ErrorTypeInvalidArgument, ""), IsInvalidArgument},
		{NewError(ErrorTypeInvalidCredentials, ""), IsInvalidCredentials},
		{NewError(ErrorTypeStorage, ""), IsStorage},
		{NewError(ErrorTypeConflict, ""), IsConflict},
		{NewError(ErrorTypeFieldNotFound, ""), IsFieldNotFound},
		{NewError(ErrorTypeTypeMismatch, ""), IsTypeMismatch},
	}
	for _, tc := range cases {
		assert.True(t, tc.check(tc.err))
	}

	// Storage faults and empty results stay distinguishable.
	assert.False(t, IsNotFound(NewError(ErrorTypeStorage, "")))
	assert.False(t, IsStorage(NewError(ErrorTypeNotFound, "")))

	// Plain errors match no type.
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}
