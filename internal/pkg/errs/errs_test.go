//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"sensea-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkIsVisibleToErrorsIs(t *testing.T) {
	cause := errors.New("ERROR: conflicting key value violates exclusion constraint (SQLSTATE 23P01)")

	err := errs.Mark(cause, errs.ErrSlotTaken)
	assert.ErrorIs(t, err, errs.ErrSlotTaken, "handlers match sentinels with stdlib errors.Is")
	assert.ErrorIs(t, err, cause, "the original cause stays in the chain")
}

func TestMarkNilCauseReturnsSentinel(t *testing.T) {
	err := errs.Mark(nil, errs.ErrBookingNotFound)
	require.ErrorIs(t, err, errs.ErrBookingNotFound)
}

func TestMarkStacks(t *testing.T) {
	// Two layers of marking, as when a repository error is marked by the
	// usecase and again at a boundary.
	err := errs.Mark(errs.Mark(errors.New("root"), errs.ErrDatabaseOperationFailed), errs.ErrSlotUnavailable)
	assert.ErrorIs(t, err, errs.ErrSlotUnavailable)
	assert.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, errs.Wrap(nil, "ignored"))
}
