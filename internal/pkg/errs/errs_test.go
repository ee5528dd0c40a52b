//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"salon-scheduler/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMark(t *testing.T) {
	t.Run("marked error matches its marker and keeps the cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.Mark(cause, errs.ErrInternal)

		assert.True(t, errs.Is(err, errs.ErrInternal))
		assert.True(t, errs.Is(err, cause))
		assert.False(t, errs.Is(err, errs.ErrConflict))
	})

	t.Run("nil error returns the marker itself", func(t *testing.T) {
		err := errs.Mark(nil, errs.ErrNotFound)
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})

	t.Run("wrapping keeps the marker reachable", func(t *testing.T) {
		err := errs.Wrap(errs.Mark(errors.New("boom"), errs.ErrConflict), "reserve slot")
		assert.True(t, errs.Is(err, errs.ErrConflict))
		assert.Contains(t, err.Error(), "reserve slot")
	})
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, errs.Wrap(nil, "ignored"))
}

func TestExtractStackLines(t *testing.T) {
	assert.Nil(t, errs.ExtractStackLines(nil, 5))

	lines := errs.ExtractStackLines(errs.New("with stack"), 3)
	assert.LessOrEqual(t, len(lines), 3)
	assert.Contains(t, lines[0], "with stack")
}
