package datasmith_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datasmithhq/datasmith"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", datasmith.ErrorCode(nil))
	})

	t.Run("coded error", func(t *testing.T) {
		t.Parallel()
		err := datasmith.Errorf(datasmith.ENOTFOUND, "source not found")
		assert.Equal(t, datasmith.ENOTFOUND, datasmith.ErrorCode(err))
	})

	t.Run("wrapped coded error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("dispatch: %w", datasmith.Errorf(datasmith.EINVALID, "bad selector"))
		assert.Equal(t, datasmith.EINVALID, datasmith.ErrorCode(err))
	})

	t.Run("plain error defaults to internal", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, datasmith.EINTERNAL, datasmith.ErrorCode(errors.New("boom")))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", datasmith.ErrorMessage(nil))
	})

	t.Run("coded error", func(t *testing.T) {
		t.Parallel()
		err := datasmith.Errorf(datasmith.EINVALID, "topic required")
		assert.Equal(t, "topic required", datasmith.ErrorMessage(err))
	})

	t.Run("plain error is masked", func(t *testing.T) {
		t.Parallel()
		msg := datasmith.ErrorMessage(errors.New("secret detail"))
		assert.NotContains(t, msg, "secret detail")
	})
}
