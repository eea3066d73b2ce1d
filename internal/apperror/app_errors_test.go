package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoot(t *testing.T) {
	t.Run("Unwraps to the sentinel", func(t *testing.T) {
		err := fmt.Errorf("failed to make turn: %w", fmt.Errorf("invalid turn: %w", ErrCellOccupied))

		assert.Equal(t, ErrCellOccupied, Root(err))
	})

	t.Run("Bare error is its own root", func(t *testing.T) {
		assert.Equal(t, ErrGameFinished, Root(ErrGameFinished))
	})

	t.Run("Nil stays nil", func(t *testing.T) {
		assert.NoError(t, Root(nil))
	})

	t.Run("Joined errors are not split", func(t *testing.T) {
		err := errors.Join(ErrInvalidCell, ErrInvalidMark)

		assert.Equal(t, err, Root(err))
	})
}
