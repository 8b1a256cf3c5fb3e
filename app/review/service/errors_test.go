package service

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindAccessDenied, KindOf(AccessDenied("admin only")))
	assert.Equal(t, KindConflict, KindOf(Conflict("already annotated")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("work item %s not found", "abc")))
	assert.Equal(t, KindValidation, KindOf(Invalid("workItemId is required")))

	t.Run("wrapped errors keep their kind", func(t *testing.T) {
		wrapped := errors.Wrap(NotFound("annotation not found"), "delete annotation")
		assert.Equal(t, KindNotFound, KindOf(wrapped))
	})
	t.Run("unclassified errors have no kind", func(t *testing.T) {
		assert.Equal(t, Kind(""), KindOf(ErrDatabase))
		assert.Equal(t, Kind(""), KindOf(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	err := Invalid("%s must be between 1 and 5", "overallQuality")
	assert.EqualError(t, err, "overallQuality must be between 1 and 5")
}
