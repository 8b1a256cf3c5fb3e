package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"mtreview/app/review/model"
)

func TestDedupHighlights(t *testing.T) {
	a := model.Highlight{HighlightedText: "maganda", StartIndex: 14, EndIndex: 21, TextType: "target", ErrorCategory: model.ErrorCategoryMinorStylistic}
	b := model.Highlight{HighlightedText: "panahon", StartIndex: 4, EndIndex: 11, TextType: "target", ErrorCategory: model.ErrorCategoryMinorSemantic}

	t.Run("nil input yields empty slice", func(t *testing.T) {
		got := DedupHighlights(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
	t.Run("exact duplicate dropped", func(t *testing.T) {
		got := DedupHighlights([]model.Highlight{a, b, a})
		assert.Equal(t, []model.Highlight{a, b}, got)
	})
	t.Run("first-seen order kept", func(t *testing.T) {
		got := DedupHighlights([]model.Highlight{b, a, b, a, b})
		assert.Equal(t, []model.Highlight{b, a}, got)
	})
	t.Run("different comment is a different highlight", func(t *testing.T) {
		commented := a
		commented.Comment = "awkward phrasing"
		got := DedupHighlights([]model.Highlight{a, commented})
		assert.Len(t, got, 2)
	})
	t.Run("idempotent", func(t *testing.T) {
		once := DedupHighlights([]model.Highlight{a, a, b})
		twice := DedupHighlights(once)
		assert.Equal(t, once, twice)
	})
}

func TestValidateScale(t *testing.T) {
	valid := 3
	low := 0
	high := 6

	assert.NoError(t, validateScale("fluencyScore", nil))
	assert.NoError(t, validateScale("fluencyScore", &valid))

	err := validateScale("fluencyScore", &low)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.EqualError(t, err, "fluencyScore must be between 1 and 5")

	assert.Error(t, validateScale("adequacyScore", &high))
}

func TestSetIfPresent(t *testing.T) {
	set := bson.M{}
	score := 4
	var absent *string

	setIfPresent(set, "fluencyScore", &score)
	setIfPresent(set, "comments", absent)

	assert.Equal(t, bson.M{"fluencyScore": 4}, set)
}
