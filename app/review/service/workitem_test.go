package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateWorkItemReqValidate(t *testing.T) {
	valid := CreateWorkItemReq{
		SourceText:     "Good morning.",
		TargetText:     "Magandang umaga.",
		SourceLanguage: "English",
		TargetLanguage: "Tagalog",
	}
	assert.NoError(t, valid.validate())

	t.Run("blank target text", func(t *testing.T) {
		r := valid
		r.TargetText = "   "
		assert.Equal(t, KindValidation, KindOf(r.validate()))
	})
	t.Run("missing languages", func(t *testing.T) {
		r := valid
		r.TargetLanguage = ""
		assert.Error(t, r.validate())
	})
}

func TestCreateWorkItemReqToModel(t *testing.T) {
	r := CreateWorkItemReq{
		SourceText:     "Good morning.",
		TargetText:     "Magandang umaga.",
		SourceLanguage: "English",
		TargetLanguage: "Tagalog",
		Domain:         "general",
	}
	item := r.toModel()
	assert.False(t, item.ID.IsZero())
	assert.True(t, item.Active)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Equal(t, "Magandang umaga.", item.TargetText)
	assert.Equal(t, "general", item.Domain)
}
