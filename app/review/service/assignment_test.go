package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/app/review/model"
)

func TestUnassignedFilter(t *testing.T) {
	worker := model.Worker{PreferredLanguage: "Tagalog"}

	t.Run("nothing annotated yet", func(t *testing.T) {
		got := unassignedFilter(worker, nil)
		assert.Equal(t, bson.M{"active": true, "targetLanguage": "Tagalog"}, got)
	})
	t.Run("annotated items excluded", func(t *testing.T) {
		seen := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
		got := unassignedFilter(worker, seen)
		assert.Equal(t, bson.M{
			"active":         true,
			"targetLanguage": "Tagalog",
			"_id":            bson.M{"$nin": seen},
		}, got)
	})
}
