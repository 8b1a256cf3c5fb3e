package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/common/util"
)

// WorkItem is one source/machine-translation sentence pair. Created by
// administrators, never mutated by workers, soft-deleted via Active=false.
type WorkItem struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	SourceText     string             `bson:"sourceText" json:"sourceText"`
	TargetText     string             `bson:"targetText" json:"targetText"`
	SourceLanguage string             `bson:"sourceLanguage" json:"sourceLanguage"`
	TargetLanguage string             `bson:"targetLanguage" json:"targetLanguage"`
	Domain         string             `bson:"domain,omitempty" json:"domain,omitempty"`
	Active         bool               `bson:"active" json:"active"`
	CreatedAt      util.Datetime      `bson:"createdAt" json:"createdAt"`
}
