package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/common/util"
)

const (
	EvaluationStatusInProgress = "in_progress"
	EvaluationStatusCompleted  = "completed"
)

// Evaluation is a second-tier reviewer's judgment of a completed
// annotation. At most one exists per (annotationId, evaluatorId).
type Evaluation struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	AnnotationID primitive.ObjectID `bson:"annotationId" json:"annotationId"`
	EvaluatorID  primitive.ObjectID `bson:"evaluatorId" json:"evaluatorId"`

	// 1-5 scale
	AnnotationQualityScore *int `bson:"annotationQualityScore,omitempty" json:"annotationQualityScore,omitempty"`
	AccuracyScore          *int `bson:"accuracyScore,omitempty" json:"accuracyScore,omitempty"`
	CompletenessScore      *int `bson:"completenessScore,omitempty" json:"completenessScore,omitempty"`
	OverallScore           *int `bson:"overallScore,omitempty" json:"overallScore,omitempty"`

	Feedback         string        `bson:"feedback,omitempty" json:"feedback,omitempty"`
	EvaluationNotes  string        `bson:"evaluationNotes,omitempty" json:"evaluationNotes,omitempty"`
	TimeSpentSeconds *int          `bson:"timeSpentSeconds,omitempty" json:"timeSpentSeconds,omitempty"`
	Status           string        `bson:"status" json:"status"`
	CreatedAt        util.Datetime `bson:"createdAt" json:"createdAt"`
	UpdatedAt        util.Datetime `bson:"updatedAt" json:"updatedAt"`
}
