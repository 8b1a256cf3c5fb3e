package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/common/util"
)

const (
	TestStatusInProgress = "in_progress"
	TestStatusCompleted  = "completed"
	TestStatusFailed     = "failed"
)

// CalibrationQuestion is static test content; read-only at grading time.
type CalibrationQuestion struct {
	ID              string   `bson:"id" json:"id"`
	SourceText      string   `bson:"sourceText" json:"sourceText"`
	TargetText      string   `bson:"targetText" json:"targetText"`
	SourceLanguage  string   `bson:"sourceLanguage" json:"sourceLanguage"`
	TargetLanguage  string   `bson:"targetLanguage" json:"targetLanguage"`
	CorrectFluency  int      `bson:"correctFluency" json:"-"`
	CorrectAdequacy int      `bson:"correctAdequacy" json:"-"`
	ErrorCategories []string `bson:"errorCategories" json:"-"`
	Explanation     string   `bson:"explanation" json:"-"`
}

// CalibrationAnswer is a worker's free-form estimate for one question.
type CalibrationAnswer struct {
	QuestionID       string   `bson:"questionId" json:"questionId"`
	FluencyScore     int      `bson:"fluencyScore" json:"fluencyScore"`
	AdequacyScore    int      `bson:"adequacyScore" json:"adequacyScore"`
	IdentifiedErrors []string `bson:"identifiedErrors" json:"identifiedErrors"`
}

// ScoreDetail records how a grading run arrived at its percentage.
type ScoreDetail struct {
	PointsEarned float64 `bson:"pointsEarned" json:"pointsEarned"`
	PointsMax    float64 `bson:"pointsMax" json:"pointsMax"`
	Percentage   float64 `bson:"percentage" json:"percentage"`
}

// OnboardingTest is one calibration attempt. A worker has at most one
// in_progress test at a time.
type OnboardingTest struct {
	ID          primitive.ObjectID    `bson:"_id" json:"id"`
	WorkerID    primitive.ObjectID    `bson:"workerId" json:"workerId"`
	Language    string                `bson:"language" json:"language"`
	Questions   []CalibrationQuestion `bson:"questions" json:"questions"`
	Answers     []CalibrationAnswer   `bson:"answers,omitempty" json:"answers,omitempty"`
	Score       *float64              `bson:"score,omitempty" json:"score,omitempty"`
	Detail      *ScoreDetail          `bson:"detail,omitempty" json:"detail,omitempty"`
	Status      string                `bson:"status" json:"status"`
	StartedAt   util.Datetime         `bson:"startedAt" json:"startedAt"`
	CompletedAt *util.Datetime        `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}
