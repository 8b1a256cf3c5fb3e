package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/common/util"
)

const (
	OnboardingPending    = "pending"
	OnboardingInProgress = "in_progress"
	OnboardingCompleted  = "completed"
	OnboardingFailed     = "failed"
)

// Worker is an annotator account. OnboardingStatus is the sole gate on
// lifecycle-mutating operations.
type Worker struct {
	ID                primitive.ObjectID `bson:"_id" json:"id"`
	Username          string             `bson:"username" json:"username"`
	PreferredLanguage string             `bson:"preferredLanguage" json:"preferredLanguage"`
	Languages         []string           `bson:"languages" json:"languages"`
	Active            bool               `bson:"active" json:"active"`
	IsAdmin           bool               `bson:"isAdmin" json:"isAdmin"`
	IsEvaluator       bool               `bson:"isEvaluator" json:"isEvaluator"`
	GuidelinesSeen    bool               `bson:"guidelinesSeen" json:"guidelinesSeen"`
	OnboardingStatus  string             `bson:"onboardingStatus" json:"onboardingStatus"`
	OnboardingScore   *float64           `bson:"onboardingScore,omitempty" json:"onboardingScore,omitempty"`
	OnboardedAt       *util.Datetime     `bson:"onboardedAt,omitempty" json:"onboardedAt,omitempty"`
	CreatedAt         util.Datetime      `bson:"createdAt" json:"createdAt"`
}
