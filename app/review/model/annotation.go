package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/common/util"
)

const (
	AnnotationStatusInProgress = "in_progress"
	AnnotationStatusCompleted  = "completed"
	AnnotationStatusReviewed   = "reviewed"
)

// Highlight error categories: minor/major × stylistic/semantic.
const (
	ErrorCategoryMinorStylistic = "MI_ST"
	ErrorCategoryMinorSemantic  = "MI_SE"
	ErrorCategoryMajorStylistic = "MA_ST"
	ErrorCategoryMajorSemantic  = "MA_SE"
)

// Annotation is one worker's quality judgment of one work item. Highlights
// are embedded so the record and its highlight set commit together.
// At most one annotation exists per (workItemId, annotatorId); the unique
// index enforces it.
type Annotation struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	WorkItemID  primitive.ObjectID `bson:"workItemId" json:"workItemId"`
	AnnotatorID primitive.ObjectID `bson:"annotatorId" json:"annotatorId"`

	// 1-5 scale
	FluencyScore   *int `bson:"fluencyScore,omitempty" json:"fluencyScore,omitempty"`
	AdequacyScore  *int `bson:"adequacyScore,omitempty" json:"adequacyScore,omitempty"`
	OverallQuality *int `bson:"overallQuality,omitempty" json:"overallQuality,omitempty"`

	ErrorsFound         string `bson:"errorsFound,omitempty" json:"errorsFound,omitempty"`
	SuggestedCorrection string `bson:"suggestedCorrection,omitempty" json:"suggestedCorrection,omitempty"`
	Comments            string `bson:"comments,omitempty" json:"comments,omitempty"`
	FinalForm           string `bson:"finalForm,omitempty" json:"finalForm,omitempty"`

	// Opaque reference into the attachment store; never the bytes.
	VoiceRecordingURL      string `bson:"voiceRecordingUrl,omitempty" json:"voiceRecordingUrl,omitempty"`
	VoiceRecordingDuration *int   `bson:"voiceRecordingDuration,omitempty" json:"voiceRecordingDuration,omitempty"`

	TimeSpentSeconds *int          `bson:"timeSpentSeconds,omitempty" json:"timeSpentSeconds,omitempty"`
	Status           string        `bson:"status" json:"status"`
	Highlights       []Highlight   `bson:"highlights" json:"highlights"`
	CreatedAt        util.Datetime `bson:"createdAt" json:"createdAt"`
	UpdatedAt        util.Datetime `bson:"updatedAt" json:"updatedAt"`
}

// Highlight is a marked span of the target text. Identity for dedup is
// (StartIndex, EndIndex, TextType, Comment).
type Highlight struct {
	HighlightedText string `bson:"highlightedText" json:"highlightedText"`
	StartIndex      int    `bson:"startIndex" json:"startIndex"`
	EndIndex        int    `bson:"endIndex" json:"endIndex"`
	TextType        string `bson:"textType" json:"textType"`
	ErrorCategory   string `bson:"errorCategory" json:"errorCategory"`
	Comment         string `bson:"comment,omitempty" json:"comment,omitempty"`
}
