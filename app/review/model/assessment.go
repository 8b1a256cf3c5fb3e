package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/common/util"
)

const AssessmentStatusCompleted = "completed"

const (
	SeverityMinor    = "minor"
	SeverityMajor    = "major"
	SeverityCritical = "critical"
)

// Syntax error categories.
const (
	SyntaxErrGrammar     = "grammar"
	SyntaxErrWordOrder   = "word_order"
	SyntaxErrPunctuation = "punctuation"
)

// Semantic error categories.
const (
	SemanticErrMistranslation = "mistranslation"
	SemanticErrOmission       = "omission"
	SemanticErrAddition       = "addition"
	SemanticErrWrongSense     = "wrong_sense"
)

// TranslationError is a value object embedded in a QualityAssessment; it
// has no identity of its own.
type TranslationError struct {
	Category     string `bson:"category" json:"category"`
	Severity     string `bson:"severity" json:"severity"`
	Start        int    `bson:"start" json:"start"`
	End          int    `bson:"end" json:"end"`
	SpanText     string `bson:"spanText" json:"spanText"`
	Description  string `bson:"description" json:"description"`
	SuggestedFix string `bson:"suggestedFix,omitempty" json:"suggestedFix,omitempty"`
}

// QualityAssessment is one simulated-model scoring of a work item by an
// evaluator. At most one exists per (workItemId, evaluatorId). Records are
// additive: after creation only the human-override fields change.
type QualityAssessment struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	WorkItemID  primitive.ObjectID `bson:"workItemId" json:"workItemId"`
	EvaluatorID primitive.ObjectID `bson:"evaluatorId" json:"evaluatorId"`

	// Continuous 1-5 scale.
	FluencyScore  float64 `bson:"fluencyScore" json:"fluencyScore"`
	AdequacyScore float64 `bson:"adequacyScore" json:"adequacyScore"`
	OverallScore  float64 `bson:"overallScore" json:"overallScore"`

	SyntaxErrors   []TranslationError `bson:"syntaxErrors" json:"syntaxErrors"`
	SemanticErrors []TranslationError `bson:"semanticErrors" json:"semanticErrors"`

	Explanation           string   `bson:"explanation" json:"explanation"`
	CorrectionSuggestions []string `bson:"correctionSuggestions" json:"correctionSuggestions"`

	ModelConfidence  float64 `bson:"modelConfidence" json:"modelConfidence"` // 0-1
	ProcessingTimeMs int64   `bson:"processingTimeMs" json:"processingTimeMs"`
	TimeSpentSeconds *int    `bson:"timeSpentSeconds,omitempty" json:"timeSpentSeconds,omitempty"`

	// Human overrides; never touched by the model.
	HumanFeedback   string `bson:"humanFeedback,omitempty" json:"humanFeedback,omitempty"`
	CorrectionNotes string `bson:"correctionNotes,omitempty" json:"correctionNotes,omitempty"`

	Status    string        `bson:"status" json:"status"`
	CreatedAt util.Datetime `bson:"createdAt" json:"createdAt"`
	UpdatedAt util.Datetime `bson:"updatedAt" json:"updatedAt"`
}

func (a QualityAssessment) Overridden() bool {
	return a.HumanFeedback != "" || a.CorrectionNotes != ""
}
