package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/common/util"
)

// Proficiency question types.
const (
	QuestionTypeGrammar       = "grammar"
	QuestionTypeVocabulary    = "vocabulary"
	QuestionTypeTranslation   = "translation"
	QuestionTypeCultural      = "cultural"
	QuestionTypeComprehension = "comprehension"
)

const (
	DifficultyBasic        = "basic"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// ProficiencyQuestion is one multiple-choice item in the language exam.
// Created and edited only by administrators.
type ProficiencyQuestion struct {
	ID            primitive.ObjectID  `bson:"_id" json:"id"`
	Language      string              `bson:"language" json:"language"`
	Type          string              `bson:"type" json:"type"`
	Question      string              `bson:"question" json:"question"`
	Options       []string            `bson:"options" json:"options"`
	CorrectOption int                 `bson:"correctOption" json:"correctOption"`
	Explanation   string              `bson:"explanation" json:"explanation"`
	Difficulty    string              `bson:"difficulty" json:"difficulty"`
	Active        bool                `bson:"active" json:"active"`
	CreatedBy     *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt     util.Datetime       `bson:"createdAt" json:"createdAt"`
	UpdatedAt     util.Datetime       `bson:"updatedAt" json:"updatedAt"`
}

// PublicQuestion is the worker-facing view with the answer key stripped.
type PublicQuestion struct {
	ID         primitive.ObjectID `json:"id"`
	Language   string             `json:"language"`
	Type       string             `json:"type"`
	Question   string             `json:"question"`
	Options    []string           `json:"options"`
	Difficulty string             `json:"difficulty"`
}

func (q ProficiencyQuestion) Public() PublicQuestion {
	return PublicQuestion{
		ID:         q.ID,
		Language:   q.Language,
		Type:       q.Type,
		Question:   q.Question,
		Options:    q.Options,
		Difficulty: q.Difficulty,
	}
}

// QuestionAnswer is one graded answer in a proficiency sitting. Rows are
// append-only: the audit trail is never updated.
type QuestionAnswer struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	WorkerID       primitive.ObjectID `bson:"workerId" json:"workerId"`
	QuestionID     primitive.ObjectID `bson:"questionId" json:"questionId"`
	SelectedOption int                `bson:"selectedOption" json:"selectedOption"`
	IsCorrect      bool               `bson:"isCorrect" json:"isCorrect"`
	SessionID      string             `bson:"sessionId" json:"sessionId"`
	AnsweredAt     util.Datetime      `bson:"answeredAt" json:"answeredAt"`
}
