package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mtreview/app/review/model"
)

func TestCreateQuestionReqValidate(t *testing.T) {
	valid := CreateQuestionReq{
		Language:      "Tagalog",
		Type:          "vocabulary",
		Question:      "Which word means 'dog'?",
		Options:       []string{"aso", "pusa", "ibon"},
		CorrectOption: 0,
	}
	assert.NoError(t, valid.validate())

	t.Run("missing language", func(t *testing.T) {
		r := valid
		r.Language = ""
		assert.Equal(t, KindValidation, KindOf(r.validate()))
	})
	t.Run("missing question", func(t *testing.T) {
		r := valid
		r.Question = ""
		assert.Error(t, r.validate())
	})
	t.Run("too few options", func(t *testing.T) {
		r := valid
		r.Options = []string{"aso"}
		assert.Error(t, r.validate())
	})
	t.Run("correctOption out of range", func(t *testing.T) {
		r := valid
		r.CorrectOption = 3
		assert.Error(t, r.validate())
		r.CorrectOption = -1
		assert.Error(t, r.validate())
	})
	t.Run("last option is valid", func(t *testing.T) {
		r := valid
		r.CorrectOption = 2
		assert.NoError(t, r.validate())
	})
}

// tallyBank builds n questions per language, all keyed to option 0.
func tallyBank(counts map[string]int) (map[primitive.ObjectID]model.ProficiencyQuestion, map[string][]primitive.ObjectID) {
	byID := make(map[primitive.ObjectID]model.ProficiencyQuestion)
	ids := make(map[string][]primitive.ObjectID)
	for lang, n := range counts {
		for i := 0; i < n; i++ {
			id := primitive.NewObjectID()
			byID[id] = model.ProficiencyQuestion{ID: id, Language: lang, CorrectOption: 0}
			ids[lang] = append(ids[lang], id)
		}
	}
	return byID, ids
}

func pick(ids []primitive.ObjectID, selected ...int) []ProficiencyAnswer {
	answers := make([]ProficiencyAnswer, len(selected))
	for i, s := range selected {
		answers[i] = ProficiencyAnswer{QuestionID: ids[i], SelectedOption: s}
	}
	return answers
}

func TestTallyProficiency(t *testing.T) {
	t.Run("perfect sitting", func(t *testing.T) {
		byID, ids := tallyBank(map[string]int{"Tagalog": 2, "Cebuano": 2})
		answers := append(pick(ids["Tagalog"], 0, 0), pick(ids["Cebuano"], 0, 0)...)
		result := tallyProficiency(answers, byID, []string{"Tagalog", "Cebuano"})
		assert.Equal(t, 4, result.TotalQuestions)
		assert.Equal(t, 4, result.CorrectAnswers)
		assert.Equal(t, 100.0, result.Score)
		assert.True(t, result.Passed)
		assert.Equal(t, LanguageBreakdown{Total: 2, Correct: 2, Score: 100}, result.ByLanguage["Tagalog"])
		assert.Equal(t, LanguageBreakdown{Total: 2, Correct: 2, Score: 100}, result.ByLanguage["Cebuano"])
	})

	t.Run("claimed language with nothing answered scores zero", func(t *testing.T) {
		byID, ids := tallyBank(map[string]int{"Tagalog": 2})
		result := tallyProficiency(pick(ids["Tagalog"], 0, 0), byID, []string{"Tagalog", "Ilocano"})
		entry, ok := result.ByLanguage["Ilocano"]
		assert.True(t, ok)
		assert.Equal(t, LanguageBreakdown{}, entry)
		assert.False(t, math.IsNaN(entry.Score))
	})

	t.Run("unknown question ids stay in the denominator", func(t *testing.T) {
		byID, ids := tallyBank(map[string]int{"Tagalog": 1})
		answers := append(pick(ids["Tagalog"], 0),
			ProficiencyAnswer{QuestionID: primitive.NewObjectID(), SelectedOption: 0})
		result := tallyProficiency(answers, byID, nil)
		assert.Equal(t, 2, result.TotalQuestions)
		assert.Equal(t, 1, result.CorrectAnswers)
		assert.Equal(t, 50.0, result.Score)
		assert.False(t, result.Passed)
		assert.Equal(t, LanguageBreakdown{Total: 1, Correct: 1, Score: 100}, result.ByLanguage["Tagalog"])
	})

	t.Run("duplicate answers to one question each count", func(t *testing.T) {
		byID, ids := tallyBank(map[string]int{"Tagalog": 1})
		id := ids["Tagalog"][0]
		answers := []ProficiencyAnswer{
			{QuestionID: id, SelectedOption: 0},
			{QuestionID: id, SelectedOption: 1},
		}
		result := tallyProficiency(answers, byID, nil)
		assert.Equal(t, 2, result.TotalQuestions)
		assert.Equal(t, 1, result.CorrectAnswers)
		assert.Equal(t, LanguageBreakdown{Total: 2, Correct: 1, Score: 50}, result.ByLanguage["Tagalog"])
	})

	t.Run("seventy percent is the pass bar", func(t *testing.T) {
		byID, ids := tallyBank(map[string]int{"Tagalog": 10})
		exact := tallyProficiency(pick(ids["Tagalog"], 0, 0, 0, 0, 0, 0, 0, 1, 1, 1), byID, nil)
		assert.Equal(t, 70.0, exact.Score)
		assert.True(t, exact.Passed)

		below := tallyProficiency(pick(ids["Tagalog"], 0, 0, 0, 0, 0, 0, 1, 1, 1, 1), byID, nil)
		assert.Equal(t, 60.0, below.Score)
		assert.False(t, below.Passed)
	})

	t.Run("no answers is zero, not NaN", func(t *testing.T) {
		result := tallyProficiency(nil, nil, []string{"Tagalog"})
		assert.Equal(t, 0.0, result.Score)
		assert.False(t, math.IsNaN(result.Score))
		assert.False(t, result.Passed)
	})
}

func TestListQuestionsFilter(t *testing.T) {
	t.Run("defaults to active only", func(t *testing.T) {
		assert.Equal(t, bson.M{"active": true}, ListQuestionsReq{}.filter())
	})
	t.Run("include inactive drops the flag", func(t *testing.T) {
		assert.Equal(t, bson.M{}, ListQuestionsReq{IncludeInactive: true}.filter())
	})
	t.Run("all facets", func(t *testing.T) {
		r := ListQuestionsReq{Language: "Cebuano", Type: "grammar", Difficulty: "advanced"}
		assert.Equal(t, bson.M{
			"active":     true,
			"language":   "Cebuano",
			"type":       "grammar",
			"difficulty": "advanced",
		}, r.filter())
	})
}
