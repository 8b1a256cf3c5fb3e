package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mtreview/app/review/model"
)

func TestGradeQuestion(t *testing.T) {
	clean := model.CalibrationQuestion{
		ID:              "1",
		CorrectFluency:  5,
		CorrectAdequacy: 5,
		ErrorCategories: []string{},
	}
	flawed := model.CalibrationQuestion{
		ID:              "3",
		CorrectFluency:  2,
		CorrectAdequacy: 3,
		ErrorCategories: []string{model.ErrorCategoryMinorSemantic, model.ErrorCategoryMajorSemantic},
	}

	t.Run("perfect answer on clean question", func(t *testing.T) {
		score := gradeQuestion(clean, model.CalibrationAnswer{
			QuestionID: "1", FluencyScore: 5, AdequacyScore: 5,
		})
		assert.Equal(t, 20.0, score)
	})
	t.Run("score distance reduces points", func(t *testing.T) {
		score := gradeQuestion(clean, model.CalibrationAnswer{
			QuestionID: "1", FluencyScore: 3, AdequacyScore: 4,
		})
		// 3 for fluency, 4 for adequacy, full 10 for no flagged errors.
		assert.Equal(t, 17.0, score)
	})
	t.Run("fluency off by three", func(t *testing.T) {
		score := gradeQuestion(clean, model.CalibrationAnswer{
			QuestionID: "1", FluencyScore: 2, AdequacyScore: 5,
		})
		// 2 + 5 + 10.
		assert.Equal(t, 17.0, score)
	})
	t.Run("score distance floors at zero", func(t *testing.T) {
		wayOff := model.CalibrationQuestion{CorrectFluency: 1, CorrectAdequacy: 1}
		score := gradeQuestion(wayOff, model.CalibrationAnswer{
			FluencyScore: 10, AdequacyScore: 1,
		})
		// 0 for fluency, 5 for adequacy, 10 for the empty error sets.
		assert.Equal(t, 15.0, score)
	})
	t.Run("false positive on clean question forfeits error points", func(t *testing.T) {
		score := gradeQuestion(clean, model.CalibrationAnswer{
			QuestionID: "1", FluencyScore: 5, AdequacyScore: 5,
			IdentifiedErrors: []string{model.ErrorCategoryMinorStylistic},
		})
		assert.Equal(t, 10.0, score)
	})
	t.Run("full error identification", func(t *testing.T) {
		score := gradeQuestion(flawed, model.CalibrationAnswer{
			QuestionID: "3", FluencyScore: 2, AdequacyScore: 3,
			IdentifiedErrors: []string{model.ErrorCategoryMinorSemantic, model.ErrorCategoryMajorSemantic},
		})
		assert.Equal(t, 20.0, score)
	})
	t.Run("partial hits with a false positive", func(t *testing.T) {
		score := gradeQuestion(flawed, model.CalibrationAnswer{
			QuestionID: "3", FluencyScore: 2, AdequacyScore: 3,
			IdentifiedErrors: []string{model.ErrorCategoryMinorSemantic, model.ErrorCategoryMajorStylistic},
		})
		// 5 + 5 + (1/2 * 10 - 2).
		assert.Equal(t, 13.0, score)
	})
	t.Run("duplicate identifications count once", func(t *testing.T) {
		score := gradeQuestion(flawed, model.CalibrationAnswer{
			QuestionID: "3", FluencyScore: 2, AdequacyScore: 3,
			IdentifiedErrors: []string{
				model.ErrorCategoryMinorSemantic,
				model.ErrorCategoryMinorSemantic,
				model.ErrorCategoryMajorSemantic,
			},
		})
		assert.Equal(t, 20.0, score)
	})
	t.Run("error penalty floors at zero", func(t *testing.T) {
		score := gradeQuestion(flawed, model.CalibrationAnswer{
			QuestionID: "3", FluencyScore: 2, AdequacyScore: 3,
			IdentifiedErrors: []string{
				model.ErrorCategoryMinorStylistic,
				model.ErrorCategoryMajorStylistic,
			},
		})
		assert.Equal(t, 10.0, score)
	})
	t.Run("missed errors earn nothing for identification", func(t *testing.T) {
		score := gradeQuestion(flawed, model.CalibrationAnswer{
			QuestionID: "3", FluencyScore: 2, AdequacyScore: 3,
		})
		assert.Equal(t, 10.0, score)
	})
}

func TestCalibrationBank(t *testing.T) {
	assert.Len(t, calibrationBank, 3)
	for _, q := range calibrationBank {
		assert.NotEmpty(t, q.ID)
		assert.NotEmpty(t, q.SourceText)
		assert.NotEmpty(t, q.TargetText)
		assert.NotEmpty(t, q.Explanation)
		assert.GreaterOrEqual(t, q.CorrectFluency, 1)
		assert.LessOrEqual(t, q.CorrectFluency, 5)
		assert.GreaterOrEqual(t, q.CorrectAdequacy, 1)
		assert.LessOrEqual(t, q.CorrectAdequacy, 5)
	}

	t.Run("perfect run reaches 100", func(t *testing.T) {
		var earned, maximum float64
		for _, q := range calibrationBank {
			maximum += 20
			earned += gradeQuestion(q, model.CalibrationAnswer{
				QuestionID:       q.ID,
				FluencyScore:     q.CorrectFluency,
				AdequacyScore:    q.CorrectAdequacy,
				IdentifiedErrors: q.ErrorCategories,
			})
		}
		assert.Equal(t, 100.0, earned/maximum*100)
	})

	t.Run("skipped questions drop out of the denominator", func(t *testing.T) {
		// Only question 1 answered, fluency three off: 17 of 20 is 85.
		q := calibrationBank[0]
		earned := gradeQuestion(q, model.CalibrationAnswer{
			QuestionID: q.ID, FluencyScore: 2, AdequacyScore: 5,
		})
		assert.Equal(t, 85.0, earned/20*100)
	})
}

func TestCheckOnboarded(t *testing.T) {
	t.Run("completed passes the gate", func(t *testing.T) {
		assert.NoError(t, checkOnboarded(model.Worker{OnboardingStatus: model.OnboardingCompleted}))
	})

	denied := map[string]string{
		model.OnboardingPending:    "complete the onboarding test before annotating",
		model.OnboardingInProgress: "finish your onboarding test before annotating",
		model.OnboardingFailed:     "onboarding test not passed; retake it to unlock annotation",
	}
	for status, message := range denied {
		t.Run(status, func(t *testing.T) {
			err := checkOnboarded(model.Worker{OnboardingStatus: status})
			assert.Equal(t, KindAccessDenied, KindOf(err))
			assert.EqualError(t, err, message)
		})
	}

	t.Run("blank status is treated as pending", func(t *testing.T) {
		err := checkOnboarded(model.Worker{})
		assert.Equal(t, KindAccessDenied, KindOf(err))
		assert.EqualError(t, err, denied[model.OnboardingPending])
	})
}
