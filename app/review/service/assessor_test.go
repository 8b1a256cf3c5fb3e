package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mtreview/app/review/model"
	ext "mtreview/config"
)

func testItem() model.WorkItem {
	return model.WorkItem{
		SourceText: "The quick brown fox jumps over the lazy dog every single morning.",
		TargetText: "Ang mabilis na kayumangging soro ay tumatalon sa tamad na aso tuwing umaga.",
	}
}

func TestAssessorSeededDeterminism(t *testing.T) {
	cfg := ext.AssessorConfig{Seed: 42}
	item := testItem()

	a := NewAssessor(cfg)
	b := NewAssessor(cfg)
	for i := 0; i < 20; i++ {
		ra := a.Assess(item)
		rb := b.Assess(item)
		assert.Equal(t, ra.FluencyScore, rb.FluencyScore)
		assert.Equal(t, ra.AdequacyScore, rb.AdequacyScore)
		assert.Equal(t, ra.OverallScore, rb.OverallScore)
		assert.Equal(t, ra.SyntaxErrors, rb.SyntaxErrors)
		assert.Equal(t, ra.SemanticErrors, rb.SemanticErrors)
		assert.Equal(t, ra.Explanation, rb.Explanation)
		assert.Equal(t, ra.CorrectionSuggestions, rb.CorrectionSuggestions)
		assert.Equal(t, ra.ModelConfidence, rb.ModelConfidence)
	}
}

func TestAssessorBounds(t *testing.T) {
	a := NewAssessor(ext.AssessorConfig{Seed: 7})
	item := testItem()
	for i := 0; i < 200; i++ {
		r := a.Assess(item)
		assert.GreaterOrEqual(t, r.FluencyScore, 1.0)
		assert.LessOrEqual(t, r.FluencyScore, 5.0)
		assert.GreaterOrEqual(t, r.AdequacyScore, 1.0)
		assert.LessOrEqual(t, r.AdequacyScore, 5.0)
		assert.GreaterOrEqual(t, r.OverallScore, 1.0)
		assert.LessOrEqual(t, r.OverallScore, 5.0)
		assert.GreaterOrEqual(t, r.ModelConfidence, 0.1)
		assert.LessOrEqual(t, r.ModelConfidence, 1.0)
		assert.GreaterOrEqual(t, r.ProcessingTimeMs, int64(1))
		assert.NotEmpty(t, r.Explanation)
		assert.NotEmpty(t, r.CorrectionSuggestions)
		assert.LessOrEqual(t, len(r.CorrectionSuggestions), 5)
	}
}

func TestAssessorErrorSpans(t *testing.T) {
	a := NewAssessor(ext.AssessorConfig{
		Seed:                 3,
		GrammarErrorProb:     1.0,
		PunctuationErrorProb: 1.0,
		SemanticErrorProb:    1.0,
	})
	item := testItem()
	for i := 0; i < 50; i++ {
		r := a.Assess(item)
		require.NotEmpty(t, r.SyntaxErrors)
		require.NotEmpty(t, r.SemanticErrors)
		for _, e := range append(r.SyntaxErrors, r.SemanticErrors...) {
			assert.GreaterOrEqual(t, e.Start, 0)
			assert.Greater(t, e.End, e.Start)
			assert.LessOrEqual(t, e.End, len(item.TargetText))
			assert.Equal(t, item.TargetText[e.Start:e.End], e.SpanText)
		}
	}
}

func TestWordStart(t *testing.T) {
	words := []string{"ang", "mabilis", "na", "soro"}
	assert.Equal(t, 0, wordStart(words, 0))
	assert.Equal(t, 4, wordStart(words, 1))
	assert.Equal(t, 12, wordStart(words, 2))
	assert.Equal(t, 15, wordStart(words, 3))

	// Offsets are byte positions, so multibyte words shift later words by
	// their encoded length.
	accented := []string{"kumusta", "pô", "kayo"}
	assert.Equal(t, 8, wordStart(accented, 1))
	assert.Equal(t, 12, wordStart(accented, 2))
	joined := "kumusta pô kayo"
	assert.Equal(t, "pô", joined[wordStart(accented, 1):wordStart(accented, 2)-1])
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, clamp(0.2, 1.0, 5.0))
	assert.Equal(t, 5.0, clamp(6.3, 1.0, 5.0))
	assert.Equal(t, 3.4, clamp(3.4, 1.0, 5.0))
}

func TestSeverityPenalty(t *testing.T) {
	assert.Equal(t, 1.0, severityPenalty(model.SeverityCritical, 1.0, 0.5, 0.2))
	assert.Equal(t, 0.5, severityPenalty(model.SeverityMajor, 1.0, 0.5, 0.2))
	assert.Equal(t, 0.2, severityPenalty(model.SeverityMinor, 1.0, 0.5, 0.2))
	assert.Equal(t, 0.2, severityPenalty("unknown", 1.0, 0.5, 0.2))
}

func TestOverallScorePenalties(t *testing.T) {
	syntax := []model.TranslationError{{Severity: model.SeverityMinor}}
	semantic := []model.TranslationError{{Severity: model.SeverityCritical}}

	t.Run("no errors", func(t *testing.T) {
		assert.InDelta(t, 4.0, overallScore(4.0, 4.0, nil, nil), 1e-9)
	})
	t.Run("both lists populated", func(t *testing.T) {
		// 4.0 minus 0.2 for mixed errors minus 0.3 for the critical one.
		assert.InDelta(t, 3.5, overallScore(4.0, 4.0, syntax, semantic), 1e-9)
	})
	t.Run("floor", func(t *testing.T) {
		assert.Equal(t, 1.0, overallScore(1.0, 1.0, syntax, semantic))
	})
}

func TestBuildExplanation(t *testing.T) {
	t.Run("high quality", func(t *testing.T) {
		got := buildExplanation(4.5, 4.2, nil, nil)
		assert.Contains(t, got, "This is a high-quality translation with good fluency and adequacy.")
		assert.Contains(t, got, "The translation reads naturally with good fluency (4.5/5.0).")
		assert.Contains(t, got, "The translation adequately conveys the source meaning (4.2/5.0).")
	})
	t.Run("low quality with errors", func(t *testing.T) {
		errs := []model.TranslationError{{Severity: model.SeverityMajor}}
		got := buildExplanation(2.1, 2.8, errs, errs)
		assert.Contains(t, got, "This translation has significant quality issues that need attention.")
		assert.Contains(t, got, "Fluency is low (2.1/5.0) due to grammatical and structural issues.")
		assert.Contains(t, got, "Adequacy is poor (2.8/5.0) with meaning preservation issues.")
		assert.Contains(t, got, "Found 1 syntax error(s) affecting readability.")
		assert.Contains(t, got, "Detected 1 semantic error(s) affecting meaning accuracy.")
	})
	t.Run("moderate", func(t *testing.T) {
		got := buildExplanation(3.5, 3.5, nil, nil)
		assert.Equal(t, "This is an acceptable translation with moderate quality.", got)
	})
}

func TestBuildSuggestions(t *testing.T) {
	t.Run("clean translation", func(t *testing.T) {
		got := buildSuggestions(nil, nil)
		assert.Equal(t, []string{"The translation appears to be of good quality."}, got)
	})
	t.Run("prefixes", func(t *testing.T) {
		syntax := []model.TranslationError{{SuggestedFix: "Consider revising 'soro'"}}
		semantic := []model.TranslationError{{SuggestedFix: "Review meaning of 'aso' against source"}}
		got := buildSuggestions(syntax, semantic)
		assert.Equal(t, []string{
			"Syntax: Consider revising 'soro'",
			"Meaning: Review meaning of 'aso' against source",
			"Review grammar and sentence structure for better readability.",
			"Cross-check meaning preservation against the source text.",
		}, got)
	})
	t.Run("capped at five", func(t *testing.T) {
		syntax := []model.TranslationError{
			{SuggestedFix: "a"}, {SuggestedFix: "b"}, {SuggestedFix: "c"},
		}
		semantic := []model.TranslationError{
			{SuggestedFix: "d"}, {SuggestedFix: "e"},
		}
		got := buildSuggestions(syntax, semantic)
		assert.Len(t, got, 5)
	})
}
