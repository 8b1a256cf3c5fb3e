package service

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"mtreview/app/review/model"
	ext "mtreview/config"
)

// AssessorResult is the raw output of one simulated scoring run, before it
// is attached to a work item and persisted.
type AssessorResult struct {
	FluencyScore  float64
	AdequacyScore float64
	OverallScore  float64

	SyntaxErrors   []model.TranslationError
	SemanticErrors []model.TranslationError

	Explanation           string
	CorrectionSuggestions []string

	ModelConfidence  float64
	ProcessingTimeMs int64
}

// Assessor simulates a quality-estimation model. Error injection is
// probabilistic; scores derive from the injected errors plus bounded
// jitter, so repeated runs on the same item legitimately differ unless
// the generator is seeded.
type Assessor struct {
	mu  sync.Mutex
	rng *rand.Rand

	grammarProb     float64
	punctuationProb float64
	semanticProb    float64
}

func NewAssessor(cfg ext.AssessorConfig) *Assessor {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	grammar := cfg.GrammarErrorProb
	if grammar == 0 {
		grammar = 0.3
	}
	punctuation := cfg.PunctuationErrorProb
	if punctuation == 0 {
		punctuation = 0.2
	}
	semantic := cfg.SemanticErrorProb
	if semantic == 0 {
		semantic = 0.25
	}
	return &Assessor{
		rng:             rand.New(rand.NewSource(seed)),
		grammarProb:     grammar,
		punctuationProb: punctuation,
		semanticProb:    semantic,
	}
}

func (a *Assessor) roll() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Float64()
}

func (a *Assessor) intn(n int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Intn(n)
}

// uniform returns a value in [-spread, spread].
func (a *Assessor) uniform(spread float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return (a.rng.Float64()*2 - 1) * spread
}

func (a *Assessor) choice(values []string) string {
	return values[a.intn(len(values))]
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// wordStart returns the byte offset of words[idx] when the words are
// joined by single spaces. Error spans are byte ranges into TargetText.
func wordStart(words []string, idx int) int {
	pos := 0
	for i := 0; i < idx; i++ {
		pos += len(words[i]) + 1
	}
	return pos
}

// Assess scores one source/target pair.
func (a *Assessor) Assess(item model.WorkItem) AssessorResult {
	start := time.Now()

	syntaxErrors := a.detectSyntaxErrors(item.TargetText)
	semanticErrors := a.detectSemanticErrors(item.TargetText)

	fluency := a.fluencyScore(item.TargetText, syntaxErrors)
	adequacy := a.adequacyScore(item.SourceText, item.TargetText, semanticErrors)
	overall := overallScore(fluency, adequacy, syntaxErrors, semanticErrors)

	elapsed := time.Since(start).Milliseconds()
	if elapsed < 1 {
		elapsed = 1
	}
	return AssessorResult{
		FluencyScore:          fluency,
		AdequacyScore:         adequacy,
		OverallScore:          overall,
		SyntaxErrors:          syntaxErrors,
		SemanticErrors:        semanticErrors,
		Explanation:           buildExplanation(fluency, adequacy, syntaxErrors, semanticErrors),
		CorrectionSuggestions: buildSuggestions(syntaxErrors, semanticErrors),
		ModelConfidence:       a.confidence(fluency, adequacy, len(syntaxErrors)+len(semanticErrors)),
		ProcessingTimeMs:      elapsed,
	}
}

func (a *Assessor) detectSyntaxErrors(text string) []model.TranslationError {
	errors := []model.TranslationError{}

	if a.roll() < a.grammarProb {
		words := strings.Fields(text)
		if len(words) > 0 {
			idx := a.intn(len(words))
			start := wordStart(words, idx)
			errors = append(errors, model.TranslationError{
				Category:     model.SyntaxErrGrammar,
				Severity:     a.choice([]string{model.SeverityMinor, model.SeverityMajor}),
				Start:        start,
				End:          start + len(words[idx]),
				SpanText:     words[idx],
				Description:  fmt.Sprintf("Potential grammar issue with '%s'", words[idx]),
				SuggestedFix: fmt.Sprintf("Consider revising '%s'", words[idx]),
			})
		}
	}

	if a.roll() < a.punctuationProb {
		if pos := strings.Index(text, "."); pos >= 0 {
			errors = append(errors, model.TranslationError{
				Category:     model.SyntaxErrPunctuation,
				Severity:     model.SeverityMinor,
				Start:        pos,
				End:          pos + 1,
				SpanText:     ".",
				Description:  "Check punctuation usage",
				SuggestedFix: "Verify punctuation placement",
			})
		}
	}

	return errors
}

func (a *Assessor) detectSemanticErrors(targetText string) []model.TranslationError {
	errors := []model.TranslationError{}

	if a.roll() < a.semanticProb {
		words := strings.Fields(targetText)
		if len(words) >= 2 {
			startIdx := a.intn(len(words) - 1)
			span := 1 + a.intn(min(3, len(words)-startIdx))
			spanText := strings.Join(words[startIdx:startIdx+span], " ")
			start := wordStart(words, startIdx)

			category := a.choice([]string{
				model.SemanticErrMistranslation,
				model.SemanticErrWrongSense,
				model.SemanticErrAddition,
			})
			errors = append(errors, model.TranslationError{
				Category:     category,
				Severity:     a.choice([]string{model.SeverityMinor, model.SeverityMajor, model.SeverityCritical}),
				Start:        start,
				End:          start + len(spanText),
				SpanText:     spanText,
				Description:  fmt.Sprintf("Potential %s in '%s'", category, spanText),
				SuggestedFix: fmt.Sprintf("Review meaning of '%s' against source", spanText),
			})
		}
	}

	return errors
}

func severityPenalty(severity string, critical, major, minor float64) float64 {
	switch severity {
	case model.SeverityCritical:
		return critical
	case model.SeverityMajor:
		return major
	default:
		return minor
	}
}

func (a *Assessor) fluencyScore(text string, syntaxErrors []model.TranslationError) float64 {
	score := 4.0
	for _, e := range syntaxErrors {
		score -= severityPenalty(e.Severity, 1.0, 0.5, 0.2)
	}
	words := strings.Fields(text)
	if len(words) < 5 {
		score -= 0.2
	} else if len(words) > 50 {
		score += 0.1
	}
	score += a.uniform(0.3)
	return clamp(score, 1.0, 5.0)
}

func (a *Assessor) adequacyScore(sourceText, targetText string, semanticErrors []model.TranslationError) float64 {
	score := 4.0
	for _, e := range semanticErrors {
		score -= severityPenalty(e.Severity, 1.5, 0.8, 0.3)
	}
	sourceWords := len(strings.Fields(sourceText))
	targetWords := len(strings.Fields(targetText))
	if sourceWords > 0 {
		ratio := float64(targetWords) / float64(sourceWords)
		if ratio < 0.5 || ratio > 2.0 {
			score -= 0.5
		}
	}
	score += a.uniform(0.3)
	return clamp(score, 1.0, 5.0)
}

func overallScore(fluency, adequacy float64, syntaxErrors, semanticErrors []model.TranslationError) float64 {
	score := fluency*0.4 + adequacy*0.6
	if len(syntaxErrors) > 0 && len(semanticErrors) > 0 {
		score -= 0.2
	}
	for _, e := range append(append([]model.TranslationError{}, syntaxErrors...), semanticErrors...) {
		if e.Severity == model.SeverityCritical {
			score -= 0.3
		}
	}
	return clamp(score, 1.0, 5.0)
}

func (a *Assessor) confidence(fluency, adequacy float64, totalErrors int) float64 {
	confidence := 0.8
	variance := math.Abs(fluency - adequacy)
	if variance < 0.5 {
		confidence += 0.1
	} else if variance > 1.5 {
		confidence -= 0.2
	}
	if totalErrors == 0 {
		confidence += 0.1
	} else if totalErrors > 5 {
		confidence -= 0.1
	}
	confidence += a.uniform(0.1)
	return clamp(confidence, 0.1, 1.0)
}

func buildExplanation(fluency, adequacy float64, syntaxErrors, semanticErrors []model.TranslationError) string {
	var parts []string

	switch {
	case fluency >= 4.0 && adequacy >= 4.0:
		parts = append(parts, "This is a high-quality translation with good fluency and adequacy.")
	case fluency >= 3.0 && adequacy >= 3.0:
		parts = append(parts, "This is an acceptable translation with moderate quality.")
	default:
		parts = append(parts, "This translation has significant quality issues that need attention.")
	}

	if fluency < 3.0 {
		parts = append(parts, fmt.Sprintf("Fluency is low (%.1f/5.0) due to grammatical and structural issues.", fluency))
	} else if fluency >= 4.0 {
		parts = append(parts, fmt.Sprintf("The translation reads naturally with good fluency (%.1f/5.0).", fluency))
	}

	if adequacy < 3.0 {
		parts = append(parts, fmt.Sprintf("Adequacy is poor (%.1f/5.0) with meaning preservation issues.", adequacy))
	} else if adequacy >= 4.0 {
		parts = append(parts, fmt.Sprintf("The translation adequately conveys the source meaning (%.1f/5.0).", adequacy))
	}

	if len(syntaxErrors) > 0 {
		parts = append(parts, fmt.Sprintf("Found %d syntax error(s) affecting readability.", len(syntaxErrors)))
	}
	if len(semanticErrors) > 0 {
		parts = append(parts, fmt.Sprintf("Detected %d semantic error(s) affecting meaning accuracy.", len(semanticErrors)))
	}

	return strings.Join(parts, " ")
}

func buildSuggestions(syntaxErrors, semanticErrors []model.TranslationError) []string {
	suggestions := []string{}
	for _, e := range syntaxErrors {
		if e.SuggestedFix != "" {
			suggestions = append(suggestions, "Syntax: "+e.SuggestedFix)
		}
	}
	for _, e := range semanticErrors {
		if e.SuggestedFix != "" {
			suggestions = append(suggestions, "Meaning: "+e.SuggestedFix)
		}
	}
	if len(syntaxErrors) > 0 {
		suggestions = append(suggestions, "Review grammar and sentence structure for better readability.")
	}
	if len(semanticErrors) > 0 {
		suggestions = append(suggestions, "Cross-check meaning preservation against the source text.")
	}
	if len(syntaxErrors) == 0 && len(semanticErrors) == 0 {
		suggestions = append(suggestions, "The translation appears to be of good quality.")
	}
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}
	return suggestions
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
