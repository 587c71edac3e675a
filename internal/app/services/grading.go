package services

import (
	"math"
	"strings"

	"github.com/aminejml/permigo/internal/app/models"
)

// NormalizeAnswer canonicalizes a submitted option letter. Empty input means
// the question was left unanswered.
func NormalizeAnswer(answer string) string {
	return strings.ToUpper(strings.TrimSpace(answer))
}

// EvaluateAnswer grades one submitted answer against the bank's correct
// option. An unanswered question is never correct.
func EvaluateAnswer(studentAnswer, correctAnswer string) bool {
	normalized := NormalizeAnswer(studentAnswer)
	if normalized == "" {
		return false
	}
	return normalized == NormalizeAnswer(correctAnswer)
}

// ComputeScore converts a correct count to a percentage over the full sheet,
// rounded to two decimals. The divisor is always the sheet size, so skipped
// questions drag the score down.
func ComputeScore(correct, totalQuestions int) float64 {
	if totalQuestions <= 0 {
		return 0
	}
	score := float64(correct) / float64(totalQuestions) * 100
	return math.Round(score*100) / 100
}

// HasPassed applies the fixed pass threshold on the correct count
func HasPassed(correct int) bool {
	return correct >= models.ExamPassingScore
}

// TallyResults counts correct and wrong over the graded sheet. Both counters
// cover only items that were actually processed, so a question missing from
// the submission drags the score down without inflating the wrong count.
func TallyResults(outcomes []bool) (correct, wrong int) {
	for _, isCorrect := range outcomes {
		if isCorrect {
			correct++
		} else {
			wrong++
		}
	}
	return correct, wrong
}
