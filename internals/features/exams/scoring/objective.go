// Package scoring holds the pure exam scoring rules.
package scoring

import (
	"englishku_backend/internals/constants"
	"englishku_backend/internals/features/exams/exams/model"
)

// ScoreObjective scores one question: full marks when selected equals the
// option text at CorrectAnswer, otherwise 0. An out-of-range key scores 0.
func ScoreObjective(q model.Question, selected string) int {
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return 0
	}
	if selected == q.Options[q.CorrectAnswer] {
		return constants.SectionMaxScore
	}
	return 0
}

// ScoreObjectiveSet counts correct answers; missing answers count as wrong.
func ScoreObjectiveSet(qs []model.Question, answers []string) (correct, total int) {
	for i, q := range qs {
		var selected string
		if i < len(answers) {
			selected = answers[i]
		}
		if ScoreObjective(q, selected) > 0 {
			correct++
		}
	}
	return correct, len(qs)
}

// ObjectivePassed applies the practice pass ratio. An empty set never passes.
func ObjectivePassed(correct, total int) bool {
	if total <= 0 {
		return false
	}
	return float64(correct)/float64(total) >= constants.PracticePassRatio
}

// SectionScore turns an objective set into a 0..10 section score. A single
// question keeps the all-or-nothing contract.
func SectionScore(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return (correct*constants.SectionMaxScore + total/2) / total
}

// Aggregate sums section scores and applies the final pass mark.
func Aggregate(scores map[string]int) (total int, passed bool) {
	for _, s := range scores {
		total += s
	}
	return total, total >= constants.FinalExamPassMark
}
