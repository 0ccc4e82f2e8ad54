package progress

import (
	"math"

	"plangen/models/roadmap"
)

// QuizResult is the graded outcome for a single quiz item.
type QuizResult struct {
	QuizID          uint   `json:"quiz_id"`
	Question        string `json:"question"`
	IsCorrect       bool   `json:"is_correct"`
	SelectedAnswers []int  `json:"selected_answers"`
	CorrectAnswers  []int  `json:"correct_answers"`
}

// GradeSummary is the per-item results plus the all-correct gate for a step.
type GradeSummary struct {
	Results    []QuizResult `json:"results"`
	AllCorrect bool         `json:"all_correct"`
}

// CheckAnswers grades a submission. An item is correct iff the selected and
// correct answer indexes are equal as sets: order does not matter, duplicates
// collapse, and exact match is required. No partial credit.
func CheckAnswers(items []roadmap.QuizItem, selectedByQuiz map[uint][]int) GradeSummary {
	summary := GradeSummary{AllCorrect: true}
	for _, item := range items {
		selected := selectedByQuiz[item.ID]
		result := QuizResult{
			QuizID:          item.ID,
			Question:        item.Question,
			IsCorrect:       sameSet(selected, item.CorrectAnswers),
			SelectedAnswers: selected,
			CorrectAnswers:  item.CorrectAnswers,
		}
		if !result.IsCorrect {
			summary.AllCorrect = false
		}
		summary.Results = append(summary.Results, result)
	}
	if len(items) == 0 {
		summary.AllCorrect = false
	}
	return summary
}

// ComputeQuizResult builds the grade summary from stored progress rows,
// trusting the persisted is_correct flags. An item with no stored row counts
// as not yet answered, so AllCorrect is false.
func ComputeQuizResult(items []roadmap.QuizItem, storedByQuiz map[uint]roadmap.QuizProgress) GradeSummary {
	summary := GradeSummary{AllCorrect: true}
	for _, item := range items {
		stored, answered := storedByQuiz[item.ID]
		result := QuizResult{
			QuizID:         item.ID,
			Question:       item.Question,
			CorrectAnswers: item.CorrectAnswers,
		}
		if answered {
			result.IsCorrect = stored.IsCorrect
			result.SelectedAnswers = stored.SelectedAnswers
		}
		if !result.IsCorrect {
			summary.AllCorrect = false
		}
		summary.Results = append(summary.Results, result)
	}
	if len(items) == 0 {
		summary.AllCorrect = false
	}
	return summary
}

// ValidateAllAnswered reports whether every quiz item has at least one
// selected answer. Callers must check this before grading; a false result is
// a user-correctable validation error, not a system failure.
func ValidateAllAnswered(items []roadmap.QuizItem, selectedByQuiz map[uint][]int) bool {
	for _, item := range items {
		if len(selectedByQuiz[item.ID]) == 0 {
			return false
		}
	}
	return true
}

// ComputeStepPercentage returns round(completed/total*100), half up, or 0
// when there is nothing to complete.
func ComputeStepPercentage(totalItems, completedItems int) int {
	if totalItems <= 0 {
		return 0
	}
	return int(math.Round(float64(completedItems) / float64(totalItems) * 100))
}

// ComputeModuleProgress returns the percentage of steps whose status is
// completed. Skipped steps unlock their successors but do not count here.
func ComputeModuleProgress(stepIDs []uint, statusByStep map[uint]Status) int {
	completed := 0
	for _, id := range stepIDs {
		if statusByStep[id] == StatusCompleted {
			completed++
		}
	}
	return ComputeStepPercentage(len(stepIDs), completed)
}

// ExpandedStep picks the step to auto-expand on initial load: the one after
// the last completed step, or the first step when nothing is completed yet.
// Returns false when the module is fully worked through.
func ExpandedStep(stepIDs []uint, statusByStep map[uint]Status) (uint, bool) {
	lastCompleted := -1
	for i, id := range stepIDs {
		if statusByStep[id] == StatusCompleted {
			lastCompleted = i
		}
	}
	if lastCompleted == -1 {
		if len(stepIDs) > 0 {
			return stepIDs[0], true
		}
		return 0, false
	}
	if lastCompleted < len(stepIDs)-1 {
		return stepIDs[lastCompleted+1], true
	}
	return 0, false
}

// NextIncompleteStep finds the step to advance to after the step at
// currentIdx finishes: the first following step that is neither completed
// nor skipped.
func NextIncompleteStep(stepIDs []uint, statusByStep map[uint]Status, currentIdx int) (uint, bool) {
	for i := currentIdx + 1; i < len(stepIDs); i++ {
		if !Finished(statusByStep[stepIDs[i]]) {
			return stepIDs[i], true
		}
	}
	return 0, false
}

func sameSet(a, b []int) bool {
	seen := make(map[int]bool, len(a))
	for _, v := range a {
		seen[v] = true
	}
	other := make(map[int]bool, len(b))
	for _, v := range b {
		other[v] = true
	}
	if len(seen) != len(other) {
		return false
	}
	for v := range seen {
		if !other[v] {
			return false
		}
	}
	return true
}
