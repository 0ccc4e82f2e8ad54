package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"plangen/models/roadmap"
)

func quizItem(id uint, correct ...int) roadmap.QuizItem {
	return roadmap.QuizItem{
		Model:          gorm.Model{ID: id},
		Question:       "Question",
		Options:        datatypes.NewJSONSlice([]string{"a", "b", "c"}),
		CorrectAnswers: datatypes.NewJSONSlice(correct),
	}
}

func TestCheckAnswersSetEquality(t *testing.T) {
	items := []roadmap.QuizItem{quizItem(1, 0, 2)}

	// Order does not matter
	summary := CheckAnswers(items, map[uint][]int{1: {2, 0}})
	assert.True(t, summary.AllCorrect)
	assert.True(t, summary.Results[0].IsCorrect)

	// Subset is not enough
	summary = CheckAnswers(items, map[uint][]int{1: {0}})
	assert.False(t, summary.AllCorrect)
	assert.False(t, summary.Results[0].IsCorrect)

	// Superset is wrong too
	summary = CheckAnswers(items, map[uint][]int{1: {0, 1, 2}})
	assert.False(t, summary.AllCorrect)

	// Duplicates collapse
	summary = CheckAnswers(items, map[uint][]int{1: {0, 0, 2, 2}})
	assert.True(t, summary.AllCorrect)
}

func TestCheckAnswersMultipleItems(t *testing.T) {
	items := []roadmap.QuizItem{quizItem(1, 0), quizItem(2, 1, 2)}

	summary := CheckAnswers(items, map[uint][]int{1: {0}, 2: {1, 2}})
	assert.True(t, summary.AllCorrect)
	assert.Len(t, summary.Results, 2)

	// One wrong item fails the gate
	summary = CheckAnswers(items, map[uint][]int{1: {0}, 2: {1}})
	assert.False(t, summary.AllCorrect)
	assert.True(t, summary.Results[0].IsCorrect)
	assert.False(t, summary.Results[1].IsCorrect)
}

func TestCheckAnswersNoItems(t *testing.T) {
	summary := CheckAnswers(nil, nil)
	assert.False(t, summary.AllCorrect, "a step without quiz items cannot pass the quiz gate")
}

func TestComputeQuizResultUnanswered(t *testing.T) {
	items := []roadmap.QuizItem{quizItem(1, 0), quizItem(2, 1)}
	stored := map[uint]roadmap.QuizProgress{
		1: {QuizID: 1, SelectedAnswers: datatypes.NewJSONSlice([]int{0}), IsCorrect: true},
	}

	summary := ComputeQuizResult(items, stored)
	assert.False(t, summary.AllCorrect)
	assert.True(t, summary.Results[0].IsCorrect)
	assert.False(t, summary.Results[1].IsCorrect)
	assert.Empty(t, summary.Results[1].SelectedAnswers)
}

func TestValidateAllAnswered(t *testing.T) {
	items := []roadmap.QuizItem{quizItem(1, 0), quizItem(2, 1)}

	assert.True(t, ValidateAllAnswered(items, map[uint][]int{1: {0}, 2: {2}}))
	assert.False(t, ValidateAllAnswered(items, map[uint][]int{1: {0}}))
	assert.False(t, ValidateAllAnswered(items, map[uint][]int{1: {0}, 2: {}}))
	assert.True(t, ValidateAllAnswered(nil, nil))
}

func TestComputeStepPercentage(t *testing.T) {
	assert.Equal(t, 0, ComputeStepPercentage(0, 0))
	assert.Equal(t, 100, ComputeStepPercentage(3, 3))
	assert.Equal(t, 33, ComputeStepPercentage(3, 1))
	assert.Equal(t, 67, ComputeStepPercentage(3, 2))
	assert.Equal(t, 50, ComputeStepPercentage(2, 1))
	assert.Equal(t, 0, ComputeStepPercentage(5, 0))
}

func TestComputeModuleProgressExcludesSkipped(t *testing.T) {
	steps := []uint{1, 2, 3, 4}
	statuses := map[uint]Status{
		1: StatusCompleted,
		2: StatusSkipped,
		3: StatusInProgress,
		4: StatusNotStarted,
	}
	assert.Equal(t, 25, ComputeModuleProgress(steps, statuses))

	statuses[2] = StatusCompleted
	assert.Equal(t, 50, ComputeModuleProgress(steps, statuses))
}

func TestExpandedStep(t *testing.T) {
	steps := []uint{10, 20, 30}

	// Nothing completed: first step expands
	id, ok := ExpandedStep(steps, map[uint]Status{})
	assert.True(t, ok)
	assert.Equal(t, uint(10), id)

	// After the last completed step
	id, ok = ExpandedStep(steps, map[uint]Status{10: StatusCompleted})
	assert.True(t, ok)
	assert.Equal(t, uint(20), id)

	// Gaps do not matter, it is the last completed that counts
	id, ok = ExpandedStep(steps, map[uint]Status{20: StatusCompleted})
	assert.True(t, ok)
	assert.Equal(t, uint(30), id)

	// Fully worked through
	_, ok = ExpandedStep(steps, map[uint]Status{10: StatusCompleted, 20: StatusCompleted, 30: StatusCompleted})
	assert.False(t, ok)

	_, ok = ExpandedStep(nil, nil)
	assert.False(t, ok)
}

func TestNextIncompleteStep(t *testing.T) {
	steps := []uint{10, 20, 30}

	// Skipped steps are passed over
	id, ok := NextIncompleteStep(steps, map[uint]Status{20: StatusSkipped}, 0)
	assert.True(t, ok)
	assert.Equal(t, uint(30), id)

	id, ok = NextIncompleteStep(steps, map[uint]Status{}, 0)
	assert.True(t, ok)
	assert.Equal(t, uint(20), id)

	// Last step has no successor
	_, ok = NextIncompleteStep(steps, map[uint]Status{}, 2)
	assert.False(t, ok)
}

func TestStatusMachine(t *testing.T) {
	for _, s := range []Status{StatusNotStarted, StatusInProgress, StatusCompleted, StatusSkipped} {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("done").Valid())

	assert.True(t, Finished(StatusCompleted))
	assert.True(t, Finished(StatusSkipped))
	assert.False(t, Finished(StatusInProgress))

	// Completed and skipped are sink states for automatic transitions
	assert.True(t, CanAutoComplete(StatusNotStarted))
	assert.True(t, CanAutoComplete(StatusInProgress))
	assert.False(t, CanAutoComplete(StatusCompleted))
	assert.False(t, CanAutoComplete(StatusSkipped))
}
