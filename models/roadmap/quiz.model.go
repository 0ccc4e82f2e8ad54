package roadmap

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizItem is a multi-select question attached to a step. Correct answers are
// stored as option indexes; grading is exact set equality, no partial credit.
type QuizItem struct {
	gorm.Model
	RoadmapID      uint                        `json:"roadmap_id" gorm:"index;not null"`
	Question       string                      `json:"question"`
	Options        datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswers datatypes.JSONSlice[int]    `json:"correct_answers"`
	Explanation    string                      `json:"explanation"`
	OrderIndex     int                         `json:"order_index" gorm:"default:0"`
	Shortcode      string                      `json:"shortcode" gorm:"index"`
	IsDeleted      bool                        `gorm:"default:false"`
}

// QuizProgress is the stored result of a learner's latest submission for one
// quiz item. One row per (quiz, profile, dashboard); writes are upserts.
type QuizProgress struct {
	gorm.Model
	QuizID          uint                     `json:"quiz_id" gorm:"not null;uniqueIndex:idx_quiz_progress_key"`
	ProfileID       uint                     `json:"profile_id" gorm:"not null;uniqueIndex:idx_quiz_progress_key"`
	DashboardID     uint                     `json:"dashboard_id" gorm:"not null;uniqueIndex:idx_quiz_progress_key"`
	SelectedAnswers datatypes.JSONSlice[int] `json:"selected_answers"`
	IsCorrect       bool                     `json:"is_correct" gorm:"default:false"`
}

func (QuizProgress) TableName() string { return "quiz_progress" }
