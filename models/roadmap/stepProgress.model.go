package roadmap

import "gorm.io/gorm"

// StepProgress is a learner's status on one step under one dashboard.
// One row per (profile, dashboard, roadmap); a step with no row reads as
// not_started.
type StepProgress struct {
	gorm.Model
	RoadmapID   uint   `json:"roadmap_id" gorm:"not null;uniqueIndex:idx_step_progress_key"`
	ProfileID   uint   `json:"profile_id" gorm:"not null;uniqueIndex:idx_step_progress_key"`
	DashboardID uint   `json:"dashboard_id" gorm:"not null;uniqueIndex:idx_step_progress_key"`
	Status      string `json:"status" gorm:"default:'not_started'"`
}

func (StepProgress) TableName() string { return "step_progress" }
