package roadmap

import "gorm.io/gorm"

// ChecklistItem is one requirement attached to a step.
type ChecklistItem struct {
	gorm.Model
	RoadmapID  uint   `json:"roadmap_id" gorm:"index;not null"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	Shortcode  string `json:"shortcode" gorm:"index"`
	IsDeleted  bool   `gorm:"default:false"`
}

// ChecklistProgress tracks one learner's checkbox for one checklist item.
// One row per (checklist, profile, dashboard); toggled by upsert.
type ChecklistProgress struct {
	gorm.Model
	ChecklistID uint `json:"checklist_id" gorm:"not null;uniqueIndex:idx_checklist_progress_key"`
	ProfileID   uint `json:"profile_id" gorm:"not null;uniqueIndex:idx_checklist_progress_key"`
	DashboardID uint `json:"dashboard_id" gorm:"not null;uniqueIndex:idx_checklist_progress_key"`
	IsCompleted bool `json:"is_completed" gorm:"default:false"`
}

func (ChecklistProgress) TableName() string { return "checklist_progress" }
