package models

import (
	"time"

	"gorm.io/gorm"
)

// CalendarEvent is a dated entry on a learner's calendar, optionally linked
// to a roadmap step ("Add to Calendar").
type CalendarEvent struct {
	gorm.Model
	ProfileID   uint      `json:"profile_id" gorm:"index;not null"`
	DashboardID uint      `json:"dashboard_id" gorm:"index;not null"`
	RoadmapID   uint      `json:"roadmap_id" gorm:"index"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Reminded    bool      `json:"reminded" gorm:"default:false"`
	IsDeleted   bool      `gorm:"default:false"`
}
