package models

import "gorm.io/gorm"

// Dashboard is a learner's enrollment in one interest-area track.
// All progress rows are scoped by (profile_id, dashboard_id), so the same
// step can carry independent progress under different dashboards.
type Dashboard struct {
	gorm.Model
	ProfileID    uint   `json:"profile_id" gorm:"index;not null"`
	InterestArea string `json:"interest_area"`
	IsDeleted    bool   `gorm:"default:false"`
}
