package models

import "gorm.io/gorm"

// Order records a completed checkout, written by the Stripe webhook or the
// ClickFunnels validation flow. The progress engine never touches these.
type Order struct {
	gorm.Model
	SessionID   string `json:"session_id" gorm:"uniqueIndex"`
	Email       string `json:"email" gorm:"index"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Source      string `json:"source" gorm:"default:'stripe'"` // stripe, clickfunnels
	Status      string `json:"status" gorm:"default:'pending'"`
	IsDeleted   bool   `gorm:"default:false"`
}

// Setting holds admin-managed integration credentials. A single row is used.
type Setting struct {
	gorm.Model
	CFApiKey      string `json:"cf_api_key"`
	CFWorkspaceID string `json:"cf_workspace_id"`
}
