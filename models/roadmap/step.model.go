package roadmap

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VideoLink is an embeddable video referenced from a step description via a
// [video:SHORTCODE] placeholder.
type VideoLink struct {
	URL       string `json:"url"`
	Shortcode string `json:"shortcode"`
}

// Module groups the steps of one interest-area track.
type Module struct {
	gorm.Model
	InterestArea string `json:"interest_area" gorm:"index"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}

func (Module) TableName() string { return "roadmap_modules" }

// Step is one unit of roadmap content. Defined by admins, read-only to
// learners; quiz and checklist items hang off it.
type Step struct {
	gorm.Model
	ModuleID    uint                           `json:"module_id" gorm:"index;not null"`
	Title       string                         `json:"title"`
	Description string                         `json:"description" gorm:"type:text"`
	OrderIndex  int                            `json:"order_index" gorm:"default:0"`
	VideoLinks  datatypes.JSONSlice[VideoLink] `json:"video_links"`
	IsDeleted   bool                           `gorm:"default:false"`
}

func (Step) TableName() string { return "roadmap_steps" }
