package models

import "gorm.io/gorm"

type Profile struct {
	gorm.Model
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"uniqueIndex"`
	Password  string `json:"-"`
	IsAdmin   bool   `json:"is_admin" gorm:"default:false"`
	IsDeleted bool   `gorm:"default:false"`
}
