package models

import (
	"gorm.io/gorm"
)

const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

// User represents a platform account: a learner, an instructor or an admin
type User struct {
	gorm.Model
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Mobile    string `json:"mobile"`
	Password  string `json:"-"`
	Role      string `json:"role" gorm:"default:'STUDENT'"`
	IsDeleted bool   `gorm:"default:false"`
}
