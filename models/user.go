package models

import "gorm.io/gorm"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User represents an account. Roles are granted by an existing admin, never
// derived from the email address.
type User struct {
	gorm.Model
	Email        string      `gorm:"uniqueIndex;not null;size:254" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Role         string      `gorm:"not null;size:20;default:user" json:"role"`
	QuizScores   []QuizScore `gorm:"foreignKey:UserID" json:"-"`
}
