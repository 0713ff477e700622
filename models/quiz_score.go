package models

import (
	"time"
)

// QuizScore is a finished (or abandoned) game a user chose to record.
type QuizScore struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"userId"`
	User            User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Kind            string    `gorm:"not null;size:20;index" json:"kind"`
	Mode            string    `gorm:"not null;size:40;index" json:"mode"`
	CorrectAnswered int       `gorm:"not null" json:"correctAnswered"`
	TotalAnswered   int       `gorm:"not null" json:"totalAnswered"`
	Percent         int       `gorm:"not null" json:"percent"`
	PlayedAt        time.Time `gorm:"autoCreateTime" json:"playedAt"`
}
