package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	EssayModeText  = "text"
	EssayModeVoice = "voice"
)

type EssayQuestion struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	QuizID         uint           `json:"quiz_id" gorm:"not null;index"`
	Mode           string         `json:"mode" gorm:"not null"` // "text", "voice"
	Prompt         string         `json:"prompt" gorm:"type:text;not null"`
	ExpectedLength string         `json:"expected_length"`
	Rubric         string         `json:"rubric" gorm:"type:text"`
	Points         int            `json:"points" gorm:"not null;default:5"`
	OrderNumber    int            `json:"order_number" gorm:"not null"` // 1-based, monotonic per quiz, gap-tolerant
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
