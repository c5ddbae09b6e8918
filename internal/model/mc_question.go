package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	MCModeText  = "text"
	MCModeAudio = "audio"
)

type MCQuestion struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	QuizID       uint           `json:"quiz_id" gorm:"not null;index"`
	Mode         string         `json:"mode" gorm:"not null"` // "text", "audio"
	Prompt       string         `json:"prompt" gorm:"type:text;not null"`
	AudioScript  *string        `json:"audio_script,omitempty" gorm:"type:text"` // set iff Mode == "audio"
	AudioURL     *string        `json:"audio_url,omitempty"`
	OptionA      string         `json:"option_a" gorm:"not null"`
	OptionB      string         `json:"option_b" gorm:"not null"`
	OptionC      string         `json:"option_c" gorm:"not null"`
	OptionD      string         `json:"option_d" gorm:"not null"`
	CorrectIndex string         `json:"correct_index" gorm:"not null"` // "0".."3"
	Explanation  string         `json:"explanation" gorm:"type:text"`
	Points       int            `json:"points" gorm:"not null;default:1"`
	OrderNumber  int            `json:"order_number" gorm:"not null"` // 1-based, monotonic per quiz, gap-tolerant
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Options returns the four answer slots in display order.
func (q *MCQuestion) Options() [4]string {
	return [4]string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}
}
