package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuizStatusDraft     = "draft"
	QuizStatusPublished = "published"
)

type Quiz struct {
	ID                 uint            `gorm:"primarykey" json:"id"`
	Name               string          `json:"name" gorm:"not null"`
	Description        string          `json:"description,omitempty" gorm:"type:text"`
	SourceDocumentPath *string         `json:"source_document_path,omitempty"`
	Status             string          `json:"status" gorm:"not null;default:'draft'"` // "draft", "published"
	PublishedAt        *time.Time      `json:"published_at,omitempty"`
	CreatedBy          uint            `json:"created_by" gorm:"not null;index"`
	MCQuestions        []MCQuestion    `json:"mc_questions,omitempty" gorm:"foreignKey:QuizID"`
	EssayQuestions     []EssayQuestion `json:"essay_questions,omitempty" gorm:"foreignKey:QuizID"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}
