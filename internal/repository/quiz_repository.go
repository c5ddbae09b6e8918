package repository

import (
	"time"

	"github.com/quizcraft/backend/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(quiz *model.Quiz) error
	FindByID(id uint) (*model.Quiz, error)
	FindAllByCreator(userID uint) ([]model.Quiz, error)
	// MarkPublished flips the quiz to published and records all audio asset
	// URLs in one transaction. Called only after every synthesis succeeded.
	MarkPublished(quizID uint, publishedAt time.Time, audioURLs map[uint]string) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindAllByCreator(userID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.Where("created_by = ?", userID).Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

func (r *quizRepository) MarkPublished(quizID uint, publishedAt time.Time, audioURLs map[uint]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for questionID, url := range audioURLs {
			if err := tx.Model(&model.MCQuestion{}).
				Where("id = ? AND quiz_id = ?", questionID, quizID).
				Update("audio_url", url).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Quiz{}).
			Where("id = ?", quizID).
			Updates(map[string]any{
				"status":       model.QuizStatusPublished,
				"published_at": publishedAt,
			}).Error
	})
}
