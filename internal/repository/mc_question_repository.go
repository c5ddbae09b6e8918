package repository

import (
	"github.com/quizcraft/backend/internal/model"
	"gorm.io/gorm"
)

// Advisory lock classes for order-number assignment, one per question table.
const (
	mcOrderLockClass    = 1
	essayOrderLockClass = 2
)

type MCQuestionRepository interface {
	// CreateBatchOrdered inserts questions with order numbers continuing
	// from the quiz's historical maximum, preserving slice order. The max
	// is read and the rows inserted under a per-quiz advisory lock so
	// concurrent batches cannot collide.
	CreateBatchOrdered(quizID uint, questions []model.MCQuestion) ([]model.MCQuestion, error)
	FindByID(id uint) (*model.MCQuestion, error)
	FindByQuizID(quizID uint) ([]model.MCQuestion, error)
	FindAudioByQuizID(quizID uint) ([]model.MCQuestion, error)
	Delete(id uint) error
}

type mcQuestionRepository struct {
	db *gorm.DB
}

func NewMCQuestionRepository(db *gorm.DB) MCQuestionRepository {
	return &mcQuestionRepository{db: db}
}

func (r *mcQuestionRepository) CreateBatchOrdered(quizID uint, questions []model.MCQuestion) ([]model.MCQuestion, error) {
	if len(questions) == 0 {
		return questions, nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", int32(quizID), mcOrderLockClass).Error; err != nil {
			return err
		}
		// Raw query so soft-deleted rows still count: order numbers are
		// never reused, even after deletions.
		var base int
		if err := tx.Raw(
			"SELECT COALESCE(MAX(order_number), 0) FROM mc_questions WHERE quiz_id = ?",
			quizID,
		).Scan(&base).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quizID
			questions[i].OrderNumber = base + i + 1
		}
		return tx.Create(&questions).Error
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *mcQuestionRepository) FindByID(id uint) (*model.MCQuestion, error) {
	var question model.MCQuestion
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *mcQuestionRepository) FindByQuizID(quizID uint) ([]model.MCQuestion, error) {
	var questions []model.MCQuestion
	err := r.db.Where("quiz_id = ?", quizID).Order("order_number ASC").Find(&questions).Error
	return questions, err
}

func (r *mcQuestionRepository) FindAudioByQuizID(quizID uint) ([]model.MCQuestion, error) {
	var questions []model.MCQuestion
	err := r.db.
		Where("quiz_id = ? AND mode = ?", quizID, model.MCModeAudio).
		Order("order_number ASC").
		Find(&questions).Error
	return questions, err
}

func (r *mcQuestionRepository) Delete(id uint) error {
	return r.db.Delete(&model.MCQuestion{}, id).Error
}
