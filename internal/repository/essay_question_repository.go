package repository

import (
	"github.com/quizcraft/backend/internal/model"
	"gorm.io/gorm"
)

type EssayQuestionRepository interface {
	CreateBatchOrdered(quizID uint, questions []model.EssayQuestion) ([]model.EssayQuestion, error)
	FindByID(id uint) (*model.EssayQuestion, error)
	FindByQuizID(quizID uint) ([]model.EssayQuestion, error)
	Delete(id uint) error
}

type essayQuestionRepository struct {
	db *gorm.DB
}

func NewEssayQuestionRepository(db *gorm.DB) EssayQuestionRepository {
	return &essayQuestionRepository{db: db}
}

func (r *essayQuestionRepository) CreateBatchOrdered(quizID uint, questions []model.EssayQuestion) ([]model.EssayQuestion, error) {
	if len(questions) == 0 {
		return questions, nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?, ?)", int32(quizID), essayOrderLockClass).Error; err != nil {
			return err
		}
		var base int
		if err := tx.Raw(
			"SELECT COALESCE(MAX(order_number), 0) FROM essay_questions WHERE quiz_id = ?",
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

func (r *essayQuestionRepository) FindByID(id uint) (*model.EssayQuestion, error) {
	var question model.EssayQuestion
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *essayQuestionRepository) FindByQuizID(quizID uint) ([]model.EssayQuestion, error) {
	var questions []model.EssayQuestion
	err := r.db.Where("quiz_id = ?", quizID).Order("order_number ASC").Find(&questions).Error
	return questions, err
}

func (r *essayQuestionRepository) Delete(id uint) error {
	return r.db.Delete(&model.EssayQuestion{}, id).Error
}
