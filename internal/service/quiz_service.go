package service

import (
	"errors"

	"github.com/jinzhu/copier"
	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/model"
	"github.com/quizcraft/backend/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuizService interface {
	CreateQuiz(userID uint, req dto.CreateQuizRequest) (dto.QuizResponse, error)
	GetQuiz(userID, quizID uint) (dto.QuizResponse, error)
	ListQuizzes(userID uint) ([]dto.QuizResponse, error)
	GetQuizQuestions(userID, quizID uint) (dto.QuizQuestionsResponse, error)
	DeleteMCQuestion(userID, questionID uint) error
	DeleteEssayQuestion(userID, questionID uint) error
}

type quizService struct {
	quizRepo  repository.QuizRepository
	mcRepo    repository.MCQuestionRepository
	essayRepo repository.EssayQuestionRepository
}

func NewQuizService(
	quizRepo repository.QuizRepository,
	mcRepo repository.MCQuestionRepository,
	essayRepo repository.EssayQuestionRepository,
) QuizService {
	return &quizService{quizRepo: quizRepo, mcRepo: mcRepo, essayRepo: essayRepo}
}

func (s *quizService) CreateQuiz(userID uint, req dto.CreateQuizRequest) (dto.QuizResponse, error) {
	quiz := model.Quiz{
		Name:               req.Name,
		Description:        req.Description,
		SourceDocumentPath: req.SourceDocumentPath,
		Status:             model.QuizStatusDraft,
		CreatedBy:          userID,
	}
	if err := s.quizRepo.Create(&quiz); err != nil {
		return dto.QuizResponse{}, apperr.Wrap(apperr.KindDatabaseError, "failed to create quiz", err)
	}
	log.Info().Uint("quizID", quiz.ID).Uint("userID", userID).Msg("Quiz created")
	return quizResponse(&quiz), nil
}

func (s *quizService) GetQuiz(userID, quizID uint) (dto.QuizResponse, error) {
	quiz, err := s.findOwnedQuiz(userID, quizID)
	if err != nil {
		return dto.QuizResponse{}, err
	}
	return quizResponse(quiz), nil
}

func (s *quizService) ListQuizzes(userID uint) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizRepo.FindAllByCreator(userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabaseError, "failed to list quizzes", err)
	}
	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		responses = append(responses, quizResponse(&quizzes[i]))
	}
	return responses, nil
}

func (s *quizService) GetQuizQuestions(userID, quizID uint) (dto.QuizQuestionsResponse, error) {
	if _, err := s.findOwnedQuiz(userID, quizID); err != nil {
		return dto.QuizQuestionsResponse{}, err
	}
	mc, err := s.mcRepo.FindByQuizID(quizID)
	if err != nil {
		return dto.QuizQuestionsResponse{}, apperr.Wrap(apperr.KindDatabaseError, "failed to load multiple-choice questions", err)
	}
	essay, err := s.essayRepo.FindByQuizID(quizID)
	if err != nil {
		return dto.QuizQuestionsResponse{}, apperr.Wrap(apperr.KindDatabaseError, "failed to load essay questions", err)
	}

	resp := dto.QuizQuestionsResponse{
		QuizID:         quizID,
		MCQuestions:    make([]dto.PersistedMCQuestionResponse, 0, len(mc)),
		EssayQuestions: make([]dto.PersistedEssayQuestionResponse, 0, len(essay)),
	}
	for _, q := range mc {
		resp.MCQuestions = append(resp.MCQuestions, PersistedMCResponse(q))
	}
	for _, q := range essay {
		resp.EssayQuestions = append(resp.EssayQuestions, PersistedEssayResponse(q))
	}
	return resp, nil
}

func (s *quizService) DeleteMCQuestion(userID, questionID uint) error {
	question, err := s.mcRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Newf(apperr.KindNotFound, "question %d not found", questionID)
		}
		return apperr.Wrap(apperr.KindDatabaseError, "failed to load question", err)
	}
	if err := s.checkQuizMutable(userID, question.QuizID); err != nil {
		return err
	}
	if err := s.mcRepo.Delete(questionID); err != nil {
		return apperr.Wrap(apperr.KindDatabaseError, "failed to delete question", err)
	}
	return nil
}

func (s *quizService) DeleteEssayQuestion(userID, questionID uint) error {
	question, err := s.essayRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Newf(apperr.KindNotFound, "question %d not found", questionID)
		}
		return apperr.Wrap(apperr.KindDatabaseError, "failed to load question", err)
	}
	if err := s.checkQuizMutable(userID, question.QuizID); err != nil {
		return err
	}
	if err := s.essayRepo.Delete(questionID); err != nil {
		return apperr.Wrap(apperr.KindDatabaseError, "failed to delete question", err)
	}
	return nil
}

func (s *quizService) findOwnedQuiz(userID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Newf(apperr.KindMissingPrecondition, "quiz %d not found", quizID)
		}
		return nil, apperr.Wrap(apperr.KindDatabaseError, "failed to load quiz", err)
	}
	if quiz.CreatedBy != userID {
		return nil, apperr.New(apperr.KindUnauthorized, "quiz belongs to another user")
	}
	return quiz, nil
}

// checkQuizMutable gates question deletion: only the owner may delete, and
// published quizzes are immutable.
func (s *quizService) checkQuizMutable(userID, quizID uint) error {
	quiz, err := s.findOwnedQuiz(userID, quizID)
	if err != nil {
		return err
	}
	if quiz.Status == model.QuizStatusPublished {
		return apperr.New(apperr.KindMissingPrecondition, "published quiz cannot be modified")
	}
	return nil
}

func quizResponse(quiz *model.Quiz) dto.QuizResponse {
	var resp dto.QuizResponse
	copier.Copy(&resp, quiz)
	return resp
}
