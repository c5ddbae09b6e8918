package service

import (
	"strconv"
	"strings"

	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/model"
	"github.com/quizcraft/backend/internal/repository"
)

// QuestionWriterService persists a reviewed batch of generated questions to a
// quiz, assigning order numbers that continue each type's existing sequence.
type QuestionWriterService interface {
	Save(quizID uint, questions []dto.GeneratedQuestionDTO) (dto.SaveQuestionsResponse, error)
}

type questionWriterService struct {
	mcRepo    repository.MCQuestionRepository
	essayRepo repository.EssayQuestionRepository
}

func NewQuestionWriterService(mcRepo repository.MCQuestionRepository, essayRepo repository.EssayQuestionRepository) QuestionWriterService {
	return &questionWriterService{mcRepo: mcRepo, essayRepo: essayRepo}
}

func (s *questionWriterService) Save(quizID uint, questions []dto.GeneratedQuestionDTO) (dto.SaveQuestionsResponse, error) {
	mcModels := make([]model.MCQuestion, 0, len(questions))
	essayModels := make([]model.EssayQuestion, 0, len(questions))
	for _, q := range questions {
		switch q.Type {
		case dto.QuestionTypeMultipleChoice:
			m, err := mcModelFromDTO(q)
			if err != nil {
				return dto.SaveQuestionsResponse{}, err
			}
			mcModels = append(mcModels, m)
		case dto.QuestionTypeEssay:
			m, err := essayModelFromDTO(q)
			if err != nil {
				return dto.SaveQuestionsResponse{}, err
			}
			essayModels = append(essayModels, m)
		default:
			return dto.SaveQuestionsResponse{}, apperr.Newf(apperr.KindInvalidQuestionData, "unknown question type: %s", q.Type)
		}
	}

	savedMC, err := s.mcRepo.CreateBatchOrdered(quizID, mcModels)
	if err != nil {
		return dto.SaveQuestionsResponse{}, apperr.Wrap(apperr.KindDatabaseError, "multiple-choice question batch failed", err)
	}
	savedEssay, err := s.essayRepo.CreateBatchOrdered(quizID, essayModels)
	if err != nil {
		// The MC batch already committed in its own transaction; name it
		// so the caller knows what state the quiz is in.
		return dto.SaveQuestionsResponse{}, apperr.Wrapf(apperr.KindDatabaseError, err,
			"essay question batch failed (multiple-choice batch of %d was saved)", len(savedMC))
	}

	resp := dto.SaveQuestionsResponse{
		QuizID:         quizID,
		MCQuestions:    make([]dto.PersistedMCQuestionResponse, 0, len(savedMC)),
		EssayQuestions: make([]dto.PersistedEssayQuestionResponse, 0, len(savedEssay)),
	}
	for _, m := range savedMC {
		resp.MCQuestions = append(resp.MCQuestions, PersistedMCResponse(m))
	}
	for _, m := range savedEssay {
		resp.EssayQuestions = append(resp.EssayQuestions, PersistedEssayResponse(m))
	}
	return resp, nil
}

func mcModelFromDTO(q dto.GeneratedQuestionDTO) (model.MCQuestion, error) {
	if strings.TrimSpace(q.Prompt) == "" {
		return model.MCQuestion{}, apperr.New(apperr.KindInvalidQuestionData, "multiple-choice question has no prompt")
	}
	if len(q.Options) != 4 {
		return model.MCQuestion{}, apperr.Newf(apperr.KindInvalidQuestionData,
			"multiple-choice question has %d options, expected 4", len(q.Options))
	}
	if idx, err := strconv.Atoi(q.CorrectIndex); err != nil || idx < 0 || idx > 3 {
		return model.MCQuestion{}, apperr.Newf(apperr.KindInvalidQuestionData, "correct_index %q is invalid", q.CorrectIndex)
	}
	mode := q.Mode
	if mode == "" {
		mode = model.MCModeText
	}
	points := q.Points
	if points <= 0 {
		points = defaultMCPoints
	}
	return model.MCQuestion{
		Mode:         mode,
		Prompt:       q.Prompt,
		AudioScript:  q.AudioScript,
		OptionA:      q.Options[0],
		OptionB:      q.Options[1],
		OptionC:      q.Options[2],
		OptionD:      q.Options[3],
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
		Points:       points,
	}, nil
}

func essayModelFromDTO(q dto.GeneratedQuestionDTO) (model.EssayQuestion, error) {
	if strings.TrimSpace(q.Prompt) == "" {
		return model.EssayQuestion{}, apperr.New(apperr.KindInvalidQuestionData, "essay question has no prompt")
	}
	mode := q.Mode
	if mode == "" {
		mode = model.EssayModeText
	}
	points := q.Points
	if points <= 0 {
		points = defaultEssayPoints
	}
	return model.EssayQuestion{
		Mode:           mode,
		Prompt:         q.Prompt,
		ExpectedLength: q.ExpectedLength,
		Rubric:         q.Rubric,
		Points:         points,
	}, nil
}

func PersistedMCResponse(m model.MCQuestion) dto.PersistedMCQuestionResponse {
	opts := m.Options()
	return dto.PersistedMCQuestionResponse{
		ID:           m.ID,
		QuizID:       m.QuizID,
		Mode:         m.Mode,
		Prompt:       m.Prompt,
		AudioScript:  m.AudioScript,
		AudioURL:     m.AudioURL,
		Options:      opts[:],
		CorrectIndex: m.CorrectIndex,
		Explanation:  m.Explanation,
		Points:       m.Points,
		OrderNumber:  m.OrderNumber,
		CreatedAt:    m.CreatedAt,
	}
}

func PersistedEssayResponse(m model.EssayQuestion) dto.PersistedEssayQuestionResponse {
	return dto.PersistedEssayQuestionResponse{
		ID:             m.ID,
		QuizID:         m.QuizID,
		Mode:           m.Mode,
		Prompt:         m.Prompt,
		ExpectedLength: m.ExpectedLength,
		Rubric:         m.Rubric,
		Points:         m.Points,
		OrderNumber:    m.OrderNumber,
		CreatedAt:      m.CreatedAt,
	}
}
