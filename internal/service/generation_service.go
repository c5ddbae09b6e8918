package service

import (
	"context"
	"errors"
	"strings"

	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/model"
	"github.com/quizcraft/backend/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// QuestionGenerationService runs the full AI generation pipeline for one quiz:
// precondition checks, context retrieval, model calls, and optional persistence.
type QuestionGenerationService interface {
	Generate(ctx context.Context, userID, quizID uint, req dto.GenerateQuestionsRequest) (dto.GenerateQuestionsResponse, error)
}

type questionGenerationService struct {
	quizRepo  repository.QuizRepository
	retriever ContextRetrieverService
	generator QuestionGeneratorService
	writer    QuestionWriterService
}

func NewQuestionGenerationService(
	quizRepo repository.QuizRepository,
	retriever ContextRetrieverService,
	generator QuestionGeneratorService,
	writer QuestionWriterService,
) QuestionGenerationService {
	return &questionGenerationService{
		quizRepo:  quizRepo,
		retriever: retriever,
		generator: generator,
		writer:    writer,
	}
}

func (s *questionGenerationService) Generate(ctx context.Context, userID, quizID uint, req dto.GenerateQuestionsRequest) (dto.GenerateQuestionsResponse, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GenerateQuestionsResponse{}, apperr.Newf(apperr.KindMissingPrecondition, "quiz %d not found", quizID)
		}
		return dto.GenerateQuestionsResponse{}, apperr.Wrap(apperr.KindDatabaseError, "failed to load quiz", err)
	}
	if quiz.CreatedBy != userID {
		return dto.GenerateQuestionsResponse{}, apperr.New(apperr.KindUnauthorized, "quiz belongs to another user")
	}
	if quiz.SourceDocumentPath == nil || *quiz.SourceDocumentPath == "" {
		return dto.GenerateQuestionsResponse{}, apperr.New(apperr.KindMissingPrecondition, "Quiz has no source document for AI generation")
	}

	contextText, err := s.retriever.Retrieve(ctx, userID, *quiz.SourceDocumentPath, retrievalQuery(quiz, req))
	if err != nil {
		return dto.GenerateQuestionsResponse{}, err
	}

	questions, err := s.generate(ctx, quiz, contextText, req)
	if err != nil {
		return dto.GenerateQuestionsResponse{}, err
	}

	resp := dto.GenerateQuestionsResponse{
		QuizID:         quiz.ID,
		QuizName:       quiz.Name,
		Questions:      questions,
		TotalQuestions: len(questions),
	}
	if req.PersistImmediately {
		if _, err := s.writer.Save(quiz.ID, questions); err != nil {
			return dto.GenerateQuestionsResponse{}, err
		}
		resp.Persisted = true
	}
	log.Info().Uint("quizID", quiz.ID).Int("count", len(questions)).Str("type", req.QuestionType).Bool("persisted", resp.Persisted).Msg("Questions generated")
	return resp, nil
}

func (s *questionGenerationService) generate(ctx context.Context, quiz *model.Quiz, contextText string, req dto.GenerateQuestionsRequest) ([]dto.GeneratedQuestionDTO, error) {
	if req.QuestionType != dto.QuestionTypeMixed {
		params := GenerationParams{
			QuizName:     quiz.Name,
			Context:      contextText,
			Count:        req.QuestionCount,
			Type:         req.QuestionType,
			Instructions: req.AdditionalInstructions,
		}
		if req.QuestionType == dto.QuestionTypeEssay {
			params.ModeOverride = deref(req.AnswerMode)
		} else {
			params.ModeOverride = deref(req.QuestionMode)
		}
		return s.generator.Generate(ctx, params)
	}

	mcCount, essayCount := MixedCounts(req.QuestionCount)
	var mc, essay []dto.GeneratedQuestionDTO
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mc, err = s.generator.Generate(gctx, GenerationParams{
			QuizName:     quiz.Name,
			Context:      contextText,
			Count:        mcCount,
			Type:         dto.QuestionTypeMultipleChoice,
			Instructions: req.AdditionalInstructions,
			ModeOverride: deref(req.QuestionMode),
		})
		return err
	})
	if essayCount > 0 {
		g.Go(func() error {
			var err error
			essay, err = s.generator.Generate(gctx, GenerationParams{
				QuizName:     quiz.Name,
				Context:      contextText,
				Count:        essayCount,
				Type:         dto.QuestionTypeEssay,
				Instructions: req.AdditionalInstructions,
				ModeOverride: deref(req.AnswerMode),
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return InterleaveQuestions(mc, essay), nil
}

func retrievalQuery(quiz *model.Quiz, req dto.GenerateQuestionsRequest) string {
	parts := []string{quiz.Name}
	if quiz.Description != "" {
		parts = append(parts, quiz.Description)
	}
	if strings.TrimSpace(req.AdditionalInstructions) != "" {
		parts = append(parts, strings.TrimSpace(req.AdditionalInstructions))
	}
	return strings.Join(parts, ". ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
