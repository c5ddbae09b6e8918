package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/model"
	"github.com/quizcraft/backend/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PublishService publishes a draft quiz. Publishing synthesizes audio for
// every audio-mode question first; the quiz only flips to published once all
// assets exist, so a published quiz is never missing audio.
type PublishService interface {
	Publish(ctx context.Context, userID, quizID uint) (dto.PublishQuizResponse, error)
}

type publishService struct {
	quizRepo repository.QuizRepository
	mcRepo   repository.MCQuestionRepository
	speech   SpeechService
	storage  AudioStorageService
}

func NewPublishService(
	quizRepo repository.QuizRepository,
	mcRepo repository.MCQuestionRepository,
	speech SpeechService,
	storage AudioStorageService,
) PublishService {
	return &publishService{quizRepo: quizRepo, mcRepo: mcRepo, speech: speech, storage: storage}
}

func (s *publishService) Publish(ctx context.Context, userID, quizID uint) (dto.PublishQuizResponse, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PublishQuizResponse{}, apperr.Newf(apperr.KindMissingPrecondition, "quiz %d not found", quizID)
		}
		return dto.PublishQuizResponse{}, apperr.Wrap(apperr.KindDatabaseError, "failed to load quiz", err)
	}
	if quiz.CreatedBy != userID {
		return dto.PublishQuizResponse{}, apperr.New(apperr.KindUnauthorized, "quiz belongs to another user")
	}
	if quiz.Status != model.QuizStatusDraft {
		return dto.PublishQuizResponse{}, apperr.Newf(apperr.KindMissingPrecondition, "quiz is already %s", quiz.Status)
	}

	audioQuestions, err := s.mcRepo.FindAudioByQuizID(quizID)
	if err != nil {
		return dto.PublishQuizResponse{}, apperr.Wrap(apperr.KindDatabaseError, "failed to load audio questions", err)
	}

	audioURLs := make(map[uint]string, len(audioQuestions))
	var failures []dto.PublishFailure
	for _, q := range audioQuestions {
		if q.AudioScript == nil || *q.AudioScript == "" {
			failures = append(failures, dto.PublishFailure{QuestionID: q.ID, Error: "audio question has no audio script"})
			continue
		}
		audio, err := s.speech.Synthesize(ctx, SpokenScript(*q.AudioScript))
		if err != nil {
			failures = append(failures, dto.PublishFailure{QuestionID: q.ID, Error: err.Error()})
			continue
		}
		key := fmt.Sprintf("quizzes/%d/questions/%d.mp3", quizID, q.ID)
		url, err := s.storage.Upload(ctx, key, audio)
		if err != nil {
			failures = append(failures, dto.PublishFailure{QuestionID: q.ID, Error: err.Error()})
			continue
		}
		audioURLs[q.ID] = url
	}

	// Any failure keeps the quiz in draft: no URL writes, no status change.
	// Already uploaded assets are left in the bucket; retrying the publish
	// simply overwrites them at the same keys.
	if len(failures) > 0 {
		log.Warn().Uint("quizID", quizID).Int("failures", len(failures)).Msg("Publish blocked by audio synthesis failures")
		return dto.PublishQuizResponse{
			QuizID:   quizID,
			Status:   quiz.Status,
			Failures: failures,
		}, nil
	}

	publishedAt := time.Now().UTC()
	if err := s.quizRepo.MarkPublished(quizID, publishedAt, audioURLs); err != nil {
		return dto.PublishQuizResponse{}, apperr.Wrap(apperr.KindDatabaseError, "failed to mark quiz published", err)
	}

	log.Info().Uint("quizID", quizID).Int("audioAssets", len(audioURLs)).Msg("Quiz published")
	return dto.PublishQuizResponse{
		QuizID:      quizID,
		Status:      model.QuizStatusPublished,
		PublishedAt: &publishedAt,
	}, nil
}
