package service

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/quizcraft/backend/config"
	"github.com/quizcraft/backend/internal/apperr"
	"github.com/rs/zerolog/log"
)

// AudioStorageService stores synthesized audio and returns a durable URL.
type AudioStorageService interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
}

type gcsAudioStorage struct {
	client *storage.Client
	bucket string
}

func NewGCSAudioStorage(cfg *config.Config) (AudioStorageService, error) {
	if cfg.Storage.AudioBucket == "" {
		log.Warn().Msg("AUDIO_GCS_BUCKET is not set. Audio storage will be non-functional.")
		return &gcsAudioStorage{}, nil
	}
	client, err := storage.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &gcsAudioStorage{client: client, bucket: cfg.Storage.AudioBucket}, nil
}

func (s *gcsAudioStorage) Upload(ctx context.Context, key string, data []byte) (string, error) {
	if s.client == nil {
		return "", apperr.New(apperr.KindSynthesisFailed, "audio storage not configured")
	}

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "audio/mpeg"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", apperr.Wrap(apperr.KindSynthesisFailed, "failed to write audio to storage", err)
	}
	if err := w.Close(); err != nil {
		return "", apperr.Wrap(apperr.KindSynthesisFailed, "failed to finalize audio upload", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key), nil
}
