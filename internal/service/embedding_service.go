package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quizcraft/backend/config"
	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/model"
	"github.com/rs/zerolog/log"
)

// EmbeddingService maps text to a fixed-length vector. Failures are always
// surfaced as typed errors; a zero or placeholder vector is never returned.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type openAIEmbeddingService struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIEmbeddingService(cfg *config.Config) EmbeddingService {
	if cfg.OpenAI.ApiKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set. Embedding service will be non-functional.")
	}
	return newOpenAIEmbeddingService(cfg.OpenAI.BaseURL, cfg.OpenAI.ApiKey, cfg.OpenAI.EmbedModel,
		&http.Client{Timeout: cfg.AI.Timeout})
}

func newOpenAIEmbeddingService(baseURL, apiKey, embedModel string, httpClient *http.Client) EmbeddingService {
	return &openAIEmbeddingService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      embedModel,
		httpClient: httpClient,
	}
}

func (s *openAIEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.apiKey == "" {
		return nil, apperr.New(apperr.KindEmbeddingFailed, "embedding client not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"model": s.model,
		"input": text,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindEmbeddingFailed, "failed to encode embedding request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindEmbeddingFailed, "failed to build embedding request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindEmbeddingFailed, "embedding request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Embedding API returned an error")
		return nil, apperr.Newf(apperr.KindEmbeddingFailed, "embedding API returned status %d", resp.StatusCode)
	}

	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperr.Wrap(apperr.KindEmbeddingFailed, "failed to decode embedding response", err)
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, apperr.New(apperr.KindEmbeddingFailed, "embedding API returned no vector")
	}
	vector := out.Data[0].Embedding
	if len(vector) != model.EmbeddingDim {
		return nil, apperr.New(apperr.KindEmbeddingFailed,
			fmt.Sprintf("embedding has dimension %d, expected %d", len(vector), model.EmbeddingDim))
	}
	return vector, nil
}
