package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/quizcraft/backend/config"
	"github.com/quizcraft/backend/internal/apperr"
	"github.com/rs/zerolog/log"
)

var blankMarkerPattern = regexp.MustCompile(`_{3,}`)

// SpokenScript prepares an audio script for synthesis. Fill-in-the-blank
// markers (runs of 3+ underscores) are replaced with a spoken placeholder so
// the voice renders the blank audibly instead of skipping it.
func SpokenScript(script string) string {
	return blankMarkerPattern.ReplaceAllString(script, " dot dot dot ")
}

// SpeechService synthesizes speech audio for a question script.
type SpeechService interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type openAISpeechService struct {
	baseURL    string
	apiKey     string
	model      string
	voice      string
	httpClient *http.Client
}

func NewOpenAISpeechService(cfg *config.Config) SpeechService {
	if cfg.OpenAI.ApiKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is not set. Speech service will be non-functional.")
	}
	return newOpenAISpeechService(cfg.OpenAI.BaseURL, cfg.OpenAI.ApiKey, cfg.OpenAI.TTSModel, cfg.OpenAI.TTSVoice,
		&http.Client{Timeout: cfg.AI.Timeout})
}

func newOpenAISpeechService(baseURL, apiKey, ttsModel, voice string, httpClient *http.Client) SpeechService {
	return &openAISpeechService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      ttsModel,
		voice:      voice,
		httpClient: httpClient,
	}
}

func (s *openAISpeechService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.apiKey == "" {
		return nil, apperr.New(apperr.KindSynthesisFailed, "speech client not configured")
	}

	payload, err := json.Marshal(map[string]string{
		"model": s.model,
		"voice": s.voice,
		"input": text,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSynthesisFailed, "failed to encode speech request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSynthesisFailed, "failed to build speech request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSynthesisFailed, "speech request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("Speech API returned an error")
		return nil, apperr.Newf(apperr.KindSynthesisFailed, "speech API returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSynthesisFailed, "failed to read synthesized audio", err)
	}
	if len(audio) == 0 {
		return nil, apperr.New(apperr.KindSynthesisFailed, "speech API returned empty audio")
	}
	return audio, nil
}
