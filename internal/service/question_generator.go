package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/quizcraft/backend/config"
	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const (
	defaultMCPoints    = 1
	defaultEssayPoints = 5
)

// GenerationParams drive one call to the question generator for a single
// question type.
type GenerationParams struct {
	QuizName     string
	Context      string
	Count        int
	Type         string // "multiple_choice" or "essay"
	Instructions string
	ModeOverride string // empty means the default half/half split
}

type QuestionGeneratorService interface {
	Generate(ctx context.Context, params GenerationParams) ([]dto.GeneratedQuestionDTO, error)
}

type geminiQuestionGenerator struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

func NewGeminiQuestionGenerator(cfg *config.Config) (QuestionGeneratorService, error) {
	if cfg.Gemini.ApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Question generator will be non-functional.")
		return &geminiQuestionGenerator{modelName: cfg.Gemini.Model, timeout: cfg.AI.Timeout}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.ApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiQuestionGenerator{client: client, modelName: cfg.Gemini.Model, timeout: cfg.AI.Timeout}, nil
}

func (s *geminiQuestionGenerator) Generate(ctx context.Context, params GenerationParams) ([]dto.GeneratedQuestionDTO, error) {
	if s.client == nil {
		return nil, apperr.New(apperr.KindGenerationFailed, "generation client not initialized")
	}

	modes := ExpandModes(planForParams(params))

	// A fresh model handle per call: mixed-set generation runs two calls
	// concurrently with different response schemas.
	gm := s.client.GenerativeModel(s.modelName)
	gm.ResponseMIMEType = "application/json"
	gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt(params.Type))}}
	switch params.Type {
	case dto.QuestionTypeMultipleChoice:
		gm.ResponseSchema = mcResponseSchema()
	case dto.QuestionTypeEssay:
		gm.ResponseSchema = essayResponseSchema()
	default:
		return nil, apperr.Newf(apperr.KindGenerationFailed, "unsupported question type: %s", params.Type)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(userPrompt(params, modes)))
	if err != nil {
		log.Error().Err(err).Str("questionType", params.Type).Msg("Gemini API error during question generation")
		return nil, apperr.Wrap(apperr.KindGenerationFailed, "question generation call failed", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, apperr.New(apperr.KindGenerationFailed, "model returned no content")
	}
	var payload strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			payload.WriteString(string(txt))
		}
	}
	if payload.Len() == 0 {
		return nil, apperr.New(apperr.KindGenerationFailed, "model returned no text content")
	}

	questions, err := decodeQuestions(payload.String(), params.Type, modes)
	if err != nil {
		log.Warn().Err(err).Str("questionType", params.Type).Msg("Model output failed validation")
		return nil, err
	}
	return questions, nil
}

func planForParams(params GenerationParams) []ModeBlock {
	if params.Type == dto.QuestionTypeEssay {
		return SplitModes(params.Count, params.ModeOverride, model.EssayModeText, model.EssayModeVoice)
	}
	return SplitModes(params.Count, params.ModeOverride, model.MCModeText, model.MCModeAudio)
}

func systemPrompt(questionType string) string {
	var b strings.Builder
	b.WriteString("You are an expert quiz author creating assessment questions from study material.\n")
	b.WriteString("You must respond with a single JSON object containing a \"questions\" array and nothing else.\n")
	b.WriteString("Never reuse sentences from the source material verbatim: every question, option, and ")
	b.WriteString("explanation must be rephrased in your own words so the quiz tests comprehension, not recognition.\n")
	if questionType == dto.QuestionTypeEssay {
		b.WriteString("Each question is an open essay prompt with an expected response length and a grading rubric.\n")
	} else {
		b.WriteString("Each question has exactly 4 answer options and exactly one correct option.\n")
	}
	return b.String()
}

func userPrompt(params GenerationParams, modes []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create exactly %d %s questions for the quiz %q.\n\n", params.Count, promptTypeLabel(params.Type), params.QuizName)

	b.WriteString("Source material:\n---\n")
	b.WriteString(params.Context)
	b.WriteString("\n---\n\n")

	if strings.TrimSpace(params.Instructions) != "" {
		b.WriteString("Additional instructions from the quiz author:\n")
		b.WriteString(strings.TrimSpace(params.Instructions))
		b.WriteString("\n\n")
	}

	b.WriteString("Question delivery modes, in order:\n")
	for i, mode := range modes {
		fmt.Fprintf(&b, "- question %d: %s mode\n", i+1, mode)
	}
	b.WriteString("\n")

	if params.Type == dto.QuestionTypeEssay {
		b.WriteString("For every question provide: question, expected_length (e.g. \"2-3 paragraphs\"), rubric, points.\n")
		b.WriteString("Questions in voice mode will be answered by spoken response; phrase them so they can be answered aloud.\n")
	} else {
		b.WriteString("For every question provide: question, options (exactly 4), correct_index (\"0\"-\"3\"), explanation, points.\n")
		b.WriteString("For every question marked audio mode, additionally provide audio_script: the full text a ")
		b.WriteString("narrator reads aloud, using runs of underscores (____) for any blank the listener must fill in.\n")
		b.WriteString("Do not include audio_script for text mode questions.\n")
	}

	fmt.Fprintf(&b, "\nReturn a JSON object of the form {\"questions\": [...]} with exactly %d entries in the order listed above.\n", params.Count)
	return b.String()
}

func promptTypeLabel(questionType string) string {
	if questionType == dto.QuestionTypeEssay {
		return "essay"
	}
	return "multiple-choice"
}

func mcResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question":      {Type: genai.TypeString},
						"audio_script":  {Type: genai.TypeString},
						"options":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						"correct_index": {Type: genai.TypeString},
						"explanation":   {Type: genai.TypeString},
						"points":        {Type: genai.TypeInteger},
					},
					Required: []string{"question", "options", "correct_index", "explanation"},
				},
			},
		},
		Required: []string{"questions"},
	}
}

func essayResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"questions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"question":        {Type: genai.TypeString},
						"expected_length": {Type: genai.TypeString},
						"rubric":          {Type: genai.TypeString},
						"points":          {Type: genai.TypeInteger},
					},
					Required: []string{"question", "rubric"},
				},
			},
		},
		Required: []string{"questions"},
	}
}

type rawQuestion struct {
	Question       string   `json:"question"`
	AudioScript    string   `json:"audio_script"`
	Options        []string `json:"options"`
	CorrectIndex   any      `json:"correct_index"`
	Explanation    string   `json:"explanation"`
	ExpectedLength string   `json:"expected_length"`
	Rubric         string   `json:"rubric"`
	Points         int      `json:"points"`
}

// decodeQuestions treats the model payload as untrusted: it must parse, hold
// exactly len(modes) entries, and every entry must normalize cleanly. A batch
// that fails any of these checks is rejected whole.
func decodeQuestions(payload, questionType string, modes []string) ([]dto.GeneratedQuestionDTO, error) {
	var out struct {
		Questions []rawQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, apperr.Wrap(apperr.KindGenerationFailed, "model output is not valid JSON", err)
	}
	if len(out.Questions) != len(modes) {
		return nil, apperr.Newf(apperr.KindInvalidQuestionData,
			"model returned %d questions, expected %d", len(out.Questions), len(modes))
	}

	questions := make([]dto.GeneratedQuestionDTO, 0, len(out.Questions))
	for i, raw := range out.Questions {
		var (
			q   dto.GeneratedQuestionDTO
			err error
		)
		if questionType == dto.QuestionTypeEssay {
			q, err = normalizeEssay(raw, modes[i])
		} else {
			q, err = normalizeMC(raw, modes[i])
		}
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func normalizeMC(raw rawQuestion, mode string) (dto.GeneratedQuestionDTO, error) {
	prompt := strings.TrimSpace(raw.Question)
	if prompt == "" {
		return dto.GeneratedQuestionDTO{}, apperr.New(apperr.KindInvalidQuestionData, "question text is empty")
	}
	if len(raw.Options) != 4 {
		return dto.GeneratedQuestionDTO{}, apperr.Newf(apperr.KindInvalidQuestionData,
			"question has %d options, expected 4", len(raw.Options))
	}
	correct, err := coerceCorrectIndex(raw.CorrectIndex)
	if err != nil {
		return dto.GeneratedQuestionDTO{}, err
	}

	points := raw.Points
	if points <= 0 {
		points = defaultMCPoints
	}

	// Lenient by intent: an audio question with no script falls back to
	// reading the prompt itself. Text mode carries an explicit null.
	var audioScript *string
	if mode == model.MCModeAudio {
		script := strings.TrimSpace(raw.AudioScript)
		if script == "" {
			script = prompt
		}
		audioScript = &script
	}

	return dto.GeneratedQuestionDTO{
		ID:           uuid.NewString(),
		Type:         dto.QuestionTypeMultipleChoice,
		Mode:         mode,
		Prompt:       prompt,
		AudioScript:  audioScript,
		Options:      raw.Options,
		CorrectIndex: correct,
		Explanation:  strings.TrimSpace(raw.Explanation),
		Points:       points,
	}, nil
}

func normalizeEssay(raw rawQuestion, mode string) (dto.GeneratedQuestionDTO, error) {
	prompt := strings.TrimSpace(raw.Question)
	if prompt == "" {
		return dto.GeneratedQuestionDTO{}, apperr.New(apperr.KindInvalidQuestionData, "question text is empty")
	}

	points := raw.Points
	if points <= 0 {
		points = defaultEssayPoints
	}

	return dto.GeneratedQuestionDTO{
		ID:             uuid.NewString(),
		Type:           dto.QuestionTypeEssay,
		Mode:           mode,
		Prompt:         prompt,
		ExpectedLength: strings.TrimSpace(raw.ExpectedLength),
		Rubric:         strings.TrimSpace(raw.Rubric),
		Points:         points,
	}, nil
}

// coerceCorrectIndex accepts the index as either a JSON string or number and
// always produces a string digit referencing a valid option slot.
func coerceCorrectIndex(value any) (string, error) {
	var idx int
	switch v := value.(type) {
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return "", apperr.Newf(apperr.KindInvalidQuestionData, "correct_index %q is not numeric", v)
		}
		idx = parsed
	case float64:
		idx = int(v)
	default:
		return "", apperr.Newf(apperr.KindInvalidQuestionData, "correct_index has unsupported type %T", value)
	}
	if idx < 0 || idx > 3 {
		return "", apperr.Newf(apperr.KindInvalidQuestionData, "correct_index %d is out of range 0-3", idx)
	}
	return strconv.Itoa(idx), nil
}
