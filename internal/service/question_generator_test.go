package service

import (
	"testing"

	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/model"
)

// TestDecodeQuestions_MCBatch verifies a well-formed multiple-choice payload
// decodes with modes assigned positionally and points defaulted.
func TestDecodeQuestions_MCBatch(t *testing.T) {
	t.Parallel()

	payload := `{"questions":[
		{"question":"What powers the cell?","options":["Nucleus","Mitochondria","Ribosome","Golgi"],"correct_index":"1","explanation":"Mitochondria produce ATP."},
		{"question":"Listen and fill the blank.","audio_script":"The cell membrane is ____ permeable.","options":["fully","selectively","never","rarely"],"correct_index":1,"explanation":"It admits some molecules only.","points":2}
	]}`

	questions, err := decodeQuestions(payload, dto.QuestionTypeMultipleChoice, []string{model.MCModeText, model.MCModeAudio})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}

	text := questions[0]
	if text.Mode != model.MCModeText {
		t.Errorf("question 0 mode = %q, want text", text.Mode)
	}
	if text.AudioScript != nil {
		t.Errorf("text mode question must have nil audio script, got %q", *text.AudioScript)
	}
	if text.Points != 1 {
		t.Errorf("question 0 points = %d, want defaulted 1", text.Points)
	}
	if text.CorrectIndex != "1" {
		t.Errorf("question 0 correct index = %q, want \"1\"", text.CorrectIndex)
	}
	if text.ID == "" {
		t.Error("question 0 has no generated ID")
	}

	audio := questions[1]
	if audio.Mode != model.MCModeAudio {
		t.Errorf("question 1 mode = %q, want audio", audio.Mode)
	}
	if audio.AudioScript == nil || *audio.AudioScript != "The cell membrane is ____ permeable." {
		t.Errorf("question 1 audio script not preserved: %v", audio.AudioScript)
	}
	if audio.CorrectIndex != "1" {
		t.Errorf("numeric correct index not coerced, got %q", audio.CorrectIndex)
	}
	if audio.Points != 2 {
		t.Errorf("question 1 points = %d, want 2", audio.Points)
	}
}

// TestDecodeQuestions_CountMismatch verifies a payload whose question count
// differs from the plan is rejected whole.
func TestDecodeQuestions_CountMismatch(t *testing.T) {
	t.Parallel()

	payload := `{"questions":[{"question":"Only one?","options":["a","b","c","d"],"correct_index":"0","explanation":"x"}]}`
	_, err := decodeQuestions(payload, dto.QuestionTypeMultipleChoice, []string{model.MCModeText, model.MCModeText})
	if !apperr.IsKind(err, apperr.KindInvalidQuestionData) {
		t.Errorf("expected invalid question data error, got %v", err)
	}
}

// TestDecodeQuestions_MalformedJSON verifies junk output maps to a generation
// failure, not a validation failure.
func TestDecodeQuestions_MalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := decodeQuestions("not json at all", dto.QuestionTypeMultipleChoice, []string{model.MCModeText})
	if !apperr.IsKind(err, apperr.KindGenerationFailed) {
		t.Errorf("expected generation failed error, got %v", err)
	}
}

// TestNormalizeMC_AudioScriptFallback verifies an audio question missing its
// script falls back to reading the prompt.
func TestNormalizeMC_AudioScriptFallback(t *testing.T) {
	t.Parallel()

	q, err := normalizeMC(rawQuestion{
		Question:     "Which organ pumps blood?",
		Options:      []string{"Liver", "Heart", "Lung", "Kidney"},
		CorrectIndex: "1",
		Explanation:  "The heart circulates blood.",
	}, model.MCModeAudio)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.AudioScript == nil || *q.AudioScript != "Which organ pumps blood?" {
		t.Errorf("audio script should default to the prompt, got %v", q.AudioScript)
	}
}

// TestNormalizeMC_Rejections covers the invalid shapes a model can emit.
func TestNormalizeMC_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  rawQuestion
	}{
		{"empty prompt", rawQuestion{Options: []string{"a", "b", "c", "d"}, CorrectIndex: "0"}},
		{"three options", rawQuestion{Question: "q", Options: []string{"a", "b", "c"}, CorrectIndex: "0"}},
		{"index out of range", rawQuestion{Question: "q", Options: []string{"a", "b", "c", "d"}, CorrectIndex: "4"}},
		{"index not numeric", rawQuestion{Question: "q", Options: []string{"a", "b", "c", "d"}, CorrectIndex: "B"}},
		{"index wrong type", rawQuestion{Question: "q", Options: []string{"a", "b", "c", "d"}, CorrectIndex: true}},
	}
	for _, tc := range cases {
		if _, err := normalizeMC(tc.raw, model.MCModeText); !apperr.IsKind(err, apperr.KindInvalidQuestionData) {
			t.Errorf("%s: expected invalid question data error, got %v", tc.name, err)
		}
	}
}

// TestNormalizeEssay_Defaults verifies essay points default and the mode is
// carried through.
func TestNormalizeEssay_Defaults(t *testing.T) {
	t.Parallel()

	q, err := normalizeEssay(rawQuestion{
		Question:       "Discuss the causes of the industrial revolution.",
		ExpectedLength: "2-3 paragraphs",
		Rubric:         "Full credit for naming three causes with evidence.",
	}, model.EssayModeVoice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Points != 5 {
		t.Errorf("essay points = %d, want defaulted 5", q.Points)
	}
	if q.Mode != model.EssayModeVoice {
		t.Errorf("mode = %q, want voice", q.Mode)
	}
	if q.Type != dto.QuestionTypeEssay {
		t.Errorf("type = %q, want essay", q.Type)
	}
}

// TestCoerceCorrectIndex covers the string and float forms the JSON decoder
// can hand over.
func TestCoerceCorrectIndex(t *testing.T) {
	t.Parallel()

	for input, want := range map[any]string{
		"0":        "0",
		" 3 ":      "3",
		float64(2): "2",
	} {
		got, err := coerceCorrectIndex(input)
		if err != nil {
			t.Errorf("coerceCorrectIndex(%v): unexpected error %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("coerceCorrectIndex(%v) = %q, want %q", input, got, want)
		}
	}

	for _, input := range []any{"-1", "4", "abc", float64(9), nil} {
		if _, err := coerceCorrectIndex(input); !apperr.IsKind(err, apperr.KindInvalidQuestionData) {
			t.Errorf("coerceCorrectIndex(%v): expected invalid question data error, got %v", input, err)
		}
	}
}
