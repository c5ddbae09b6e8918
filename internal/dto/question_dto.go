package dto

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeEssay          = "essay"
	QuestionTypeMixed          = "mixed"
)

// GeneratedQuestionDTO is the ephemeral question produced by the generation
// pipeline. It lives only through the review step; once accepted it is mapped
// onto a persisted row and the uuid ID is replaced by a database-assigned one.
type GeneratedQuestionDTO struct {
	ID   string `json:"id"`
	Type string `json:"type" binding:"required,oneof=multiple_choice essay"`
	Mode string `json:"mode" binding:"required,oneof=text audio voice"`

	Prompt string `json:"prompt" binding:"required"`
	Points int    `json:"points"`

	// Multiple-choice fields. AudioScript is non-nil iff Mode == "audio";
	// for text mode it is serialized as an explicit null, never omitted.
	AudioScript  *string  `json:"audio_script"`
	Options      []string `json:"options,omitempty"` // exactly 4 when Type == multiple_choice
	CorrectIndex string   `json:"correct_index,omitempty"`
	Explanation  string   `json:"explanation,omitempty"`

	// Essay fields.
	ExpectedLength string `json:"expected_length,omitempty"`
	Rubric         string `json:"rubric,omitempty"`
}
