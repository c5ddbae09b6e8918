package dto

import "time"

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type QuizResponse struct {
	ID                 uint       `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description,omitempty"`
	SourceDocumentPath *string    `json:"source_document_path,omitempty"`
	Status             string     `json:"status"`
	PublishedAt        *time.Time `json:"published_at,omitempty"`
	CreatedBy          uint       `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type IngestDocumentResponse struct {
	FileName    string `json:"file_name"`
	FilePath    string `json:"file_path"`
	ChunksSaved int    `json:"chunks_saved"`
}

type GenerateQuestionsResponse struct {
	QuizID         uint                   `json:"quiz_id"`
	QuizName       string                 `json:"quiz_name"`
	Questions      []GeneratedQuestionDTO `json:"questions"`
	TotalQuestions int                    `json:"total_questions"`
	Persisted      bool                   `json:"persisted"`
}

type PersistedMCQuestionResponse struct {
	ID           uint      `json:"id"`
	QuizID       uint      `json:"quiz_id"`
	Mode         string    `json:"mode"`
	Prompt       string    `json:"prompt"`
	AudioScript  *string   `json:"audio_script,omitempty"`
	AudioURL     *string   `json:"audio_url,omitempty"`
	Options      []string  `json:"options"`
	CorrectIndex string    `json:"correct_index"`
	Explanation  string    `json:"explanation,omitempty"`
	Points       int       `json:"points"`
	OrderNumber  int       `json:"order_number"`
	CreatedAt    time.Time `json:"created_at"`
}

type PersistedEssayQuestionResponse struct {
	ID             uint      `json:"id"`
	QuizID         uint      `json:"quiz_id"`
	Mode           string    `json:"mode"`
	Prompt         string    `json:"prompt"`
	ExpectedLength string    `json:"expected_length,omitempty"`
	Rubric         string    `json:"rubric,omitempty"`
	Points         int       `json:"points"`
	OrderNumber    int       `json:"order_number"`
	CreatedAt      time.Time `json:"created_at"`
}

type SaveQuestionsResponse struct {
	QuizID         uint                             `json:"quiz_id"`
	MCQuestions    []PersistedMCQuestionResponse    `json:"mc_questions"`
	EssayQuestions []PersistedEssayQuestionResponse `json:"essay_questions"`
}

type QuizQuestionsResponse struct {
	QuizID         uint                             `json:"quiz_id"`
	MCQuestions    []PersistedMCQuestionResponse    `json:"mc_questions"`
	EssayQuestions []PersistedEssayQuestionResponse `json:"essay_questions"`
}

// PublishFailure reports one audio-mode question that blocked a publish.
type PublishFailure struct {
	QuestionID uint   `json:"question_id"`
	Error      string `json:"error"`
}

type PublishQuizResponse struct {
	QuizID      uint             `json:"quiz_id"`
	Status      string           `json:"status"`
	PublishedAt *time.Time       `json:"published_at,omitempty"`
	Failures    []PublishFailure `json:"failures,omitempty"`
}
