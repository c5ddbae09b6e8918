package dto

// CreateQuizRequest creates a draft quiz, optionally bound to an ingested
// source document. A quiz without a source document cannot use AI generation.
type CreateQuizRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        string  `json:"description"`
	SourceDocumentPath *string `json:"source_document_path"`
}

// IngestDocumentRequest carries the extracted text of an uploaded document.
// Upload mechanics live outside this service; by the time this request
// arrives the file already has a durable path.
type IngestDocumentRequest struct {
	SourceText     string `json:"source_text" binding:"required"`
	FileName       string `json:"file_name" binding:"required"`
	FilePath       string `json:"file_path" binding:"required"`
	FileSizeBytes  int64  `json:"file_size_bytes"`
	MimeType       string `json:"mime_type"`
	ExternalFileID string `json:"external_file_id"`
}

type GenerateQuestionsRequest struct {
	QuestionCount          int     `json:"question_count" binding:"required,min=1,max=20"`
	QuestionType           string  `json:"question_type" binding:"required,oneof=multiple_choice essay mixed"`
	QuestionMode           *string `json:"question_mode" binding:"omitempty,oneof=text audio"`
	AnswerMode             *string `json:"answer_mode" binding:"omitempty,oneof=text voice"`
	AdditionalInstructions string  `json:"additional_instructions"`
	PersistImmediately     bool    `json:"persist_immediately"`
}

// SaveQuestionsRequest persists reviewed (possibly edited) generated questions.
type SaveQuestionsRequest struct {
	Questions []GeneratedQuestionDTO `json:"questions" binding:"required,min=1,dive"`
}
