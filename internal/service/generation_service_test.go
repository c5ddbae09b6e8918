package service

import (
	"context"
	"sync"
	"testing"

	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/model"
)

type fakeRetriever struct {
	context string
	err     error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, userID uint, sourcePath, query string) (string, error) {
	return f.context, f.err
}

// fakeGenerator returns distinguishable questions per type so interleaving
// can be asserted. Mixed generation calls it from two goroutines, so call
// recording is guarded by a mutex.
type fakeGenerator struct {
	mu    sync.Mutex
	calls []GenerationParams
}

func (f *fakeGenerator) Generate(ctx context.Context, params GenerationParams) ([]dto.GeneratedQuestionDTO, error) {
	f.mu.Lock()
	f.calls = append(f.calls, params)
	f.mu.Unlock()
	questions := make([]dto.GeneratedQuestionDTO, params.Count)
	for i := range questions {
		questions[i] = dto.GeneratedQuestionDTO{Type: params.Type}
	}
	return questions, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeWriter struct {
	savedQuizID uint
	saved       []dto.GeneratedQuestionDTO
}

func (f *fakeWriter) Save(quizID uint, questions []dto.GeneratedQuestionDTO) (dto.SaveQuestionsResponse, error) {
	f.savedQuizID = quizID
	f.saved = questions
	return dto.SaveQuestionsResponse{QuizID: quizID}, nil
}

func quizWithDocument(owner uint) *model.Quiz {
	path := "docs/bio.pdf"
	return &model.Quiz{ID: 1, Name: "Biology", Status: model.QuizStatusDraft, CreatedBy: owner, SourceDocumentPath: &path}
}

// TestGeneration_Preconditions verifies the gate checks that run before any
// retrieval or model work.
func TestGeneration_Preconditions(t *testing.T) {
	t.Parallel()

	req := dto.GenerateQuestionsRequest{QuestionCount: 3, QuestionType: dto.QuestionTypeMultipleChoice}

	svc := NewQuestionGenerationService(&fakeQuizRepo{}, &fakeRetriever{}, &fakeGenerator{}, &fakeWriter{})
	if _, err := svc.Generate(context.Background(), 7, 1, req); !apperr.IsKind(err, apperr.KindMissingPrecondition) {
		t.Errorf("missing quiz: expected precondition error, got %v", err)
	}

	svc = NewQuestionGenerationService(&fakeQuizRepo{quiz: quizWithDocument(7)}, &fakeRetriever{}, &fakeGenerator{}, &fakeWriter{})
	if _, err := svc.Generate(context.Background(), 99, 1, req); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("foreign user: expected unauthorized error, got %v", err)
	}

	noDoc := quizWithDocument(7)
	noDoc.SourceDocumentPath = nil
	svc = NewQuestionGenerationService(&fakeQuizRepo{quiz: noDoc}, &fakeRetriever{}, &fakeGenerator{}, &fakeWriter{})
	_, err := svc.Generate(context.Background(), 7, 1, req)
	if !apperr.IsKind(err, apperr.KindMissingPrecondition) {
		t.Fatalf("no document: expected precondition error, got %v", err)
	}
	if err.Error() != "Quiz has no source document for AI generation" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

// TestGeneration_MixedSplitsAndInterleaves verifies a mixed request produces
// a 60/40 split with the types alternating from the top of the list.
func TestGeneration_MixedSplitsAndInterleaves(t *testing.T) {
	t.Parallel()

	generator := &fakeGenerator{}
	svc := NewQuestionGenerationService(&fakeQuizRepo{quiz: quizWithDocument(7)},
		&fakeRetriever{context: "source material"}, generator, &fakeWriter{})

	resp, err := svc.Generate(context.Background(), 7, 1, dto.GenerateQuestionsRequest{
		QuestionCount: 5,
		QuestionType:  dto.QuestionTypeMixed,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalQuestions != 5 {
		t.Fatalf("total questions = %d, want 5", resp.TotalQuestions)
	}
	wantTypes := []string{
		dto.QuestionTypeMultipleChoice, dto.QuestionTypeEssay,
		dto.QuestionTypeMultipleChoice, dto.QuestionTypeEssay,
		dto.QuestionTypeMultipleChoice,
	}
	for i, want := range wantTypes {
		if resp.Questions[i].Type != want {
			t.Errorf("question %d type = %q, want %q", i, resp.Questions[i].Type, want)
		}
	}
	if got := generator.callCount(); got != 2 {
		t.Fatalf("generator called %d times, want 2", got)
	}
}

// TestGeneration_PersistImmediately verifies the persist flag routes the
// generated questions straight to the writer.
func TestGeneration_PersistImmediately(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	svc := NewQuestionGenerationService(&fakeQuizRepo{quiz: quizWithDocument(7)},
		&fakeRetriever{context: "source material"}, &fakeGenerator{}, writer)

	resp, err := svc.Generate(context.Background(), 7, 1, dto.GenerateQuestionsRequest{
		QuestionCount:      2,
		QuestionType:       dto.QuestionTypeEssay,
		PersistImmediately: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Persisted {
		t.Error("response must report persistence")
	}
	if writer.savedQuizID != 1 || len(writer.saved) != 2 {
		t.Errorf("writer received quiz %d with %d questions, want quiz 1 with 2", writer.savedQuizID, len(writer.saved))
	}
}

// TestGeneration_ReviewByDefault verifies that without the persist flag the
// questions are returned but never written.
func TestGeneration_ReviewByDefault(t *testing.T) {
	t.Parallel()

	writer := &fakeWriter{}
	svc := NewQuestionGenerationService(&fakeQuizRepo{quiz: quizWithDocument(7)},
		&fakeRetriever{context: "source material"}, &fakeGenerator{}, writer)

	resp, err := svc.Generate(context.Background(), 7, 1, dto.GenerateQuestionsRequest{
		QuestionCount: 4,
		QuestionType:  dto.QuestionTypeMultipleChoice,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Persisted {
		t.Error("response must not report persistence")
	}
	if len(writer.saved) != 0 {
		t.Errorf("writer received %d questions, want none", len(writer.saved))
	}
}
