package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/model"
	"gorm.io/gorm"
)

// fakeMCRepo assigns order numbers continuing from maxOrder, mimicking the
// advisory-locked batch insert.
type fakeMCRepo struct {
	maxOrder int
	saved    []model.MCQuestion
	audio    []model.MCQuestion
	err      error
}

func (f *fakeMCRepo) CreateBatchOrdered(quizID uint, questions []model.MCQuestion) ([]model.MCQuestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range questions {
		questions[i].ID = uint(len(f.saved) + i + 1)
		questions[i].QuizID = quizID
		questions[i].OrderNumber = f.maxOrder + i + 1
	}
	f.maxOrder += len(questions)
	f.saved = append(f.saved, questions...)
	return questions, nil
}

func (f *fakeMCRepo) FindByID(id uint) (*model.MCQuestion, error) {
	for i := range f.saved {
		if f.saved[i].ID == id {
			return &f.saved[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMCRepo) FindByQuizID(quizID uint) ([]model.MCQuestion, error) { return f.saved, nil }

func (f *fakeMCRepo) FindAudioByQuizID(quizID uint) ([]model.MCQuestion, error) { return f.audio, nil }

func (f *fakeMCRepo) Delete(id uint) error { return nil }

type fakeEssayRepo struct {
	maxOrder int
	saved    []model.EssayQuestion
	err      error
}

func (f *fakeEssayRepo) CreateBatchOrdered(quizID uint, questions []model.EssayQuestion) ([]model.EssayQuestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range questions {
		questions[i].ID = uint(len(f.saved) + i + 1)
		questions[i].QuizID = quizID
		questions[i].OrderNumber = f.maxOrder + i + 1
	}
	f.maxOrder += len(questions)
	f.saved = append(f.saved, questions...)
	return questions, nil
}

func (f *fakeEssayRepo) FindByID(id uint) (*model.EssayQuestion, error) {
	for i := range f.saved {
		if f.saved[i].ID == id {
			return &f.saved[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEssayRepo) FindByQuizID(quizID uint) ([]model.EssayQuestion, error) { return f.saved, nil }

func (f *fakeEssayRepo) Delete(id uint) error { return nil }

func mcDTO(id, prompt string) dto.GeneratedQuestionDTO {
	return dto.GeneratedQuestionDTO{
		ID:           id,
		Type:         dto.QuestionTypeMultipleChoice,
		Mode:         model.MCModeText,
		Prompt:       prompt,
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: "2",
		Explanation:  "because",
	}
}

func essayDTO(id, prompt string) dto.GeneratedQuestionDTO {
	return dto.GeneratedQuestionDTO{
		ID:     id,
		Type:   dto.QuestionTypeEssay,
		Mode:   model.EssayModeText,
		Prompt: prompt,
		Rubric: "full credit for a complete answer",
	}
}

// TestWriter_OrderNumbersContinue verifies saved questions extend each type's
// existing order sequence, preserving the submitted order within the batch.
func TestWriter_OrderNumbersContinue(t *testing.T) {
	t.Parallel()

	mcRepo := &fakeMCRepo{maxOrder: 3}
	essayRepo := &fakeEssayRepo{maxOrder: 1}
	writer := NewQuestionWriterService(mcRepo, essayRepo)

	resp, err := writer.Save(42, []dto.GeneratedQuestionDTO{
		mcDTO("q1", "first mc"),
		essayDTO("q2", "first essay"),
		mcDTO("q3", "second mc"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.MCQuestions) != 2 || len(resp.EssayQuestions) != 1 {
		t.Fatalf("got %d mc and %d essay responses, want 2 and 1", len(resp.MCQuestions), len(resp.EssayQuestions))
	}
	if resp.MCQuestions[0].OrderNumber != 4 || resp.MCQuestions[1].OrderNumber != 5 {
		t.Errorf("mc order numbers = %d, %d, want 4, 5", resp.MCQuestions[0].OrderNumber, resp.MCQuestions[1].OrderNumber)
	}
	if resp.MCQuestions[0].Prompt != "first mc" || resp.MCQuestions[1].Prompt != "second mc" {
		t.Error("mc questions not saved in submitted order")
	}
	if resp.EssayQuestions[0].OrderNumber != 2 {
		t.Errorf("essay order number = %d, want 2", resp.EssayQuestions[0].OrderNumber)
	}
}

// TestWriter_PointsDefaulted verifies omitted points get the per-type default.
func TestWriter_PointsDefaulted(t *testing.T) {
	t.Parallel()

	writer := NewQuestionWriterService(&fakeMCRepo{}, &fakeEssayRepo{})

	resp, err := writer.Save(1, []dto.GeneratedQuestionDTO{
		mcDTO("q1", "mc"),
		essayDTO("q2", "essay"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.MCQuestions[0].Points != 1 {
		t.Errorf("mc points = %d, want 1", resp.MCQuestions[0].Points)
	}
	if resp.EssayQuestions[0].Points != 5 {
		t.Errorf("essay points = %d, want 5", resp.EssayQuestions[0].Points)
	}
}

// TestWriter_RejectsInvalidBeforeWriting verifies a bad question fails the
// whole request before any batch is written.
func TestWriter_RejectsInvalidBeforeWriting(t *testing.T) {
	t.Parallel()

	mcRepo := &fakeMCRepo{}
	writer := NewQuestionWriterService(mcRepo, &fakeEssayRepo{})

	bad := mcDTO("q2", "bad mc")
	bad.Options = []string{"only", "two"}

	_, err := writer.Save(1, []dto.GeneratedQuestionDTO{mcDTO("q1", "good mc"), bad})
	if !apperr.IsKind(err, apperr.KindInvalidQuestionData) {
		t.Fatalf("expected invalid question data error, got %v", err)
	}
	if len(mcRepo.saved) != 0 {
		t.Errorf("repository received %d questions despite validation failure", len(mcRepo.saved))
	}
}

// TestWriter_EssayBatchFailureNamesSavedBatch verifies the error after a
// partial save tells the caller the multiple-choice batch already committed.
func TestWriter_EssayBatchFailureNamesSavedBatch(t *testing.T) {
	t.Parallel()

	writer := NewQuestionWriterService(&fakeMCRepo{}, &fakeEssayRepo{err: errors.New("connection reset")})

	_, err := writer.Save(1, []dto.GeneratedQuestionDTO{
		mcDTO("q1", "mc"),
		essayDTO("q2", "essay"),
	})
	if !apperr.IsKind(err, apperr.KindDatabaseError) {
		t.Fatalf("expected database error, got %v", err)
	}
	if want := "essay question batch failed (multiple-choice batch of 1 was saved)"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not mention the committed batch (%q)", err.Error(), want)
	}
}
