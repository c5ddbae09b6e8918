package service

import (
	"context"
	"strings"
	"testing"

	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/model"
)

// TestIngest_StoresContiguousChunks verifies every chunk is embedded and
// stored with contiguous indices and the shared total.
func TestIngest_StoresContiguousChunks(t *testing.T) {
	t.Parallel()

	repo := &fakeChunkRepo{}
	embedder := &fakeEmbedder{vector: make([]float32, model.EmbeddingDim)}
	svc := NewDocumentIngestionService(NewDocumentChunker(120, 0), embedder, repo)

	text := strings.TrimSpace(strings.Repeat("A reasonably long sentence about cell biology. ", 12))
	resp, err := svc.Ingest(context.Background(), 7, dto.IngestDocumentRequest{
		SourceText: text,
		FileName:   "bio.pdf",
		FilePath:   "docs/bio.pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ChunksSaved != len(repo.stored) {
		t.Errorf("response reports %d chunks, repository received %d", resp.ChunksSaved, len(repo.stored))
	}
	if embedder.calls != len(repo.stored) {
		t.Errorf("embedder called %d times for %d chunks", embedder.calls, len(repo.stored))
	}
	for i, chunk := range repo.stored {
		if chunk.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, chunk.ChunkIndex)
		}
		if chunk.TotalChunks != len(repo.stored) {
			t.Errorf("chunk %d has total %d, want %d", i, chunk.TotalChunks, len(repo.stored))
		}
		if chunk.UserID != 7 || chunk.SourceFilePath != "docs/bio.pdf" {
			t.Errorf("chunk %d has wrong ownership: user %d path %q", i, chunk.UserID, chunk.SourceFilePath)
		}
	}
}

// TestIngest_EmptyDocument verifies a whitespace-only document is rejected
// before any embedding call.
func TestIngest_EmptyDocument(t *testing.T) {
	t.Parallel()

	embedder := &fakeEmbedder{}
	svc := NewDocumentIngestionService(NewDocumentChunker(DefaultChunkSize, DefaultChunkOverlap), embedder, &fakeChunkRepo{})

	_, err := svc.Ingest(context.Background(), 7, dto.IngestDocumentRequest{SourceText: "   ", FileName: "x", FilePath: "x"})
	if !apperr.IsKind(err, apperr.KindNoChunksGenerated) {
		t.Errorf("expected no-chunks error, got %v", err)
	}
	if embedder.calls != 0 {
		t.Errorf("embedder was called %d times for an empty document", embedder.calls)
	}
}

// TestIngest_EmbeddingFailureAborts verifies a failed embedding stores
// nothing.
func TestIngest_EmbeddingFailureAborts(t *testing.T) {
	t.Parallel()

	repo := &fakeChunkRepo{}
	embedder := &fakeEmbedder{err: apperr.New(apperr.KindEmbeddingFailed, "provider down")}
	svc := NewDocumentIngestionService(NewDocumentChunker(DefaultChunkSize, DefaultChunkOverlap), embedder, repo)

	_, err := svc.Ingest(context.Background(), 7, dto.IngestDocumentRequest{
		SourceText: "A single healthy sentence.",
		FileName:   "x",
		FilePath:   "x",
	})
	if !apperr.IsKind(err, apperr.KindEmbeddingFailed) {
		t.Fatalf("expected embedding failed error, got %v", err)
	}
	if len(repo.stored) != 0 {
		t.Errorf("repository received %d chunks despite embedding failure", len(repo.stored))
	}
}
