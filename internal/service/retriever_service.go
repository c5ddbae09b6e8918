package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	searchCandidates   = 10
	minSimilarity      = 0.5
	fallbackChunkCount = 5
	maxContextChars    = 12000
)

// ContextRetrieverService assembles the source-material context that grounds
// question generation for one quiz document.
type ContextRetrieverService interface {
	Retrieve(ctx context.Context, userID uint, sourcePath, query string) (string, error)
}

type contextRetrieverService struct {
	chunkRepo repository.ChunkRepository
	embedder  EmbeddingService
}

func NewContextRetrieverService(chunkRepo repository.ChunkRepository, embedder EmbeddingService) ContextRetrieverService {
	return &contextRetrieverService{chunkRepo: chunkRepo, embedder: embedder}
}

func (s *contextRetrieverService) Retrieve(ctx context.Context, userID uint, sourcePath, query string) (string, error) {
	count, err := s.chunkRepo.CountByPath(userID, sourcePath)
	if err != nil {
		return "", apperr.Wrap(apperr.KindDatabaseError, "failed to check document chunks", err)
	}
	if count == 0 {
		return "", apperr.Newf(apperr.KindDocumentNotFound, "no chunks found for document %s", sourcePath)
	}

	relevant, err := s.searchRelevant(ctx, userID, sourcePath, query)
	if err != nil {
		return "", err
	}
	if len(relevant) > 0 {
		return buildContext(relevant), nil
	}

	// Nothing cleared the similarity bar; fall back to the document's
	// opening chunks so generation still has something to work with.
	log.Info().Str("sourcePath", sourcePath).Msg("No chunks above similarity threshold, using document head as context")
	head, err := s.chunkRepo.FindFirstByPath(userID, sourcePath, fallbackChunkCount)
	if err != nil {
		return "", apperr.Wrap(apperr.KindDatabaseError, "failed to load fallback chunks", err)
	}
	sections := make([]string, 0, len(head))
	for _, chunk := range head {
		sections = append(sections, fmt.Sprintf("[Source: %s | Section %d]\n%s", chunk.SourceFileName, chunk.ChunkIndex+1, chunk.Text))
	}
	return truncateContext(strings.Join(sections, "\n\n")), nil
}

func (s *contextRetrieverService) searchRelevant(ctx context.Context, userID uint, sourcePath, query string) ([]repository.ScoredChunk, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	hits, err := s.chunkRepo.Search(embedding, userID, searchCandidates)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDatabaseError, "chunk similarity search failed", err)
	}
	relevant := make([]repository.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		if hit.SourceFilePath == sourcePath && hit.Similarity >= minSimilarity {
			relevant = append(relevant, hit)
		}
	}
	return relevant, nil
}

func buildContext(chunks []repository.ScoredChunk) string {
	sections := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		sections = append(sections, fmt.Sprintf("[Source: %s | Relevance: %.0f%%]\n%s",
			chunk.SourceFileName, chunk.Similarity*100, chunk.Text))
	}
	return truncateContext(strings.Join(sections, "\n\n"))
}

func truncateContext(context string) string {
	if len(context) <= maxContextChars {
		return context
	}
	return context[:maxContextChars]
}
