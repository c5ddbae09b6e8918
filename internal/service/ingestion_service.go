package service

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"github.com/quizcraft/backend/internal/apperr"
	"github.com/quizcraft/backend/internal/dto"
	"github.com/quizcraft/backend/internal/model"
	"github.com/quizcraft/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// DocumentIngestionService turns an uploaded document's extracted text into
// embedded chunks ready for similarity search.
type DocumentIngestionService interface {
	Ingest(ctx context.Context, userID uint, req dto.IngestDocumentRequest) (dto.IngestDocumentResponse, error)
}

type documentIngestionService struct {
	chunker   *DocumentChunker
	embedder  EmbeddingService
	chunkRepo repository.ChunkRepository
}

func NewDocumentIngestionService(chunker *DocumentChunker, embedder EmbeddingService, chunkRepo repository.ChunkRepository) DocumentIngestionService {
	return &documentIngestionService{chunker: chunker, embedder: embedder, chunkRepo: chunkRepo}
}

func (s *documentIngestionService) Ingest(ctx context.Context, userID uint, req dto.IngestDocumentRequest) (dto.IngestDocumentResponse, error) {
	texts, err := s.chunker.Chunk(req.SourceText)
	if err != nil {
		return dto.IngestDocumentResponse{}, err
	}

	chunks := make([]model.DocumentChunk, 0, len(texts))
	for i, text := range texts {
		embedding, err := s.embedder.Embed(ctx, text)
		if err != nil {
			// All-or-nothing: one failed embedding aborts the whole
			// document so no partially searchable document exists.
			log.Error().Err(err).Int("chunkIndex", i).Str("fileName", req.FileName).Msg("Chunk embedding failed, aborting ingestion")
			return dto.IngestDocumentResponse{}, err
		}
		chunks = append(chunks, model.DocumentChunk{
			UserID:         userID,
			SourceFileName: req.FileName,
			SourceFilePath: req.FilePath,
			ChunkIndex:     i,
			TotalChunks:    len(texts),
			Text:           text,
			Embedding:      pgvector.NewVector(embedding),
		})
	}

	if err := s.chunkRepo.StoreBatch(chunks); err != nil {
		return dto.IngestDocumentResponse{}, apperr.Wrap(apperr.KindDatabaseError, "failed to store document chunks", err)
	}

	log.Info().Str("fileName", req.FileName).Int("chunks", len(chunks)).Msg("Document ingested")
	return dto.IngestDocumentResponse{
		FileName:    req.FileName,
		FilePath:    req.FilePath,
		ChunksSaved: len(chunks),
	}, nil
}
