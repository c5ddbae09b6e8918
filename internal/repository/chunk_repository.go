package repository

import (
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/quizcraft/backend/internal/model"
	"gorm.io/gorm"
)

// ScoredChunk is a similarity-search hit. It lives for one generation request.
type ScoredChunk struct {
	Text           string
	SourceFileName string
	SourceFilePath string
	Similarity     float64
}

type ChunkRepository interface {
	// StoreBatch inserts all chunks of one ingested document in a single
	// transaction, so a failure leaves nothing behind.
	StoreBatch(chunks []model.DocumentChunk) error
	// Search returns up to limit chunks for the user ranked by descending
	// cosine similarity. Source-document filtering is the caller's job.
	Search(embedding []float32, userID uint, limit int) ([]ScoredChunk, error)
	// FindFirstByPath returns the document's leading chunks in chunk-index
	// order, used as the deterministic retrieval fallback.
	FindFirstByPath(userID uint, sourcePath string, limit int) ([]model.DocumentChunk, error)
	CountByPath(userID uint, sourcePath string) (int64, error)
}

type chunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) ChunkRepository {
	return &chunkRepository{db: db}
}

func (r *chunkRepository) StoreBatch(chunks []model.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&chunks, 100).Error
	})
	if err != nil {
		return fmt.Errorf("chunk batch insert failed, 0 of %d chunks saved: %w", len(chunks), err)
	}
	return nil
}

func (r *chunkRepository) Search(embedding []float32, userID uint, limit int) ([]ScoredChunk, error) {
	vec := pgvector.NewVector(embedding)
	var results []ScoredChunk
	// <=> is cosine distance in [0,2]; clamp so similarity stays in [0,1]
	// even for near-opposite vectors.
	err := r.db.Raw(`
		SELECT text, source_file_name, source_file_path,
		       GREATEST(0, 1 - (embedding <=> ?)) AS similarity
		FROM document_chunks
		WHERE user_id = ?
		ORDER BY embedding <=> ?
		LIMIT ?`,
		vec, userID, vec, limit,
	).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chunkRepository) FindFirstByPath(userID uint, sourcePath string, limit int) ([]model.DocumentChunk, error) {
	var chunks []model.DocumentChunk
	err := r.db.
		Where("user_id = ? AND source_file_path = ?", userID, sourcePath).
		Order("chunk_index ASC").
		Limit(limit).
		Find(&chunks).Error
	return chunks, err
}

func (r *chunkRepository) CountByPath(userID uint, sourcePath string) (int64, error) {
	var count int64
	err := r.db.Model(&model.DocumentChunk{}).
		Where("user_id = ? AND source_file_path = ?", userID, sourcePath).
		Count(&count).Error
	return count, err
}
