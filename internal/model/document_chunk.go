package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDim is the fixed dimensionality of chunk embeddings.
const EmbeddingDim = 1536

// DocumentChunk is one embedded segment of an ingested document. Chunks are
// written once at ingestion and never updated; re-ingesting a document stores
// a fresh set under a new source path.
type DocumentChunk struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	UserID         uint            `json:"user_id" gorm:"not null;index"`
	SourceFileName string          `json:"source_file_name" gorm:"not null"`
	SourceFilePath string          `json:"source_file_path" gorm:"not null;index"`
	ChunkIndex     int             `json:"chunk_index" gorm:"not null"` // contiguous 0..TotalChunks-1 per (UserID, SourceFilePath)
	TotalChunks    int             `json:"total_chunks" gorm:"not null"`
	Text           string          `json:"text" gorm:"type:text;not null"`
	Embedding      pgvector.Vector `json:"-" gorm:"type:vector(1536)"`
	CreatedAt      time.Time       `json:"created_at"`
}
