package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

type AnalysisStore struct {
	db *sql.DB
}

func NewAnalysisStore(db *sql.DB) *AnalysisStore {
	return &AnalysisStore{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *AnalysisStore) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS document_analyses (
	batch_id TEXT NOT NULL,
	document_index INT NOT NULL,
	file_name TEXT NOT NULL,
	summary TEXT,
	file_type_detected TEXT,
	category TEXT,
	target_folder TEXT,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	generated_document_code TEXT,
	extracted_data JSONB,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (batch_id, document_index)
);

CREATE TABLE IF NOT EXISTS knowledge_entries (
	id TEXT PRIMARY KEY,
	batch_id TEXT NOT NULL,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	key_points JSONB NOT NULL DEFAULT '[]'::jsonb,
	tags JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS batch_requests (
	batch_id TEXT PRIMARY KEY,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS reference_documents (
	id TEXT PRIMARY KEY,
	file_type TEXT NOT NULL,
	category TEXT NOT NULL,
	tags JSONB NOT NULL DEFAULT '[]'::jsonb,
	keywords JSONB NOT NULL DEFAULT '[]'::jsonb,
	content TEXT NOT NULL DEFAULT '',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_knowledge_entries_batch ON knowledge_entries(batch_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (s *AnalysisStore) UpdateAnalysis(ctx context.Context, batchID string, update domain.AnalysisUpdate) error {
	extractedJSON, err := json.Marshal(update.ExtractedData)
	if err != nil {
		return fmt.Errorf("marshal extracted data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO document_analyses (
	batch_id, document_index, file_name, summary, file_type_detected, category, target_folder, confidence, generated_document_code, extracted_data, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (batch_id, document_index) DO UPDATE SET
	file_name = EXCLUDED.file_name,
	summary = EXCLUDED.summary,
	file_type_detected = EXCLUDED.file_type_detected,
	category = EXCLUDED.category,
	target_folder = EXCLUDED.target_folder,
	confidence = EXCLUDED.confidence,
	generated_document_code = EXCLUDED.generated_document_code,
	extracted_data = EXCLUDED.extracted_data,
	updated_at = EXCLUDED.updated_at
`,
		batchID, update.DocumentIndex, update.FileName, update.Summary, update.FileTypeDetected,
		update.Category, update.TargetFolder, update.Confidence, update.GeneratedDocumentCode,
		extractedJSON, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert analysis: %w", err)
	}
	return nil
}

func (s *AnalysisStore) CreateKnowledgeEntry(ctx context.Context, batchID string, entry domain.KnowledgeEntry) error {
	pointsJSON, err := json.Marshal(entry.KeyPoints)
	if err != nil {
		return fmt.Errorf("marshal key points: %w", err)
	}
	tagsJSON, err := json.Marshal(entry.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO knowledge_entries (id, batch_id, title, content, key_points, tags, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`,
		uuid.NewString(), batchID, entry.Title, entry.Content, pointsJSON, tagsJSON, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert knowledge entry: %w", err)
	}
	return nil
}
