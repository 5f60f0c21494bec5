package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

// ReferenceSource exposes operator-maintained reference documents. Rows merge
// over the builtin corpus by file type inside the reference resolver.
type ReferenceSource struct {
	db *sql.DB
}

func NewReferenceSource(db *sql.DB) *ReferenceSource {
	return &ReferenceSource{db: db}
}

func (s *ReferenceSource) ListReferences(ctx context.Context) ([]domain.ReferenceDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, file_type, category, tags, keywords, content, is_active, updated_at
FROM reference_documents
ORDER BY file_type
`)
	if err != nil {
		return nil, fmt.Errorf("query reference documents: %w", err)
	}
	defer rows.Close()

	var refs []domain.ReferenceDocument
	for rows.Next() {
		var ref domain.ReferenceDocument
		var tagsRaw, keywordsRaw []byte

		if err := rows.Scan(&ref.ID, &ref.FileType, &ref.Category, &tagsRaw, &keywordsRaw,
			&ref.Content, &ref.IsActive, &ref.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan reference document: %w", err)
		}
		if err := json.Unmarshal(tagsRaw, &ref.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags for %s: %w", ref.ID, err)
		}
		if err := json.Unmarshal(keywordsRaw, &ref.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshal keywords for %s: %w", ref.ID, err)
		}
		ref.Source = domain.ReferenceUser
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reference documents: %w", err)
	}
	return refs, nil
}
