package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

// BatchRequestStore hands submitted batches from the api process to workers.
// File payloads ride inside the JSONB column; batches are small enough that a
// separate blob store is not warranted.
type BatchRequestStore struct {
	db *sql.DB
}

func NewBatchRequestStore(db *sql.DB) *BatchRequestStore {
	return &BatchRequestStore{db: db}
}

func (s *BatchRequestStore) SaveRequest(ctx context.Context, req domain.BatchRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal batch request: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO batch_requests (batch_id, payload, created_at)
VALUES ($1,$2,$3)
ON CONFLICT (batch_id) DO UPDATE SET payload = EXCLUDED.payload
`,
		req.BatchID, payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert batch request: %w", err)
	}
	return nil
}

func (s *BatchRequestStore) LoadRequest(ctx context.Context, batchID string) (domain.BatchRequest, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM batch_requests WHERE batch_id = $1`, batchID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BatchRequest{}, domain.WrapError(domain.ErrNotFound, "load batch request",
				fmt.Errorf("batch %s", batchID))
		}
		return domain.BatchRequest{}, fmt.Errorf("query batch request: %w", err)
	}

	var req domain.BatchRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return domain.BatchRequest{}, fmt.Errorf("unmarshal batch request: %w", err)
	}
	return req, nil
}
