package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	goredis "github.com/redis/go-redis/v9"

	"github.com/xxxsen/brandbot/internal/model"
	"github.com/xxxsen/brandbot/internal/pkg/errs"
)

// Chunk text lives in this side map because the ANN index does not retain
// raw content.
const contentMapKey = "vec_content"

// PGStore delegates nearest-neighbor search to a pgvector index while
// keeping the Store contract. Clear is not supported on this backend.
type PGStore struct {
	db  *sql.DB
	rdb *goredis.Client
}

func NewPGStore(db *sql.DB, rdb *goredis.Client) *PGStore {
	return &PGStore{db: db, rdb: rdb}
}

func (s *PGStore) Upsert(ctx context.Context, rec *model.StoredVector) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("vector id is required")
	}
	meta, err := json.Marshal(rec.Metadata)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO brand_vectors (id, embedding, metadata, mtime)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata,
			mtime = EXCLUDED.mtime
	`
	if _, err := s.db.ExecContext(ctx, query, rec.ID, pgvector.NewVector(rec.Embedding), meta, time.Now().UnixMilli()); err != nil {
		return err
	}
	return s.rdb.HSet(ctx, contentMapKey, rec.ID, rec.Content).Err()
}

func (s *PGStore) Search(ctx context.Context, query []float32, topK int) ([]model.SearchResult, error) {
	if topK <= 0 {
		return nil, nil
	}
	const stmt = `
		SELECT id, metadata, 1 - (embedding <=> $1) AS score
		FROM brand_vectors
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, stmt, pgvector.NewVector(query), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	var results []model.SearchResult
	for rows.Next() {
		var id string
		var meta []byte
		var score float64
		if err := rows.Scan(&id, &meta, &score); err != nil {
			return nil, err
		}
		item := model.SearchResult{Score: float32(score)}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &item.Metadata); err != nil {
				return nil, fmt.Errorf("decode vector metadata: %w", err)
			}
		}
		ids = append(ids, id)
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	contents, err := s.rdb.HMGet(ctx, contentMapKey, ids...).Result()
	if err != nil {
		return nil, err
	}
	for i, value := range contents {
		if text, ok := value.(string); ok {
			results[i].Content = text
		}
	}
	return results, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM brand_vectors WHERE id = $1`, id); err != nil {
		return err
	}
	return s.rdb.HDel(ctx, contentMapKey, id).Err()
}

func (s *PGStore) Stats(ctx context.Context) (Stats, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM brand_vectors`).Scan(&count); err != nil {
		return Stats{}, err
	}
	return Stats{Count: count}, nil
}

// Clear is not available when search is delegated to the external index;
// callers treat it as an optional capability.
func (s *PGStore) Clear(ctx context.Context) error {
	return errs.ErrNotImplemented
}
