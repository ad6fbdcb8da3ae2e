package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/xxxsen/brandbot/internal/model"
	"github.com/xxxsen/brandbot/internal/pkg/errs"
)

// GapRepo stores knowledge gaps deduplicated by normalized question text.
type GapRepo struct {
	db *sql.DB
}

func NewGapRepo(db *sql.DB) *GapRepo {
	return &GapRepo{db: db}
}

// Record upserts one occurrence. A recurring active question bumps the
// counter, the last-seen time, the best score (max) and the sample-session
// list (distinct, capped at 5). A resolved row is left untouched: gaps
// never reactivate without an operator.
func (r *GapRepo) Record(ctx context.Context, question string, normalized string, bestScore float32, sessionID string) error {
	now := time.Now().UnixMilli()
	sessions, err := json.Marshal([]string{sessionID})
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO knowledge_gaps
			(question, question_normalized, best_score, occurrence_count, first_seen_at, last_seen_at, sample_sessions, status)
		VALUES ($1, $2, $3, 1, $4, $4, $5, 'active')
		ON CONFLICT (question_normalized) DO UPDATE SET
			occurrence_count = knowledge_gaps.occurrence_count + 1,
			last_seen_at = EXCLUDED.last_seen_at,
			best_score = GREATEST(knowledge_gaps.best_score, EXCLUDED.best_score),
			sample_sessions = CASE
				WHEN jsonb_array_length(knowledge_gaps.sample_sessions) < 5
					AND NOT knowledge_gaps.sample_sessions @> to_jsonb($6::text)
				THEN knowledge_gaps.sample_sessions || to_jsonb($6::text)
				ELSE knowledge_gaps.sample_sessions
			END
		WHERE knowledge_gaps.status = 'active'
	`
	_, err = r.db.ExecContext(ctx, query, question, normalized, bestScore, now, sessions, sessionID)
	return err
}

func (r *GapRepo) GetByNormalized(ctx context.Context, normalized string) (*model.KnowledgeGap, error) {
	const query = `
		SELECT id, question, question_normalized, best_score, occurrence_count,
			first_seen_at, last_seen_at, sample_sessions, status,
			COALESCE(resolved_at, 0), COALESCE(resolution_note, '')
		FROM knowledge_gaps
		WHERE question_normalized = $1
	`
	row := r.db.QueryRowContext(ctx, query, normalized)
	item, err := scanGap(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *GapRepo) ListActive(ctx context.Context, limit int) ([]model.KnowledgeGap, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, question, question_normalized, best_score, occurrence_count,
			first_seen_at, last_seen_at, sample_sessions, status,
			COALESCE(resolved_at, 0), COALESCE(resolution_note, '')
		FROM knowledge_gaps
		WHERE status = 'active'
		ORDER BY occurrence_count DESC, last_seen_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.KnowledgeGap
	for rows.Next() {
		item, err := scanGap(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Resolve flips an active gap to resolved. Only an explicit operator action
// goes through here.
func (r *GapRepo) Resolve(ctx context.Context, id int64, note string) error {
	const query = `
		UPDATE knowledge_gaps
		SET status = 'resolved', resolved_at = $1, resolution_note = $2
		WHERE id = $3 AND status = 'active'
	`
	result, err := r.db.ExecContext(ctx, query, time.Now().UnixMilli(), note, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGap(row rowScanner) (*model.KnowledgeGap, error) {
	var item model.KnowledgeGap
	var sessions []byte
	if err := row.Scan(&item.ID, &item.Question, &item.QuestionNormalized, &item.BestScore,
		&item.OccurrenceCount, &item.FirstSeenAt, &item.LastSeenAt, &sessions,
		&item.Status, &item.ResolvedAt, &item.ResolutionNote); err != nil {
		return nil, err
	}
	if len(sessions) > 0 {
		if err := json.Unmarshal(sessions, &item.SampleSessions); err != nil {
			return nil, err
		}
	}
	return &item, nil
}
