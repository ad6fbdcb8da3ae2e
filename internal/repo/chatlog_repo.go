package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/brandbot/internal/model"
	"github.com/xxxsen/brandbot/internal/pkg/dbutil"
)

// ChatLogRepo is the analytics sink. Callers treat writes as best-effort.
type ChatLogRepo struct {
	db *sql.DB
}

func NewChatLogRepo(db *sql.DB) *ChatLogRepo {
	return &ChatLogRepo{db: db}
}

func (r *ChatLogRepo) Insert(ctx context.Context, item *model.ChatLog) error {
	data := map[string]interface{}{
		"session_id":   item.SessionID,
		"user_message": item.UserMessage,
		"reply":        item.Reply,
		"best_score":   item.BestScore,
		"lead_email":   item.LeadEmail,
		"ctime":        time.Now().UnixMilli(),
	}
	sqlStr, args, err := builder.BuildInsert("chat_logs", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ChatLogRepo) ListRecent(ctx context.Context, limit, offset int) ([]model.ChatLog, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
		SELECT id, session_id, user_message, reply, best_score, lead_email, ctime
		FROM chat_logs
		ORDER BY ctime DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.ChatLog
	for rows.Next() {
		var item model.ChatLog
		if err := rows.Scan(&item.ID, &item.SessionID, &item.UserMessage, &item.Reply,
			&item.BestScore, &item.LeadEmail, &item.Ctime); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *ChatLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM chat_logs WHERE ctime < $1`, cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
