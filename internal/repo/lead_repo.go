package repo

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/brandbot/internal/model"
	"github.com/xxxsen/brandbot/internal/pkg/dbutil"
	"github.com/xxxsen/brandbot/internal/pkg/errs"
)

// LeadRepo is insert-only: a lead row is created at most once per email and
// never updated or deleted by this service.
type LeadRepo struct {
	db *sql.DB
}

func NewLeadRepo(db *sql.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

func (r *LeadRepo) Insert(ctx context.Context, item *model.Lead) (int64, error) {
	data := map[string]interface{}{
		"name":         item.Name,
		"email":        strings.ToLower(strings.TrimSpace(item.Email)),
		"phone":        item.Phone,
		"ip_address":   item.IPAddress,
		"chat_context": item.ChatContext,
		"valid_email":  item.ValidEmail,
		"session_id":   item.SessionID,
		"ctime":        time.Now().UnixMilli(),
	}
	sqlStr, args, err := builder.BuildInsert("leads", []map[string]interface{}{data})
	if err != nil {
		return 0, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	sqlStr += " RETURNING id"
	var id int64
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&id); err != nil {
		if dbutil.IsConflict(err) {
			return 0, errs.ErrDuplicateEmail
		}
		return 0, err
	}
	return id, nil
}

func (r *LeadRepo) List(ctx context.Context, limit, offset int) ([]model.Lead, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
		SELECT id, name, email, phone, ip_address, chat_context, valid_email, session_id, ctime
		FROM leads
		ORDER BY ctime DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Lead
	for rows.Next() {
		var item model.Lead
		if err := rows.Scan(&item.ID, &item.Name, &item.Email, &item.Phone,
			&item.IPAddress, &item.ChatContext, &item.ValidEmail, &item.SessionID, &item.Ctime); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *LeadRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
