package memory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/brandbot/internal/model"
	"github.com/xxxsen/brandbot/internal/pkg/errs"
)

const keyPrefix = "conversation:"

// Store is the per-session conversation memory on the shared KV. Every
// write re-arms the expiry, so a session idle for the full TTL loses all
// state; that is a retention bound, not a defect.
type Store struct {
	rdb    *goredis.Client
	window int
	ttl    time.Duration
}

func NewStore(rdb *goredis.Client, window int, ttl time.Duration) *Store {
	if window <= 0 {
		window = 10
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, window: window, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, sessionID string) (*model.ConversationRecord, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	var rec model.ConversationRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Append merges the turn into the session record. Lead fields accumulate
// monotonically, the message window keeps only the newest entries, and a
// nil captureInProgress retains the previously stored flag. A failed read
// degrades to an empty record rather than failing the turn.
func (s *Store) Append(ctx context.Context, sessionID string, msgs []model.Message, delta model.LeadInfo, captureInProgress *bool) error {
	rec, err := s.Get(ctx, sessionID)
	if err != nil {
		if !errs.IsNotFound(err) {
			logutil.GetLogger(ctx).Warn("conversation read failed, starting empty",
				zap.String("session_id", sessionID), zap.Error(err))
		}
		rec = &model.ConversationRecord{}
	}
	rec.LeadInfo = rec.LeadInfo.Merge(delta)
	rec.Messages = append(rec.Messages, msgs...)
	if len(rec.Messages) > s.window {
		rec.Messages = rec.Messages[len(rec.Messages)-s.window:]
	}
	if captureInProgress != nil {
		rec.LeadCaptureInProgress = *captureInProgress
	}
	rec.UpdatedAt = time.Now().UnixMilli()

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+sessionID, data, s.ttl).Err()
}
