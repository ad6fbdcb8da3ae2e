package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/brandbot/internal/repo"
)

// ChatLogRetentionJob trims the analytics table so it does not grow without
// bound. Leads and gaps are kept forever; only raw chat traffic ages out.
type ChatLogRetentionJob struct {
	chatLogs *repo.ChatLogRepo
	keepDays int
}

func NewChatLogRetentionJob(chatLogs *repo.ChatLogRepo, keepDays int) *ChatLogRetentionJob {
	return &ChatLogRetentionJob{chatLogs: chatLogs, keepDays: keepDays}
}

func (j *ChatLogRetentionJob) Name() string {
	return "chatlog_retention"
}

func (j *ChatLogRetentionJob) Run(ctx context.Context) error {
	if j.chatLogs == nil {
		return nil
	}
	keepDays := j.keepDays
	if keepDays <= 0 {
		keepDays = 90
	}
	cutoff := time.Now().AddDate(0, 0, -keepDays)
	deleted, err := j.chatLogs.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("chat logs trimmed",
		zap.Int64("deleted", deleted), zap.Int("keep_days", keepDays))
	return nil
}
