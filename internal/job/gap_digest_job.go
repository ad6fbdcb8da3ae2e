package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/brandbot/internal/repo"
)

const digestTopN = 10

// GapDigestJob surfaces the most frequent unanswered questions in the
// service log on a schedule, so an operator sees them without opening the
// admin dashboard.
type GapDigestJob struct {
	gaps *repo.GapRepo
}

func NewGapDigestJob(gaps *repo.GapRepo) *GapDigestJob {
	return &GapDigestJob{gaps: gaps}
}

func (j *GapDigestJob) Name() string {
	return "gap_digest"
}

func (j *GapDigestJob) Run(ctx context.Context) error {
	if j.gaps == nil {
		return nil
	}
	items, err := j.gaps.ListActive(ctx, digestTopN)
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)
	if len(items) == 0 {
		logger.Info("no active knowledge gaps")
		return nil
	}
	for _, item := range items {
		logger.Info("knowledge gap digest",
			zap.Int64("id", item.ID),
			zap.String("question", item.Question),
			zap.Int("occurrences", item.OccurrenceCount),
			zap.Float32("best_score", item.BestScore),
		)
	}
	return nil
}
