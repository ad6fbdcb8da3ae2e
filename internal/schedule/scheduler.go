package schedule

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Scheduler interface {
	AddJob(job Job, spec string) error
	Start(ctx context.Context)
	Stop()
}

// CronScheduler runs registered jobs on standard 5-field cron specs. A job
// still running when its next tick fires is skipped, not stacked.
type CronScheduler struct {
	cron *cron.Cron
	jobs map[string]*scheduledJob
	ctx  context.Context
}

type scheduledJob struct {
	job     Job
	spec    string
	entryID cron.EntryID
	running atomic.Bool
	runs    atomic.Int64
}

func NewCronScheduler() *CronScheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &CronScheduler{
		cron: cron.New(cron.WithParser(parser)),
		jobs: make(map[string]*scheduledJob),
	}
}

func (c *CronScheduler) AddJob(job Job, spec string) error {
	name := job.Name()
	if _, ok := c.jobs[name]; ok {
		return fmt.Errorf("job already registered: %s", name)
	}
	sj := &scheduledJob{job: job, spec: spec}
	entryID, err := c.cron.AddFunc(spec, func() { c.runOne(sj) })
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}
	sj.entryID = entryID
	c.jobs[name] = sj
	logutil.GetLogger(context.Background()).Info("job scheduled",
		zap.String("job", name), zap.String("spec", spec))
	return nil
}

func (c *CronScheduler) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	c.ctx = ctx
	c.cron.Start()
}

// Stop halts the ticker and waits for any in-flight job to return.
func (c *CronScheduler) Stop() {
	<-c.cron.Stop().Done()
}

func (c *CronScheduler) runOne(sj *scheduledJob) {
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logutil.GetLogger(ctx).With(
		zap.String("job", sj.job.Name()),
		zap.String("spec", sj.spec),
	)
	if !sj.running.CompareAndSwap(false, true) {
		logger.Warn("previous run still in progress, tick skipped")
		return
	}
	defer sj.running.Store(false)

	run := sj.runs.Add(1)
	start := time.Now()
	logger.Info("job started", zap.Int64("run", run))
	if err := sj.job.Run(ctx); err != nil {
		logger.Error("job failed", zap.Int64("run", run),
			zap.Duration("cost", time.Since(start)), zap.Error(err))
		return
	}
	logger.Info("job finished", zap.Int64("run", run), zap.Duration("cost", time.Since(start)))
}
