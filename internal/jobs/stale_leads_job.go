package jobs

import (
	"context"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"go.uber.org/zap"
)

// StaleLeadsJobName is the name of the stale lead reminder job
const StaleLeadsJobName = "stale_leads"

// StaleLeadService finds leads nobody has contacted yet and announces them.
type StaleLeadService interface {
	ListStale(ctx context.Context, cutoff time.Time) ([]domain.Lead, error)
	NotifyStale(ctx context.Context, lead *domain.Lead)
}

// StaleLeadsJob publishes a reminder for every lead that has been sitting in
// status new for longer than maxAge.
type StaleLeadsJob struct {
	leads   StaleLeadService
	maxAge  time.Duration
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewStaleLeadsJob creates the reminder job
func NewStaleLeadsJob(leads StaleLeadService, maxAge time.Duration, logger *zap.Logger, timeout time.Duration) *StaleLeadsJob {
	return &StaleLeadsJob{
		leads:   leads,
		maxAge:  maxAge,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

// Run is called by the scheduler
func (j *StaleLeadsJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	cutoff := j.now().Add(-j.maxAge)

	stale, err := j.leads.ListStale(ctx, cutoff)
	if err != nil {
		j.logger.Error("stale lead lookup failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	for i := range stale {
		j.leads.NotifyStale(ctx, &stale[i])
	}

	j.logger.Info("stale lead job completed",
		zap.Int("stale", len(stale)),
		zap.Time("cutoff", cutoff),
		zap.Duration("duration", time.Since(start)))
}
