package jobs

import (
	"context"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"go.uber.org/zap"
)

// WarehouseExportJobName is the name of the data warehouse export job
const WarehouseExportJobName = "warehouse_export"

// LeadSource lists leads changed after a point in time.
// This interface allows the job to call the service without importing the service package directly.
type LeadSource interface {
	ListUpdatedSince(ctx context.Context, since time.Time) ([]domain.Lead, error)
}

// Warehouse receives exported leads
type Warehouse interface {
	LastExportedUpdate(ctx context.Context) (time.Time, error)
	ExportLeads(ctx context.Context, leads []domain.Lead) (int, error)
}

// WarehouseExportJob copies leads changed since the newest exported update
// into the reporting warehouse.
type WarehouseExportJob struct {
	leads     LeadSource
	warehouse Warehouse
	logger    *zap.Logger
	timeout   time.Duration
}

// NewWarehouseExportJob creates a new export job.
// The timeout controls how long one export run is allowed to take.
func NewWarehouseExportJob(leads LeadSource, warehouse Warehouse, logger *zap.Logger, timeout time.Duration) *WarehouseExportJob {
	return &WarehouseExportJob{
		leads:     leads,
		warehouse: warehouse,
		logger:    logger,
		timeout:   timeout,
	}
}

// Run is called by the scheduler
func (j *WarehouseExportJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.Export(ctx); err != nil {
		j.logger.Error("data warehouse export failed", zap.Error(err))
	}
}

// Export performs one export pass and returns the number of rows written
func (j *WarehouseExportJob) Export(ctx context.Context) (int, error) {
	start := time.Now()

	since, err := j.warehouse.LastExportedUpdate(ctx)
	if err != nil {
		return 0, err
	}

	leads, err := j.leads.ListUpdatedSince(ctx, since)
	if err != nil {
		return 0, err
	}
	if len(leads) == 0 {
		j.logger.Debug("no lead changes to export", zap.Time("since", since))
		return 0, nil
	}

	written, err := j.warehouse.ExportLeads(ctx, leads)
	if err != nil {
		return 0, err
	}

	j.logger.Info("data warehouse export completed",
		zap.Int("exported", written),
		zap.Time("since", since),
		zap.Duration("duration", time.Since(start)))
	return written, nil
}
