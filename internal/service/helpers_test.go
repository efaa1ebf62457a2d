package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/events"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"github.com/cleanclear-sd/lead-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

func newLeadService(t *testing.T) (*service.LeadService, *gorm.DB, *recordingPublisher) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	pub := &recordingPublisher{}
	svc := service.NewLeadService(
		repository.NewLeadRepository(db),
		repository.NewLeadStatusHistoryRepository(db),
		pub,
		zap.NewNop(),
		db,
	)
	return svc, db, pub
}

func newCustomerServices(t *testing.T) (*service.CustomerService, *service.JobService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	customers := repository.NewCustomerRepository(db)
	jobs := repository.NewJobRepository(db)
	log := zap.NewNop()
	return service.NewCustomerService(customers, jobs, repository.NewLeadRepository(db), log, db),
		service.NewJobService(jobs, customers, log),
		db
}
