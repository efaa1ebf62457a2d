package service_test

import (
	"context"
	"testing"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/service"
	"github.com/cleanclear-sd/lead-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_CreateTrimsNamesKeepsNotes(t *testing.T) {
	customers, _, _ := newCustomerServices(t)
	ctx := context.Background()

	created, err := customers.Create(ctx, &domain.CustomerRequest{
		FirstName: "  Ana ",
		LastName:  " Lopez",
		Email:     " ana@example.com ",
		Notes:     "  side gate  ",
		Tags:      []string{"HOA"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", created.FirstName)
	assert.Equal(t, "Lopez", created.LastName)
	assert.Equal(t, "ana@example.com", created.Email)
	assert.Equal(t, "  side gate  ", created.Notes)
	assert.Equal(t, domain.CustomerSourceOther, created.Source)
	assert.Equal(t, []string{"HOA"}, created.Tags)
}

func TestCustomerService_CreateRejectsBlankNames(t *testing.T) {
	customers, _, _ := newCustomerServices(t)

	_, err := customers.Create(context.Background(), &domain.CustomerRequest{FirstName: "   ", LastName: "Lopez"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = customers.Create(context.Background(), &domain.CustomerRequest{FirstName: "Ana", LastName: "Lopez", Source: "billboard"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCustomerService_DetailRevenueCountsCompletedJobsOnly(t *testing.T) {
	customers, _, db := newCustomerServices(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, db, domain.Customer{})
	p1, p2, p3 := 120.0, 80.5, 999.0

	testutil.CreateTestJob(t, db, customer.ID, "2026-03-01", domain.Job{Status: domain.JobStatusCompleted, Price: &p1})
	testutil.CreateTestJob(t, db, customer.ID, "2026-04-01", domain.Job{Status: domain.JobStatusCompleted, Price: &p2})
	testutil.CreateTestJob(t, db, customer.ID, "2026-05-01", domain.Job{Status: domain.JobStatusScheduled, Price: &p3})
	testutil.CreateTestJob(t, db, customer.ID, "2026-02-01", domain.Job{Status: domain.JobStatusCompleted})

	detail, err := customers.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200.5, detail.TotalRevenue, 0.001)
	assert.Equal(t, int64(4), detail.JobCount)
	require.Len(t, detail.Jobs, 4)
	assert.Equal(t, "2026-05-01", detail.Jobs[0].ScheduledDate, "most recent first")

	_, err = customers.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrCustomerNotFound)
}

func TestCustomerService_ListIncludesJobCounts(t *testing.T) {
	customers, _, db := newCustomerServices(t)
	ctx := context.Background()
	busy := testutil.CreateTestCustomer(t, db, domain.Customer{FirstName: "Busy"})
	testutil.CreateTestCustomer(t, db, domain.Customer{FirstName: "Idle"})
	testutil.CreateTestJob(t, db, busy.ID, "2026-05-01", domain.Job{})

	result, err := customers.List(ctx, service.CustomerListParams{Search: "busy"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, 20, result.PageSize)

	rows, ok := result.Data.([]domain.CustomerDTO)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].JobCount)
}

func TestCustomerService_DeleteRemovesJobs(t *testing.T) {
	customers, _, db := newCustomerServices(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, db, domain.Customer{})
	testutil.CreateTestJob(t, db, customer.ID, "2026-05-01", domain.Job{})

	require.NoError(t, customers.Delete(ctx, customer.ID))

	var count int64
	require.NoError(t, db.Model(&domain.Job{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, customers.Delete(ctx, customer.ID), service.ErrCustomerNotFound)
}

func TestCustomerService_ConvertLead(t *testing.T) {
	customers, _, db := newCustomerServices(t)
	ctx := context.Background()
	lead := testutil.CreateTestLead(t, db, domain.Lead{
		Status:        domain.LeadStatusWon,
		City:          "Encinitas",
		PropertyType:  "residential",
		StreetAddress: "12 Ocean Ave",
	})

	customer, err := customers.ConvertLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", customer.FirstName)
	assert.Equal(t, "Encinitas", customer.City)
	assert.Equal(t, "12 Ocean Ave", customer.StreetAddress)
	assert.Equal(t, domain.CustomerSourceWebsite, customer.Source)
	require.NotNil(t, customer.LeadID)
	assert.Equal(t, lead.ID, *customer.LeadID)

	_, err = customers.ConvertLead(ctx, lead.ID)
	assert.ErrorIs(t, err, service.ErrLeadAlreadyConverted)

	_, err = customers.ConvertLead(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrLeadNotFound)
}
