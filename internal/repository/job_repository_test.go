package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/cleanclear-sd/lead-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.JobDateFormat, s)
	require.NoError(t, err)
	return d
}

func TestJobRepository_CreateDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewJobRepository(db)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, db, domain.Customer{})

	job := &domain.Job{CustomerID: customer.ID, Title: "Gutters", ScheduledDate: mustDate(t, "2026-06-03")}
	require.NoError(t, repo.Create(ctx, job))

	found, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusScheduled, found.Status)
	assert.Equal(t, domain.DefaultJobDuration, found.EstimatedDuration)
	assert.Equal(t, "2026-06-03", found.ScheduledDate.Format(domain.JobDateFormat))
	require.NotNil(t, found.Customer)
	assert.Equal(t, customer.ID, found.Customer.ID)
}

func TestJobRepository_ListMonthInScheduleOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewJobRepository(db)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, db, domain.Customer{})

	testutil.CreateTestJob(t, db, customer.ID, "2026-04-30", domain.Job{Title: "before"})
	testutil.CreateTestJob(t, db, customer.ID, "2026-05-10", domain.Job{Title: "afternoon", ScheduledTime: "13:00"})
	testutil.CreateTestJob(t, db, customer.ID, "2026-05-10", domain.Job{Title: "morning", ScheduledTime: "08:30"})
	testutil.CreateTestJob(t, db, customer.ID, "2026-05-31", domain.Job{Title: "last day"})
	testutil.CreateTestJob(t, db, customer.ID, "2026-06-01", domain.Job{Title: "after"})

	from, to := mustDate(t, "2026-05-01"), mustDate(t, "2026-05-31")
	jobs, err := repo.List(ctx, &repository.JobFilters{From: &from, To: &to})
	require.NoError(t, err)

	var titles []string
	for _, j := range jobs {
		titles = append(titles, j.Title)
		assert.NotNil(t, j.Customer)
	}
	assert.Equal(t, []string{"morning", "afternoon", "last day"}, titles)
}

func TestJobRepository_ListByCustomerNewestDateFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewJobRepository(db)
	ctx := context.Background()
	a := testutil.CreateTestCustomer(t, db, domain.Customer{})
	b := testutil.CreateTestCustomer(t, db, domain.Customer{FirstName: "Other"})

	testutil.CreateTestJob(t, db, a.ID, "2026-01-05", domain.Job{Title: "old"})
	testutil.CreateTestJob(t, db, a.ID, "2026-03-05", domain.Job{Title: "new"})
	testutil.CreateTestJob(t, db, b.ID, "2026-02-05", domain.Job{Title: "other"})

	jobs, err := repo.ListByCustomer(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "new", jobs[0].Title)

	require.NoError(t, repo.DeleteByCustomer(ctx, a.ID))
	jobs, err = repo.ListByCustomer(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
