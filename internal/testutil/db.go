// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/database"
	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an isolated in-memory SQLite database with the schema migrated
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:leads_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateTestLead inserts a lead with sensible defaults. Zero-valued fields of
// the given lead are filled in.
func CreateTestLead(t *testing.T, db *gorm.DB, lead domain.Lead) *domain.Lead {
	t.Helper()

	if lead.FirstName == "" {
		lead.FirstName = "Jane"
	}
	if lead.LastName == "" {
		lead.LastName = "Doe"
	}
	if lead.Phone == "" {
		lead.Phone = "619-555-0100"
	}
	if lead.Email == "" {
		lead.Email = "jane@example.com"
	}
	if lead.Services == nil {
		lead.Services = []string{"Window Cleaning"}
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	if lead.UpdatedAt.IsZero() {
		lead.UpdatedAt = lead.CreatedAt
	}

	require.NoError(t, db.Create(&lead).Error)
	return &lead
}

// CreateTestCustomer inserts a customer, defaulting the name
func CreateTestCustomer(t *testing.T, db *gorm.DB, customer domain.Customer) *domain.Customer {
	t.Helper()

	if customer.FirstName == "" {
		customer.FirstName = "Sam"
	}
	if customer.LastName == "" {
		customer.LastName = "Reyes"
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	if customer.UpdatedAt.IsZero() {
		customer.UpdatedAt = customer.CreatedAt
	}

	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

// CreateTestJob inserts a job for customerID on the given YYYY-MM-DD date
func CreateTestJob(t *testing.T, db *gorm.DB, customerID uuid.UUID, date string, job domain.Job) *domain.Job {
	t.Helper()

	scheduled, err := time.Parse(domain.JobDateFormat, date)
	require.NoError(t, err)
	job.CustomerID = customerID
	job.ScheduledDate = scheduled
	if job.Title == "" {
		job.Title = "Window Cleaning"
	}

	require.NoError(t, db.Omit("Customer").Create(&job).Error)
	return &job
}
