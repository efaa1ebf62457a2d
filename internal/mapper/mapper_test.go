package mapper_test

import (
	"testing"
	"time"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/mapper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestToLeadDTO(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	lead := &domain.Lead{
		ID:                 uuid.New(),
		Services:           []string{"Solar Panel Cleaning"},
		FirstName:          "Jane",
		LastName:           "Doe",
		PreferredTimeframe: "this-month",
		PreferredTime:      "afternoon",
		Status:             domain.LeadStatusQuoted,
		CreatedAt:          created,
		UpdatedAt:          created,
	}

	dto := mapper.ToLeadDTO(lead)

	assert.Equal(t, lead.ID, dto.ID)
	assert.Equal(t, []string{"Solar Panel Cleaning"}, dto.Services)
	assert.Equal(t, "This Month", dto.PreferredTimeframeLabel)
	assert.Equal(t, "Afternoon", dto.PreferredTimeLabel)
	assert.Equal(t, "Quoted", dto.StatusLabel)
	assert.Equal(t, "2026-03-14T09:30:00Z", dto.CreatedAt)
}

func TestToLeadDTO_NilServicesBecomeEmpty(t *testing.T) {
	dto := mapper.ToLeadDTO(&domain.Lead{})
	assert.NotNil(t, dto.Services)
	assert.Empty(t, dto.Services)
}

func TestToJobDTO(t *testing.T) {
	completed := time.Date(2026, 4, 2, 16, 0, 0, 0, time.UTC)
	price := 250.0
	job := &domain.Job{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		Customer:      &domain.Customer{FirstName: "Sam", LastName: "Reyes"},
		Title:         "Spring windows",
		Status:        domain.JobStatusCompleted,
		ScheduledDate: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
		Price:         &price,
		CompletedAt:   &completed,
	}

	dto := mapper.ToJobDTO(job)

	assert.Equal(t, "2026-04-02", dto.ScheduledDate)
	assert.Equal(t, "Sam Reyes", dto.CustomerName)
	assert.Equal(t, "Completed", dto.StatusLabel)
	assert.NotNil(t, dto.Services)
	if assert.NotNil(t, dto.CompletedAt) {
		assert.Equal(t, "2026-04-02T16:00:00Z", *dto.CompletedAt)
	}
}

func TestToCustomerDTO(t *testing.T) {
	leadID := uuid.New()
	dto := mapper.ToCustomerDTO(&domain.Customer{
		FirstName: "Sam",
		LastName:  "Reyes",
		Source:    domain.CustomerSourceWebsite,
		LeadID:    &leadID,
	}, 3)

	assert.Equal(t, "Sam Reyes", dto.FullName)
	assert.Equal(t, int64(3), dto.JobCount)
	assert.Equal(t, &leadID, dto.LeadID)
	assert.NotNil(t, dto.Tags)
}
