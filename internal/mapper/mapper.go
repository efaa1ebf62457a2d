package mapper

import (
	"time"

	"github.com/cleanclear-sd/lead-api/internal/catalog"
	"github.com/cleanclear-sd/lead-api/internal/domain"
)

const timestampFormat = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

// ToLeadDTO converts Lead to LeadDTO
func ToLeadDTO(lead *domain.Lead) domain.LeadDTO {
	services := []string(lead.Services)
	if services == nil {
		services = []string{}
	}
	return domain.LeadDTO{
		ID:                      lead.ID,
		Services:                services,
		PropertyType:            lead.PropertyType,
		Stories:                 lead.Stories,
		SquareFootage:           lead.SquareFootage,
		SolarPanelCount:         lead.SolarPanelCount,
		PropertyNotes:           lead.PropertyNotes,
		FirstName:               lead.FirstName,
		LastName:                lead.LastName,
		Phone:                   lead.Phone,
		Email:                   lead.Email,
		StreetAddress:           lead.StreetAddress,
		City:                    lead.City,
		ZipCode:                 lead.ZipCode,
		PreferredTimeframe:      lead.PreferredTimeframe,
		PreferredTimeframeLabel: catalog.TimeframeShortLabel(lead.PreferredTimeframe),
		PreferredTime:           lead.PreferredTime,
		PreferredTimeLabel:      catalog.TimeShortLabel(lead.PreferredTime),
		Notes:                   lead.Notes,
		Status:                  lead.Status,
		StatusLabel:             lead.Status.Label(),
		CreatedAt:               formatTime(lead.CreatedAt),
		UpdatedAt:               formatTime(lead.UpdatedAt),
	}
}

// ToLeadDTOs converts a slice of leads
func ToLeadDTOs(leads []domain.Lead) []domain.LeadDTO {
	dtos := make([]domain.LeadDTO, len(leads))
	for i := range leads {
		dtos[i] = ToLeadDTO(&leads[i])
	}
	return dtos
}

// ToLeadStatusHistoryDTO converts LeadStatusHistory to LeadStatusHistoryDTO
func ToLeadStatusHistoryDTO(h *domain.LeadStatusHistory) domain.LeadStatusHistoryDTO {
	return domain.LeadStatusHistoryDTO{
		ID:            h.ID,
		FromStatus:    h.FromStatus,
		ToStatus:      h.ToStatus,
		ChangedByID:   h.ChangedByID,
		ChangedByName: h.ChangedByName,
		Notes:         h.Notes,
		ChangedAt:     formatTime(h.ChangedAt),
	}
}

// ToContentSectionDTO converts stored content to its DTO. The content map is
// passed separately because it has already been merged over defaults.
func ToContentSectionDTO(sectionKey string, content map[string]any, stored *domain.WebsiteContent) domain.ContentSectionDTO {
	dto := domain.ContentSectionDTO{
		SectionKey: sectionKey,
		Content:    content,
	}
	if stored != nil {
		dto.UpdatedBy = stored.UpdatedBy
		dto.UpdatedAt = formatTime(stored.UpdatedAt)
	}
	return dto
}

// ToCustomerDTO converts Customer to CustomerDTO
func ToCustomerDTO(customer *domain.Customer, jobCount int64) domain.CustomerDTO {
	tags := []string(customer.Tags)
	if tags == nil {
		tags = []string{}
	}
	return domain.CustomerDTO{
		ID:              customer.ID,
		FirstName:       customer.FirstName,
		LastName:        customer.LastName,
		FullName:        customer.FullName(),
		Email:           customer.Email,
		Phone:           customer.Phone,
		StreetAddress:   customer.StreetAddress,
		City:            customer.City,
		ZipCode:         customer.ZipCode,
		PropertyType:    customer.PropertyType,
		Stories:         customer.Stories,
		SquareFootage:   customer.SquareFootage,
		SolarPanelCount: customer.SolarPanelCount,
		Tags:            tags,
		Notes:           customer.Notes,
		Source:          customer.Source,
		LeadID:          customer.LeadID,
		JobCount:        jobCount,
		CreatedAt:       formatTime(customer.CreatedAt),
		UpdatedAt:       formatTime(customer.UpdatedAt),
	}
}

// ToJobDTO converts Job to JobDTO. The customer name is filled when the
// customer was preloaded.
func ToJobDTO(job *domain.Job) domain.JobDTO {
	services := []string(job.Services)
	if services == nil {
		services = []string{}
	}
	dto := domain.JobDTO{
		ID:                job.ID,
		CustomerID:        job.CustomerID,
		Title:             job.Title,
		Services:          services,
		Status:            job.Status,
		StatusLabel:       job.Status.Label(),
		ScheduledDate:     job.ScheduledDate.Format(domain.JobDateFormat),
		ScheduledTime:     job.ScheduledTime,
		EstimatedDuration: job.EstimatedDuration,
		Price:             job.Price,
		Notes:             job.Notes,
		CrewNotes:         job.CrewNotes,
		CreatedAt:         formatTime(job.CreatedAt),
		UpdatedAt:         formatTime(job.UpdatedAt),
	}
	if job.Customer != nil {
		dto.CustomerName = job.Customer.FullName()
	}
	if job.CompletedAt != nil {
		completed := formatTime(*job.CompletedAt)
		dto.CompletedAt = &completed
	}
	return dto
}

// ToJobDTOs converts a slice of jobs
func ToJobDTOs(jobs []domain.Job) []domain.JobDTO {
	dtos := make([]domain.JobDTO, len(jobs))
	for i := range jobs {
		dtos[i] = ToJobDTO(&jobs[i])
	}
	return dtos
}

// ToContactSubmissionDTO converts ContactSubmission to ContactSubmissionDTO
func ToContactSubmissionDTO(s *domain.ContactSubmission) domain.ContactSubmissionDTO {
	return domain.ContactSubmissionDTO{
		ID:          s.ID,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		ServiceType: s.ServiceType,
		Message:     s.Message,
		CreatedAt:   formatTime(s.CreatedAt),
	}
}
