package domain

import (
	"github.com/google/uuid"
)

// LeadDTO is the API representation of a lead
type LeadDTO struct {
	ID                      uuid.UUID  `json:"id"`
	Services                []string   `json:"services"`
	PropertyType            string     `json:"propertyType,omitempty"`
	Stories                 string     `json:"stories,omitempty"`
	SquareFootage           string     `json:"squareFootage,omitempty"`
	SolarPanelCount         string     `json:"solarPanelCount,omitempty"`
	PropertyNotes           string     `json:"propertyNotes,omitempty"`
	FirstName               string     `json:"firstName"`
	LastName                string     `json:"lastName"`
	Phone                   string     `json:"phone"`
	Email                   string     `json:"email"`
	StreetAddress           string     `json:"streetAddress,omitempty"`
	City                    string     `json:"city,omitempty"`
	ZipCode                 string     `json:"zipCode,omitempty"`
	PreferredTimeframe      string     `json:"preferredTimeframe,omitempty"`
	PreferredTimeframeLabel string     `json:"preferredTimeframeLabel,omitempty"`
	PreferredTime           string     `json:"preferredTime,omitempty"`
	PreferredTimeLabel      string     `json:"preferredTimeLabel,omitempty"`
	Notes                   string     `json:"notes,omitempty"`
	Status                  LeadStatus `json:"status"`
	StatusLabel             string     `json:"statusLabel"`
	CreatedAt               string     `json:"createdAt"`
	UpdatedAt               string     `json:"updatedAt"`
}

// LeadStatusHistoryDTO is one entry of a lead's status history
type LeadStatusHistoryDTO struct {
	ID            uuid.UUID   `json:"id"`
	FromStatus    *LeadStatus `json:"fromStatus,omitempty"`
	ToStatus      LeadStatus  `json:"toStatus"`
	ChangedByID   string      `json:"changedById"`
	ChangedByName string      `json:"changedByName,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	ChangedAt     string      `json:"changedAt"`
}

// LeadDetailDTO is a lead with its status history
type LeadDetailDTO struct {
	LeadDTO
	History []LeadStatusHistoryDTO `json:"history"`
}

// StatusCount is the number of leads in one status
type StatusCount struct {
	Status LeadStatus `json:"status"`
	Label  string     `json:"label"`
	Count  int64      `json:"count"`
}

// LeadListResponse is a page of leads plus per-status counts
type LeadListResponse struct {
	PaginatedResponse
	Counts []StatusCount `json:"counts"`
}

// BoardColumn is one kanban column
type BoardColumn struct {
	Status LeadStatus `json:"status"`
	Label  string     `json:"label"`
	Leads  []LeadDTO  `json:"leads"`
}

// ServiceCount is how many leads requested a service
type ServiceCount struct {
	Service string `json:"service"`
	Count   int    `json:"count"`
}

// DashboardStats summarizes the lead pipeline for the admin dashboard
type DashboardStats struct {
	Total       int64          `json:"total"`
	New         int64          `json:"new"`
	Contacted   int64          `json:"contacted"`
	Won         int64          `json:"won"`
	ThisWeek    int64          `json:"thisWeek"`
	TopServices []ServiceCount `json:"topServices"`
	Upcoming    []LeadDTO      `json:"upcoming"`
	Recent      []LeadDTO      `json:"recent"`
	// transitions into each status over the last 7 days
	MovesThisWeek []StatusCount `json:"movesThisWeek"`
}

// CustomerDTO is the API representation of a customer
type CustomerDTO struct {
	ID              uuid.UUID      `json:"id"`
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName"`
	FullName        string         `json:"fullName"`
	Email           string         `json:"email,omitempty"`
	Phone           string         `json:"phone,omitempty"`
	StreetAddress   string         `json:"streetAddress,omitempty"`
	City            string         `json:"city,omitempty"`
	ZipCode         string         `json:"zipCode,omitempty"`
	PropertyType    string         `json:"propertyType,omitempty"`
	Stories         string         `json:"stories,omitempty"`
	SquareFootage   string         `json:"squareFootage,omitempty"`
	SolarPanelCount string         `json:"solarPanelCount,omitempty"`
	Tags            []string       `json:"tags"`
	Notes           string         `json:"notes,omitempty"`
	Source          CustomerSource `json:"source"`
	LeadID          *uuid.UUID     `json:"leadId,omitempty"`
	JobCount        int64          `json:"jobCount"`
	CreatedAt       string         `json:"createdAt"`
	UpdatedAt       string         `json:"updatedAt"`
}

// CustomerDetailDTO is a customer with its job history
type CustomerDetailDTO struct {
	CustomerDTO
	Jobs []JobDTO `json:"jobs"`
	// sum of the prices of completed jobs
	TotalRevenue float64 `json:"totalRevenue"`
}

// JobDTO is the API representation of a scheduled job
type JobDTO struct {
	ID                uuid.UUID `json:"id"`
	CustomerID        uuid.UUID `json:"customerId"`
	CustomerName      string    `json:"customerName,omitempty"`
	Title             string    `json:"title"`
	Services          []string  `json:"services"`
	Status            JobStatus `json:"status"`
	StatusLabel       string    `json:"statusLabel"`
	ScheduledDate     string    `json:"scheduledDate"`
	ScheduledTime     string    `json:"scheduledTime,omitempty"`
	EstimatedDuration int       `json:"estimatedDuration"`
	Price             *float64  `json:"price,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CrewNotes         string    `json:"crewNotes,omitempty"`
	CompletedAt       *string   `json:"completedAt,omitempty"`
	CreatedAt         string    `json:"createdAt"`
	UpdatedAt         string    `json:"updatedAt"`
}

// ContactSubmissionDTO is a message from the public contact form
type ContactSubmissionDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	ServiceType string    `json:"serviceType,omitempty"`
	Message     string    `json:"message"`
	CreatedAt   string    `json:"createdAt"`
}

// Pagination
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// Request DTOs

// SubmitQuoteRequest is the public quote submission payload
type SubmitQuoteRequest struct {
	Services           []string `json:"services"`
	PropertyType       string   `json:"propertyType" validate:"max=50"`
	Stories            string   `json:"stories" validate:"max=50"`
	SquareFootage      string   `json:"squareFootage" validate:"max=50"`
	SolarPanelCount    string   `json:"solarPanelCount" validate:"max=50"`
	PropertyNotes      string   `json:"propertyNotes" validate:"max=5000"`
	FirstName          string   `json:"firstName" validate:"max=100"`
	LastName           string   `json:"lastName" validate:"max=100"`
	Phone              string   `json:"phone" validate:"max=50"`
	Email              string   `json:"email" validate:"max=255"`
	StreetAddress      string   `json:"streetAddress" validate:"max=255"`
	City               string   `json:"city" validate:"max=100"`
	ZipCode            string   `json:"zipCode" validate:"max=20"`
	PreferredTimeframe string   `json:"preferredTimeframe" validate:"max=50"`
	PreferredTime      string   `json:"preferredTime" validate:"max=50"`
	Notes              string   `json:"notes" validate:"max=5000"`
}

// UpdateLeadStatusRequest changes a lead's pipeline status
type UpdateLeadStatusRequest struct {
	Status LeadStatus `json:"status" validate:"required,oneof=new contacted quoted won lost"`
	Notes  string     `json:"notes,omitempty" validate:"max=2000"`
}

// CustomerRequest creates or replaces a customer
type CustomerRequest struct {
	FirstName       string         `json:"firstName" validate:"required,max=100"`
	LastName        string         `json:"lastName" validate:"required,max=100"`
	Email           string         `json:"email" validate:"omitempty,email,max=255"`
	Phone           string         `json:"phone" validate:"max=50"`
	StreetAddress   string         `json:"streetAddress" validate:"max=255"`
	City            string         `json:"city" validate:"max=100"`
	ZipCode         string         `json:"zipCode" validate:"max=20"`
	PropertyType    string         `json:"propertyType" validate:"max=50"`
	Stories         string         `json:"stories" validate:"max=50"`
	SquareFootage   string         `json:"squareFootage" validate:"max=50"`
	SolarPanelCount string         `json:"solarPanelCount" validate:"max=50"`
	Tags            []string       `json:"tags" validate:"dive,oneof=Residential Commercial HOA 'Property Manager'"`
	Notes           string         `json:"notes" validate:"max=5000"`
	Source          CustomerSource `json:"source" validate:"omitempty,oneof=website referral google yelp other"`
}

// JobRequest creates or replaces a job
type JobRequest struct {
	CustomerID        uuid.UUID `json:"customerId" validate:"required"`
	Title             string    `json:"title" validate:"max=255"`
	Services          []string  `json:"services" validate:"dive,max=100"`
	Status            JobStatus `json:"status" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	ScheduledDate     string    `json:"scheduledDate" validate:"required,datetime=2006-01-02"`
	ScheduledTime     string    `json:"scheduledTime" validate:"max=10"`
	EstimatedDuration int       `json:"estimatedDuration" validate:"min=0,max=1440"`
	Price             *float64  `json:"price" validate:"omitempty,min=0"`
	Notes             string    `json:"notes" validate:"max=5000"`
	CrewNotes         string    `json:"crewNotes" validate:"max=5000"`
}

// UpdateJobStatusRequest moves a job through its workflow
type UpdateJobStatusRequest struct {
	Status JobStatus `json:"status" validate:"required,oneof=scheduled in_progress completed cancelled"`
}

// ContactRequest is the public contact form payload
type ContactRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Phone       string `json:"phone" validate:"max=50"`
	ServiceType string `json:"serviceType" validate:"max=100"`
	Message     string `json:"message" validate:"required,max=5000"`
}

// WizardStepError is returned when a quote submission fails a wizard step
type WizardStepError struct {
	Step      int    `json:"step"`
	StepTitle string `json:"stepTitle"`
	Message   string `json:"message"`
}

// ContentFieldDTO describes one editable field of a site section
type ContentFieldDTO struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Placeholder string `json:"placeholder,omitempty"`
	HelpText    string `json:"helpText,omitempty"`
}

// ContentSectionSchemaDTO describes an editable site section
type ContentSectionSchemaDTO struct {
	Key    string            `json:"key"`
	Label  string            `json:"label"`
	Title  string            `json:"title"`
	Fields []ContentFieldDTO `json:"fields"`
}

// ContentSectionDTO is the stored content of a section merged over defaults
type ContentSectionDTO struct {
	SectionKey string         `json:"sectionKey"`
	Content    map[string]any `json:"content"`
	UpdatedBy  string         `json:"updatedBy,omitempty"`
	UpdatedAt  string         `json:"updatedAt,omitempty"`
}

// UpdateContentRequest replaces the content of a section
type UpdateContentRequest struct {
	Content map[string]any `json:"content" validate:"required"`
}

// UploadSiteImageRequest stores an image for a site slot
type UploadSiteImageRequest struct {
	Key         string `json:"key"`
	ImageData   string `json:"image_data"`
	ContentType string `json:"content_type"`
}

// SiteImageDTO is a site image with its data inlined as a data URL
type SiteImageDTO struct {
	Key         string `json:"key"`
	ImageData   string `json:"image_data"`
	ContentType string `json:"content_type"`
}

// SiteImageUploadResponse acknowledges a stored site image
type SiteImageUploadResponse struct {
	Success bool   `json:"success"`
	Key     string `json:"key"`
}

// AuthUserDTO describes the signed-in operator
type AuthUserDTO struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
	AuthType string   `json:"authType"`
	IsAdmin  bool     `json:"isAdmin"`
}
