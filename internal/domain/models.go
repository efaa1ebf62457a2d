package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// LeadStatus represents where a lead sits in the sales pipeline
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQuoted    LeadStatus = "quoted"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

// LeadStatuses lists every status in pipeline order
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQuoted,
	LeadStatusWon,
	LeadStatusLost,
}

var leadStatusLabels = map[LeadStatus]string{
	LeadStatusNew:       "New",
	LeadStatusContacted: "Contacted",
	LeadStatusQuoted:    "Quoted",
	LeadStatusWon:       "Won",
	LeadStatusLost:      "Lost",
}

// IsValid checks if the status is one of the known pipeline statuses
func (s LeadStatus) IsValid() bool {
	_, ok := leadStatusLabels[s]
	return ok
}

// Label returns the display name of the status
func (s LeadStatus) Label() string {
	if l, ok := leadStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// CanTransitionTo reports whether an operator may move a lead from s to next.
// Any valid status may move to any other valid status; moving to the same
// status is not a transition.
func (s LeadStatus) CanTransitionTo(next LeadStatus) bool {
	return s.IsValid() && next.IsValid() && s != next
}

// IsClosed reports whether the lead has reached a won or lost outcome
func (s LeadStatus) IsClosed() bool {
	return s == LeadStatusWon || s == LeadStatusLost
}

// Lead is a submitted quote request tracked through the pipeline
type Lead struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Services           pq.StringArray `gorm:"type:text[];not null"`
	PropertyType       string         `gorm:"type:varchar(50);column:property_type"`
	Stories            string         `gorm:"type:varchar(50)"`
	SquareFootage      string         `gorm:"type:varchar(50);column:square_footage"`
	SolarPanelCount    string         `gorm:"type:varchar(50);column:solar_panel_count"`
	PropertyNotes      string         `gorm:"type:text;column:property_notes"`
	FirstName          string         `gorm:"type:varchar(100);not null;column:first_name"`
	LastName           string         `gorm:"type:varchar(100);not null;column:last_name"`
	Phone              string         `gorm:"type:varchar(50);not null"`
	Email              string         `gorm:"type:varchar(255);not null"`
	StreetAddress      string         `gorm:"type:varchar(255);column:street_address"`
	City               string         `gorm:"type:varchar(100)"`
	ZipCode            string         `gorm:"type:varchar(20);column:zip_code"`
	PreferredTimeframe string         `gorm:"type:varchar(50);column:preferred_timeframe"`
	PreferredTime      string         `gorm:"type:varchar(50);column:preferred_time"`
	Notes              string         `gorm:"type:text"`
	Status             LeadStatus     `gorm:"type:varchar(20);not null;default:'new';index"`
	CreatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
	UpdatedAt          time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	// StaleNotifiedAt is set once a stale reminder went out and cleared on
	// the next status change.
	StaleNotifiedAt *time.Time `gorm:"column:stale_notified_at"`
}

// TableName overrides the default table name to match the migration
func (Lead) TableName() string {
	return "leads"
}

// BeforeCreate assigns an ID and the initial status
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
	return nil
}

// FullName returns the lead's first and last name
func (l *Lead) FullName() string {
	if l.LastName == "" {
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// LeadStatusHistory records status changes for audit purposes
type LeadStatusHistory struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey"`
	LeadID        uuid.UUID   `gorm:"type:uuid;not null;index;column:lead_id"`
	FromStatus    *LeadStatus `gorm:"type:varchar(20);column:from_status"`
	ToStatus      LeadStatus  `gorm:"type:varchar(20);not null;column:to_status"`
	ChangedByID   string      `gorm:"type:varchar(100);not null;column:changed_by_id"`
	ChangedByName string      `gorm:"type:varchar(200);column:changed_by_name"`
	Notes         string      `gorm:"type:text"`
	ChangedAt     time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP;column:changed_at"`
}

// TableName overrides the default table name to match the migration
func (LeadStatusHistory) TableName() string {
	return "lead_status_history"
}

func (h *LeadStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// WebsiteContent stores the editable copy of one marketing site section
type WebsiteContent struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SectionKey string         `gorm:"type:varchar(100);not null;uniqueIndex;column:section_key"`
	Content    map[string]any `gorm:"type:jsonb;serializer:json;not null"`
	UpdatedBy  string         `gorm:"type:varchar(100);column:updated_by"`
	CreatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the default table name to match the migration
func (WebsiteContent) TableName() string {
	return "website_content"
}

func (c *WebsiteContent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// SiteImage is an image slot on the marketing site, addressed by key
type SiteImage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key         string    `gorm:"type:varchar(200);not null;uniqueIndex;column:image_key"`
	BlobName    string    `gorm:"type:varchar(500);not null;column:blob_name"`
	ContentType string    `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64     `gorm:"not null"`
	IsPublic    bool      `gorm:"not null;default:true;column:is_public"`
	UpdatedBy   string    `gorm:"type:varchar(100);column:updated_by"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the default table name to match the migration
func (SiteImage) TableName() string {
	return "site_images"
}

func (i *SiteImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// CustomerSource records how a customer found the business
type CustomerSource string

const (
	CustomerSourceWebsite  CustomerSource = "website"
	CustomerSourceReferral CustomerSource = "referral"
	CustomerSourceGoogle   CustomerSource = "google"
	CustomerSourceYelp     CustomerSource = "yelp"
	CustomerSourceOther    CustomerSource = "other"
)

// IsValid reports whether s is a known customer source
func (s CustomerSource) IsValid() bool {
	switch s {
	case CustomerSourceWebsite, CustomerSourceReferral, CustomerSourceGoogle, CustomerSourceYelp, CustomerSourceOther:
		return true
	}
	return false
}

// CustomerTags are the labels an operator can attach to a customer
var CustomerTags = []string{"Residential", "Commercial", "HOA", "Property Manager"}

// Customer is a client the business has done or will do work for. LeadID is
// set when the customer was converted from a quote request.
type Customer struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	FirstName       string         `gorm:"type:varchar(100);not null;column:first_name"`
	LastName        string         `gorm:"type:varchar(100);not null;column:last_name"`
	Email           string         `gorm:"type:varchar(255)"`
	Phone           string         `gorm:"type:varchar(50)"`
	StreetAddress   string         `gorm:"type:varchar(255);column:street_address"`
	City            string         `gorm:"type:varchar(100)"`
	ZipCode         string         `gorm:"type:varchar(20);column:zip_code"`
	PropertyType    string         `gorm:"type:varchar(50);column:property_type"`
	Stories         string         `gorm:"type:varchar(50)"`
	SquareFootage   string         `gorm:"type:varchar(50);column:square_footage"`
	SolarPanelCount string         `gorm:"type:varchar(50);column:solar_panel_count"`
	Tags            pq.StringArray `gorm:"type:text[]"`
	Notes           string         `gorm:"type:text"`
	Source          CustomerSource `gorm:"type:varchar(20);not null;default:'other'"`
	LeadID          *uuid.UUID     `gorm:"type:uuid;uniqueIndex:idx_customers_lead_id;column:lead_id"`
	CreatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
	UpdatedAt       time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the default table name to match the migration
func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Source == "" {
		c.Source = CustomerSourceOther
	}
	return nil
}

// FullName returns the customer's first and last name
func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// JobStatus tracks a scheduled visit from booking to completion
type JobStatus string

const (
	JobStatusScheduled  JobStatus = "scheduled"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// JobStatuses lists every job status in workflow order
var JobStatuses = []JobStatus{
	JobStatusScheduled,
	JobStatusInProgress,
	JobStatusCompleted,
	JobStatusCancelled,
}

// IsValid reports whether s is a known job status
func (s JobStatus) IsValid() bool {
	for _, known := range JobStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the display name of the status
func (s JobStatus) Label() string {
	switch s {
	case JobStatusScheduled:
		return "Scheduled"
	case JobStatusInProgress:
		return "In Progress"
	case JobStatusCompleted:
		return "Completed"
	case JobStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// DefaultJobDuration is the estimated length of a visit in minutes
const DefaultJobDuration = 60

// JobDateFormat is the layout of a job's scheduled date
const JobDateFormat = "2006-01-02"

// Job is a scheduled cleaning visit for a customer
type Job struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CustomerID        uuid.UUID      `gorm:"type:uuid;not null;index;column:customer_id"`
	Customer          *Customer      `gorm:"foreignKey:CustomerID"`
	Title             string         `gorm:"type:varchar(255);not null"`
	Services          pq.StringArray `gorm:"type:text[]"`
	Status            JobStatus      `gorm:"type:varchar(20);not null;default:'scheduled';index"`
	ScheduledDate     time.Time      `gorm:"type:date;not null;index;column:scheduled_date"`
	ScheduledTime     string         `gorm:"type:varchar(10);column:scheduled_time"`
	EstimatedDuration int            `gorm:"not null;default:60;column:estimated_duration"`
	Price             *float64       `gorm:"type:numeric(10,2)"`
	Notes             string         `gorm:"type:text"`
	CrewNotes         string         `gorm:"type:text;column:crew_notes"`
	CompletedAt       *time.Time     `gorm:"column:completed_at"`
	CreatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName overrides the default table name to match the migration
func (Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = JobStatusScheduled
	}
	if j.EstimatedDuration == 0 {
		j.EstimatedDuration = DefaultJobDuration
	}
	return nil
}

// SetStatus changes the status and keeps CompletedAt in step with it
func (j *Job) SetStatus(status JobStatus, now time.Time) {
	if status == JobStatusCompleted && j.Status != JobStatusCompleted {
		completed := now
		j.CompletedAt = &completed
	}
	if status != JobStatusCompleted {
		j.CompletedAt = nil
	}
	j.Status = status
}

// ContactSubmission is a message left through the public contact form
type ContactSubmission struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Email       string    `gorm:"type:varchar(255);not null"`
	Phone       string    `gorm:"type:varchar(50)"`
	ServiceType string    `gorm:"type:varchar(100);not null;default:'';column:service_type"`
	Message     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// TableName overrides the default table name to match the migration
func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

func (s *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
