package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/cleanclear-sd/lead-api/internal/mapper"
	"github.com/cleanclear-sd/lead-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CustomerListParams selects a page of customers
type CustomerListParams struct {
	Search   string
	Source   *domain.CustomerSource
	Page     int
	PageSize int
}

// CustomerService manages the customer book, including converting won leads
// into customers.
type CustomerService struct {
	customerRepo *repository.CustomerRepository
	jobRepo      *repository.JobRepository
	leadRepo     *repository.LeadRepository
	logger       *zap.Logger
	db           *gorm.DB
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo *repository.CustomerRepository,
	jobRepo *repository.JobRepository,
	leadRepo *repository.LeadRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		jobRepo:      jobRepo,
		leadRepo:     leadRepo,
		logger:       logger,
		db:           db,
	}
}

// Create stores a new customer. First and last name are required after
// trimming.
func (s *CustomerService) Create(ctx context.Context, req *domain.CustomerRequest) (*domain.CustomerDTO, error) {
	customer := &domain.Customer{}
	if err := applyCustomerRequest(customer, req); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("source", string(customer.Source)))

	dto := mapper.ToCustomerDTO(customer, 0)
	return &dto, nil
}

// GetByID returns a customer with its jobs and the revenue of completed jobs
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CustomerDetailDTO, error) {
	customer, err := s.getCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer jobs: %w", err)
	}

	var revenue float64
	for _, j := range jobs {
		if j.Status == domain.JobStatusCompleted && j.Price != nil {
			revenue += *j.Price
		}
	}

	return &domain.CustomerDetailDTO{
		CustomerDTO:  mapper.ToCustomerDTO(customer, int64(len(jobs))),
		Jobs:         mapper.ToJobDTOs(jobs),
		TotalRevenue: revenue,
	}, nil
}

// Update replaces the editable fields of a customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req *domain.CustomerRequest) (*domain.CustomerDTO, error) {
	customer, err := s.getCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyCustomerRequest(customer, req); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	counts, err := s.customerRepo.CountJobs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to count customer jobs: %w", err)
	}

	dto := mapper.ToCustomerDTO(customer, counts[id])
	return &dto, nil
}

// Delete removes a customer together with its jobs
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.jobRepo.WithTx(tx).DeleteByCustomer(ctx, id); err != nil {
			return fmt.Errorf("failed to delete customer jobs: %w", err)
		}
		if err := s.customerRepo.WithTx(tx).Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("failed to delete customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("customer deleted", zap.String("customer_id", id.String()))
	return nil
}

// List returns a page of customers, newest first, each with its job count
func (s *CustomerService) List(ctx context.Context, params CustomerListParams) (*domain.PaginatedResponse, error) {
	page, pageSize := normalizePagination(params.Page, params.PageSize)

	customers, total, err := s.customerRepo.List(ctx, page, pageSize, &repository.CustomerFilters{
		Search: params.Search,
		Source: params.Source,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	ids := make([]uuid.UUID, len(customers))
	for i := range customers {
		ids[i] = customers[i].ID
	}
	counts, err := s.customerRepo.CountJobs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count customer jobs: %w", err)
	}

	dtos := make([]domain.CustomerDTO, len(customers))
	for i := range customers {
		dtos[i] = mapper.ToCustomerDTO(&customers[i], counts[customers[i].ID])
	}

	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

// ConvertLead creates a customer from a lead's contact and property details.
// A lead converts at most once.
func (s *CustomerService) ConvertLead(ctx context.Context, leadID uuid.UUID) (*domain.CustomerDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	if _, err := s.customerRepo.GetByLeadID(ctx, leadID); err == nil {
		return nil, ErrLeadAlreadyConverted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check lead conversion: %w", err)
	}

	customer := &domain.Customer{
		FirstName:       lead.FirstName,
		LastName:        lead.LastName,
		Email:           lead.Email,
		Phone:           lead.Phone,
		StreetAddress:   lead.StreetAddress,
		City:            lead.City,
		ZipCode:         lead.ZipCode,
		PropertyType:    lead.PropertyType,
		Stories:         lead.Stories,
		SquareFootage:   lead.SquareFootage,
		SolarPanelCount: lead.SolarPanelCount,
		Notes:           lead.Notes,
		Source:          domain.CustomerSourceWebsite,
		LeadID:          &lead.ID,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("lead converted to customer",
		zap.String("lead_id", leadID.String()),
		zap.String("customer_id", customer.ID.String()))

	dto := mapper.ToCustomerDTO(customer, 0)
	return &dto, nil
}

func (s *CustomerService) getCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// applyCustomerRequest copies req onto customer. Names and contact fields are
// trimmed; notes are stored as written.
func applyCustomerRequest(customer *domain.Customer, req *domain.CustomerRequest) error {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" || last == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	source := req.Source
	if source == "" {
		source = domain.CustomerSourceOther
	}
	if !source.IsValid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}

	customer.FirstName = first
	customer.LastName = last
	customer.Email = strings.TrimSpace(req.Email)
	customer.Phone = strings.TrimSpace(req.Phone)
	customer.StreetAddress = req.StreetAddress
	customer.City = req.City
	customer.ZipCode = req.ZipCode
	customer.PropertyType = req.PropertyType
	customer.Stories = req.Stories
	customer.SquareFootage = req.SquareFootage
	customer.SolarPanelCount = req.SolarPanelCount
	customer.Tags = append([]string{}, req.Tags...)
	customer.Notes = req.Notes
	customer.Source = source
	return nil
}
