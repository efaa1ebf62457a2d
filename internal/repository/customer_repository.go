package repository

import (
	"context"
	"strings"

	"github.com/cleanclear-sd/lead-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerFilters contains the filter options for listing customers
type CustomerFilters struct {
	Search string
	Source *domain.CustomerSource
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *CustomerRepository) WithTx(tx *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: tx}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetByLeadID returns the customer converted from a lead
func (r *CustomerRepository) GetByLeadID(ctx context.Context, leadID uuid.UUID) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).Where("lead_id = ?", leadID).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(customer).Error
}

// Delete removes a customer. It returns gorm.ErrRecordNotFound when no
// customer has the given id.
func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Customer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns a page of customers, newest first. Search matches names, email
// and city case-insensitively and phone as typed.
func (r *CustomerRepository) List(ctx context.Context, page, pageSize int, filters *CustomerFilters) ([]domain.Customer, int64, error) {
	var customers []domain.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Customer{})
	if filters != nil {
		if filters.Source != nil {
			query = query.Where("source = ?", *filters.Source)
		}
		if search := strings.TrimSpace(filters.Search); search != "" {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where(
				"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(city) LIKE ? OR phone LIKE ?",
				pattern, pattern, pattern, pattern, "%"+search+"%",
			)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&customers).Error

	return customers, total, err
}

// CountJobs returns the number of jobs per customer for the given ids.
// Customers without jobs are absent from the map.
func (r *CustomerRepository) CountJobs(ctx context.Context, customerIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(customerIDs))
	if len(customerIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CustomerID uuid.UUID
		Count      int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Job{}).
		Select("customer_id, COUNT(*) AS count").
		Where("customer_id IN ?", customerIDs).
		Group("customer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CustomerID] = row.Count
	}
	return counts, nil
}
