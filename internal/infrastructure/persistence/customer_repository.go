package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/obaptiste/dashboard-api/internal/domain/partner"
	"github.com/obaptiste/dashboard-api/internal/domain/shared"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

const customerSummarySelect = `customers.id, customers.name, customers.email, customers.image_url,
COUNT(invoices.id) AS total_invoices,
COALESCE(SUM(CASE WHEN invoices.status = 'pending' THEN invoices.amount ELSE 0 END), 0) AS total_pending,
COALESCE(SUM(CASE WHEN invoices.status = 'paid' THEN invoices.amount ELSE 0 END), 0) AS total_paid`

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// Search returns one page of customers matching the search text, with invoice
// aggregates computed with a left join, ordered by name ascending.
func (r *GormCustomerRepository) Search(ctx context.Context, filter shared.Filter) ([]partner.CustomerSummary, error) {
	summaries := []partner.CustomerSummary{}

	query := r.db.WithContext(ctx).
		Table("customers").
		Select(customerSummarySelect).
		Joins("LEFT JOIN invoices ON customers.id = invoices.customer_id")
	query = applyCustomerSearch(query, filter.Search)

	err := query.
		Group("customers.id, customers.name, customers.email, customers.image_url").
		Order("customers.name ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// Count counts customers matching the search text
func (r *GormCustomerRepository) Count(ctx context.Context, search string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Table("customers")
	query = applyCustomerSearch(query, search)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListNames returns all customers as (id, name) pairs, name ascending
func (r *GormCustomerRepository) ListNames(ctx context.Context) ([]partner.CustomerName, error) {
	names := []partner.CustomerName{}
	err := r.db.WithContext(ctx).
		Table("customers").
		Select("id, name").
		Order("name ASC").
		Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Exists checks whether a customer with the given ID exists
func (r *GormCustomerRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// Update persists the mutable fields of an existing customer
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	result := r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"name":       customer.Name,
			"email":      customer.Email,
			"image_url":  customer.ImageURL,
			"updated_at": customer.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a customer; its invoices cascade via the foreign key
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&partner.Customer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func applyCustomerSearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	pattern := "%" + search + "%"
	return query.Where("customers.name ILIKE ? OR customers.email ILIKE ?", pattern, pattern)
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
