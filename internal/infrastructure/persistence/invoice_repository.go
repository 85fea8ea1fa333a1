package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/obaptiste/dashboard-api/internal/domain/billing"
	"github.com/obaptiste/dashboard-api/internal/domain/shared"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

const invoiceRowSelect = `invoices.id, invoices.customer_id, invoices.amount, invoices.status, invoices.date,
customers.name, customers.email, customers.image_url`

// FindByID returns the invoice joined with its customer's display fields
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.InvoiceRow, error) {
	var row billing.InvoiceRow
	result := r.db.WithContext(ctx).
		Table("invoices").
		Select(invoiceRowSelect).
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Where("invoices.id = ?", id).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}
	return &row, nil
}

// Search returns one page of invoices whose customer name, customer email,
// amount, date or status matches the search text, newest first.
func (r *GormInvoiceRepository) Search(ctx context.Context, filter shared.Filter) ([]billing.InvoiceRow, error) {
	rows := []billing.InvoiceRow{}

	query := r.db.WithContext(ctx).
		Table("invoices").
		Select(invoiceRowSelect).
		Joins("JOIN customers ON customers.id = invoices.customer_id")
	query = applyInvoiceSearch(query, filter.Search)

	err := query.
		Order("invoices.date DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Count counts invoices matching the search text
func (r *GormInvoiceRepository) Count(ctx context.Context, search string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Table("invoices").
		Joins("JOIN customers ON customers.id = invoices.customer_id")
	query = applyInvoiceSearch(query, search)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Latest returns the most recent invoices joined with customer display fields
func (r *GormInvoiceRepository) Latest(ctx context.Context, limit int) ([]billing.InvoiceRow, error) {
	rows := []billing.InvoiceRow{}
	err := r.db.WithContext(ctx).
		Table("invoices").
		Select(invoiceRowSelect).
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Order("invoices.date DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountAll returns the total number of invoices
func (r *GormInvoiceRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&billing.Invoice{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByStatus returns the paid and pending amount totals in a single scan
func (r *GormInvoiceRepository) SumByStatus(ctx context.Context) (billing.StatusTotals, error) {
	var totals billing.StatusTotals
	err := r.db.WithContext(ctx).
		Table("invoices").
		Select(`COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0) AS paid,
COALESCE(SUM(CASE WHEN status = 'pending' THEN amount ELSE 0 END), 0) AS pending`).
		Scan(&totals).Error
	if err != nil {
		return billing.StatusTotals{}, err
	}
	return totals, nil
}

// Save creates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// Update persists the mutable fields of an existing invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"customer_id": invoice.CustomerID,
			"amount":      invoice.Amount,
			"status":      invoice.Status,
			"updated_at":  invoice.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes an invoice
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.Invoice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyInvoiceSearch matches the search text against every visible column of
// the invoices table, casting amount and date to text so partial numeric and
// date fragments match too.
func applyInvoiceSearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	pattern := "%" + search + "%"
	return query.Where(
		`customers.name ILIKE ? OR customers.email ILIKE ? OR invoices.amount::text ILIKE ? OR invoices.date::text ILIKE ? OR invoices.status ILIKE ?`,
		pattern, pattern, pattern, pattern, pattern,
	)
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
