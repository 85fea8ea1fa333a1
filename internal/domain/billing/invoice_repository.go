package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/obaptiste/dashboard-api/internal/domain/shared"
)

// InvoiceRow is the read model for the invoices table view: invoice fields
// joined with the customer display fields.
type InvoiceRow struct {
	ID         uuid.UUID     `json:"id"`
	CustomerID uuid.UUID     `json:"customer_id"`
	Amount     int64         `json:"amount"` // cents
	Status     InvoiceStatus `json:"status"`
	Date       time.Time     `json:"date"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	ImageURL   string        `json:"image_url"`
}

// StatusTotals holds the conditional sums used by the dashboard cards
type StatusTotals struct {
	Paid    int64 `json:"paid"`    // cents
	Pending int64 `json:"pending"` // cents
}

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	// FindByID returns the invoice joined with its customer's display
	// fields, or shared.ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*InvoiceRow, error)
	// Search returns one page of invoices whose customer name, customer
	// email, amount, date or status matches the filter's search text
	// case-insensitively, ordered by date descending.
	Search(ctx context.Context, filter shared.Filter) ([]InvoiceRow, error)
	// Count returns the total number of invoices matching the search text
	Count(ctx context.Context, search string) (int64, error)
	// Latest returns the most recent invoices joined with customer display
	// fields, ordered by date descending.
	Latest(ctx context.Context, limit int) ([]InvoiceRow, error)
	// CountAll returns the total number of invoices
	CountAll(ctx context.Context) (int64, error)
	// SumByStatus returns the paid and pending amount totals
	SumByStatus(ctx context.Context) (StatusTotals, error)
	Save(ctx context.Context, invoice *Invoice) error
	// Update persists the mutable fields of an existing invoice and
	// returns shared.ErrNotFound when no row matches the id.
	Update(ctx context.Context, invoice *Invoice) error
	// Delete removes an invoice by id. Returns shared.ErrNotFound when no
	// row matches, so callers can distinguish "deleted" from "was absent".
	Delete(ctx context.Context, id uuid.UUID) error
}
