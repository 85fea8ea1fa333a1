package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/obaptiste/dashboard-api/internal/domain/shared"
)

// CustomerSummary is the read model for the customers table view: customer
// fields plus invoice aggregates computed with a left join.
type CustomerSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ImageURL      string    `json:"image_url"`
	TotalInvoices int64     `json:"total_invoices"`
	TotalPending  int64     `json:"total_pending"` // cents
	TotalPaid     int64     `json:"total_paid"`    // cents
}

// CustomerName is the minimal projection used to populate form selects
type CustomerName struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	// Search returns one page of customers matching the filter's free-text
	// search against name and email, with invoice aggregates, ordered by
	// name ascending.
	Search(ctx context.Context, filter shared.Filter) ([]CustomerSummary, error)
	// Count returns the total number of customers matching the search text
	Count(ctx context.Context, search string) (int64, error)
	// ListNames returns all customers as (id, name) pairs, name ascending
	ListNames(ctx context.Context) ([]CustomerName, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, customer *Customer) error
	// Update persists the mutable fields of an existing customer and
	// returns shared.ErrNotFound when no row matches the id.
	Update(ctx context.Context, customer *Customer) error
	// Delete removes a customer by id; invoices cascade at the store level.
	// Returns shared.ErrNotFound when no row matches.
	Delete(ctx context.Context, id uuid.UUID) error
}
