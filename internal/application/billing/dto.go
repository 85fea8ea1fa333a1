package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/obaptiste/dashboard-api/internal/domain/billing"
	"github.com/obaptiste/dashboard-api/internal/domain/shared/valueobject"
)

// CreateInvoiceRequest represents a request to create a new invoice.
// Amount arrives as a decimal string like "49.99" and is stored as cents.
type CreateInvoiceRequest struct {
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
}

// UpdateInvoiceRequest represents a request to update an invoice.
// The issue date is never updatable.
type UpdateInvoiceRequest struct {
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
}

// InvoiceResponse represents an invoice in API responses, joined with the
// customer's display fields.
type InvoiceResponse struct {
	ID              uuid.UUID `json:"id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	Amount          int64     `json:"amount"` // cents
	AmountFormatted string    `json:"amount_formatted"`
	Status          string    `json:"status"`
	Date            string    `json:"date"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerImage   string    `json:"customer_image"`
}

// ToInvoiceResponse converts an invoice read model to a response DTO
func ToInvoiceResponse(row billing.InvoiceRow) InvoiceResponse {
	return InvoiceResponse{
		ID:              row.ID,
		CustomerID:      row.CustomerID,
		Amount:          row.Amount,
		AmountFormatted: valueobject.FormatCurrency(row.Amount),
		Status:          string(row.Status),
		Date:            row.Date.Format(time.DateOnly),
		CustomerName:    row.Name,
		CustomerEmail:   row.Email,
		CustomerImage:   row.ImageURL,
	}
}

// ToInvoiceResponses converts a slice of invoice read models
func ToInvoiceResponses(rows []billing.InvoiceRow) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(rows))
	for i, row := range rows {
		responses[i] = ToInvoiceResponse(row)
	}
	return responses
}
