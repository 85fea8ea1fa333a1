package partner

import (
	"github.com/google/uuid"

	"github.com/obaptiste/dashboard-api/internal/domain/partner"
	"github.com/obaptiste/dashboard-api/internal/domain/shared/valueobject"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	ImageURL string    `json:"image_url"`
}

// CustomerSummaryResponse represents a customer with invoice aggregates in
// the customers table view. Totals carry both cents and display strings.
type CustomerSummaryResponse struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	ImageURL              string    `json:"image_url"`
	TotalInvoices         int64     `json:"total_invoices"`
	TotalPending          int64     `json:"total_pending"` // cents
	TotalPaid             int64     `json:"total_paid"`    // cents
	TotalPendingFormatted string    `json:"total_pending_formatted"`
	TotalPaidFormatted    string    `json:"total_paid_formatted"`
}

// ToCustomerResponse converts a customer aggregate to a response DTO
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:       customer.ID,
		Name:     customer.Name,
		Email:    customer.Email,
		ImageURL: customer.ImageURL,
	}
}

// ToCustomerSummaryResponse converts a customer read model to a response DTO
func ToCustomerSummaryResponse(summary partner.CustomerSummary) CustomerSummaryResponse {
	return CustomerSummaryResponse{
		ID:                    summary.ID,
		Name:                  summary.Name,
		Email:                 summary.Email,
		ImageURL:              summary.ImageURL,
		TotalInvoices:         summary.TotalInvoices,
		TotalPending:          summary.TotalPending,
		TotalPaid:             summary.TotalPaid,
		TotalPendingFormatted: valueobject.FormatCurrency(summary.TotalPending),
		TotalPaidFormatted:    valueobject.FormatCurrency(summary.TotalPaid),
	}
}

// ToCustomerSummaryResponses converts a slice of customer read models
func ToCustomerSummaryResponses(summaries []partner.CustomerSummary) []CustomerSummaryResponse {
	responses := make([]CustomerSummaryResponse, len(summaries))
	for i, summary := range summaries {
		responses[i] = ToCustomerSummaryResponse(summary)
	}
	return responses
}
