package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/obaptiste/dashboard-api/internal/domain/shared"
)

// InvoiceStatus represents the payment status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Invoice represents an invoice issued to a customer. Amount is stored as an
// integer number of cents; display formatting divides by 100.
type Invoice struct {
	shared.BaseEntity
	CustomerID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Amount     int64         `gorm:"not null"` // cents
	Status     InvoiceStatus `gorm:"type:varchar(10);not null;default:'pending'"`
	Date       time.Time     `gorm:"type:date;not null;index"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new invoice dated today. The issue date is set by the
// server clock, never user-supplied.
func NewInvoice(customerID uuid.UUID, amount int64, status InvoiceStatus) (*Invoice, error) {
	if err := validateCustomerID(customerID); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	return &Invoice{
		BaseEntity: shared.NewBaseEntity(),
		CustomerID: customerID,
		Amount:     amount,
		Status:     status,
		Date:       truncateToDate(time.Now()),
	}, nil
}

// Update replaces the invoice's mutable fields. The issue date is preserved.
func (i *Invoice) Update(customerID uuid.UUID, amount int64, status InvoiceStatus) error {
	if err := validateCustomerID(customerID); err != nil {
		return err
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if err := validateStatus(status); err != nil {
		return err
	}

	i.CustomerID = customerID
	i.Amount = amount
	i.Status = status
	i.UpdatedAt = time.Now()

	return nil
}

// MarkPaid transitions the invoice to paid
func (i *Invoice) MarkPaid() error {
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already paid")
	}
	i.Status = InvoiceStatusPaid
	i.UpdatedAt = time.Now()
	return nil
}

// MarkPending transitions the invoice back to pending
func (i *Invoice) MarkPending() error {
	if i.Status == InvoiceStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already pending")
	}
	i.Status = InvoiceStatusPending
	i.UpdatedAt = time.Now()
	return nil
}

// IsPaid returns true if the invoice has been paid
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateCustomerID(customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Invoice must reference a customer")
	}
	return nil
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	return nil
}

func validateStatus(status InvoiceStatus) error {
	switch status {
	case InvoiceStatusPending, InvoiceStatusPaid:
		return nil
	default:
		return shared.NewDomainError("INVALID_STATUS", "Invoice status must be 'pending' or 'paid'")
	}
}
