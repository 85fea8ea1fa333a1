package billing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/obaptiste/dashboard-api/internal/domain/billing"
	"github.com/obaptiste/dashboard-api/internal/domain/shared"
	"github.com/obaptiste/dashboard-api/internal/domain/shared/valueobject"
	"github.com/obaptiste/dashboard-api/internal/infrastructure/cache"
)

// DefaultLatestLimit is how many invoices the latest-invoices panel shows
const DefaultLatestLimit = 5

// customerExistenceChecker is the slice of the customer repository invoice
// validation needs.
type customerExistenceChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// InvoiceService handles invoice-related business operations. Read paths go
// through the query cache; every successful mutation invalidates the keys it
// could have made stale.
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	customerRepo customerExistenceChecker
	cache        cache.QueryCache
	logger       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	customerRepo customerExistenceChecker,
	queryCache cache.QueryCache,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		cache:        queryCache,
		logger:       logger,
	}
}

// List returns one page of invoices matching the search query, newest first
func (s *InvoiceService) List(ctx context.Context, query string, page int) (*shared.Paginated[InvoiceResponse], error) {
	if page < 1 {
		page = 1
	}

	pageKey := cache.InvoicesPageKey(query, page)
	countKey := cache.InvoicesCountKey(query)

	cachedItems, itemsOK := cache.GetJSON[[]InvoiceResponse](ctx, s.cache, pageKey)
	cachedCount, countOK := cache.GetJSON[int64](ctx, s.cache, countKey)
	if itemsOK && countOK {
		result := shared.NewPaginated(*cachedItems, *cachedCount, page, shared.PageSize)
		return &result, nil
	}

	filter := shared.Filter{Page: page, PageSize: shared.PageSize, Search: query}
	rows, err := s.invoiceRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, query)
	if err != nil {
		return nil, err
	}

	items := ToInvoiceResponses(rows)
	s.cacheSet(ctx, pageKey, items)
	s.cacheSet(ctx, countKey, total)

	result := shared.NewPaginated(items, total, page, shared.PageSize)
	return &result, nil
}

// GetByID returns a single invoice with its customer's display fields
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	key := cache.InvoiceKey(id)
	if cached, ok := cache.GetJSON[InvoiceResponse](ctx, s.cache, key); ok {
		return cached, nil
	}

	row, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(*row)
	s.cacheSet(ctx, key, response)
	return &response, nil
}

// Latest returns the most recent invoices for the dashboard panel
func (s *InvoiceService) Latest(ctx context.Context, limit int) ([]InvoiceResponse, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}

	key := cache.LatestInvoicesKey(limit)
	if cached, ok := cache.GetJSON[[]InvoiceResponse](ctx, s.cache, key); ok {
		return *cached, nil
	}

	rows, err := s.invoiceRepo.Latest(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := ToInvoiceResponses(rows)
	s.cacheSet(ctx, key, responses)
	return responses, nil
}

// Create validates the request field by field and creates an invoice dated
// today. The amount string is parsed exactly and stored as cents.
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customerID, amount, status, err := s.validateInvoiceInput(ctx, req.CustomerID, req.Amount, req.Status,
		"Missing Fields. Failed to Create Invoice.")
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(customerID, amount, status)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	s.invalidateInvoiceReads(ctx, invoice.ID)
	s.logger.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.Int64("amount", amount))

	return s.GetByID(ctx, invoice.ID)
}

// Update validates the request and replaces the invoice's mutable fields.
// The issue date is preserved.
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	customerID, amount, status, err := s.validateInvoiceInput(ctx, req.CustomerID, req.Amount, req.Status,
		"Missing Fields. Failed to Update Invoice.")
	if err != nil {
		return nil, err
	}

	existing, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	invoice := &billing.Invoice{
		BaseEntity: shared.BaseEntity{ID: existing.ID},
		Date:       existing.Date,
	}
	if err := invoice.Update(customerID, amount, status); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.invalidateInvoiceReads(ctx, id)
	s.logger.Info("invoice updated", zap.String("invoice_id", id.String()))

	return s.GetByID(ctx, id)
}

// Delete removes an invoice. Deleting an absent invoice reports not found.
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateInvoiceReads(ctx, id)
	s.logger.Info("invoice deleted", zap.String("invoice_id", id.String()))
	return nil
}

// validateInvoiceInput collects every field failure before reporting, so the
// caller can render all of them at once.
func (s *InvoiceService) validateInvoiceInput(ctx context.Context, rawCustomerID, rawAmount, rawStatus, message string) (uuid.UUID, int64, billing.InvoiceStatus, error) {
	verr := shared.NewValidationErrors(message)

	customerID, err := uuid.Parse(rawCustomerID)
	if err != nil {
		verr.Add("customer_id", "Please select a customer.")
	} else {
		exists, err := s.customerRepo.Exists(ctx, customerID)
		if err != nil {
			return uuid.Nil, 0, "", err
		}
		if !exists {
			verr.Add("customer_id", "Please select a customer.")
		}
	}

	var amount int64
	money, err := valueobject.NewMoneyFromString(rawAmount)
	if err != nil || !money.IsPositive() {
		verr.Add("amount", "Please enter an amount greater than $0.")
	} else {
		amount = money.Cents()
	}

	status := billing.InvoiceStatus(rawStatus)
	if status != billing.InvoiceStatusPending && status != billing.InvoiceStatusPaid {
		verr.Add("status", "Please select an invoice status.")
	}

	if verr.HasErrors() {
		return uuid.Nil, 0, "", verr
	}
	return customerID, amount, status, nil
}

// invalidateInvoiceReads drops every cached read an invoice mutation could
// have made stale: all listing pages and counts, the single-invoice entry,
// the latest-invoices panels, and the dashboard aggregates.
func (s *InvoiceService) invalidateInvoiceReads(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeletePrefix(ctx, "invoices:"); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("prefix", "invoices:"), zap.Error(err))
	}
	if err := s.cache.DeletePrefix(ctx, "latest-invoices:"); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("prefix", "latest-invoices:"), zap.Error(err))
	}
	// Invoice aggregates feed the customer listing too
	if err := s.cache.DeletePrefix(ctx, "customers:"); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("prefix", "customers:"), zap.Error(err))
	}
	if err := s.cache.Delete(ctx, cache.InvoiceKey(id), cache.DashboardCardsKey); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

// cacheSet stores a value in the query cache, logging failures instead of
// surfacing them; a broken cache must not break reads.
func (s *InvoiceService) cacheSet(ctx context.Context, key string, value any) {
	if err := cache.SetJSON(ctx, s.cache, key, value, 0); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
