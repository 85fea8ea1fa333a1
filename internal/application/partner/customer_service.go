package partner

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/obaptiste/dashboard-api/internal/domain/partner"
	"github.com/obaptiste/dashboard-api/internal/domain/shared"
	"github.com/obaptiste/dashboard-api/internal/infrastructure/cache"
)

// CustomerService handles customer-related business operations. Read paths go
// through the query cache; every successful mutation invalidates the keys it
// could have made stale.
type CustomerService struct {
	customerRepo partner.CustomerRepository
	cache        cache.QueryCache
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, queryCache cache.QueryCache, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		cache:        queryCache,
		logger:       logger,
	}
}

// List returns one page of customers matching the search query with their
// invoice aggregates, ordered by name.
func (s *CustomerService) List(ctx context.Context, query string, page int) (*shared.Paginated[CustomerSummaryResponse], error) {
	if page < 1 {
		page = 1
	}

	pageKey := cache.CustomersPageKey(query, page)
	countKey := cache.CustomersCountKey(query)

	cachedItems, itemsOK := cache.GetJSON[[]CustomerSummaryResponse](ctx, s.cache, pageKey)
	cachedCount, countOK := cache.GetJSON[int64](ctx, s.cache, countKey)
	if itemsOK && countOK {
		result := shared.NewPaginated(*cachedItems, *cachedCount, page, shared.PageSize)
		return &result, nil
	}

	filter := shared.Filter{Page: page, PageSize: shared.PageSize, Search: query}
	summaries, err := s.customerRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.Count(ctx, query)
	if err != nil {
		return nil, err
	}

	items := ToCustomerSummaryResponses(summaries)
	s.cacheSet(ctx, pageKey, items)
	s.cacheSet(ctx, countKey, total)

	result := shared.NewPaginated(items, total, page, shared.PageSize)
	return &result, nil
}

// GetByID returns a single customer
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	key := cache.CustomerKey(id)
	if cached, ok := cache.GetJSON[CustomerResponse](ctx, s.cache, key); ok {
		return cached, nil
	}

	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	s.cacheSet(ctx, key, response)
	return &response, nil
}

// ListNames returns all customers as (id, name) pairs for form selects
func (s *CustomerService) ListNames(ctx context.Context) ([]partner.CustomerName, error) {
	return s.customerRepo.ListNames(ctx)
}

// Create validates the request field by field and creates a customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := validateCustomerInput(req.Name, req.Email, "Missing Fields. Failed to Create Customer."); err != nil {
		return nil, err
	}

	customer, err := partner.NewCustomer(req.Name, req.Email, req.ImageURL)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.invalidateCustomerReads(ctx, customer.ID)
	s.logger.Info("customer created",
		zap.String("customer_id", customer.ID.String()),
		zap.String("email", customer.Email))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Update validates the request and replaces the customer's mutable fields
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	if err := validateCustomerInput(req.Name, req.Email, "Missing Fields. Failed to Update Customer."); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := customer.Update(req.Name, req.Email, req.ImageURL); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.invalidateCustomerReads(ctx, id)
	s.logger.Info("customer updated", zap.String("customer_id", id.String()))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete removes a customer; its invoices cascade at the store level
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCustomerReads(ctx, id)
	// Cascaded invoice rows invalidate the invoice reads too, including the
	// per-invoice detail entries ("invoice:" does not match "invoices:").
	for _, prefix := range []string{"invoices:", "invoice:", "latest-invoices:"} {
		if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
			s.logger.Warn("cache invalidation failed", zap.String("prefix", prefix), zap.Error(err))
		}
	}
	s.logger.Info("customer deleted", zap.String("customer_id", id.String()))
	return nil
}

var customerEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// validateCustomerInput collects every field failure before reporting
func validateCustomerInput(name, email, message string) error {
	verr := shared.NewValidationErrors(message)

	if name == "" {
		verr.Add("name", "Please enter a name.")
	}
	if !customerEmailRegex.MatchString(email) {
		verr.Add("email", "Please enter a valid email address.")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// invalidateCustomerReads drops every cached read a customer mutation could
// have made stale.
func (s *CustomerService) invalidateCustomerReads(ctx context.Context, id uuid.UUID) {
	if err := s.cache.DeletePrefix(ctx, "customers:"); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("prefix", "customers:"), zap.Error(err))
	}
	if err := s.cache.Delete(ctx, cache.CustomerKey(id), cache.DashboardCardsKey); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

func (s *CustomerService) cacheSet(ctx context.Context, key string, value any) {
	if err := cache.SetJSON(ctx, s.cache, key, value, 0); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
