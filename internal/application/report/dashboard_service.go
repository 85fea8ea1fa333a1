package report

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/obaptiste/dashboard-api/internal/domain/billing"
	"github.com/obaptiste/dashboard-api/internal/domain/report"
	"github.com/obaptiste/dashboard-api/internal/domain/shared/valueobject"
	"github.com/obaptiste/dashboard-api/internal/infrastructure/cache"
)

// CardSummaryResponse aggregates the dashboard overview cards. Money totals
// carry both cents and display strings.
type CardSummaryResponse struct {
	InvoiceCount          int64  `json:"invoice_count"`
	CustomerCount         int64  `json:"customer_count"`
	TotalPaid             int64  `json:"total_paid"`    // cents
	TotalPending          int64  `json:"total_pending"` // cents
	TotalPaidFormatted    string `json:"total_paid_formatted"`
	TotalPendingFormatted string `json:"total_pending_formatted"`
}

// RevenueResponse is one month of the revenue chart
type RevenueResponse struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}

// countingCustomerRepository is the slice of the customer repository the
// dashboard needs.
type countingCustomerRepository interface {
	Count(ctx context.Context, search string) (int64, error)
}

// DashboardService assembles the dashboard overview from invoice, customer
// and revenue data.
type DashboardService struct {
	invoiceRepo  billing.InvoiceRepository
	customerRepo countingCustomerRepository
	revenueRepo  report.RevenueRepository
	cache        cache.QueryCache
	logger       *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	invoiceRepo billing.InvoiceRepository,
	customerRepo countingCustomerRepository,
	revenueRepo report.RevenueRepository,
	queryCache cache.QueryCache,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		revenueRepo:  revenueRepo,
		cache:        queryCache,
		logger:       logger,
	}
}

// CardSummary returns the dashboard card aggregates. The three queries run
// concurrently; the first error cancels the rest.
func (s *DashboardService) CardSummary(ctx context.Context) (*CardSummaryResponse, error) {
	if cached, ok := cache.GetJSON[CardSummaryResponse](ctx, s.cache, cache.DashboardCardsKey); ok {
		return cached, nil
	}

	var (
		invoiceCount  int64
		customerCount int64
		totals        billing.StatusTotals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		invoiceCount, err = s.invoiceRepo.CountAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customerCount, err = s.customerRepo.Count(gctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = s.invoiceRepo.SumByStatus(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	response := CardSummaryResponse{
		InvoiceCount:          invoiceCount,
		CustomerCount:         customerCount,
		TotalPaid:             totals.Paid,
		TotalPending:          totals.Pending,
		TotalPaidFormatted:    valueobject.FormatCurrency(totals.Paid),
		TotalPendingFormatted: valueobject.FormatCurrency(totals.Pending),
	}

	if err := cache.SetJSON(ctx, s.cache, cache.DashboardCardsKey, response, 0); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", cache.DashboardCardsKey), zap.Error(err))
	}
	return &response, nil
}

// Revenue returns the full monthly revenue dataset for the chart
func (s *DashboardService) Revenue(ctx context.Context) ([]RevenueResponse, error) {
	if cached, ok := cache.GetJSON[[]RevenueResponse](ctx, s.cache, cache.RevenueKey); ok {
		return *cached, nil
	}

	rows, err := s.revenueRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]RevenueResponse, len(rows))
	for i, row := range rows {
		responses[i] = RevenueResponse{Month: row.Month, Revenue: row.Revenue}
	}

	if err := cache.SetJSON(ctx, s.cache, cache.RevenueKey, responses, 0); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", cache.RevenueKey), zap.Error(err))
	}
	return responses, nil
}
