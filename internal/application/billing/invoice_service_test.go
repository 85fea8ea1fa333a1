package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/obaptiste/dashboard-api/internal/domain/billing"
	"github.com/obaptiste/dashboard-api/internal/domain/shared"
	"github.com/obaptiste/dashboard-api/internal/infrastructure/cache"
)

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.InvoiceRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceRow), args.Error(1)
}

func (m *MockInvoiceRepository) Search(ctx context.Context, filter shared.Filter) ([]billing.InvoiceRow, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.InvoiceRow), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Latest(ctx context.Context, limit int) ([]billing.InvoiceRow, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]billing.InvoiceRow), args.Error(1)
}

func (m *MockInvoiceRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SumByStatus(ctx context.Context) (billing.StatusTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(billing.StatusTotals), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCustomerChecker is a mock implementation of customerExistenceChecker
type MockCustomerChecker struct {
	mock.Mock
}

func (m *MockCustomerChecker) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newTestInvoiceService(t *testing.T) (*InvoiceService, *MockInvoiceRepository, *MockCustomerChecker, *cache.InMemoryQueryCache) {
	invoiceRepo := new(MockInvoiceRepository)
	customers := new(MockCustomerChecker)
	queryCache := cache.NewInMemoryQueryCache()
	t.Cleanup(func() { queryCache.Close() })

	service := NewInvoiceService(invoiceRepo, customers, queryCache, zap.NewNop())
	return service, invoiceRepo, customers, queryCache
}

func sampleRow(id, customerID uuid.UUID) billing.InvoiceRow {
	return billing.InvoiceRow{
		ID:         id,
		CustomerID: customerID,
		Amount:     4999,
		Status:     billing.InvoiceStatusPending,
		Date:       time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Name:       "Amy Burns",
		Email:      "amy@burns.com",
	}
}

func TestInvoiceService_List(t *testing.T) {
	t.Run("returns a page with totals and formatted amounts", func(t *testing.T) {
		service, invoiceRepo, _, _ := newTestInvoiceService(t)

		rows := []billing.InvoiceRow{sampleRow(uuid.New(), uuid.New())}
		invoiceRepo.On("Search", mock.Anything, shared.Filter{Page: 1, PageSize: shared.PageSize, Search: "amy"}).
			Return(rows, nil)
		invoiceRepo.On("Count", mock.Anything, "amy").Return(int64(7), nil)

		result, err := service.List(context.Background(), "amy", 1)

		require.NoError(t, err)
		assert.Equal(t, int64(7), result.Total)
		assert.Equal(t, 2, result.TotalPages)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "$49.99", result.Items[0].AmountFormatted)
		assert.Equal(t, "2025-06-15", result.Items[0].Date)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("serves the second request from cache", func(t *testing.T) {
		service, invoiceRepo, _, _ := newTestInvoiceService(t)

		rows := []billing.InvoiceRow{sampleRow(uuid.New(), uuid.New())}
		invoiceRepo.On("Search", mock.Anything, mock.Anything).Return(rows, nil).Once()
		invoiceRepo.On("Count", mock.Anything, "").Return(int64(1), nil).Once()

		first, err := service.List(context.Background(), "", 1)
		require.NoError(t, err)
		second, err := service.List(context.Background(), "", 1)
		require.NoError(t, err)

		assert.Equal(t, first.Items, second.Items)
		invoiceRepo.AssertNumberOfCalls(t, "Search", 1)
		invoiceRepo.AssertNumberOfCalls(t, "Count", 1)
	})

	t.Run("pages below one are treated as page one", func(t *testing.T) {
		service, invoiceRepo, _, _ := newTestInvoiceService(t)

		invoiceRepo.On("Search", mock.Anything, shared.Filter{Page: 1, PageSize: shared.PageSize}).
			Return([]billing.InvoiceRow{}, nil)
		invoiceRepo.On("Count", mock.Anything, "").Return(int64(0), nil)

		result, err := service.List(context.Background(), "", 0)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		invoiceRepo.AssertExpectations(t)
	})
}

func TestInvoiceService_GetByID(t *testing.T) {
	t.Run("returns invoice and caches it", func(t *testing.T) {
		service, invoiceRepo, _, _ := newTestInvoiceService(t)

		invoiceID := uuid.New()
		row := sampleRow(invoiceID, uuid.New())
		invoiceRepo.On("FindByID", mock.Anything, invoiceID).Return(&row, nil).Once()

		first, err := service.GetByID(context.Background(), invoiceID)
		require.NoError(t, err)
		second, err := service.GetByID(context.Background(), invoiceID)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		invoiceRepo.AssertNumberOfCalls(t, "FindByID", 1)
	})

	t.Run("propagates not found", func(t *testing.T) {
		service, invoiceRepo, _, _ := newTestInvoiceService(t)

		invoiceID := uuid.New()
		invoiceRepo.On("FindByID", mock.Anything, invoiceID).Return(nil, shared.ErrNotFound)

		_, err := service.GetByID(context.Background(), invoiceID)

		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestInvoiceService_Create(t *testing.T) {
	t.Run("creates invoice from valid input", func(t *testing.T) {
		service, invoiceRepo, customers, _ := newTestInvoiceService(t)

		customerID := uuid.New()
		customers.On("Exists", mock.Anything, customerID).Return(true, nil)

		var savedID uuid.UUID
		invoiceRepo.On("Save", mock.Anything, mock.MatchedBy(func(inv *billing.Invoice) bool {
			savedID = inv.ID
			return inv.CustomerID == customerID &&
				inv.Amount == 4999 &&
				inv.Status == billing.InvoiceStatusPending
		})).Return(nil)
		invoiceRepo.On("FindByID", mock.Anything, mock.Anything).Return(&billing.InvoiceRow{
			CustomerID: customerID,
			Amount:     4999,
			Status:     billing.InvoiceStatusPending,
		}, nil)

		response, err := service.Create(context.Background(), CreateInvoiceRequest{
			CustomerID: customerID.String(),
			Amount:     "49.99",
			Status:     "pending",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(4999), response.Amount)
		assert.NotEqual(t, uuid.Nil, savedID)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("collects every field error", func(t *testing.T) {
		service, _, _, _ := newTestInvoiceService(t)

		_, err := service.Create(context.Background(), CreateInvoiceRequest{
			CustomerID: "not-a-uuid",
			Amount:     "zero",
			Status:     "overdue",
		})

		require.Error(t, err)
		verr, ok := err.(*shared.ValidationErrors)
		require.True(t, ok)
		assert.Equal(t, "Missing Fields. Failed to Create Invoice.", verr.Message)
		assert.Contains(t, verr.Fields, "customer_id")
		assert.Contains(t, verr.Fields, "amount")
		assert.Contains(t, verr.Fields, "status")
	})

	t.Run("rejects unknown customer", func(t *testing.T) {
		service, _, customers, _ := newTestInvoiceService(t)

		customerID := uuid.New()
		customers.On("Exists", mock.Anything, customerID).Return(false, nil)

		_, err := service.Create(context.Background(), CreateInvoiceRequest{
			CustomerID: customerID.String(),
			Amount:     "10.00",
			Status:     "paid",
		})

		require.Error(t, err)
		verr, ok := err.(*shared.ValidationErrors)
		require.True(t, ok)
		assert.Contains(t, verr.Fields, "customer_id")
		assert.NotContains(t, verr.Fields, "amount")
	})

	t.Run("rejects zero and negative amounts", func(t *testing.T) {
		service, _, customers, _ := newTestInvoiceService(t)

		customerID := uuid.New()
		customers.On("Exists", mock.Anything, customerID).Return(true, nil)

		for _, amount := range []string{"0", "0.00", "-5.00"} {
			_, err := service.Create(context.Background(), CreateInvoiceRequest{
				CustomerID: customerID.String(),
				Amount:     amount,
				Status:     "pending",
			})

			require.Error(t, err, amount)
			verr, ok := err.(*shared.ValidationErrors)
			require.True(t, ok)
			assert.Contains(t, verr.Fields, "amount")
		}
	})

	t.Run("invalidates cached listings", func(t *testing.T) {
		service, invoiceRepo, customers, queryCache := newTestInvoiceService(t)
		ctx := context.Background()

		require.NoError(t, queryCache.Set(ctx, cache.InvoicesPageKey("", 1), []byte(`[]`), time.Minute))
		require.NoError(t, queryCache.Set(ctx, cache.DashboardCardsKey, []byte(`{}`), time.Minute))

		customerID := uuid.New()
		customers.On("Exists", mock.Anything, customerID).Return(true, nil)
		invoiceRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		invoiceRepo.On("FindByID", mock.Anything, mock.Anything).Return(&billing.InvoiceRow{}, nil)

		_, err := service.Create(ctx, CreateInvoiceRequest{
			CustomerID: customerID.String(),
			Amount:     "10.00",
			Status:     "pending",
		})
		require.NoError(t, err)

		_, ok, _ := queryCache.Get(ctx, cache.InvoicesPageKey("", 1))
		assert.False(t, ok)
		_, ok, _ = queryCache.Get(ctx, cache.DashboardCardsKey)
		assert.False(t, ok)
	})
}

func TestInvoiceService_Update(t *testing.T) {
	t.Run("preserves the issue date", func(t *testing.T) {
		service, invoiceRepo, customers, _ := newTestInvoiceService(t)

		invoiceID := uuid.New()
		customerID := uuid.New()
		issued := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

		customers.On("Exists", mock.Anything, customerID).Return(true, nil)
		existing := sampleRow(invoiceID, customerID)
		existing.Date = issued
		invoiceRepo.On("FindByID", mock.Anything, invoiceID).Return(&existing, nil)
		invoiceRepo.On("Update", mock.Anything, mock.MatchedBy(func(inv *billing.Invoice) bool {
			return inv.ID == invoiceID && inv.Date.Equal(issued) && inv.Amount == 12550
		})).Return(nil)

		_, err := service.Update(context.Background(), invoiceID, UpdateInvoiceRequest{
			CustomerID: customerID.String(),
			Amount:     "125.50",
			Status:     "paid",
		})

		require.NoError(t, err)
		invoiceRepo.AssertExpectations(t)
	})

	t.Run("reports not found for missing invoice", func(t *testing.T) {
		service, invoiceRepo, customers, _ := newTestInvoiceService(t)

		invoiceID := uuid.New()
		customerID := uuid.New()
		customers.On("Exists", mock.Anything, customerID).Return(true, nil)
		invoiceRepo.On("FindByID", mock.Anything, invoiceID).Return(nil, shared.ErrNotFound)

		_, err := service.Update(context.Background(), invoiceID, UpdateInvoiceRequest{
			CustomerID: customerID.String(),
			Amount:     "10.00",
			Status:     "paid",
		})

		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestInvoiceService_Delete(t *testing.T) {
	t.Run("deletes and invalidates the single-invoice entry", func(t *testing.T) {
		service, invoiceRepo, _, queryCache := newTestInvoiceService(t)
		ctx := context.Background()

		invoiceID := uuid.New()
		require.NoError(t, queryCache.Set(ctx, cache.InvoiceKey(invoiceID), []byte(`{}`), time.Minute))

		invoiceRepo.On("Delete", mock.Anything, invoiceID).Return(nil)

		require.NoError(t, service.Delete(ctx, invoiceID))

		_, ok, _ := queryCache.Get(ctx, cache.InvoiceKey(invoiceID))
		assert.False(t, ok)
	})

	t.Run("reports not found for missing invoice", func(t *testing.T) {
		service, invoiceRepo, _, _ := newTestInvoiceService(t)

		invoiceID := uuid.New()
		invoiceRepo.On("Delete", mock.Anything, invoiceID).Return(shared.ErrNotFound)

		assert.Equal(t, shared.ErrNotFound, service.Delete(context.Background(), invoiceID))
	})
}

func TestInvoiceService_Latest(t *testing.T) {
	t.Run("defaults the limit", func(t *testing.T) {
		service, invoiceRepo, _, _ := newTestInvoiceService(t)

		invoiceRepo.On("Latest", mock.Anything, DefaultLatestLimit).
			Return([]billing.InvoiceRow{sampleRow(uuid.New(), uuid.New())}, nil)

		responses, err := service.Latest(context.Background(), 0)

		require.NoError(t, err)
		assert.Len(t, responses, 1)
		invoiceRepo.AssertExpectations(t)
	})
}
