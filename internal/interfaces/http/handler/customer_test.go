package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	partnerapp "github.com/obaptiste/dashboard-api/internal/application/partner"
	"github.com/obaptiste/dashboard-api/internal/domain/partner"
	"github.com/obaptiste/dashboard-api/internal/domain/shared"
	"github.com/obaptiste/dashboard-api/internal/infrastructure/cache"
)

// MockCustomerRepository implements partner.CustomerRepository for testing
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx context.Context, filter shared.Filter) ([]partner.CustomerSummary, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.CustomerSummary), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, search string) (int64, error) {
	args := m.Called(ctx, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ListNames(ctx context.Context) ([]partner.CustomerName, error) {
	args := m.Called(ctx)
	return args.Get(0).([]partner.CustomerName), args.Error(1)
}

func (m *MockCustomerRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupCustomerHandler(customerRepo *MockCustomerRepository) *CustomerHandler {
	service := partnerapp.NewCustomerService(customerRepo, cache.NewInMemoryQueryCache(), zap.NewNop())
	return NewCustomerHandler(service)
}

func TestCustomerHandler_List_Success(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	handler := setupCustomerHandler(customerRepo)

	summaries := []partner.CustomerSummary{
		{
			ID:            uuid.New(),
			Name:          "Amy Burns",
			Email:         "amy@burns.com",
			TotalInvoices: 3,
			TotalPending:  12500,
			TotalPaid:     40000,
		},
	}
	customerRepo.On("Search", mock.Anything, shared.Filter{Page: 2, PageSize: shared.PageSize, Search: "burns"}).Return(summaries, nil)
	customerRepo.On("Count", mock.Anything, "burns").Return(int64(7), nil)

	router := setupTestRouter()
	router.GET("/customers", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/customers?query=burns&page=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(7), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	customerRepo.AssertExpectations(t)
}

func TestCustomerHandler_ListNames_Success(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	handler := setupCustomerHandler(customerRepo)

	names := []partner.CustomerName{
		{ID: uuid.New(), Name: "Amy Burns"},
		{ID: uuid.New(), Name: "Balazs Orban"},
	}
	customerRepo.On("ListNames", mock.Anything).Return(names, nil)

	router := setupTestRouter()
	router.GET("/customers/names", handler.ListNames)

	req := httptest.NewRequest(http.MethodGet, "/customers/names", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	customerRepo.AssertExpectations(t)
}

func TestCustomerHandler_GetByID_NotFound(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	handler := setupCustomerHandler(customerRepo)

	customerID := uuid.New()
	customerRepo.On("FindByID", mock.Anything, customerID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/customers/:id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/customers/"+customerID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerHandler_Create_Success(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	handler := setupCustomerHandler(customerRepo)

	customerRepo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

	router := setupTestRouter()
	router.POST("/customers", handler.Create)

	body, _ := json.Marshal(partnerapp.CreateCustomerRequest{
		Name:     "Amy Burns",
		Email:    "amy@burns.com",
		ImageURL: "/customers/amy-burns.png",
	})
	req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	customerRepo.AssertExpectations(t)
}

func TestCustomerHandler_Create_ValidationErrors(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	handler := setupCustomerHandler(customerRepo)

	router := setupTestRouter()
	router.POST("/customers", handler.Create)

	body, _ := json.Marshal(partnerapp.CreateCustomerRequest{
		Name:  "",
		Email: "not-an-email",
	})
	req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Missing Fields. Failed to Create Customer.", resp.Error.Message)
	assert.Equal(t, []string{"Please enter a name."}, resp.Error.Fields["name"])
	assert.Equal(t, []string{"Please enter a valid email address."}, resp.Error.Fields["email"])
	customerRepo.AssertNotCalled(t, "Save")
}

func TestCustomerHandler_Update_Success(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	handler := setupCustomerHandler(customerRepo)

	existing, err := partner.NewCustomer("Amy Burns", "amy@burns.com", "")
	assert.NoError(t, err)

	customerRepo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	customerRepo.On("Update", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)

	router := setupTestRouter()
	router.PUT("/customers/:id", handler.Update)

	body, _ := json.Marshal(partnerapp.UpdateCustomerRequest{
		Name:  "Amy B. Burns",
		Email: "amy@burns.com",
	})
	req := httptest.NewRequest(http.MethodPut, "/customers/"+existing.ID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	customerRepo.AssertExpectations(t)
}

func TestCustomerHandler_Delete_Success(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	handler := setupCustomerHandler(customerRepo)

	customerID := uuid.New()
	customerRepo.On("Delete", mock.Anything, customerID).Return(nil)

	router := setupTestRouter()
	router.DELETE("/customers/:id", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/customers/"+customerID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	customerRepo.AssertExpectations(t)
}

func TestCustomerHandler_Delete_InvalidID(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	handler := setupCustomerHandler(customerRepo)

	router := setupTestRouter()
	router.DELETE("/customers/:id", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/customers/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	customerRepo.AssertNotCalled(t, "Delete")
}
