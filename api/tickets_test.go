package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventix/eventix/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTicketUseCase is a mock implementation of tickets.TicketUseCase
type MockTicketUseCase struct {
	mock.Mock
}

func (m *MockTicketUseCase) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) ListByOrder(ctx context.Context, orderID string) ([]domain.Ticket, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketUseCase) Redeem(ctx context.Context, code string) (*domain.Ticket, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func TestTicketHandler_get(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	code := "A1B2C3D4A1B2C3D4A1B2C3D4A1B2C3D4"
	c.Params = gin.Params{{Key: "code", Value: code}}
	c.Request = httptest.NewRequest("GET", "/tickets/"+code, nil)

	ticket := &domain.Ticket{
		ID:       "tkt-1",
		TierID:   1,
		OrderID:  "ord-1",
		FullName: "Test Buyer",
		Code:     code,
		Status:   domain.TicketStatusIssued,
		IssuedAt: time.Now(),
	}
	mockService.On("GetByCode", c.Request.Context(), code).Return(ticket, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response ticketResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, code, response.Code)
	assert.Equal(t, string(domain.TicketStatusIssued), response.Status)
	assert.Empty(t, response.UsedAt)

	mockService.AssertExpectations(t)
}

func TestTicketHandler_get_notFound(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "code", Value: "NOPE"}}
	c.Request = httptest.NewRequest("GET", "/tickets/NOPE", nil)

	mockService.On("GetByCode", c.Request.Context(), "NOPE").Return(nil, domain.ErrTicketNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestTicketHandler_redeem(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	code := "A1B2C3D4A1B2C3D4A1B2C3D4A1B2C3D4"
	c.Params = gin.Params{{Key: "code", Value: code}}
	c.Request = httptest.NewRequest("POST", "/tickets/"+code+"/redeem", nil)

	usedAt := time.Now()
	ticket := &domain.Ticket{
		ID:       "tkt-1",
		TierID:   1,
		OrderID:  "ord-1",
		Code:     code,
		Status:   domain.TicketStatusUsed,
		IssuedAt: usedAt.Add(-time.Hour),
		UsedAt:   &usedAt,
	}
	mockService.On("Redeem", c.Request.Context(), code).Return(ticket, nil)

	handler.redeem(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response ticketResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.TicketStatusUsed), response.Status)
	assert.NotEmpty(t, response.UsedAt)

	mockService.AssertExpectations(t)
}

func TestTicketHandler_redeem_alreadyUsed(t *testing.T) {
	mockService := &MockTicketUseCase{}
	handler := NewTicketHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	code := "A1B2C3D4A1B2C3D4A1B2C3D4A1B2C3D4"
	c.Params = gin.Params{{Key: "code", Value: code}}
	c.Request = httptest.NewRequest("POST", "/tickets/"+code+"/redeem", nil)

	mockService.On("Redeem", c.Request.Context(), code).Return(nil, domain.ErrTicketAlreadyUsed)

	handler.redeem(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}
