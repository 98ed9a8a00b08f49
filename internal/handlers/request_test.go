package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"errand-service/internal/mocks"
	"errand-service/internal/models"
	"errand-service/internal/repositories"
)

func setupRequestRouter(handler *RequestHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/orders/:order_id/requests", handler.CreateRequest)
	r.GET("/requests", handler.ListRequests)
	r.PATCH("/requests/:request_id/status", handler.UpdateStatus)
	r.DELETE("/requests/:request_id", handler.DeleteRequest)
	return r
}

func TestCreateRequestSuccess(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	requestRepo := new(mocks.RequestRepositoryMock)
	handler := NewRequestHandler(orderRepo, requestRepo, nil)
	router := setupRequestRouter(handler)

	orderRepo.On("GetOrder", mock.Anything, 5).Return(models.Order{ID: 5, OwnerID: 2}, nil).Once()
	requestRepo.On("CreateRequest", mock.Anything, 5, 1).
		Return(models.OrderRequest{ID: 9, OrderID: 5, CounterpartID: 1, Status: models.StatusRequesting}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/orders/5/requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	orderRepo.AssertExpectations(t)
	requestRepo.AssertExpectations(t)
}

func TestCreateRequestOrderNotFound(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	handler := NewRequestHandler(orderRepo, new(mocks.RequestRepositoryMock), nil)
	router := setupRequestRouter(handler)

	orderRepo.On("GetOrder", mock.Anything, 404).Return(models.Order{}, repositories.ErrOrderNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/orders/404/requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	orderRepo.AssertExpectations(t)
}

func TestCreateRequestOwnOrder(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	handler := NewRequestHandler(orderRepo, new(mocks.RequestRepositoryMock), nil)
	router := setupRequestRouter(handler)

	orderRepo.On("GetOrder", mock.Anything, 5).Return(models.Order{ID: 5, OwnerID: 1}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/orders/5/requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	orderRepo.AssertExpectations(t)
}

func TestCreateRequestDuplicate(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	requestRepo := new(mocks.RequestRepositoryMock)
	handler := NewRequestHandler(orderRepo, requestRepo, nil)
	router := setupRequestRouter(handler)

	orderRepo.On("GetOrder", mock.Anything, 5).Return(models.Order{ID: 5, OwnerID: 2}, nil).Once()
	requestRepo.On("CreateRequest", mock.Anything, 5, 1).
		Return(models.OrderRequest{}, repositories.ErrDuplicateRequest).Once()

	req := httptest.NewRequest(http.MethodPost, "/orders/5/requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	requestRepo.AssertExpectations(t)
}

func TestUpdateStatusSuccess(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	requestRepo := new(mocks.RequestRepositoryMock)
	handler := NewRequestHandler(orderRepo, requestRepo, nil)
	router := setupRequestRouter(handler)

	requestRepo.On("GetRequest", mock.Anything, 9).
		Return(models.OrderRequest{ID: 9, OrderID: 5, CounterpartID: 1, Status: models.StatusRequesting}, nil).Once()
	requestRepo.On("UpdateStatus", mock.Anything, 9, models.StatusMatched).
		Return(models.OrderRequest{ID: 9, OrderID: 5, CounterpartID: 1, Status: models.StatusMatched}, nil).Once()

	body := bytes.NewBufferString(`{"request_status":"MATCHED"}`)
	req := httptest.NewRequest(http.MethodPatch, "/requests/9/status", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	requestRepo.AssertExpectations(t)
}

func TestUpdateStatusUnknownLiteral(t *testing.T) {
	handler := NewRequestHandler(new(mocks.OrderRepositoryMock), new(mocks.RequestRepositoryMock), nil)
	router := setupRequestRouter(handler)

	body := bytes.NewBufferString(`{"request_status":"TELEPORTED"}`)
	req := httptest.NewRequest(http.MethodPatch, "/requests/9/status", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	requestRepo := new(mocks.RequestRepositoryMock)
	handler := NewRequestHandler(new(mocks.OrderRepositoryMock), requestRepo, nil)
	router := setupRequestRouter(handler)

	requestRepo.On("GetRequest", mock.Anything, 9).
		Return(models.OrderRequest{ID: 9, OrderID: 5, CounterpartID: 1, Status: models.StatusRequesting}, nil).Once()
	requestRepo.On("UpdateStatus", mock.Anything, 9, models.StatusDelivered).
		Return(models.OrderRequest{}, repositories.ErrInvalidTransition).Once()

	body := bytes.NewBufferString(`{"request_status":"DELIVERED"}`)
	req := httptest.NewRequest(http.MethodPatch, "/requests/9/status", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	requestRepo.AssertExpectations(t)
}

func TestUpdateStatusNotAParty(t *testing.T) {
	orderRepo := new(mocks.OrderRepositoryMock)
	requestRepo := new(mocks.RequestRepositoryMock)
	handler := NewRequestHandler(orderRepo, requestRepo, nil)
	router := setupRequestRouter(handler)

	// Caller 1 is neither counterpart (3) nor order owner (2).
	requestRepo.On("GetRequest", mock.Anything, 9).
		Return(models.OrderRequest{ID: 9, OrderID: 5, CounterpartID: 3, Status: models.StatusRequesting}, nil).Once()
	orderRepo.On("GetOrder", mock.Anything, 5).Return(models.Order{ID: 5, OwnerID: 2}, nil).Once()

	body := bytes.NewBufferString(`{"request_status":"MATCHED"}`)
	req := httptest.NewRequest(http.MethodPatch, "/requests/9/status", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	orderRepo.AssertExpectations(t)
	requestRepo.AssertExpectations(t)
}

func TestDeleteRequestReportsRemoval(t *testing.T) {
	requestRepo := new(mocks.RequestRepositoryMock)
	handler := NewRequestHandler(new(mocks.OrderRepositoryMock), requestRepo, nil)
	router := setupRequestRouter(handler)

	requestRepo.On("GetRequest", mock.Anything, 9).
		Return(models.OrderRequest{ID: 9, OrderID: 5, CounterpartID: 1, Status: models.StatusReviewed}, nil).Once()
	requestRepo.On("DeleteRequest", mock.Anything, 9).Return(true, nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/requests/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"deleted":true`)
	requestRepo.AssertExpectations(t)
}

func TestDeleteRequestMissing(t *testing.T) {
	requestRepo := new(mocks.RequestRepositoryMock)
	handler := NewRequestHandler(new(mocks.OrderRepositoryMock), requestRepo, nil)
	router := setupRequestRouter(handler)

	requestRepo.On("GetRequest", mock.Anything, 9).
		Return(models.OrderRequest{}, repositories.ErrRequestNotFound).Once()

	req := httptest.NewRequest(http.MethodDelete, "/requests/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	requestRepo.AssertExpectations(t)
}

func TestListRequests(t *testing.T) {
	requestRepo := new(mocks.RequestRepositoryMock)
	handler := NewRequestHandler(new(mocks.OrderRepositoryMock), requestRepo, nil)
	router := setupRequestRouter(handler)

	requestRepo.On("ListRequestsForUser", mock.Anything, 1, 0, 20).
		Return([]models.OrderRequest{{ID: 9}}, 1, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	requestRepo.AssertExpectations(t)
}
