package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nutratech/prf-api/internal/dto"
	"github.com/nutratech/prf-api/internal/models"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
)

type cancellationServiceMock struct {
	prf       *models.PurchaseRequestForm
	items     []models.PrfLineItem
	cancelErr error
	itemsErr  error
}

func (m *cancellationServiceMock) Cancel(ctx context.Context, prfID string) (*models.PurchaseRequestForm, error) {
	if m.cancelErr != nil {
		return nil, m.cancelErr
	}
	return m.prf, nil
}

func (m *cancellationServiceMock) Uncancel(ctx context.Context, prfID string) (*models.PurchaseRequestForm, error) {
	if m.cancelErr != nil {
		return nil, m.cancelErr
	}
	return m.prf, nil
}

func (m *cancellationServiceMock) UpdateLineItems(ctx context.Context, prfID string, items []dto.SubmitLineItem) ([]models.PrfLineItem, error) {
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	return m.items, nil
}

func cancellationTestContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "prf-1"}}
	return c, w
}

func TestCancellationHandlerCancel(t *testing.T) {
	mock := &cancellationServiceMock{prf: &models.PurchaseRequestForm{ID: "prf-1", IsCancel: true, CancelCount: 1}}
	handler := NewCancellationHandler(mock)
	c, w := cancellationTestContext(t, http.MethodPost, "/prfs/prf-1/cancel", nil)

	handler.Cancel(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCancellationHandlerCancelPolicyViolation(t *testing.T) {
	mock := &cancellationServiceMock{cancelErr: appErrors.ErrPolicyViolation}
	handler := NewCancellationHandler(mock)
	c, w := cancellationTestContext(t, http.MethodPost, "/prfs/prf-1/cancel", nil)

	handler.Cancel(c)
	require.Equal(t, appErrors.ErrPolicyViolation.Status, w.Code)
}

func TestCancellationHandlerUncancelNotCancelled(t *testing.T) {
	mock := &cancellationServiceMock{cancelErr: appErrors.ErrNotCancelled}
	handler := NewCancellationHandler(mock)
	c, w := cancellationTestContext(t, http.MethodPost, "/prfs/prf-1/uncancel", nil)

	handler.Uncancel(c)
	require.Equal(t, appErrors.ErrNotCancelled.Status, w.Code)
}

func TestCancellationHandlerUpdateItems(t *testing.T) {
	mock := &cancellationServiceMock{items: []models.PrfLineItem{{ID: 1, StockCode: "NaCl-001"}}}
	handler := NewCancellationHandler(mock)

	body, _ := json.Marshal(dto.UpdateItemsRequest{Items: []dto.SubmitLineItem{
		{StockCode: "NaCl-001", StockName: "Sodium Chloride", Quantity: 5, Unit: "kg"},
	}})
	c, w := cancellationTestContext(t, http.MethodPut, "/prfs/prf-1/items", body)

	handler.UpdateItems(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCancellationHandlerUpdateItemsEmptyPayload(t *testing.T) {
	handler := NewCancellationHandler(&cancellationServiceMock{})

	// min=1 on items: an empty list fails validation before the service runs.
	body, _ := json.Marshal(dto.UpdateItemsRequest{Items: []dto.SubmitLineItem{}})
	c, w := cancellationTestContext(t, http.MethodPut, "/prfs/prf-1/items", body)

	handler.UpdateItems(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
