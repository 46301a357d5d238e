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
	"github.com/nutratech/prf-api/internal/middleware"
	"github.com/nutratech/prf-api/internal/models"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
)

type stockCheckServiceMock struct {
	roster    []string
	log       *models.StockCheckLog
	recordErr error
	lastActor string
}

func (m *stockCheckServiceMock) Roster() []string { return m.roster }

func (m *stockCheckServiceMock) Verify(ctx context.Context, actor string, req dto.StockCheckRequest) (*models.StockCheckLog, error) {
	m.lastActor = actor
	if m.recordErr != nil {
		return nil, m.recordErr
	}
	return m.log, nil
}

func (m *stockCheckServiceMock) Reject(ctx context.Context, actor string, req dto.StockCheckRequest) (*models.StockCheckLog, error) {
	m.lastActor = actor
	if m.recordErr != nil {
		return nil, m.recordErr
	}
	return m.log, nil
}

func (m *stockCheckServiceMock) History(ctx context.Context, prfID string) ([]models.StockCheckLog, error) {
	if m.log == nil {
		return nil, nil
	}
	return []models.StockCheckLog{*m.log}, nil
}

func stockCheckTestContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: 9, FullName: "Carlo Dizon"})
	return c, w
}

func stockCheckBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(dto.StockCheckRequest{
		PrfID:     "prf-1",
		StockCode: "NaCl-001",
		StockName: "Sodium Chloride",
	})
	require.NoError(t, err)
	return body
}

func TestStockCheckHandlerVerify(t *testing.T) {
	mock := &stockCheckServiceMock{log: &models.StockCheckLog{ID: 1, PrfID: "prf-1", IsApprove: true}}
	handler := NewStockCheckHandler(mock)

	c, w := stockCheckTestContext(t, http.MethodPost, "/stock-checks/verify", stockCheckBody(t))
	handler.Verify(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Carlo Dizon", mock.lastActor)
}

func TestStockCheckHandlerRejectAlreadyChecked(t *testing.T) {
	mock := &stockCheckServiceMock{recordErr: appErrors.ErrAlreadyChecked}
	handler := NewStockCheckHandler(mock)

	c, w := stockCheckTestContext(t, http.MethodPost, "/stock-checks/reject", stockCheckBody(t))
	handler.Reject(c)
	require.Equal(t, appErrors.ErrAlreadyChecked.Status, w.Code)
}

func TestStockCheckHandlerVerifyInvalidPayload(t *testing.T) {
	handler := NewStockCheckHandler(&stockCheckServiceMock{})

	body, _ := json.Marshal(dto.StockCheckRequest{PrfID: "prf-1"})
	c, w := stockCheckTestContext(t, http.MethodPost, "/stock-checks/verify", body)
	handler.Verify(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStockCheckHandlerRoster(t *testing.T) {
	mock := &stockCheckServiceMock{roster: []string{"Carlo Dizon", "Liza Uy"}}
	handler := NewStockCheckHandler(mock)

	c, w := stockCheckTestContext(t, http.MethodGet, "/stock-checkers", nil)
	handler.Roster(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Liza Uy")
}

func TestStockCheckHandlerHistory(t *testing.T) {
	mock := &stockCheckServiceMock{log: &models.StockCheckLog{ID: 1, PrfID: "prf-1", StockCode: "NaCl-001"}}
	handler := NewStockCheckHandler(mock)

	c, w := stockCheckTestContext(t, http.MethodGet, "/prfs/prf-1/stock-checks", nil)
	c.Params = gin.Params{{Key: "id", Value: "prf-1"}}
	handler.History(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "NaCl-001")
}
