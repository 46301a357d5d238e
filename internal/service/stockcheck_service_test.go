package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nutratech/prf-api/internal/dto"
	"github.com/nutratech/prf-api/internal/models"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
)

type stockCheckStoreStub struct {
	logs      []models.StockCheckLog
	insertErr error
}

func (s *stockCheckStoreStub) AlreadyChecked(ctx context.Context, prfID, stockCode string) (bool, error) {
	for _, log := range s.logs {
		if log.PrfID == prfID && log.StockCode == stockCode {
			return true, nil
		}
	}
	return false, nil
}

func (s *stockCheckStoreStub) Insert(ctx context.Context, log *models.StockCheckLog) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	log.ID = int64(len(s.logs) + 1)
	s.logs = append(s.logs, *log)
	return nil
}

func (s *stockCheckStoreStub) ListByPrf(ctx context.Context, prfID string) ([]models.StockCheckLog, error) {
	var out []models.StockCheckLog
	for _, log := range s.logs {
		if log.PrfID == prfID {
			out = append(out, log)
		}
	}
	return out, nil
}

type stockCheckPrfStoreStub struct {
	prf *models.PurchaseRequestForm
}

func (s *stockCheckPrfStoreStub) GetByID(ctx context.Context, id string) (*models.PurchaseRequestForm, error) {
	if s.prf == nil || s.prf.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *s.prf
	return &copy, nil
}

func (s *stockCheckPrfStoreStub) RequestorContact(ctx context.Context, prfID string) (*models.Recipient, error) {
	return &models.Recipient{Email: "maria@nutratech.test", Name: "Maria Santos"}, nil
}

func newStockCheckService(store *stockCheckStoreStub, prfs *stockCheckPrfStoreStub, notifier *notifierStub, roster []string) *StockCheckService {
	return NewStockCheckService(store, prfs, notifier, roster, "NutraTech Biopharma, Inc", "http://localhost:3000", nil)
}

func stockCheckRequest() dto.StockCheckRequest {
	return dto.StockCheckRequest{
		PrfID:     "prf-1",
		StockCode: "NaCl-001",
		StockName: "Sodium Chloride",
	}
}

func TestVerifyRecordsAndNotifies(t *testing.T) {
	store := &stockCheckStoreStub{}
	notifier := &notifierStub{}
	svc := newStockCheckService(store, &stockCheckPrfStoreStub{prf: pendingPrf()}, notifier, nil)

	log, err := svc.Verify(context.Background(), "Carlo Dizon", stockCheckRequest())
	require.NoError(t, err)
	require.True(t, log.IsApprove)
	require.False(t, log.IsReject)
	require.Equal(t, "Carlo Dizon", log.VerifiedBy)

	require.Len(t, notifier.batches, 1)
	notification := notifier.batches[0][0]
	require.Equal(t, models.EventStockAvailable, notification.Event)
	require.Equal(t, "maria@nutratech.test", notification.To.Email)
	require.Equal(t, "Sodium Chloride", notification.Data.StockName)
}

func TestRejectRecordsReason(t *testing.T) {
	store := &stockCheckStoreStub{}
	notifier := &notifierStub{}
	svc := newStockCheckService(store, &stockCheckPrfStoreStub{prf: pendingPrf()}, notifier, nil)

	req := stockCheckRequest()
	req.RejectionReason = strPtr("out of stock until April")
	log, err := svc.Reject(context.Background(), "Carlo Dizon", req)
	require.NoError(t, err)
	require.True(t, log.IsReject)
	require.False(t, log.IsApprove)

	require.Len(t, notifier.batches, 1)
	notification := notifier.batches[0][0]
	require.Equal(t, models.EventStockNotAvailable, notification.Event)
	require.Equal(t, "out of stock until April", notification.Data.RejectionReason)
}

func TestStockCheckFirstWriteWins(t *testing.T) {
	store := &stockCheckStoreStub{}
	svc := newStockCheckService(store, &stockCheckPrfStoreStub{prf: pendingPrf()}, &notifierStub{}, nil)

	_, err := svc.Verify(context.Background(), "Carlo Dizon", stockCheckRequest())
	require.NoError(t, err)

	// The opposite verdict on the same line is refused, not overwritten.
	_, err = svc.Reject(context.Background(), "Carlo Dizon", stockCheckRequest())
	requireAppError(t, err, appErrors.ErrAlreadyChecked.Code)
	require.Len(t, store.logs, 1)
}

func TestStockCheckConcurrentVerdictLoses(t *testing.T) {
	// The probe sees no verdict, but another checker's insert lands first
	// and the skipped insert surfaces as sql.ErrNoRows.
	store := &stockCheckStoreStub{insertErr: sql.ErrNoRows}
	notifier := &notifierStub{}
	svc := newStockCheckService(store, &stockCheckPrfStoreStub{prf: pendingPrf()}, notifier, nil)

	_, err := svc.Verify(context.Background(), "Carlo Dizon", stockCheckRequest())
	requireAppError(t, err, appErrors.ErrAlreadyChecked.Code)
	require.Empty(t, notifier.batches)
}

func TestStockCheckRosterGuard(t *testing.T) {
	store := &stockCheckStoreStub{}
	roster := []string{"Carlo Dizon", "Liza Uy"}
	svc := newStockCheckService(store, &stockCheckPrfStoreStub{prf: pendingPrf()}, &notifierStub{}, roster)

	_, err := svc.Verify(context.Background(), "Maria Santos", stockCheckRequest())
	requireAppError(t, err, appErrors.ErrForbidden.Code)

	// Roster matching ignores case.
	_, err = svc.Verify(context.Background(), "carlo dizon", stockCheckRequest())
	require.NoError(t, err)

	require.True(t, svc.IsChecker("LIZA UY"))
	require.False(t, svc.IsChecker("Maria Santos"))
}

func TestStockCheckUnknownPrf(t *testing.T) {
	svc := newStockCheckService(&stockCheckStoreStub{}, &stockCheckPrfStoreStub{}, &notifierStub{}, nil)

	_, err := svc.Verify(context.Background(), "Carlo Dizon", stockCheckRequest())
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestStockCheckHistory(t *testing.T) {
	store := &stockCheckStoreStub{}
	svc := newStockCheckService(store, &stockCheckPrfStoreStub{prf: pendingPrf()}, &notifierStub{}, nil)

	_, err := svc.Verify(context.Background(), "Carlo Dizon", stockCheckRequest())
	require.NoError(t, err)

	other := stockCheckRequest()
	other.StockCode = "KCl-002"
	other.StockName = "Potassium Chloride"
	_, err = svc.Reject(context.Background(), "Liza Uy", other)
	require.NoError(t, err)

	logs, err := svc.History(context.Background(), "prf-1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
}
