package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nutratech/prf-api/internal/dto"
	"github.com/nutratech/prf-api/internal/models"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
)

type prfCancellationStore interface {
	GetByID(ctx context.Context, id string) (*models.PurchaseRequestForm, error)
	Cancel(ctx context.Context, prfID string, limit int) error
	Uncancel(ctx context.Context, prfID string) error
	UpsertLineItem(ctx context.Context, item *models.PrfLineItem) error
	GetLineItems(ctx context.Context, prfID string) ([]models.PrfLineItem, error)
}

// CancellationService enforces the same-day rule for cancelling, restoring
// and editing a PRF. All date comparisons happen in one configured zone so a
// request filed near midnight cannot flip outcome depending on server locale.
type CancellationService struct {
	repo        prfCancellationStore
	loc         *time.Location
	cancelLimit int
	logger      *zap.Logger
	now         func() time.Time
}

// NewCancellationService constructs the service. An unknown timezone name
// falls back to UTC rather than failing startup.
func NewCancellationService(repo prfCancellationStore, timezone string, cancelLimit int, logger *zap.Logger) *CancellationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", timezone), zap.Error(err))
		loc = time.UTC
	}
	if cancelLimit <= 0 {
		cancelLimit = 3
	}
	return &CancellationService{repo: repo, loc: loc, cancelLimit: cancelLimit, logger: logger, now: time.Now}
}

// sameDay compares calendar dates in the canonical zone, not instants.
func (s *CancellationService) sameDay(prfDate time.Time) bool {
	now := s.now().In(s.loc)
	prf := prfDate.In(s.loc)
	return prf.Year() == now.Year() && prf.Month() == now.Month() && prf.Day() == now.Day()
}

// Cancel soft-cancels a PRF. Only allowed on the form's submission day, only
// while under the cancellation budget, and only once per cancellation: the
// flag flip is a compare-and-swap so two racing cancels produce one winner.
func (s *CancellationService) Cancel(ctx context.Context, prfID string) (*models.PurchaseRequestForm, error) {
	prf, err := s.load(ctx, prfID)
	if err != nil {
		return nil, err
	}
	if prf.IsCancel {
		return nil, appErrors.ErrAlreadyCancelled
	}
	if !s.sameDay(prf.PrfDate) {
		return nil, appErrors.Clone(appErrors.ErrPolicyViolation, "purchase request can only be cancelled on its submission day")
	}
	if prf.CancelCount >= s.cancelLimit {
		return nil, appErrors.Clone(appErrors.ErrPolicyViolation, "cancellation limit reached for this purchase request")
	}

	if err := s.repo.Cancel(ctx, prfID, s.cancelLimit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.disambiguateCancel(ctx, prfID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel purchase request")
	}
	return s.load(ctx, prfID)
}

// disambiguateCancel re-reads a row after a zero-row cancel to report the
// precise conflict: someone else cancelled first, the budget ran out, or the
// row changed underneath us.
func (s *CancellationService) disambiguateCancel(ctx context.Context, prfID string) error {
	prf, err := s.load(ctx, prfID)
	if err != nil {
		return err
	}
	if prf.IsCancel {
		return appErrors.ErrAlreadyCancelled
	}
	if prf.CancelCount >= s.cancelLimit {
		return appErrors.Clone(appErrors.ErrPolicyViolation, "cancellation limit reached for this purchase request")
	}
	return appErrors.ErrConcurrentModification
}

// Uncancel restores a cancelled PRF, same-day only. The spent cancellation
// stays spent: restoring does not refund the budget.
func (s *CancellationService) Uncancel(ctx context.Context, prfID string) (*models.PurchaseRequestForm, error) {
	prf, err := s.load(ctx, prfID)
	if err != nil {
		return nil, err
	}
	if !prf.IsCancel {
		return nil, appErrors.ErrNotCancelled
	}
	if !s.sameDay(prf.PrfDate) {
		return nil, appErrors.Clone(appErrors.ErrPolicyViolation, "purchase request can only be restored on its submission day")
	}

	if err := s.repo.Uncancel(ctx, prfID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotCancelled
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restore purchase request")
	}
	return s.load(ctx, prfID)
}

// UpdateLineItems replaces or extends the stock lines of a same-day PRF.
// Lines are matched on stock code: existing codes are updated in place, new
// codes are appended.
func (s *CancellationService) UpdateLineItems(ctx context.Context, prfID string, items []dto.SubmitLineItem) ([]models.PrfLineItem, error) {
	prf, err := s.load(ctx, prfID)
	if err != nil {
		return nil, err
	}
	if prf.IsReject {
		return nil, appErrors.Clone(appErrors.ErrInvalidAction, "purchase request has been rejected")
	}
	if prf.IsCancel {
		return nil, appErrors.ErrAlreadyCancelled
	}
	if !s.sameDay(prf.PrfDate) {
		return nil, appErrors.Clone(appErrors.ErrPolicyViolation, "purchase request items can only be edited on its submission day")
	}

	for _, item := range items {
		line := &models.PrfLineItem{
			PrfID:       prfID,
			StockCode:   item.StockCode,
			StockName:   item.StockName,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			DateNeeded:  item.DateNeeded,
			Purpose:     item.Purpose,
			Description: item.Description,
			IsPending:   true,
		}
		if err := s.repo.UpsertLineItem(ctx, line); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update purchase request items")
		}
	}

	updated, err := s.repo.GetLineItems(ctx, prfID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload purchase request items")
	}
	return updated, nil
}

func (s *CancellationService) load(ctx context.Context, prfID string) (*models.PurchaseRequestForm, error) {
	prf, err := s.repo.GetByID(ctx, prfID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "purchase request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchase request")
	}
	return prf, nil
}
