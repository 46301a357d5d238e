package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nutratech/prf-api/internal/dto"
	"github.com/nutratech/prf-api/internal/models"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
)

type stockCheckStore interface {
	AlreadyChecked(ctx context.Context, prfID, stockCode string) (bool, error)
	Insert(ctx context.Context, log *models.StockCheckLog) error
	ListByPrf(ctx context.Context, prfID string) ([]models.StockCheckLog, error)
}

type stockCheckPrfStore interface {
	GetByID(ctx context.Context, id string) (*models.PurchaseRequestForm, error)
	RequestorContact(ctx context.Context, prfID string) (*models.Recipient, error)
}

// StockCheckService records warehouse availability decisions against PRF
// stock lines. Decisions are append-only and first-write-wins: once a line
// has a verdict, later attempts are rejected.
type StockCheckService struct {
	repo     stockCheckStore
	prfs     stockCheckPrfStore
	notifier notifier
	roster   []string
	company  string
	appURL   string
	logger   *zap.Logger
}

// NewStockCheckService constructs the service. An empty roster disables the
// checker allow-list.
func NewStockCheckService(repo stockCheckStore, prfs stockCheckPrfStore, notifier notifier, roster []string, company, appURL string, logger *zap.Logger) *StockCheckService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockCheckService{repo: repo, prfs: prfs, notifier: notifier, roster: roster, company: company, appURL: appURL, logger: logger}
}

// Roster returns the configured checker allow-list.
func (s *StockCheckService) Roster() []string {
	return s.roster
}

// IsChecker reports whether the named person may record decisions. An empty
// roster admits everyone.
func (s *StockCheckService) IsChecker(name string) bool {
	if len(s.roster) == 0 {
		return true
	}
	for _, allowed := range s.roster {
		if strings.EqualFold(allowed, name) {
			return true
		}
	}
	return false
}

// Verify records that the stock is available.
func (s *StockCheckService) Verify(ctx context.Context, actor string, req dto.StockCheckRequest) (*models.StockCheckLog, error) {
	return s.record(ctx, actor, req, true)
}

// Reject records that the stock is not available.
func (s *StockCheckService) Reject(ctx context.Context, actor string, req dto.StockCheckRequest) (*models.StockCheckLog, error) {
	return s.record(ctx, actor, req, false)
}

func (s *StockCheckService) record(ctx context.Context, actor string, req dto.StockCheckRequest, available bool) (*models.StockCheckLog, error) {
	if !s.IsChecker(actor) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not authorized to record stock checks")
	}

	prf, err := s.prfs.GetByID(ctx, req.PrfID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "purchase request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchase request")
	}

	checked, err := s.repo.AlreadyChecked(ctx, req.PrfID, req.StockCode)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to probe stock check")
	}
	if checked {
		return nil, appErrors.ErrAlreadyChecked
	}

	log := &models.StockCheckLog{
		PrfID:           req.PrfID,
		StockCode:       req.StockCode,
		StockName:       req.StockName,
		NotedBy:         req.NotedBy,
		VerifiedBy:      actor,
		IsApprove:       available,
		IsReject:        !available,
		RejectionReason: req.RejectionReason,
		CheckedAt:       time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, log); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A concurrent verdict slipped in between the probe and the insert.
			return nil, appErrors.ErrAlreadyChecked
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store stock check")
	}

	event := models.EventStockAvailable
	if !available {
		event = models.EventStockNotAvailable
	}
	contact, err := s.prfs.RequestorContact(ctx, req.PrfID)
	if err != nil {
		s.logger.Warn("failed to resolve requestor contact", zap.String("prfId", req.PrfID), zap.Error(err))
		contact = &models.Recipient{}
	}
	s.notifier.Dispatch([]models.Notification{{
		Event: event,
		To:    *contact,
		Data: models.NotificationData{
			PrfID:           prf.ID,
			PrfNo:           prf.PrfNo,
			PrfDate:         prf.PrfDate,
			PreparedBy:      prf.PreparedBy,
			Company:         s.company,
			AppURL:          s.appURL,
			StockName:       req.StockName,
			RejectionReason: strOrEmpty(req.RejectionReason),
		},
	}})

	return log, nil
}

// History returns every decision recorded against one PRF.
func (s *StockCheckService) History(ctx context.Context, prfID string) ([]models.StockCheckLog, error) {
	logs, err := s.repo.ListByPrf(ctx, prfID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list stock checks")
	}
	return logs, nil
}
