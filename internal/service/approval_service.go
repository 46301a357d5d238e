package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nutratech/prf-api/internal/models"
	"github.com/nutratech/prf-api/internal/repository"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
)

type prfApprovalStore interface {
	GetByID(ctx context.Context, id string) (*models.PurchaseRequestForm, error)
	ApplyStage(ctx context.Context, params repository.StageUpdateParams) error
	SetRejected(ctx context.Context, prfID, reason string) error
	RequestorContact(ctx context.Context, prfID string) (*models.Recipient, error)
}

type chainResolver interface {
	ResolveChain(ctx context.Context, userID int64) (*models.ApprovalChain, error)
}

type notifier interface {
	Dispatch(batch []models.Notification)
}

// defaultRejectReason is recorded when a rejection arrives without one.
const defaultRejectReason = "No reason provided"

// ApprovalService drives a PRF through its approval stages: check, an
// optional second check, approval, receipt, and the reject side exit.
type ApprovalService struct {
	repo     prfApprovalStore
	chains   chainResolver
	notifier notifier
	company  string
	appURL   string
	logger   *zap.Logger
}

// NewApprovalService constructs the service.
func NewApprovalService(repo prfApprovalStore, chains chainResolver, notifier notifier, company, appURL string, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{repo: repo, chains: chains, notifier: notifier, company: company, appURL: appURL, logger: logger}
}

// ApplyAction advances one PRF through a single approval stage on behalf of
// the named actor. The stage stamp is a conditional update: losing the race
// to another actor surfaces as a conflict, never a double stamp.
//
// The check action is stateful: when the submitter's chain routes through a
// second checker, the first check only records the checker and the form does
// not progress until the second checker also acts. Progress notifications for
// the check stage fire exactly once, on whichever check completes it.
func (s *ApprovalService) ApplyAction(ctx context.Context, prfID string, action models.Action, actorName string) (*models.PurchaseRequestForm, error) {
	if !action.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidAction, "unrecognized approval action: "+string(action))
	}

	prf, err := s.load(ctx, prfID)
	if err != nil {
		return nil, err
	}
	if prf.IsReject {
		return nil, appErrors.Clone(appErrors.ErrInvalidAction, "purchase request has been rejected")
	}
	if prf.IsCancel {
		return nil, appErrors.Clone(appErrors.ErrInvalidAction, "purchase request has been cancelled")
	}

	chain, err := s.resolveChain(ctx, prf)
	if err != nil {
		return nil, err
	}

	var stage models.Stage
	var batch []models.Notification

	switch action {
	case models.ActionCheck:
		hasSecond := chain.SecondCheckedBy != nil
		switch {
		case !prf.FirstCheckDone():
			stage = models.StageChecked
			if !hasSecond {
				batch = s.checkedBatch(ctx, prf, chain)
			}
		case hasSecond && prf.SecondCheckedAt == nil:
			stage = models.StageSecondChecked
			batch = s.checkedBatch(ctx, prf, chain)
		default:
			return nil, appErrors.Clone(appErrors.ErrInvalidAction, "purchase request has already been checked")
		}

	case models.ActionApprove:
		if !prf.FirstCheckDone() {
			return nil, appErrors.Clone(appErrors.ErrInvalidAction, "purchase request has not been checked yet")
		}
		if chain.SecondCheckedBy != nil && prf.SecondCheckedAt == nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidAction, "purchase request is awaiting its second check")
		}
		stage = models.StageApproved
		batch = s.approvedBatch(ctx, prf, chain)

	case models.ActionReceive:
		if prf.ApprovedAt == nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidAction, "purchase request has not been approved yet")
		}
		stage = models.StageReceived
		batch = s.receivedBatch(ctx, prf)
	}

	err = s.repo.ApplyStage(ctx, repository.StageUpdateParams{
		PrfID: prfID,
		Stage: stage,
		Actor: actorName,
		At:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConcurrentModification, "purchase request was modified by another user, refresh and try again")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record approval stage")
	}

	updated, err := s.load(ctx, prfID)
	if err != nil {
		return nil, err
	}

	s.notifier.Dispatch(batch)
	return updated, nil
}

// Reject marks a PRF rejected with an optional reason. Rejection is terminal
// for the approval flow but independent of cancellation.
func (s *ApprovalService) Reject(ctx context.Context, prfID, actorName, reason string) (*models.PurchaseRequestForm, error) {
	if reason == "" {
		reason = defaultRejectReason
	}

	prf, err := s.load(ctx, prfID)
	if err != nil {
		return nil, err
	}
	if prf.IsReject {
		return nil, appErrors.Clone(appErrors.ErrConflict, "purchase request is already rejected")
	}
	if prf.IsCancel {
		return nil, appErrors.Clone(appErrors.ErrInvalidAction, "purchase request has been cancelled")
	}
	if prf.ReceivedAt != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidAction, "purchase request has already been received")
	}

	if err := s.repo.SetRejected(ctx, prfID, reason); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConcurrentModification, "purchase request was modified by another user, refresh and try again")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record rejection")
	}

	updated, err := s.load(ctx, prfID)
	if err != nil {
		return nil, err
	}

	data := s.notificationData(updated)
	data.RejectedBy = actorName
	data.RejectionReason = reason
	s.notifier.Dispatch([]models.Notification{{
		Event: models.EventPrfRejected,
		To:    s.requestor(ctx, prfID),
		Data:  data,
	}})
	return updated, nil
}

func (s *ApprovalService) load(ctx context.Context, prfID string) (*models.PurchaseRequestForm, error) {
	prf, err := s.repo.GetByID(ctx, prfID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "purchase request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchase request")
	}
	return prf, nil
}

// resolveChain loads the submitter's approval chain. A form whose submitter
// is unknown or has no configured mapping cannot advance: the action aborts
// before any stage is stamped.
func (s *ApprovalService) resolveChain(ctx context.Context, prf *models.PurchaseRequestForm) (*models.ApprovalChain, error) {
	if prf.UserID == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "submitter has no approval chain configured")
	}
	chain, err := s.chains.ResolveChain(ctx, *prf.UserID)
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// requestor resolves the submitter's mail contact. Failures degrade to an
// empty recipient the dispatcher skips.
func (s *ApprovalService) requestor(ctx context.Context, prfID string) models.Recipient {
	contact, err := s.repo.RequestorContact(ctx, prfID)
	if err != nil {
		s.logger.Warn("failed to resolve requestor contact", zap.String("prfId", prfID), zap.Error(err))
		return models.Recipient{}
	}
	return *contact
}

func approverRecipient(approver *models.Approver) models.Recipient {
	if approver == nil {
		return models.Recipient{}
	}
	return models.Recipient{Email: approver.Email, Name: approver.FullName}
}

func (s *ApprovalService) notificationData(prf *models.PurchaseRequestForm) models.NotificationData {
	return models.NotificationData{
		PrfID:            prf.ID,
		PrfNo:            prf.PrfNo,
		PrfDate:          prf.PrfDate,
		PreparedBy:       prf.PreparedBy,
		DepartmentCharge: strOrEmpty(prf.DepartmentCharge),
		Company:          s.company,
		AppURL:           s.appURL,
		CheckedBy:        strOrEmpty(prf.CheckedBy),
		ApprovedBy:       strOrEmpty(prf.ApprovedBy),
		ReceivedBy:       strOrEmpty(prf.ReceivedBy),
	}
}

// checkedBatch notifies the requestor of check completion and hands the form
// to the approver. Ordering inside the batch is deliberate.
func (s *ApprovalService) checkedBatch(ctx context.Context, prf *models.PurchaseRequestForm, chain *models.ApprovalChain) []models.Notification {
	data := s.notificationData(prf)
	return []models.Notification{
		{Event: models.EventPrfChecked, To: s.requestor(ctx, prf.ID), Data: data},
		{Event: models.EventAssignedToApprove, To: approverRecipient(chain.ApprovedBy), Data: data},
	}
}

func (s *ApprovalService) approvedBatch(ctx context.Context, prf *models.PurchaseRequestForm, chain *models.ApprovalChain) []models.Notification {
	data := s.notificationData(prf)
	return []models.Notification{
		{Event: models.EventPrfApproved, To: s.requestor(ctx, prf.ID), Data: data},
		{Event: models.EventAssignedToReceive, To: approverRecipient(chain.ReceivedBy), Data: data},
	}
}

func (s *ApprovalService) receivedBatch(ctx context.Context, prf *models.PurchaseRequestForm) []models.Notification {
	data := s.notificationData(prf)
	return []models.Notification{
		{Event: models.EventPrfReceived, To: s.requestor(ctx, prf.ID), Data: data},
	}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
