package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nutratech/prf-api/internal/models"
	"github.com/nutratech/prf-api/internal/repository"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
)

type approvalStoreStub struct {
	prf      *models.PurchaseRequestForm
	applyErr error
	applied  []repository.StageUpdateParams
}

func (s *approvalStoreStub) GetByID(ctx context.Context, id string) (*models.PurchaseRequestForm, error) {
	if s.prf == nil || s.prf.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *s.prf
	return &copy, nil
}

func (s *approvalStoreStub) ApplyStage(ctx context.Context, params repository.StageUpdateParams) error {
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applied = append(s.applied, params)
	status := models.StageStatusCleared
	at := params.At
	actor := params.Actor
	switch params.Stage {
	case models.StageChecked:
		s.prf.CheckedBy, s.prf.CheckedStatus, s.prf.CheckedAt = &actor, &status, &at
	case models.StageSecondChecked:
		s.prf.SecondCheckedBy, s.prf.SecondCheckedStatus, s.prf.SecondCheckedAt = &actor, &status, &at
	case models.StageApproved:
		s.prf.ApprovedBy, s.prf.ApprovedStatus, s.prf.ApprovedAt = &actor, &status, &at
	case models.StageReceived:
		s.prf.ReceivedBy, s.prf.ReceivedStatus, s.prf.ReceivedAt = &actor, &status, &at
	}
	return nil
}

func (s *approvalStoreStub) SetRejected(ctx context.Context, prfID, reason string) error {
	if s.prf == nil || s.prf.ID != prfID || s.prf.IsReject {
		return sql.ErrNoRows
	}
	s.prf.IsReject = true
	s.prf.RejectionReason = &reason
	return nil
}

func (s *approvalStoreStub) RequestorContact(ctx context.Context, prfID string) (*models.Recipient, error) {
	return &models.Recipient{Email: "maria@nutratech.test", Name: "Maria Santos"}, nil
}

type chainResolverStub struct {
	chain *models.ApprovalChain
}

func (s *chainResolverStub) ResolveChain(ctx context.Context, userID int64) (*models.ApprovalChain, error) {
	if s.chain == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no approval assignment for user")
	}
	return s.chain, nil
}

type notifierStub struct {
	batches [][]models.Notification
}

func (s *notifierStub) Dispatch(batch []models.Notification) {
	s.batches = append(s.batches, batch)
}

func pendingPrf() *models.PurchaseRequestForm {
	userID := int64(7)
	return &models.PurchaseRequestForm{
		ID:         "prf-1",
		PrfNo:      "PRF-2026-0001",
		PrfDate:    time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC),
		PreparedBy: "Maria Santos",
		UserID:     &userID,
	}
}

func singleCheckerChain() *models.ApprovalChain {
	return &models.ApprovalChain{
		UserID:     7,
		CheckedBy:  &models.Approver{ID: "emp-1", Email: "juan@nutratech.test", FullName: "Juan Cruz"},
		ApprovedBy: &models.Approver{ID: "emp-2", Email: "ana@nutratech.test", FullName: "Ana Reyes"},
		ReceivedBy: &models.Approver{ID: "emp-3", Email: "pedro@nutratech.test", FullName: "Pedro Lim"},
	}
}

func newApprovalService(store *approvalStoreStub, chain *models.ApprovalChain, notifier *notifierStub) *ApprovalService {
	return NewApprovalService(store, &chainResolverStub{chain: chain}, notifier, "NutraTech Biopharma, Inc", "http://localhost:3000", nil)
}

func requireAppError(t *testing.T, err error, code string) {
	t.Helper()
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	require.Equal(t, code, appErr.Code)
}

func TestApplyActionRejectsUnknownAction(t *testing.T) {
	store := &approvalStoreStub{prf: pendingPrf()}
	svc := newApprovalService(store, singleCheckerChain(), &notifierStub{})

	_, err := svc.ApplyAction(context.Background(), "prf-1", models.Action("shred"), "Juan Cruz")
	requireAppError(t, err, appErrors.ErrInvalidAction.Code)
}

func TestApplyActionUnknownPrf(t *testing.T) {
	store := &approvalStoreStub{}
	svc := newApprovalService(store, singleCheckerChain(), &notifierStub{})

	_, err := svc.ApplyAction(context.Background(), "missing", models.ActionCheck, "Juan Cruz")
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}

func TestApplyActionWithoutChainMapping(t *testing.T) {
	store := &approvalStoreStub{prf: pendingPrf()}
	notifier := &notifierStub{}
	svc := newApprovalService(store, nil, notifier)

	_, err := svc.ApplyAction(context.Background(), "prf-1", models.ActionCheck, "Juan Cruz")
	requireAppError(t, err, appErrors.ErrNotFound.Code)

	// The action aborts before anything is stamped or sent.
	require.Empty(t, store.applied)
	require.Empty(t, notifier.batches)
}

func TestApplyActionWithoutSubmitter(t *testing.T) {
	prf := pendingPrf()
	prf.UserID = nil
	store := &approvalStoreStub{prf: prf}
	svc := newApprovalService(store, singleCheckerChain(), &notifierStub{})

	_, err := svc.ApplyAction(context.Background(), "prf-1", models.ActionCheck, "Juan Cruz")
	requireAppError(t, err, appErrors.ErrNotFound.Code)
	require.Empty(t, store.applied)
}

func TestCheckWithoutSecondCheckerNotifies(t *testing.T) {
	store := &approvalStoreStub{prf: pendingPrf()}
	notifier := &notifierStub{}
	svc := newApprovalService(store, singleCheckerChain(), notifier)

	updated, err := svc.ApplyAction(context.Background(), "prf-1", models.ActionCheck, "Juan Cruz")
	require.NoError(t, err)
	require.NotNil(t, updated.CheckedAt)
	require.Equal(t, "Juan Cruz", *updated.CheckedBy)

	require.Len(t, notifier.batches, 1)
	batch := notifier.batches[0]
	require.Len(t, batch, 2)
	require.Equal(t, models.EventPrfChecked, batch[0].Event)
	require.Equal(t, "maria@nutratech.test", batch[0].To.Email)
	require.Equal(t, models.EventAssignedToApprove, batch[1].Event)
	require.Equal(t, "ana@nutratech.test", batch[1].To.Email)
}

func TestCheckWithSecondCheckerNotifiesExactlyOnce(t *testing.T) {
	chain := singleCheckerChain()
	chain.SecondCheckedBy = &models.Approver{ID: "emp-4", Email: "lisa@nutratech.test", FullName: "Lisa Tan"}
	store := &approvalStoreStub{prf: pendingPrf()}
	notifier := &notifierStub{}
	svc := newApprovalService(store, chain, notifier)

	// First check records the checker but does not complete the stage.
	updated, err := svc.ApplyAction(context.Background(), "prf-1", models.ActionCheck, "Juan Cruz")
	require.NoError(t, err)
	require.NotNil(t, updated.CheckedAt)
	require.Nil(t, updated.SecondCheckedAt)
	require.Empty(t, notifier.batches)

	// Approval is still gated on the second check.
	_, err = svc.ApplyAction(context.Background(), "prf-1", models.ActionApprove, "Ana Reyes")
	requireAppError(t, err, appErrors.ErrInvalidAction.Code)

	// Second check completes the stage and fires the batch once.
	updated, err = svc.ApplyAction(context.Background(), "prf-1", models.ActionCheck, "Lisa Tan")
	require.NoError(t, err)
	require.NotNil(t, updated.SecondCheckedAt)
	require.Len(t, notifier.batches, 1)
	require.Equal(t, models.EventPrfChecked, notifier.batches[0][0].Event)

	// A third check has nowhere to go.
	_, err = svc.ApplyAction(context.Background(), "prf-1", models.ActionCheck, "Juan Cruz")
	requireAppError(t, err, appErrors.ErrInvalidAction.Code)
}

func TestApproveRequiresCheck(t *testing.T) {
	store := &approvalStoreStub{prf: pendingPrf()}
	svc := newApprovalService(store, singleCheckerChain(), &notifierStub{})

	_, err := svc.ApplyAction(context.Background(), "prf-1", models.ActionApprove, "Ana Reyes")
	requireAppError(t, err, appErrors.ErrInvalidAction.Code)
}

func TestFullApprovalFlow(t *testing.T) {
	store := &approvalStoreStub{prf: pendingPrf()}
	notifier := &notifierStub{}
	svc := newApprovalService(store, singleCheckerChain(), notifier)

	_, err := svc.ApplyAction(context.Background(), "prf-1", models.ActionCheck, "Juan Cruz")
	require.NoError(t, err)

	updated, err := svc.ApplyAction(context.Background(), "prf-1", models.ActionApprove, "Ana Reyes")
	require.NoError(t, err)
	require.NotNil(t, updated.ApprovedAt)
	require.Equal(t, models.StatusApproved, models.DeriveStatus(updated))

	updated, err = svc.ApplyAction(context.Background(), "prf-1", models.ActionReceive, "Pedro Lim")
	require.NoError(t, err)
	require.NotNil(t, updated.ReceivedAt)

	require.Len(t, notifier.batches, 3)
	require.Equal(t, models.EventPrfApproved, notifier.batches[1][0].Event)
	require.Equal(t, models.EventAssignedToReceive, notifier.batches[1][1].Event)
	require.Equal(t, models.EventPrfReceived, notifier.batches[2][0].Event)
}

func TestReceiveRequiresApproval(t *testing.T) {
	store := &approvalStoreStub{prf: pendingPrf()}
	svc := newApprovalService(store, singleCheckerChain(), &notifierStub{})

	_, err := svc.ApplyAction(context.Background(), "prf-1", models.ActionReceive, "Pedro Lim")
	requireAppError(t, err, appErrors.ErrInvalidAction.Code)
}

func TestApplyActionLostRace(t *testing.T) {
	store := &approvalStoreStub{prf: pendingPrf(), applyErr: sql.ErrNoRows}
	svc := newApprovalService(store, singleCheckerChain(), &notifierStub{})

	_, err := svc.ApplyAction(context.Background(), "prf-1", models.ActionCheck, "Juan Cruz")
	requireAppError(t, err, appErrors.ErrConcurrentModification.Code)
}

func TestApplyActionOnTerminalForm(t *testing.T) {
	prf := pendingPrf()
	prf.IsReject = true
	store := &approvalStoreStub{prf: prf}
	svc := newApprovalService(store, singleCheckerChain(), &notifierStub{})

	_, err := svc.ApplyAction(context.Background(), "prf-1", models.ActionCheck, "Juan Cruz")
	requireAppError(t, err, appErrors.ErrInvalidAction.Code)

	prf.IsReject = false
	prf.IsCancel = true
	_, err = svc.ApplyAction(context.Background(), "prf-1", models.ActionCheck, "Juan Cruz")
	requireAppError(t, err, appErrors.ErrInvalidAction.Code)
}

func TestRejectDefaultsReason(t *testing.T) {
	store := &approvalStoreStub{prf: pendingPrf()}
	notifier := &notifierStub{}
	svc := newApprovalService(store, singleCheckerChain(), notifier)

	updated, err := svc.Reject(context.Background(), "prf-1", "Juan Cruz", "")
	require.NoError(t, err)
	require.True(t, updated.IsReject)
	require.Equal(t, defaultRejectReason, *updated.RejectionReason)
	require.Equal(t, models.StatusRejected, models.DeriveStatus(updated))

	require.Len(t, notifier.batches, 1)
	notification := notifier.batches[0][0]
	require.Equal(t, models.EventPrfRejected, notification.Event)
	require.Equal(t, "Juan Cruz", notification.Data.RejectedBy)
	require.Equal(t, defaultRejectReason, notification.Data.RejectionReason)
}

func TestRejectTwiceConflicts(t *testing.T) {
	store := &approvalStoreStub{prf: pendingPrf()}
	svc := newApprovalService(store, singleCheckerChain(), &notifierStub{})

	_, err := svc.Reject(context.Background(), "prf-1", "Juan Cruz", "duplicate request")
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), "prf-1", "Ana Reyes", "")
	requireAppError(t, err, appErrors.ErrConflict.Code)
}
