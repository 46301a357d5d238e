package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nutratech/prf-api/internal/dto"
	"github.com/nutratech/prf-api/internal/models"
	"github.com/nutratech/prf-api/internal/repository"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
)

type prfStore interface {
	CreateHeader(ctx context.Context, prf *models.PurchaseRequestForm) error
	GetByID(ctx context.Context, id string) (*models.PurchaseRequestForm, error)
	GetByPrfNo(ctx context.Context, prfNo string) (*models.PurchaseRequestForm, error)
	BulkInsertLineItems(ctx context.Context, prfID string, items []models.PrfLineItem) error
	GetLineItems(ctx context.Context, prfID string) ([]models.PrfLineItem, error)
	GetLineItem(ctx context.Context, itemID int64) (*models.PrfLineItem, error)
	ListRows(ctx context.Context, filter repository.PrfFilter) ([]models.PrfListRow, error)
	CountHeaders(ctx context.Context, filter repository.PrfFilter) (int, error)
	MarkLineItemReceived(ctx context.Context, itemID int64, at time.Time, partial *string) error
	UpdateLineItemRemarks(ctx context.Context, itemID int64, remarks string) error
	RequestorContact(ctx context.Context, prfID string) (*models.Recipient, error)
}

type prfExporter interface {
	ExportPRF(prf *models.PurchaseRequestForm, items []models.PrfLineItem) ([]byte, error)
}

// PrfService owns the lifecycle of purchase request forms outside the
// approval stages: submission, reads, line item delivery and export.
type PrfService struct {
	repo     prfStore
	chains   chainResolver
	notifier notifier
	exporter prfExporter
	validate *validator.Validate
	company  string
	appURL   string
	logger   *zap.Logger
}

// NewPrfService constructs the service.
func NewPrfService(repo prfStore, chains chainResolver, notifier notifier, exporter prfExporter, validate *validator.Validate, company, appURL string, logger *zap.Logger) *PrfService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrfService{repo: repo, chains: chains, notifier: notifier, exporter: exporter, validate: validate, company: company, appURL: appURL, logger: logger}
}

// Submit stores a new PRF with its stock lines, snapshots the submitter's
// approval chain names onto the header, and hands the form to the first
// checker. Submitting an already-stored PRF number is idempotent: the stored
// form is returned untouched and nothing is re-sent.
func (s *PrfService) Submit(ctx context.Context, user *models.User, req dto.SubmitPrfRequest) (*dto.SubmitPrfResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid purchase request payload")
	}

	existing, err := s.repo.GetByPrfNo(ctx, req.PrfNo)
	if err == nil {
		return &dto.SubmitPrfResponse{ID: existing.ID, PrfNo: existing.PrfNo, Duplicate: true}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to probe purchase request number")
	}

	// A submitter without a configured chain can still file the form: the
	// name columns stay empty and the checker notification degrades to a
	// skip. Only the approval actions demand the mapping.
	chain, err := s.chains.ResolveChain(ctx, user.ID)
	if err != nil {
		if appErrors.FromError(err).Code != appErrors.ErrNotFound.Code {
			return nil, err
		}
		chain = &models.ApprovalChain{UserID: user.ID}
	}

	prf := &models.PurchaseRequestForm{
		PrfNo:            req.PrfNo,
		PrfDate:          req.PrfDate,
		PreparedBy:       user.FullName,
		UserID:           &user.ID,
		DepartmentID:     firstNonNil(req.DepartmentID, user.DepartmentID),
		DepartmentCharge: req.DepartmentCharge,
		DepartmentType:   firstNonNil(req.DepartmentType, user.DepartmentType),
		CheckedBy:        approverName(chain.CheckedBy),
		ApprovedBy:       approverName(chain.ApprovedBy),
		ReceivedBy:       approverName(chain.ReceivedBy),
	}
	if err := s.repo.CreateHeader(ctx, prf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store purchase request")
	}

	items := make([]models.PrfLineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.PrfLineItem{
			StockCode:   item.StockCode,
			StockName:   item.StockName,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			DateNeeded:  item.DateNeeded,
			Purpose:     item.Purpose,
			Description: item.Description,
			IsPending:   true,
		})
	}
	if err := s.repo.BulkInsertLineItems(ctx, prf.ID, items); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store purchase request items")
	}

	data := models.NotificationData{
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
	s.notifier.Dispatch([]models.Notification{{
		Event: models.EventAssignedToCheck,
		To:    approverRecipient(chain.CheckedBy),
		Data:  data,
	}})

	return &dto.SubmitPrfResponse{ID: prf.ID, PrfNo: prf.PrfNo}, nil
}

// Get returns one PRF with its stock lines and computed status.
func (s *PrfService) Get(ctx context.Context, prfID string) (*dto.PrfDetail, error) {
	prf, err := s.repo.GetByID(ctx, prfID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "purchase request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchase request")
	}
	items, err := s.repo.GetLineItems(ctx, prfID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchase request items")
	}
	return &dto.PrfDetail{
		PurchaseRequestForm: *prf,
		Status:              models.DeriveStatus(prf),
		Items:               items,
	}, nil
}

// List returns flattened header+detail rows matching the query.
func (s *PrfService) List(ctx context.Context, query dto.PrfListQuery) ([]models.PrfListRow, *models.Pagination, error) {
	return s.list(ctx, nil, query)
}

// ListMine scopes the list to one submitter.
func (s *PrfService) ListMine(ctx context.Context, userID int64, query dto.PrfListQuery) ([]models.PrfListRow, *models.Pagination, error) {
	return s.list(ctx, &userID, query)
}

func (s *PrfService) list(ctx context.Context, userID *int64, query dto.PrfListQuery) ([]models.PrfListRow, *models.Pagination, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	filter := repository.PrfFilter{
		UserID:     userID,
		PrfNo:      query.PrfNo,
		PreparedBy: query.PreparedBy,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	}
	if from, err := parseDate(query.DateFrom); err == nil && from != nil {
		filter.DateFrom = from
	}
	if to, err := parseDate(query.DateTo); err == nil && to != nil {
		filter.DateTo = to
	}

	rows, err := s.repo.ListRows(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list purchase requests")
	}
	for i := range rows {
		rows[i].Status = models.DeriveFlagStatus(rows[i].IsReject, rows[i].IsCancel, rows[i].ApprovedStatus)
	}

	total, err := s.repo.CountHeaders(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count purchase requests")
	}

	return rows, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// ReceiveItem marks one stock line delivered and tells the requestor. The
// delivery stamp is conditional so a line cannot be received twice.
func (s *PrfService) ReceiveItem(ctx context.Context, itemID int64, req dto.ReceiveItemRequest) (*models.PrfLineItem, error) {
	if err := s.repo.MarkLineItemReceived(ctx, itemID, time.Now().UTC(), req.PartialDeliver); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.disambiguateReceive(ctx, itemID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark item delivered")
	}

	item, err := s.repo.GetLineItem(ctx, itemID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload delivered item")
	}

	prf, err := s.repo.GetByID(ctx, item.PrfID)
	if err != nil {
		s.logger.Warn("delivered item has no loadable header", zap.Int64("itemId", itemID), zap.Error(err))
		return item, nil
	}

	contact, err := s.repo.RequestorContact(ctx, item.PrfID)
	if err != nil {
		s.logger.Warn("failed to resolve requestor contact", zap.String("prfId", item.PrfID), zap.Error(err))
		contact = &models.Recipient{}
	}
	s.notifier.Dispatch([]models.Notification{{
		Event: models.EventPrfDelivered,
		To:    *contact,
		Data: models.NotificationData{
			PrfID:      prf.ID,
			PrfNo:      prf.PrfNo,
			PrfDate:    prf.PrfDate,
			PreparedBy: prf.PreparedBy,
			Company:    s.company,
			AppURL:     s.appURL,
			StockName:  item.StockName,
		},
	}})
	return item, nil
}

func (s *PrfService) disambiguateReceive(ctx context.Context, itemID int64) error {
	item, err := s.repo.GetLineItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "purchase request item not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load purchase request item")
	}
	if item.IsDelivered {
		return appErrors.Clone(appErrors.ErrConflict, "purchase request item is already delivered")
	}
	return appErrors.ErrConcurrentModification
}

// UpdateItemRemarks replaces the free-text remarks on one stock line.
func (s *PrfService) UpdateItemRemarks(ctx context.Context, itemID int64, remarks string) (*models.PrfLineItem, error) {
	if err := s.repo.UpdateLineItemRemarks(ctx, itemID, remarks); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "purchase request item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update item remarks")
	}
	item, err := s.repo.GetLineItem(ctx, itemID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload purchase request item")
	}
	return item, nil
}

// ExportPDF renders a printable copy of one PRF.
func (s *PrfService) ExportPDF(ctx context.Context, prfID string) ([]byte, string, error) {
	detail, err := s.Get(ctx, prfID)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.exporter.ExportPRF(&detail.PurchaseRequestForm, detail.Items)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render purchase request pdf")
	}
	filename := fmt.Sprintf("prf-%s.pdf", detail.PrfNo)
	return payload, filename, nil
}

func approverName(approver *models.Approver) *string {
	if approver == nil || approver.FullName == "" {
		return nil
	}
	name := approver.FullName
	return &name
}

func firstNonNil(values ...*string) *string {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
