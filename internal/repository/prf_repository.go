package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nutratech/prf-api/internal/models"
)

// PrfRepository persists purchase request headers and their line items.
type PrfRepository struct {
	db *sqlx.DB
}

// NewPrfRepository constructs the repository.
func NewPrfRepository(db *sqlx.DB) *PrfRepository {
	return &PrfRepository{db: db}
}

const prfColumns = `id, prf_no, prf_date, prepared_by, user_id, department_id, department_charge, department_type,
       checked_by, checked_status, checked_at,
       second_checked_by, second_checked_status, second_checked_at,
       approved_by, approved_status, approved_at,
       received_by, received_status, received_at,
       is_cancel, cancel_count, is_reject, rejection_reason, created_at`

// CreateHeader inserts a new PRF header row.
func (r *PrfRepository) CreateHeader(ctx context.Context, prf *models.PurchaseRequestForm) error {
	if prf.ID == "" {
		prf.ID = uuid.NewString()
	}
	if prf.CreatedAt.IsZero() {
		prf.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO purchase_request_forms
	(id, prf_no, prf_date, prepared_by, user_id, department_id, department_charge, department_type,
	 checked_by, approved_by, received_by, is_cancel, cancel_count, is_reject, created_at)
	VALUES (:id, :prf_no, :prf_date, :prepared_by, :user_id, :department_id, :department_charge, :department_type,
	 :checked_by, :approved_by, :received_by, :is_cancel, :cancel_count, :is_reject, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, prf); err != nil {
		return fmt.Errorf("create prf header: %w", err)
	}
	return nil
}

// GetByID fetches a PRF header by identifier.
func (r *PrfRepository) GetByID(ctx context.Context, id string) (*models.PurchaseRequestForm, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_request_forms WHERE id = $1`, prfColumns)
	var prf models.PurchaseRequestForm
	if err := r.db.GetContext(ctx, &prf, query, id); err != nil {
		return nil, err
	}
	return &prf, nil
}

// GetByPrfNo fetches a PRF header by its human-facing number.
func (r *PrfRepository) GetByPrfNo(ctx context.Context, prfNo string) (*models.PurchaseRequestForm, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_request_forms WHERE prf_no = $1`, prfColumns)
	var prf models.PurchaseRequestForm
	if err := r.db.GetContext(ctx, &prf, query, prfNo); err != nil {
		return nil, err
	}
	return &prf, nil
}

// BulkInsertLineItems inserts the requested stock lines of a freshly submitted PRF.
func (r *PrfRepository) BulkInsertLineItems(ctx context.Context, prfID string, items []models.PrfLineItem) error {
	if len(items) == 0 {
		return nil
	}
	const query = `INSERT INTO prf_line_items
	(prf_id, stock_code, stock_name, quantity, unit, date_needed, purpose, description, status, remarks, is_delivered, is_pending, is_cancel)
	VALUES (:prf_id, :stock_code, :stock_name, :quantity, :unit, :date_needed, :purpose, :description, :status, :remarks, :is_delivered, :is_pending, :is_cancel)`
	for i := range items {
		items[i].PrfID = prfID
		if _, err := r.db.NamedExecContext(ctx, query, items[i]); err != nil {
			return fmt.Errorf("insert line item %s: %w", items[i].StockCode, err)
		}
	}
	return nil
}

const lineItemColumns = `id, prf_id, stock_code, stock_name, quantity, unit, date_needed, purpose, description,
       status, remarks, partial_deliver, date_delivered, is_delivered, is_pending, is_cancel`

// GetLineItems returns every stock line of one PRF, insertion order.
func (r *PrfRepository) GetLineItems(ctx context.Context, prfID string) ([]models.PrfLineItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM prf_line_items WHERE prf_id = $1 ORDER BY id`, lineItemColumns)
	var items []models.PrfLineItem
	if err := r.db.SelectContext(ctx, &items, query, prfID); err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	return items, nil
}

// GetLineItem fetches a single stock line by identifier.
func (r *PrfRepository) GetLineItem(ctx context.Context, itemID int64) (*models.PrfLineItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM prf_line_items WHERE id = $1`, lineItemColumns)
	var item models.PrfLineItem
	if err := r.db.GetContext(ctx, &item, query, itemID); err != nil {
		return nil, err
	}
	return &item, nil
}

// PrfFilter narrows the flattened list queries.
type PrfFilter struct {
	UserID     *int64
	PrfNo      string
	PreparedBy string
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

const listSelect = `SELECT h.id AS prf_id, h.prf_no, h.prepared_by, h.prf_date, h.is_cancel, h.is_reject,
       h.approved_by, h.approved_status,
       i.id AS line_item_id, i.stock_name, i.quantity, i.unit, i.date_needed, i.is_delivered, i.status AS item_status
	FROM purchase_request_forms h
	LEFT JOIN prf_line_items i ON i.prf_id = h.id`

// ListRows returns header+detail rows matching the filter, newest PRF first.
func (r *PrfRepository) ListRows(ctx context.Context, filter PrfFilter) ([]models.PrfListRow, error) {
	builder := strings.Builder{}
	builder.WriteString(listSelect)
	args := make([]interface{}, 0, 6)

	conditions := make([]string, 0, 4)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("h.user_id = $%d", len(args)))
	}
	if filter.PrfNo != "" {
		args = append(args, filter.PrfNo)
		conditions = append(conditions, fmt.Sprintf("h.prf_no = $%d", len(args)))
	}
	if filter.PreparedBy != "" {
		args = append(args, "%"+filter.PreparedBy+"%")
		conditions = append(conditions, fmt.Sprintf("h.prepared_by ILIKE $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("h.prf_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("h.prf_date <= $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY h.prf_date DESC, h.prf_no DESC, i.id")

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var rows []models.PrfListRow
	if err := r.db.SelectContext(ctx, &rows, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list prf rows: %w", err)
	}
	return rows, nil
}

// CountHeaders returns the number of distinct PRF headers matching the filter.
func (r *PrfRepository) CountHeaders(ctx context.Context, filter PrfFilter) (int, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT COUNT(*) FROM purchase_request_forms h`)
	args := make([]interface{}, 0, 4)

	conditions := make([]string, 0, 4)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		conditions = append(conditions, fmt.Sprintf("h.user_id = $%d", len(args)))
	}
	if filter.PrfNo != "" {
		args = append(args, filter.PrfNo)
		conditions = append(conditions, fmt.Sprintf("h.prf_no = $%d", len(args)))
	}
	if filter.PreparedBy != "" {
		args = append(args, "%"+filter.PreparedBy+"%")
		conditions = append(conditions, fmt.Sprintf("h.prepared_by ILIKE $%d", len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}

	var count int
	if err := r.db.GetContext(ctx, &count, builder.String(), args...); err != nil {
		return 0, fmt.Errorf("count prf headers: %w", err)
	}
	return count, nil
}

// StageUpdateParams groups the columns written when one approval stage clears.
type StageUpdateParams struct {
	PrfID string
	Stage models.Stage
	Actor string
	At    time.Time
}

// stageColumns maps a stage to its (actor, status, timestamp) column triple.
func stageColumns(stage models.Stage) (by, status, at string, err error) {
	switch stage {
	case models.StageChecked:
		return "checked_by", "checked_status", "checked_at", nil
	case models.StageSecondChecked:
		return "second_checked_by", "second_checked_status", "second_checked_at", nil
	case models.StageApproved:
		return "approved_by", "approved_status", "approved_at", nil
	case models.StageReceived:
		return "received_by", "received_status", "received_at", nil
	}
	return "", "", "", fmt.Errorf("unknown approval stage: %s", stage)
}

// ApplyStage stamps one approval stage. The update is conditional on the
// stage not having been stamped yet; a lost race surfaces as sql.ErrNoRows.
func (r *PrfRepository) ApplyStage(ctx context.Context, params StageUpdateParams) error {
	byCol, statusCol, atCol, err := stageColumns(params.Stage)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE purchase_request_forms
	SET %s = $1, %s = $2, %s = $3
	WHERE id = $4 AND %s IS NULL AND is_reject = FALSE AND is_cancel = FALSE`,
		byCol, statusCol, atCol, atCol)

	result, err := r.db.ExecContext(ctx, query, params.Actor, models.StageStatusCleared, params.At, params.PrfID)
	if err != nil {
		return fmt.Errorf("apply %s stage: %w", params.Stage, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s stage rows: %w", params.Stage, err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetRejected marks a PRF rejected. Conditional on the PRF not already being
// in a terminal state; a lost race surfaces as sql.ErrNoRows.
func (r *PrfRepository) SetRejected(ctx context.Context, prfID, reason string) error {
	const query = `UPDATE purchase_request_forms
	SET is_reject = TRUE, rejection_reason = $1
	WHERE id = $2 AND is_reject = FALSE AND is_cancel = FALSE AND received_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, reason, prfID)
	if err != nil {
		return fmt.Errorf("reject prf: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check reject rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Cancel soft-cancels a PRF. The compare-and-swap guards both the flag and
// the cancellation budget; a lost race or an exhausted budget surfaces as
// sql.ErrNoRows and the caller disambiguates by re-reading the row.
func (r *PrfRepository) Cancel(ctx context.Context, prfID string, limit int) error {
	const query = `UPDATE purchase_request_forms
	SET is_cancel = TRUE, cancel_count = cancel_count + 1
	WHERE id = $1 AND is_cancel = FALSE AND cancel_count < $2`
	result, err := r.db.ExecContext(ctx, query, prfID, limit)
	if err != nil {
		return fmt.Errorf("cancel prf: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check cancel rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Uncancel restores a cancelled PRF. Conditional on the flag still being set.
func (r *PrfRepository) Uncancel(ctx context.Context, prfID string) error {
	const query = `UPDATE purchase_request_forms
	SET is_cancel = FALSE
	WHERE id = $1 AND is_cancel = TRUE`
	result, err := r.db.ExecContext(ctx, query, prfID)
	if err != nil {
		return fmt.Errorf("uncancel prf: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check uncancel rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpsertLineItem updates a stock line in place, inserting it when the PRF has
// no row for that stock code yet. Update-then-insert keeps the hot path to a
// single statement.
func (r *PrfRepository) UpsertLineItem(ctx context.Context, item *models.PrfLineItem) error {
	const update = `UPDATE prf_line_items
	SET stock_name = :stock_name, quantity = :quantity, unit = :unit, date_needed = :date_needed,
	    purpose = :purpose, description = :description, is_cancel = :is_cancel
	WHERE prf_id = :prf_id AND stock_code = :stock_code`
	result, err := r.db.NamedExecContext(ctx, update, item)
	if err != nil {
		return fmt.Errorf("update line item %s: %w", item.StockCode, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check line item rows: %w", err)
	}
	if rows > 0 {
		return nil
	}

	const insert = `INSERT INTO prf_line_items
	(prf_id, stock_code, stock_name, quantity, unit, date_needed, purpose, description, status, remarks, is_delivered, is_pending, is_cancel)
	VALUES (:prf_id, :stock_code, :stock_name, :quantity, :unit, :date_needed, :purpose, :description, :status, :remarks, :is_delivered, :is_pending, :is_cancel)`
	if _, err := r.db.NamedExecContext(ctx, insert, item); err != nil {
		return fmt.Errorf("insert line item %s: %w", item.StockCode, err)
	}
	return nil
}

// MarkLineItemReceived flags a stock line as delivered. Conditional on the
// line not already carrying a delivery stamp.
func (r *PrfRepository) MarkLineItemReceived(ctx context.Context, itemID int64, at time.Time, partial *string) error {
	const query = `UPDATE prf_line_items
	SET is_delivered = TRUE, is_pending = FALSE, date_delivered = $1, partial_deliver = $2
	WHERE id = $3 AND is_delivered = FALSE`
	result, err := r.db.ExecContext(ctx, query, at, partial, itemID)
	if err != nil {
		return fmt.Errorf("mark line item received: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check received rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateLineItemRemarks replaces the free-text remarks of a stock line.
func (r *PrfRepository) UpdateLineItemRemarks(ctx context.Context, itemID int64, remarks string) error {
	const query = `UPDATE prf_line_items SET remarks = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, remarks, itemID)
	if err != nil {
		return fmt.Errorf("update line item remarks: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check remarks rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RequestorContact resolves the notification address of the user who
// submitted a PRF. Prefers the Outlook address when present.
func (r *PrfRepository) RequestorContact(ctx context.Context, prfID string) (*models.Recipient, error) {
	const query = `SELECT COALESCE(u.outlook_email, u.email) AS email, u.full_name AS name
	FROM purchase_request_forms h
	JOIN users u ON u.id = h.user_id
	WHERE h.id = $1`
	var recipient models.Recipient
	if err := r.db.GetContext(ctx, &recipient, query, prfID); err != nil {
		if err == sql.ErrNoRows {
			// Header without a linked account: fall back to an empty
			// recipient so the dispatcher skips it.
			return &models.Recipient{}, nil
		}
		return nil, fmt.Errorf("resolve requestor contact: %w", err)
	}
	return &recipient, nil
}
