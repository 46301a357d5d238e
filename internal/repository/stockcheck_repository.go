package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nutratech/prf-api/internal/models"
)

// StockCheckRepository persists stock availability decisions.
type StockCheckRepository struct {
	db *sqlx.DB
}

// NewStockCheckRepository constructs the repository.
func NewStockCheckRepository(db *sqlx.DB) *StockCheckRepository {
	return &StockCheckRepository{db: db}
}

// AlreadyChecked reports whether a decision exists for (prfID, stockCode).
func (r *StockCheckRepository) AlreadyChecked(ctx context.Context, prfID, stockCode string) (bool, error) {
	const query = `SELECT 1 FROM stock_check_logs WHERE prf_id = $1 AND stock_code = $2 LIMIT 1`
	var one int
	err := r.db.GetContext(ctx, &one, query, prfID, stockCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("probe stock check: %w", err)
	}
	return true, nil
}

// Insert appends one decision row. The first verdict for a (prf, stock)
// pair wins: a conflicting insert is skipped and surfaces as sql.ErrNoRows.
func (r *StockCheckRepository) Insert(ctx context.Context, log *models.StockCheckLog) error {
	if log.CheckedAt.IsZero() {
		log.CheckedAt = time.Now().UTC()
	}
	const query = `INSERT INTO stock_check_logs
	(prf_id, stock_code, stock_name, noted_by, verified_by, is_approve, is_reject, rejection_reason, checked_at)
	VALUES (:prf_id, :stock_code, :stock_name, :noted_by, :verified_by, :is_approve, :is_reject, :rejection_reason, :checked_at)
	ON CONFLICT (prf_id, stock_code) DO NOTHING`
	result, err := r.db.NamedExecContext(ctx, query, log)
	if err != nil {
		return fmt.Errorf("insert stock check log: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert stock check log: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByPrf returns every decision recorded against one PRF, newest first.
func (r *StockCheckRepository) ListByPrf(ctx context.Context, prfID string) ([]models.StockCheckLog, error) {
	const query = `SELECT id, prf_id, stock_code, stock_name, noted_by, verified_by, is_approve, is_reject, rejection_reason, checked_at
	FROM stock_check_logs WHERE prf_id = $1 ORDER BY checked_at DESC`
	var logs []models.StockCheckLog
	if err := r.db.SelectContext(ctx, &logs, query, prfID); err != nil {
		return nil, fmt.Errorf("list stock check logs: %w", err)
	}
	return logs, nil
}
