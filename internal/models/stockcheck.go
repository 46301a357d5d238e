package models

import "time"

// StockCheckLog is an append-only verify/reject decision for one stock line of
// a PRF. At most one authoritative decision exists per (prfId, stockCode).
type StockCheckLog struct {
	ID              int64     `db:"id" json:"id"`
	PrfID           string    `db:"prf_id" json:"prfId"`
	StockCode       string    `db:"stock_code" json:"stockCode"`
	StockName       string    `db:"stock_name" json:"stockName"`
	NotedBy         *string   `db:"noted_by" json:"notedBy,omitempty"`
	VerifiedBy      string    `db:"verified_by" json:"verifiedBy"`
	IsApprove       bool      `db:"is_approve" json:"isApprove"`
	IsReject        bool      `db:"is_reject" json:"isReject"`
	RejectionReason *string   `db:"rejection_reason" json:"rejectionReason,omitempty"`
	CheckedAt       time.Time `db:"checked_at" json:"checkedAt"`
}
