package models

import "time"

// StageStatusCleared is the status text written when an approval stage is completed.
const StageStatusCleared = "APPROVED"

// Action enumerates the stage-advancing operations on a purchase request.
type Action string

const (
	ActionCheck   Action = "check"
	ActionApprove Action = "approve"
	ActionReceive Action = "receive"
)

// Valid reports whether the action is one of the recognized stage actions.
func (a Action) Valid() bool {
	switch a {
	case ActionCheck, ActionApprove, ActionReceive:
		return true
	}
	return false
}

// Stage identifies a single step of the approval chain.
type Stage string

const (
	StageChecked       Stage = "checked"
	StageSecondChecked Stage = "second_checked"
	StageApproved      Stage = "approved"
	StageReceived      Stage = "received"
)

// DerivedStatus is the computed display status of a purchase request.
type DerivedStatus string

const (
	StatusRejected  DerivedStatus = "Rejected"
	StatusCancelled DerivedStatus = "Cancelled"
	StatusApproved  DerivedStatus = "Approved"
	StatusPending   DerivedStatus = "Pending"
)

// PurchaseRequestForm is the PRF header row.
type PurchaseRequestForm struct {
	ID               string    `db:"id" json:"id"`
	PrfNo            string    `db:"prf_no" json:"prfNo"`
	PrfDate          time.Time `db:"prf_date" json:"prfDate"`
	PreparedBy       string    `db:"prepared_by" json:"preparedBy"`
	UserID           *int64    `db:"user_id" json:"userId,omitempty"`
	DepartmentID     *string   `db:"department_id" json:"departmentId,omitempty"`
	DepartmentCharge *string   `db:"department_charge" json:"departmentCharge,omitempty"`
	DepartmentType   *string   `db:"department_type" json:"departmentType,omitempty"`

	CheckedBy       *string    `db:"checked_by" json:"checkedBy,omitempty"`
	CheckedStatus   *string    `db:"checked_status" json:"checkedStatus,omitempty"`
	CheckedAt       *time.Time `db:"checked_at" json:"checkedAt,omitempty"`
	SecondCheckedBy *string    `db:"second_checked_by" json:"secondCheckedBy,omitempty"`
	SecondCheckedStatus *string    `db:"second_checked_status" json:"secondCheckedStatus,omitempty"`
	SecondCheckedAt     *time.Time `db:"second_checked_at" json:"secondCheckedAt,omitempty"`
	ApprovedBy      *string    `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedStatus  *string    `db:"approved_status" json:"approvedStatus,omitempty"`
	ApprovedAt      *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	ReceivedBy      *string    `db:"received_by" json:"receivedBy,omitempty"`
	ReceivedStatus  *string    `db:"received_status" json:"receivedStatus,omitempty"`
	ReceivedAt      *time.Time `db:"received_at" json:"receivedAt,omitempty"`

	IsCancel        bool    `db:"is_cancel" json:"isCancel"`
	CancelCount     int     `db:"cancel_count" json:"cancelCount"`
	IsReject        bool    `db:"is_reject" json:"isReject"`
	RejectionReason *string `db:"rejection_reason" json:"rejectionReason,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DeriveStatus computes the display status from the terminal flags and the
// approval stamp. Priority is load-bearing: a PRF can carry both an approval
// stamp and a later cancellation, and rejection/cancellation must win.
func DeriveStatus(prf *PurchaseRequestForm) DerivedStatus {
	return DeriveFlagStatus(prf.IsReject, prf.IsCancel, prf.ApprovedStatus)
}

// DeriveFlagStatus is the flag-level form of DeriveStatus, usable on
// flattened list rows that do not carry the whole header.
func DeriveFlagStatus(isReject, isCancel bool, approvedStatus *string) DerivedStatus {
	switch {
	case isReject:
		return StatusRejected
	case isCancel:
		return StatusCancelled
	case approvedStatus != nil && *approvedStatus == StageStatusCleared:
		return StatusApproved
	default:
		return StatusPending
	}
}

// FirstCheckDone reports whether the first checker has already cleared the PRF.
func (p *PurchaseRequestForm) FirstCheckDone() bool {
	return p.CheckedAt != nil
}

// PrfLineItem is a single requested stock line belonging to one PRF.
type PrfLineItem struct {
	ID             int64      `db:"id" json:"id"`
	PrfID          string     `db:"prf_id" json:"prfId"`
	StockCode      string     `db:"stock_code" json:"stockCode"`
	StockName      string     `db:"stock_name" json:"stockName"`
	Quantity       float64    `db:"quantity" json:"quantity"`
	Unit           string     `db:"unit" json:"unit"`
	DateNeeded     *time.Time `db:"date_needed" json:"dateNeeded,omitempty"`
	Purpose        *string    `db:"purpose" json:"purpose,omitempty"`
	Description    *string    `db:"description" json:"description,omitempty"`
	Status         *string    `db:"status" json:"status,omitempty"`
	Remarks        *string    `db:"remarks" json:"remarks,omitempty"`
	PartialDeliver *string    `db:"partial_deliver" json:"partialDeliver,omitempty"`
	DateDelivered  *time.Time `db:"date_delivered" json:"dateDelivered,omitempty"`
	IsDelivered    bool       `db:"is_delivered" json:"isDelivered"`
	IsPending      bool       `db:"is_pending" json:"isPending"`
	IsCancel       bool       `db:"is_cancel" json:"isCancel"`
}

// PrfListRow is the flattened header+detail row served by the list endpoints.
type PrfListRow struct {
	PrfID          string        `db:"prf_id" json:"prfId"`
	PrfNo          string        `db:"prf_no" json:"prfNo"`
	PreparedBy     string        `db:"prepared_by" json:"preparedBy"`
	PrfDate        time.Time     `db:"prf_date" json:"prfDate"`
	IsCancel       bool          `db:"is_cancel" json:"isCancel"`
	IsReject       bool          `db:"is_reject" json:"isReject"`
	ApprovedBy     *string       `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedStatus *string       `db:"approved_status" json:"approvedStatus,omitempty"`
	LineItemID     *int64        `db:"line_item_id" json:"lineItemId,omitempty"`
	StockName      *string       `db:"stock_name" json:"stockName,omitempty"`
	Quantity       *float64      `db:"quantity" json:"quantity,omitempty"`
	Unit           *string       `db:"unit" json:"unit,omitempty"`
	DateNeeded     *time.Time    `db:"date_needed" json:"dateNeeded,omitempty"`
	IsDelivered    *bool         `db:"is_delivered" json:"isDelivered,omitempty"`
	ItemStatus     *string       `db:"item_status" json:"itemStatus,omitempty"`
	Status         DerivedStatus `db:"-" json:"status"`
}
