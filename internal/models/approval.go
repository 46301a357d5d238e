package models

import "time"

// ApplicTypePRF is the application type used for purchase request assignments.
const ApplicTypePRF = "PRF"

// AssignedApproval is the per-submitter approval chain configuration row.
// Every PRF the same submitter creates shares this chain unless re-populated.
type AssignedApproval struct {
	ID                   int64     `db:"id" json:"id"`
	UserID               int64     `db:"user_id" json:"userId"`
	ApplicType           string    `db:"applic_type" json:"applicType"`
	AssignedAt           time.Time `db:"assigned_at" json:"assignedAt"`
	CheckedByID          *string   `db:"checked_by_id" json:"checkedById,omitempty"`
	CheckedByEmail       *string   `db:"checked_by_email" json:"checkedByEmail,omitempty"`
	SecondCheckedByID    *string   `db:"second_checked_by_id" json:"secondCheckedById,omitempty"`
	SecondCheckedByEmail *string   `db:"second_checked_by_email" json:"secondCheckedByEmail,omitempty"`
	ApprovedByID         *string   `db:"approved_by_id" json:"approvedById,omitempty"`
	ApprovedByEmail      *string   `db:"approved_by_email" json:"approvedByEmail,omitempty"`
	ReceivedByID         *string   `db:"received_by_id" json:"receivedById,omitempty"`
	ReceivedByEmail      *string   `db:"received_by_email" json:"receivedByEmail,omitempty"`
}

// HasSecondChecker reports whether the submitter's chain routes through a
// second checker before approval.
func (a *AssignedApproval) HasSecondChecker() bool {
	return a.SecondCheckedByID != nil && *a.SecondCheckedByID != ""
}

// Approver is a resolved chain slot: a person with a stable id and contact email.
type Approver struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// ApprovalChain is the fully resolved chain for one submitter. Nil slots mean
// the role is unassigned or unresolvable; notifications for them are skipped.
type ApprovalChain struct {
	UserID          int64     `json:"userId"`
	CheckedBy       *Approver `json:"checkedBy,omitempty"`
	SecondCheckedBy *Approver `json:"secondCheckedBy,omitempty"`
	ApprovedBy      *Approver `json:"approvedBy,omitempty"`
	ReceivedBy      *Approver `json:"receivedBy,omitempty"`
}

// Employee is a row from the active-employee directory.
type Employee struct {
	ID       string  `db:"id" json:"id"`
	FullName string  `db:"full_name" json:"fullName"`
	Email    *string `db:"email" json:"email,omitempty"`
	Active   bool    `db:"active" json:"active"`
}

// HeadUser is the fallback directory for approver roles that are not regular
// employees (department heads, executives).
type HeadUser struct {
	ID       string  `db:"id" json:"id"`
	FullName string  `db:"full_name" json:"fullName"`
	Email    *string `db:"email" json:"email,omitempty"`
}
