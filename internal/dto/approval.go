package dto

// PopulateAssignmentRequest configures a submitter's approval chain by name.
// Names are resolved against the employee directory with a head-user
// fallback; a name that resolves nowhere leaves the slot empty.
type PopulateAssignmentRequest struct {
	UserID              int64   `json:"userId" binding:"required"`
	CheckedByName       *string `json:"checkedByName"`
	SecondCheckedByName *string `json:"secondCheckedByName"`
	ApprovedByName      *string `json:"approvedByName"`
	ReceivedByName      *string `json:"receivedByName"`
}

// StockCheckRequest records a stock availability decision for one line.
type StockCheckRequest struct {
	PrfID           string  `json:"prfId" binding:"required"`
	StockCode       string  `json:"stockCode" binding:"required"`
	StockName       string  `json:"stockName" binding:"required"`
	NotedBy         *string `json:"notedBy"`
	RejectionReason *string `json:"rejectionReason"`
}
