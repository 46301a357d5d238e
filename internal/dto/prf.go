package dto

import (
	"time"

	"github.com/nutratech/prf-api/internal/models"
)

// SubmitLineItem is one requested stock line of a submission.
type SubmitLineItem struct {
	StockCode   string     `json:"stockCode" binding:"required" validate:"required"`
	StockName   string     `json:"stockName" binding:"required" validate:"required"`
	Quantity    float64    `json:"quantity" binding:"required,gt=0" validate:"required,gt=0"`
	Unit        string     `json:"unit" binding:"required" validate:"required"`
	DateNeeded  *time.Time `json:"dateNeeded"`
	Purpose     *string    `json:"purpose"`
	Description *string    `json:"description"`
}

// SubmitPrfRequest is the payload accepted by the submit endpoint.
type SubmitPrfRequest struct {
	PrfNo            string           `json:"prfNo" binding:"required" validate:"required"`
	PrfDate          time.Time        `json:"prfDate" binding:"required" validate:"required"`
	DepartmentID     *string          `json:"departmentId"`
	DepartmentCharge *string          `json:"departmentCharge"`
	DepartmentType   *string          `json:"departmentType"`
	Items            []SubmitLineItem `json:"items" binding:"required,min=1,dive" validate:"required,min=1,dive"`
}

// SubmitPrfResponse reports the stored header id. Duplicate indicates the
// PRF number already existed and the stored form was returned unchanged.
type SubmitPrfResponse struct {
	ID        string `json:"id"`
	PrfNo     string `json:"prfNo"`
	Duplicate bool   `json:"duplicate"`
}

// PrfDetail is a header with its stock lines and the computed display status.
type PrfDetail struct {
	models.PurchaseRequestForm
	Status models.DerivedStatus `json:"status"`
	Items  []models.PrfLineItem `json:"items"`
}

// ActionRequest advances a PRF through one approval stage.
type ActionRequest struct {
	Action models.Action `json:"action" binding:"required"`
}

// RejectRequest rejects a PRF with an optional reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// UpdateItemsRequest replaces or extends the stock lines of a same-day PRF.
type UpdateItemsRequest struct {
	Items []SubmitLineItem `json:"items" binding:"required,min=1,dive"`
}

// ReceiveItemRequest marks one stock line delivered.
type ReceiveItemRequest struct {
	PartialDeliver *string `json:"partialDeliver"`
}

// RemarksRequest replaces the free-text remarks of one stock line.
type RemarksRequest struct {
	Remarks string `json:"remarks" binding:"required"`
}

// PrfListQuery mirrors the supported list filters.
type PrfListQuery struct {
	PrfNo      string `form:"prfNo"`
	PreparedBy string `form:"preparedBy"`
	DateFrom   string `form:"dateFrom"`
	DateTo     string `form:"dateTo"`
	Page       int    `form:"page"`
	PageSize   int    `form:"pageSize"`
}
