package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nutratech/prf-api/internal/dto"
	"github.com/nutratech/prf-api/internal/models"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
	"github.com/nutratech/prf-api/pkg/response"
)

type prfService interface {
	Submit(ctx context.Context, user *models.User, req dto.SubmitPrfRequest) (*dto.SubmitPrfResponse, error)
	Get(ctx context.Context, prfID string) (*dto.PrfDetail, error)
	List(ctx context.Context, query dto.PrfListQuery) ([]models.PrfListRow, *models.Pagination, error)
	ListMine(ctx context.Context, userID int64, query dto.PrfListQuery) ([]models.PrfListRow, *models.Pagination, error)
	ReceiveItem(ctx context.Context, itemID int64, req dto.ReceiveItemRequest) (*models.PrfLineItem, error)
	UpdateItemRemarks(ctx context.Context, itemID int64, remarks string) (*models.PrfLineItem, error)
	ExportPDF(ctx context.Context, prfID string) ([]byte, string, error)
}

type userResolver interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// PrfHandler exposes REST endpoints for purchase request forms.
type PrfHandler struct {
	service prfService
	users   userResolver
}

// NewPrfHandler constructs the handler.
func NewPrfHandler(service prfService, users userResolver) *PrfHandler {
	return &PrfHandler{service: service, users: users}
}

// Submit godoc
// @Summary Submit a purchase request form
// @Tags PRF
// @Accept json
// @Produce json
// @Param payload body dto.SubmitPrfRequest true "PRF payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /prfs [post]
func (h *PrfHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitPrfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid purchase request payload"))
		return
	}
	user, err := h.users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists"))
		return
	}
	result, err := h.service.Submit(c.Request.Context(), user, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	response.JSON(c, status, result, nil)
}

// List godoc
// @Summary List purchase request forms
// @Tags PRF
// @Produce json
// @Param prfNo query string false "Exact PRF number"
// @Param preparedBy query string false "Submitter name fragment"
// @Param dateFrom query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param dateTo query string false "Inclusive upper bound (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /prfs [get]
func (h *PrfHandler) List(c *gin.Context) {
	var query dto.PrfListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid list query"))
		return
	}
	rows, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// ListMine godoc
// @Summary List the caller's purchase request forms
// @Tags PRF
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /prfs/mine [get]
func (h *PrfHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.PrfListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid list query"))
		return
	}
	rows, pagination, err := h.service.ListMine(c.Request.Context(), claims.UserID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, pagination)
}

// Get godoc
// @Summary Get one purchase request form
// @Tags PRF
// @Produce json
// @Param id path string true "PRF ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /prfs/{id} [get]
func (h *PrfHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Export godoc
// @Summary Download a printable PDF of one purchase request form
// @Tags PRF
// @Produce application/pdf
// @Param id path string true "PRF ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /prfs/{id}/export [get]
func (h *PrfHandler) Export(c *gin.Context) {
	payload, filename, err := h.service.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", payload)
}

// ReceiveItem godoc
// @Summary Mark one stock line delivered
// @Tags PRF Items
// @Accept json
// @Produce json
// @Param id path int true "Line item ID"
// @Param payload body dto.ReceiveItemRequest false "Delivery details"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /prf-items/{id}/received [patch]
func (h *PrfHandler) ReceiveItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid item id"))
		return
	}
	var req dto.ReceiveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid delivery payload"))
		return
	}
	item, err := h.service.ReceiveItem(c.Request.Context(), itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// UpdateRemarks godoc
// @Summary Replace the remarks of one stock line
// @Tags PRF Items
// @Accept json
// @Produce json
// @Param id path int true "Line item ID"
// @Param payload body dto.RemarksRequest true "Remarks"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /prf-items/{id}/remarks [patch]
func (h *PrfHandler) UpdateRemarks(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid item id"))
		return
	}
	var req dto.RemarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid remarks payload"))
		return
	}
	item, err := h.service.UpdateItemRemarks(c.Request.Context(), itemID, req.Remarks)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}
