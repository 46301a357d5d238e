package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutratech/prf-api/internal/dto"
	"github.com/nutratech/prf-api/internal/models"
	appErrors "github.com/nutratech/prf-api/pkg/errors"
	"github.com/nutratech/prf-api/pkg/response"
)

type cancellationService interface {
	Cancel(ctx context.Context, prfID string) (*models.PurchaseRequestForm, error)
	Uncancel(ctx context.Context, prfID string) (*models.PurchaseRequestForm, error)
	UpdateLineItems(ctx context.Context, prfID string, items []dto.SubmitLineItem) ([]models.PrfLineItem, error)
}

// CancellationHandler exposes the same-day cancel, restore and edit endpoints.
type CancellationHandler struct {
	service cancellationService
}

// NewCancellationHandler constructs the handler.
func NewCancellationHandler(service cancellationService) *CancellationHandler {
	return &CancellationHandler{service: service}
}

// Cancel godoc
// @Summary Cancel a PRF on its submission day
// @Tags Cancellation
// @Produce json
// @Param id path string true "PRF ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /prfs/{id}/cancel [post]
func (h *CancellationHandler) Cancel(c *gin.Context) {
	prf, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prf, nil)
}

// Uncancel godoc
// @Summary Restore a cancelled PRF on its submission day
// @Tags Cancellation
// @Produce json
// @Param id path string true "PRF ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /prfs/{id}/uncancel [post]
func (h *CancellationHandler) Uncancel(c *gin.Context) {
	prf, err := h.service.Uncancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prf, nil)
}

// UpdateItems godoc
// @Summary Edit the stock lines of a same-day PRF
// @Tags Cancellation
// @Accept json
// @Produce json
// @Param id path string true "PRF ID"
// @Param payload body dto.UpdateItemsRequest true "Replacement items"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /prfs/{id}/items [put]
func (h *CancellationHandler) UpdateItems(c *gin.Context) {
	var req dto.UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid items payload"))
		return
	}
	items, err := h.service.UpdateLineItems(c.Request.Context(), c.Param("id"), req.Items)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}
