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

type approvalService interface {
	ApplyAction(ctx context.Context, prfID string, action models.Action, actorName string) (*models.PurchaseRequestForm, error)
	Reject(ctx context.Context, prfID, actorName, reason string) (*models.PurchaseRequestForm, error)
}

// ApprovalHandler exposes the stage-advancing endpoints.
type ApprovalHandler struct {
	service approvalService
}

// NewApprovalHandler constructs the handler.
func NewApprovalHandler(service approvalService) *ApprovalHandler {
	return &ApprovalHandler{service: service}
}

// Action godoc
// @Summary Advance a PRF through one approval stage
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "PRF ID"
// @Param payload body dto.ActionRequest true "Action: check, approve or receive"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /prfs/{id}/action [post]
func (h *ApprovalHandler) Action(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid action payload"))
		return
	}
	prf, err := h.service.ApplyAction(c.Request.Context(), c.Param("id"), req.Action, claims.FullName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prf, nil)
}

// Reject godoc
// @Summary Reject a PRF
// @Tags Approvals
// @Accept json
// @Produce json
// @Param id path string true "PRF ID"
// @Param payload body dto.RejectRequest false "Optional reason"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /prfs/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid reject payload"))
		return
	}
	prf, err := h.service.Reject(c.Request.Context(), c.Param("id"), claims.FullName, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, prf, nil)
}
