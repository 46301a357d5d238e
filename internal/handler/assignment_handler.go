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

type assignmentService interface {
	Populate(ctx context.Context, req dto.PopulateAssignmentRequest) (*models.AssignedApproval, error)
	Get(ctx context.Context, userID int64) (*models.AssignedApproval, error)
	ResolveChain(ctx context.Context, userID int64) (*models.ApprovalChain, error)
	List(ctx context.Context) ([]models.AssignedApproval, error)
}

// AssignmentHandler exposes approval chain configuration endpoints.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// Populate godoc
// @Summary Configure a submitter's approval chain by approver names
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.PopulateAssignmentRequest true "Chain payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /approvals/populate [post]
func (h *AssignmentHandler) Populate(c *gin.Context) {
	var req dto.PopulateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid assignment payload"))
		return
	}
	assignment, err := h.service.Populate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Get godoc
// @Summary Get the resolved approval chain of one submitter
// @Tags Assignments
// @Produce json
// @Param userId path int true "Submitter user ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /approvals/{userId} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid user id"))
		return
	}
	chain, err := h.service.ResolveChain(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chain, nil)
}

// List godoc
// @Summary List configured approval chains
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /approvals [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	assignments, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}
