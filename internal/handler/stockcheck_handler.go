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

type stockCheckService interface {
	Roster() []string
	Verify(ctx context.Context, actor string, req dto.StockCheckRequest) (*models.StockCheckLog, error)
	Reject(ctx context.Context, actor string, req dto.StockCheckRequest) (*models.StockCheckLog, error)
	History(ctx context.Context, prfID string) ([]models.StockCheckLog, error)
}

// StockCheckHandler exposes warehouse stock availability endpoints.
type StockCheckHandler struct {
	service stockCheckService
}

// NewStockCheckHandler constructs the handler.
func NewStockCheckHandler(service stockCheckService) *StockCheckHandler {
	return &StockCheckHandler{service: service}
}

// Roster godoc
// @Summary List allowed stock checkers
// @Tags Stock Checks
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /stock-checkers [get]
func (h *StockCheckHandler) Roster(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Roster(), nil)
}

// Verify godoc
// @Summary Record that a stock line is available
// @Tags Stock Checks
// @Accept json
// @Produce json
// @Param payload body dto.StockCheckRequest true "Stock check payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /stock-checks/verify [post]
func (h *StockCheckHandler) Verify(c *gin.Context) {
	h.record(c, h.service.Verify)
}

// Reject godoc
// @Summary Record that a stock line is not available
// @Tags Stock Checks
// @Accept json
// @Produce json
// @Param payload body dto.StockCheckRequest true "Stock check payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /stock-checks/reject [post]
func (h *StockCheckHandler) Reject(c *gin.Context) {
	h.record(c, h.service.Reject)
}

func (h *StockCheckHandler) record(c *gin.Context, op func(ctx context.Context, actor string, req dto.StockCheckRequest) (*models.StockCheckLog, error)) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.StockCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid stock check payload"))
		return
	}
	log, err := op(c.Request.Context(), claims.FullName, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, log, nil)
}

// History godoc
// @Summary List stock check decisions for one PRF
// @Tags Stock Checks
// @Produce json
// @Param id path string true "PRF ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /prfs/{id}/stock-checks [get]
func (h *StockCheckHandler) History(c *gin.Context) {
	logs, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
