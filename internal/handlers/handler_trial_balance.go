package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type trialBalanceHandler struct {
	trialBalanceService portssvc.TrialBalanceSvcFacade
}

// RegisterTrialBalanceRoutes registers trial balance routes.
func RegisterTrialBalanceRoutes(rg *gin.RouterGroup, trialBalanceService portssvc.TrialBalanceSvcFacade) {
	h := &trialBalanceHandler{trialBalanceService: trialBalanceService}

	rg.POST("/periods/:id/trial-balances", h.build)
	rg.GET("/periods/:id/trial-balances/latest", h.getLatest)

	tbs := rg.Group("/trial-balances")
	{
		tbs.GET("/:id", h.get)
		tbs.POST("/:id/finalize", h.finalize)
		tbs.POST("/:id/reopen", h.reopen)
	}
}

// build godoc
// @Summary Build a trial balance
// @Description Snapshots the period projection. Earlier draft snapshots are discarded.
// @Tags trial-balances
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Period ID"
// @Success 201 {object} dto.TrialBalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Period not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/periods/{id}/trial-balances [post]
func (h *trialBalanceHandler) build(c *gin.Context) {
	tb, err := h.trialBalanceService.Build(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), actorID(c))
	if err != nil {
		respondError(c, err, "Failed to build trial balance")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTrialBalanceResponse(tb))
}

// getLatest godoc
// @Summary Get the latest trial balance of a period
// @Tags trial-balances
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 404 {object} dto.ErrorResponse "No trial balance"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/periods/{id}/trial-balances/latest [get]
func (h *trialBalanceHandler) getLatest(c *gin.Context) {
	tb, err := h.trialBalanceService.GetLatestTrialBalance(c.Request.Context(), c.Param("workplace_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// get godoc
// @Summary Get a trial balance
// @Tags trial-balances
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Trial balance ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Trial balance not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/trial-balances/{id} [get]
func (h *trialBalanceHandler) get(c *gin.Context) {
	tb, err := h.trialBalanceService.GetTrialBalance(c.Request.Context(), c.Param("workplace_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// finalize godoc
// @Summary Finalize a trial balance
// @Description Locks a balanced snapshot whose accounting equation holds
// @Tags trial-balances
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Trial balance ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Trial balance not found"
// @Failure 422 {object} dto.ErrorResponse "Not balanced, equation mismatch or already finalized"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/trial-balances/{id}/finalize [post]
func (h *trialBalanceHandler) finalize(c *gin.Context) {
	tb, err := h.trialBalanceService.Finalize(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), actorID(c))
	if err != nil {
		respondError(c, err, "Failed to finalize trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}

// reopen godoc
// @Summary Reopen a finalized trial balance
// @Tags trial-balances
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Trial balance ID"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Trial balance not found"
// @Failure 422 {object} dto.ErrorResponse "Draft snapshot or closed period"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/trial-balances/{id}/reopen [post]
func (h *trialBalanceHandler) reopen(c *gin.Context) {
	tb, err := h.trialBalanceService.Reopen(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), actorID(c))
	if err != nil {
		respondError(c, err, "Failed to reopen trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}
