package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves the general ledger projection.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterLedgerRoutes registers balance and projection maintenance routes under a period.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService}

	period := rg.Group("/periods/:id")
	{
		period.GET("/balances", h.listBalances)
		period.GET("/balances/:account_id", h.getBalance)
		period.POST("/projection/rebuild", h.rebuild)
		period.GET("/projection/verify", h.verify)
	}
}

// listBalances godoc
// @Summary List period balances
// @Description Returns every general ledger row of the period, ordered by account
// @Tags ledger
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Period ID"
// @Success 200 {array} dto.BalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Period not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/periods/{id}/balances [get]
func (h *ledgerHandler) listBalances(c *gin.Context) {
	rows, err := h.ledgerService.ListBalances(c.Request.Context(), c.Param("workplace_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBalanceResponse(rows))
}

// getBalance godoc
// @Summary Get an account balance
// @Description Accounts without postings in the period report zero totals
// @Tags ledger
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Period ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} dto.ErrorResponse "Account or period not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/periods/{id}/balances/{account_id} [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	row, err := h.ledgerService.GetBalance(c.Request.Context(), c.Param("workplace_id"), c.Param("account_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(row))
}

// rebuild godoc
// @Summary Rebuild the period projection
// @Description Recomputes the period from posted lines. With async=true the rebuild is queued.
// @Tags ledger
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Period ID"
// @Param   async query bool false "Queue instead of running inline"
// @Success 200 {object} dto.RebuildProjectionResponse
// @Success 202 {object} dto.RebuildProjectionResponse
// @Failure 404 {object} dto.ErrorResponse "Period not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/periods/{id}/projection/rebuild [post]
func (h *ledgerHandler) rebuild(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workplaceID, periodID := c.Param("workplace_id"), c.Param("id")

	var params dto.RebuildProjectionParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "query parameters", err)
		return
	}

	if params.Async {
		resp, err := h.ledgerService.EnqueueRebuild(c.Request.Context(), workplaceID, periodID, actorID(c))
		if err != nil {
			respondError(c, err, "Failed to queue projection rebuild")
			return
		}
		logger.Info("Projection rebuild queued", slog.String("period_id", periodID), slog.String("task_id", resp.QueuedTaskID))
		c.JSON(http.StatusAccepted, resp)
		return
	}

	resp, err := h.ledgerService.Rebuild(c.Request.Context(), workplaceID, periodID, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to rebuild projection")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// verify godoc
// @Summary Verify the period projection
// @Description Recomputes the period without writing and reports rows that differ
// @Tags ledger
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.VerifyProjectionResponse
// @Failure 404 {object} dto.ErrorResponse "Period not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/periods/{id}/projection/verify [get]
func (h *ledgerHandler) verify(c *gin.Context) {
	resp, err := h.ledgerService.Verify(c.Request.Context(), c.Param("workplace_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to verify projection")
		return
	}
	c.JSON(http.StatusOK, resp)
}
