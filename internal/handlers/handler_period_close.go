package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodCloseHandler drives the period close workflow.
type periodCloseHandler struct {
	closeService portssvc.PeriodCloseSvcFacade
}

// RegisterPeriodCloseRoutes registers period close routes.
func RegisterPeriodCloseRoutes(rg *gin.RouterGroup, closeService portssvc.PeriodCloseSvcFacade) {
	h := &periodCloseHandler{closeService: closeService}

	rg.POST("/periods/:id/closes", h.startClose)
	rg.GET("/periods/:id/close", h.getCloseForPeriod)

	closes := rg.Group("/closes")
	{
		closes.GET("/:id", h.getClose)
		closes.POST("/:id/tasks/:task/complete", h.completeTask)
		closes.POST("/:id/issues", h.reportIssue)
		closes.POST("/:id/issues/:issue_id/resolve", h.resolveIssue)
		closes.POST("/:id/trial-balance", h.attachTrialBalance)
		closes.POST("/:id/net-income-transfer", h.transferNetIncome)
		closes.POST("/:id/complete", h.complete)
		closes.POST("/:id/reopen", h.reopen)
		closes.POST("/:id/resume", h.resume)
	}
}

// startClose godoc
// @Summary Start a period close
// @Description Seeds the checklist for the close type, which must match the period type
// @Tags closes
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Period ID"
// @Param   close body dto.StartCloseRequest true "Close type"
// @Success 201 {object} dto.PeriodCloseResponse
// @Failure 404 {object} dto.ErrorResponse "Period not found"
// @Failure 409 {object} dto.ErrorResponse "Another close is active"
// @Failure 422 {object} dto.ErrorResponse "Close type mismatch or period closed"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/periods/{id}/closes [post]
func (h *periodCloseHandler) startClose(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workplaceID, periodID := c.Param("workplace_id"), c.Param("id")

	var req dto.StartCloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "close request", err)
		return
	}

	logger.Info("Received request to start close", slog.String("period_id", periodID), slog.String("close_type", string(req.CloseType)))
	pc, err := h.closeService.StartClose(c.Request.Context(), workplaceID, periodID, req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to start period close")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodCloseResponse(pc))
}

// getCloseForPeriod godoc
// @Summary Get the latest close of a period
// @Tags closes
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodCloseResponse
// @Failure 404 {object} dto.ErrorResponse "No close"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/periods/{id}/close [get]
func (h *periodCloseHandler) getCloseForPeriod(c *gin.Context) {
	pc, err := h.closeService.GetCloseForPeriod(c.Request.Context(), c.Param("workplace_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve period close")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodCloseResponse(pc))
}

// getClose godoc
// @Summary Get a period close
// @Tags closes
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Close ID"
// @Success 200 {object} dto.PeriodCloseResponse
// @Failure 404 {object} dto.ErrorResponse "Close not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/closes/{id} [get]
func (h *periodCloseHandler) getClose(c *gin.Context) {
	pc, err := h.closeService.GetClose(c.Request.Context(), c.Param("workplace_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve period close")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodCloseResponse(pc))
}

// completeTask godoc
// @Summary Complete a checklist task
// @Tags closes
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Close ID"
// @Param   task path string true "Task name"
// @Success 200 {object} dto.PeriodCloseResponse
// @Failure 422 {object} dto.ErrorResponse "Unknown or automatic task"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/closes/{id}/tasks/{task}/complete [post]
func (h *periodCloseHandler) completeTask(c *gin.Context) {
	pc, err := h.closeService.CompleteTask(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), c.Param("task"), actorID(c))
	if err != nil {
		respondError(c, err, "Failed to complete task")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodCloseResponse(pc))
}

// reportIssue godoc
// @Summary Report a validation issue
// @Tags closes
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Close ID"
// @Param   issue body dto.ReportIssueRequest true "Issue"
// @Success 201 {object} dto.PeriodCloseResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/closes/{id}/issues [post]
func (h *periodCloseHandler) reportIssue(c *gin.Context) {
	var req dto.ReportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "issue", err)
		return
	}

	pc, err := h.closeService.ReportValidationIssue(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to report validation issue")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodCloseResponse(pc))
}

// resolveIssue godoc
// @Summary Resolve a validation issue
// @Tags closes
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Close ID"
// @Param   issue_id path string true "Issue ID"
// @Success 200 {object} dto.PeriodCloseResponse
// @Failure 422 {object} dto.ErrorResponse "Issue not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/closes/{id}/issues/{issue_id}/resolve [post]
func (h *periodCloseHandler) resolveIssue(c *gin.Context) {
	pc, err := h.closeService.ResolveValidationIssue(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), c.Param("issue_id"), actorID(c))
	if err != nil {
		respondError(c, err, "Failed to resolve validation issue")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodCloseResponse(pc))
}

// attachTrialBalance godoc
// @Summary Attach the latest finalized trial balance
// @Tags closes
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Close ID"
// @Success 200 {object} dto.PeriodCloseResponse
// @Failure 412 {object} dto.ErrorResponse "No finalized trial balance"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/closes/{id}/trial-balance [post]
func (h *periodCloseHandler) attachTrialBalance(c *gin.Context) {
	pc, err := h.closeService.AttachTrialBalance(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), actorID(c))
	if err != nil {
		respondError(c, err, "Failed to attach trial balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodCloseResponse(pc))
}

// transferNetIncome godoc
// @Summary Transfer net income to retained earnings
// @Description Year-end only. Posts the closing entry and finalizes the post-closing trial balance.
// @Tags closes
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Close ID"
// @Param   transfer body dto.TransferNetIncomeRequest false "Retained earnings override"
// @Success 200 {object} dto.PeriodCloseResponse
// @Failure 409 {object} dto.ErrorResponse "Already transferred"
// @Failure 412 {object} dto.ErrorResponse "Trial balance not finalized or stale"
// @Failure 422 {object} dto.ErrorResponse "Not a year-end close"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/closes/{id}/net-income-transfer [post]
func (h *periodCloseHandler) transferNetIncome(c *gin.Context) {
	var req dto.TransferNetIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "transfer request", err)
		return
	}

	pc, err := h.closeService.TransferNetIncome(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to transfer net income")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodCloseResponse(pc))
}

// complete godoc
// @Summary Complete a period close
// @Description Closes the period once every precondition holds
// @Tags closes
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Close ID"
// @Success 200 {object} dto.PeriodCloseResponse
// @Failure 412 {object} dto.ErrorResponse "Pending tasks, critical issues or trial balance problems"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/closes/{id}/complete [post]
func (h *periodCloseHandler) complete(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	closeID := c.Param("id")

	pc, err := h.closeService.Complete(c.Request.Context(), c.Param("workplace_id"), closeID, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to complete period close")
		return
	}
	logger.Info("Period close completed", slog.String("close_id", closeID), slog.String("period_id", pc.PeriodID))
	c.JSON(http.StatusOK, dto.ToPeriodCloseResponse(pc))
}

// reopen godoc
// @Summary Reopen a completed close
// @Description Reopens the period so corrections can be posted
// @Tags closes
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Close ID"
// @Success 200 {object} dto.PeriodCloseResponse
// @Failure 422 {object} dto.ErrorResponse "Close is not completed"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/closes/{id}/reopen [post]
func (h *periodCloseHandler) reopen(c *gin.Context) {
	pc, err := h.closeService.Reopen(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), actorID(c))
	if err != nil {
		respondError(c, err, "Failed to reopen period close")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodCloseResponse(pc))
}

// resume godoc
// @Summary Resume a reopened close
// @Description Restarts the checklist of a reopened close
// @Tags closes
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Close ID"
// @Success 200 {object} dto.PeriodCloseResponse
// @Failure 409 {object} dto.ErrorResponse "Another close is active"
// @Failure 422 {object} dto.ErrorResponse "Close is not reopened"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/closes/{id}/resume [post]
func (h *periodCloseHandler) resume(c *gin.Context) {
	pc, err := h.closeService.Resume(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), actorID(c))
	if err != nil {
		respondError(c, err, "Failed to resume period close")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodCloseResponse(pc))
}
