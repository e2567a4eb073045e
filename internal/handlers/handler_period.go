package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

// RegisterPeriodRoutes registers accounting calendar routes.
func RegisterPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := &periodHandler{periodService: periodService}

	periods := rg.Group("/periods")
	{
		periods.POST("", h.openPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:id", h.getPeriod)
	}
}

// openPeriod godoc
// @Summary Open an accounting period
// @Description Opens a Month, Quarter or Year period. Periods of one type may not overlap.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   period body dto.OpenPeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 409 {object} dto.ErrorResponse "Overlapping period"
// @Failure 422 {object} dto.ErrorResponse "Invalid date range"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/periods [post]
func (h *periodHandler) openPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workplaceID := c.Param("workplace_id")

	var req dto.OpenPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "period request", err)
		return
	}

	logger.Info("Received request to open period", slog.String("workplace_id", workplaceID), slog.String("name", req.Name))
	p, err := h.periodService.OpenPeriod(c.Request.Context(), workplaceID, req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to open period")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(p))
}

// listPeriods godoc
// @Summary List accounting periods
// @Tags periods
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   fiscalYear query int false "Fiscal year"
// @Success 200 {array} dto.PeriodResponse
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	var params dto.ListPeriodsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "query parameters", err)
		return
	}

	periods, err := h.periodService.ListPeriods(c.Request.Context(), c.Param("workplace_id"), params)
	if err != nil {
		respondError(c, err, "Failed to list periods")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPeriodResponse(periods))
}

// getPeriod godoc
// @Summary Get an accounting period
// @Tags periods
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse
// @Failure 404 {object} dto.ErrorResponse "Period not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/periods/{id} [get]
func (h *periodHandler) getPeriod(c *gin.Context) {
	p, err := h.periodService.GetPeriod(c.Request.Context(), c.Param("workplace_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve period")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodResponse(p))
}
