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

// journalHandler handles the draft, post and reverse lifecycle of journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// RegisterJournalRoutes registers journal entry routes.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createDraft)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.PUT("/:id", h.updateDraft)
		entries.DELETE("/:id", h.deleteDraft)
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/reverse", h.reverseEntry)
	}
}

// createDraft godoc
// @Summary Create a draft journal entry
// @Description Drafts are validated line by line; balance is checked on post
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   entry body dto.CreateJournalEntryRequest true "Entry header and lines"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Period or account not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate reference"
// @Failure 422 {object} dto.ErrorResponse "Invalid line, inactive account or closed period"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/journal-entries [post]
func (h *journalHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workplaceID := c.Param("workplace_id")

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "journal entry", err)
		return
	}

	logger.Info("Received request to create draft entry",
		slog.String("workplace_id", workplaceID),
		slog.String("period_id", req.PeriodID),
		slog.Int("lines", len(req.Lines)))

	entry, err := h.journalService.CreateDraft(c.Request.Context(), workplaceID, req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to create journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries newest first with keyset pagination
// @Tags journal-entries
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   periodID query string false "Period filter"
// @Param   status query string false "Status filter" Enums(DRAFT, POSTED, REVERSED)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "query parameters", err)
		return
	}

	resp, err := h.journalService.ListEntries(c.Request.Context(), c.Param("workplace_id"), params)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags journal-entries
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("workplace_id"), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// updateDraft godoc
// @Summary Update a draft journal entry
// @Description Replaces the lines of a draft and optionally its date and description
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "New lines"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 422 {object} dto.ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/journal-entries/{id} [put]
func (h *journalHandler) updateDraft(c *gin.Context) {
	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "journal entry update", err)
		return
	}

	entry, err := h.journalService.UpdateDraft(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to update journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// deleteDraft godoc
// @Summary Delete a draft journal entry
// @Tags journal-entries
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 422 {object} dto.ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/journal-entries/{id} [delete]
func (h *journalHandler) deleteDraft(c *gin.Context) {
	if err := h.journalService.DeleteDraft(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), actorID(c)); err != nil {
		respondError(c, err, "Failed to delete journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Posts a balanced draft and updates the general ledger in the same transaction
// @Tags journal-entries
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent update, retry"
// @Failure 422 {object} dto.ErrorResponse "Not balanced, closed period or not a draft"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/journal-entries/{id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.journalService.Post(c.Request.Context(), c.Param("workplace_id"), entryID, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}
	logger.Info("Journal entry posted", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Posts a new entry with every line swapped. The body is optional.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   workplace_id path string true "Workplace ID"
// @Param   id path string true "Entry ID"
// @Param   reversal body dto.ReverseJournalEntryRequest false "Reversal date"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Already reversed"
// @Failure 422 {object} dto.ErrorResponse "Entry not posted or closed period"
// @Security BearerAuth
// @Router /workplaces/{workplace_id}/journal-entries/{id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	var req dto.ReverseJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "reversal request", err)
		return
	}

	reversal, err := h.journalService.Reverse(c.Request.Context(), c.Param("workplace_id"), c.Param("id"), req, actorID(c))
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
