package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"valet-board-backend/internal/board"
	"valet-board-backend/internal/live"
	"valet-board-backend/internal/model"
	"valet-board-backend/internal/store"
)

// GetBoard returns the categorized ticket view with computed durations and
// severities. Served from the live pool; no backend round trip.
func (h *Handler) GetBoard(c *gin.Context) {
	view := live.BuildBoard(h.tickets.Pool().Items(), time.Now().UTC(), h.completedCap)
	c.JSON(http.StatusOK, gin.H{
		"board":    view,
		"loadedAt": h.tickets.Pool().LoadedAt(),
	})
}

type createTicketRequest struct {
	TagNumber    string `json:"tagNumber" binding:"required"`
	CustomerName string `json:"customerName" binding:"required"`
	Staged       bool   `json:"staged"`
}

// PostTicket creates a ticket, optionally staged ahead of the active phase.
func (h *Handler) PostTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ticket, err := h.boardDisp.Create(c.Request.Context(), identity(c), req.TagNumber, req.CustomerName, req.Staged)
	if err != nil {
		h.writeActionError(c, "create", err)
		return
	}

	h.tickets.ReloadOnce(c.Request.Context())
	c.JSON(http.StatusCreated, ticket)
}

type ticketActionRequest struct {
	Action string `json:"action" binding:"required"`
	Note   string `json:"note"`
}

// PostTicketAction applies one board action to a ticket.
func (h *Handler) PostTicketAction(c *gin.Context) {
	var req ticketActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ticket, ok := h.findTicket(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}

	applied, err := h.boardDisp.Dispatch(c.Request.Context(), identity(c), &ticket, req.Action, req.Note)
	h.countAction(req.Action, applied, err)
	if err != nil {
		h.writeActionError(c, req.Action, err)
		return
	}

	if applied {
		h.tickets.ReloadOnce(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied})
}

// findTicket scans the current pool snapshot.
func (h *Handler) findTicket(id string) (model.Ticket, bool) {
	for _, t := range h.tickets.Pool().Items() {
		if t.ID == id {
			return t, true
		}
	}
	return model.Ticket{}, false
}

func (h *Handler) countAction(action string, applied bool, err error) {
	if h.metrics == nil {
		return
	}
	outcome := "noop"
	switch {
	case err != nil:
		outcome = "error"
	case applied:
		outcome = "applied"
	}
	h.metrics.ActionsTotal.WithLabelValues(action, outcome).Inc()
}

// writeActionError maps dispatcher failures onto distinct responses. A zero-
// row update is not a backend failure and gets its own message so operators
// can tell the two apart.
func (h *Handler) writeActionError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, board.ErrReadOnlyRole):
		c.JSON(http.StatusForbidden, gin.H{"error": "role is read-only"})
	case errors.Is(err, board.ErrUnknownValet):
		c.JSON(http.StatusBadRequest, gin.H{"error": "valet not on roster"})
	case errors.Is(err, store.ErrNoRows):
		c.JSON(http.StatusConflict, gin.H{"error": "update blocked (0 rows)"})
	default:
		h.log.Error("action failed", "action", action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
	}
}
