package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"valet-board-backend/internal/live"
	"valet-board-backend/internal/model"
	"valet-board-backend/internal/sales"
	"valet-board-backend/internal/store"
)

// GetSales returns the pickup queue split into open and finished requests.
func (h *Handler) GetSales(c *gin.Context) {
	view := live.BuildSalesBoard(h.pickups.Pool().Items(), time.Now().UTC())
	c.JSON(http.StatusOK, gin.H{
		"sales":    view,
		"loadedAt": h.pickups.Pool().LoadedAt(),
	})
}

type createSalesRequest struct {
	StockNumber     string `json:"stockNumber" binding:"required"`
	SalespersonName string `json:"salespersonName" binding:"required"`
	Notes           string `json:"notes"`
}

// PostSales creates a pickup request.
func (h *Handler) PostSales(c *gin.Context) {
	var req createSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	pickup, err := h.salesDisp.Create(c.Request.Context(), identity(c), sales.Request{
		StockNumber:     req.StockNumber,
		SalespersonName: req.SalespersonName,
		Notes:           req.Notes,
	})
	if err != nil {
		h.writeSalesError(c, "create-request", err)
		return
	}

	h.pickups.ReloadOnce(c.Request.Context())
	c.JSON(http.StatusCreated, pickup)
}

type salesActionRequest struct {
	Action string `json:"action" binding:"required"`
	Driver string `json:"driver"`
	Reason string `json:"reason"`
	Note   string `json:"note"`
	Author string `json:"author"`
}

// PostSalesAction applies one workflow action to a pickup request.
func (h *Handler) PostSalesAction(c *gin.Context) {
	var req salesActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	pickup, ok := h.findPickup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "pickup not found"})
		return
	}

	action := sales.Action{
		Driver: req.Driver,
		Reason: model.CancelReason(req.Reason),
		Note:   req.Note,
		Author: req.Author,
	}
	applied, err := h.salesDisp.Dispatch(c.Request.Context(), identity(c), &pickup, req.Action, action)
	h.countAction(req.Action, applied, err)
	if err != nil {
		h.writeSalesError(c, req.Action, err)
		return
	}

	if applied {
		h.pickups.ReloadOnce(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied})
}

func (h *Handler) findPickup(id string) (model.SalesPickup, bool) {
	for _, p := range h.pickups.Pool().Items() {
		if p.ID == id {
			return p, true
		}
	}
	return model.SalesPickup{}, false
}

func (h *Handler) writeSalesError(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, sales.ErrReadOnlyRole):
		c.JSON(http.StatusForbidden, gin.H{"error": "role is read-only"})
	case errors.Is(err, sales.ErrUnknownDriver):
		c.JSON(http.StatusBadRequest, gin.H{"error": "driver not on roster"})
	case errors.Is(err, store.ErrNoRows):
		c.JSON(http.StatusConflict, gin.H{"error": "update blocked (0 rows)"})
	default:
		h.log.Error("sales action failed", "action", action, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
	}
}
