package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"valet-board-backend/internal/auth"
	"valet-board-backend/internal/board"
	"valet-board-backend/internal/live"
	"valet-board-backend/internal/model"
	"valet-board-backend/internal/sales"
	"valet-board-backend/internal/store"
	"valet-board-backend/pkg/logger"
	"valet-board-backend/pkg/metrics"
)

// Handler holds shared dependencies for API handlers. Reads are served from
// the live pools; mutations go through the dispatchers.
type Handler struct {
	store        store.Store
	tickets      *live.Service[model.Ticket]
	pickups      *live.Service[model.SalesPickup]
	boardDisp    *board.Dispatcher
	salesDisp    *sales.Dispatcher
	resolver     auth.Resolver
	webpush      *webpush.Options
	defaultStore string
	completedCap int
	log          logger.Logger
	metrics      *metrics.Metrics
}

// HandlerDeps bundles the collaborators a Handler needs.
type HandlerDeps struct {
	Store        store.Store
	Tickets      *live.Service[model.Ticket]
	Pickups      *live.Service[model.SalesPickup]
	Board        *board.Dispatcher
	Sales        *sales.Dispatcher
	Resolver     auth.Resolver
	WebPush      *webpush.Options
	DefaultStore string
	CompletedCap int
	Log          logger.Logger
	Metrics      *metrics.Metrics
}

// NewHandler creates a new API handler.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		store:        deps.Store,
		tickets:      deps.Tickets,
		pickups:      deps.Pickups,
		boardDisp:    deps.Board,
		salesDisp:    deps.Sales,
		resolver:     deps.Resolver,
		webpush:      deps.WebPush,
		defaultStore: deps.DefaultStore,
		completedCap: deps.CompletedCap,
		log:          deps.Log,
		metrics:      deps.Metrics,
	}
}
