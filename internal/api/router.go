package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"valet-board-backend/internal/mw"
)

// RouterOptions are the transport knobs from configuration.
type RouterOptions struct {
	RateLimit float64
	RateBurst int
	CacheTTL  time.Duration
	IPHeader  string
}

// NewRouter creates and configures the gin router.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimit), opts.RateBurst, opts.IPHeader)

	cacheStore := cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	caching := mw.Cache(cacheStore, opts.CacheTTL)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter, h.Identify())
	{
		api.GET("/board", caching, h.GetBoard)
		api.POST("/tickets", h.PostTicket)
		api.POST("/tickets/:id/actions", h.PostTicketAction)

		api.GET("/sales", caching, h.GetSales)
		api.POST("/sales", h.PostSales)
		api.POST("/sales/:id/actions", h.PostSalesAction)

		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	return r
}
