package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/eventix/eventix/api"
	"github.com/eventix/eventix/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Events  *api.EventHandler
	Orders  *api.OrderHandler
	Tickets *api.TicketHandler
	Webhook *api.WebhookHandler
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, h Handlers) error {
	router := NewRouter(h)

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(h Handlers) *gin.Engine {
	router := gin.Default()

	h.Events.Register(router.Group("/events"), router.Group("/tiers"))
	h.Orders.Register(router.Group("/orders"))
	h.Orders.RegisterPayments(router.Group("/payments"))
	h.Tickets.Register(router.Group("/tickets"))
	h.Webhook.Register(router.Group("/webhooks"))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
