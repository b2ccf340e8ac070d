package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"courtbook/api"
	"courtbook/config"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, bookings *api.BookingHandler, schedule *api.ScheduleHandler, events *api.EventsHandler) error {
	router := newRouter(cfg, bookings, schedule, events)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, bookings *api.BookingHandler, schedule *api.ScheduleHandler, events *api.EventsHandler) *gin.Engine {
	router := gin.Default()

	bookings.Register(router.Group("/bookings"))
	root := router.Group("/")
	schedule.Register(root)
	events.Register(root)

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/courtbook.swagger.json"),
		)))
	}

	return router
}
