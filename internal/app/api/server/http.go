package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/vitalfit/backend/docs"
	"github.com/vitalfit/backend/internal/app/api/handlers"
	mw "github.com/vitalfit/backend/internal/app/api/middleware"
	"github.com/vitalfit/backend/internal/app/service/lifecycle"
	"github.com/vitalfit/backend/internal/app/service/notification"
	"github.com/vitalfit/backend/internal/app/service/statistics"
	subsvc "github.com/vitalfit/backend/internal/app/service/subscription"
	cfgpkg "github.com/vitalfit/backend/pkg/config"
	metrics "github.com/vitalfit/backend/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Request tracing only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(
	r *gin.Engine,
	log *zap.SugaredLogger,
	cfg *cfgpkg.Config,
	notif *notification.Service,
	sub *subsvc.Service,
	stats *statistics.Service,
	runner *lifecycle.Runner,
	runs lifecycle.RunStore,
) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Lifecycle trigger for the external scheduler; secret-guarded and
	// rate limited so a misbehaving caller cannot stack runs.
	internalLifecycle := r.Group("/internal/lifecycle")
	internalLifecycle.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.RateLimitMiddleware(1, 3))
	handlers.RegisterLifecycleRoutes(internalLifecycle, runner, cfg, log)

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())

	// Member-facing notification APIs
	handlers.RegisterNotificationRoutes(apiV1, notif)

	// Admin back-office APIs
	handlers.RegisterAdminRoutes(apiV1.Group("/admin"), sub, stats, runs)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
