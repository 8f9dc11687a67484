package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vitalfit/backend/internal/app/service/lifecycle"
	"github.com/vitalfit/backend/pkg/config"
	"github.com/vitalfit/backend/pkg/logctx"
	"github.com/vitalfit/backend/pkg/types"
	"go.uber.org/zap"
)

const cronSecretHeader = "X-Cron-Secret"

// triggerAuthorized compares the configured shared secret against the
// request. An unset secret disables the endpoint entirely; there is no
// development fallback value.
func triggerAuthorized(c *gin.Context, secret string) bool {
	if secret == "" {
		return false
	}
	provided := c.GetHeader(cronSecretHeader)
	if provided == "" {
		provided = c.Query("secret")
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
}

// @Summary      Run lifecycle checks
// @Description  Runs the subscription expiry and inactivity checks once. Intended for an externally managed scheduler; guarded by a shared secret.
// @Tags         Lifecycle
// @Produce      json
// @Param        X-Cron-Secret  header  string  false  "shared secret"
// @Success      200  {object}  lifecycle.RunSummary
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /internal/lifecycle/run [post]
func ApiRunLifecycle(runner *lifecycle.Runner, cfg *config.Config, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !triggerAuthorized(c, cfg.Cron.Secret) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		summary, err := runner.Run(c.Request.Context(), types.LifecycleTriggerManual)
		if errors.Is(err, lifecycle.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "a lifecycle run is already in progress"})
			return
		}
		if err != nil {
			logctx.FromGin(c, log).Errorw("manual lifecycle run failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lifecycle run failed"})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// @Summary      Lifecycle health
// @Description  Static OK payload with a timestamp for external scheduler liveness probes
// @Tags         Lifecycle
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /internal/lifecycle/health [get]
func ApiLifecycleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func RegisterLifecycleRoutes(r gin.IRouter, runner *lifecycle.Runner, cfg *config.Config, log *zap.SugaredLogger) {
	r.POST("/run", ApiRunLifecycle(runner, cfg, log))
	r.GET("/health", ApiLifecycleHealth)
}
