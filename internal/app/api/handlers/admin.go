package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/vitalfit/backend/internal/app/service/lifecycle"
	"github.com/vitalfit/backend/internal/app/service/statistics"
	subsvc "github.com/vitalfit/backend/internal/app/service/subscription"
	models "github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/pkg/response"
	"github.com/vitalfit/backend/pkg/types"
)

type SubscriptionItem struct {
	ID          string                   `json:"id"`
	UserID      string                   `json:"user_id"`
	GymID       string                   `json:"gym_id"`
	Status      types.SubscriptionStatus `json:"status"`
	StartAt     time.Time                `json:"start_at"`
	EndAt       *time.Time               `json:"end_at"`
	PlanID      *string                  `json:"plan_id"`
	TrainerID   *string                  `json:"trainer_id"`
	AutoRenew   bool                     `json:"auto_renew"`
	CancelledAt *time.Time               `json:"cancelled_at"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

func toSubscriptionItem(m *models.Subscription) *SubscriptionItem {
	return &SubscriptionItem{
		ID:          m.ID,
		UserID:      m.UserID,
		GymID:       m.GymID,
		Status:      m.Status,
		StartAt:     m.StartAt,
		EndAt:       m.EndAt,
		PlanID:      m.PlanID,
		TrainerID:   m.TrainerID,
		AutoRenew:   m.AutoRenew,
		CancelledAt: m.CancelledAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type ListSubscriptionsResponse struct {
	Items []*SubscriptionItem `json:"items"`
	Total int64               `json:"total"`
}

// @Summary      List Subscriptions (Admin)
// @Description  Retrieves a paginated and filterable list of subscriptions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body subscription.ScanSubscriptionsRequest true "List request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListSubscriptions
// @Router       /api/v1/admin/list_subscriptions [post]
func ApiListSubscriptions(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subsvc.ScanSubscriptionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := sub.ScanSubscriptions(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(it *models.Subscription, _ int) *SubscriptionItem { return toSubscriptionItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListSubscriptionsResponse{Items: items, Total: res.Total}))
	}
}

// @Summary      Activate Subscription (Admin)
// @Description  Transitions a pending subscription to active and sends the welcome notification.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/activate_subscription [post]
func ApiActivateSubscription(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			SubscriptionID string `json:"subscription_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.SubscriptionID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing subscription_id"))
			return
		}
		if err := sub.Activate(c.Request.Context(), req.SubscriptionID); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type RenewSubscriptionRequest struct {
	SubscriptionID string    `json:"subscription_id"`
	Until          time.Time `json:"until"`
	AmountCents    int64     `json:"amount_cents"`
	Currency       string    `json:"currency"`
}

// @Summary      Renew Subscription (Admin)
// @Description  Extends a subscription's end date and notifies the member.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body RenewSubscriptionRequest true "renew request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/renew_subscription [post]
func ApiRenewSubscription(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RenewSubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.SubscriptionID == "" || req.Until.IsZero() {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing subscription_id or until"))
			return
		}
		if err := sub.Renew(c.Request.Context(), req.SubscriptionID, req.Until, req.AmountCents, req.Currency); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Cancel Subscription (Admin)
// @Description  Records a cancellation; the subscription stays active until its end date.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/cancel_subscription [post]
func ApiCancelSubscription(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			SubscriptionID string `json:"subscription_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.SubscriptionID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing subscription_id"))
			return
		}
		if err := sub.Cancel(c.Request.Context(), req.SubscriptionID); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type AssignPlanRequest struct {
	SubscriptionID string `json:"subscription_id"`
	PlanID         string `json:"plan_id"`
	PlanName       string `json:"plan_name"`
}

// @Summary      Assign Training Plan (Admin/Trainer)
// @Description  Links a training plan to a subscription and notifies the member.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body AssignPlanRequest true "assign plan request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/assign_plan [post]
func ApiAssignPlan(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssignPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.SubscriptionID == "" || req.PlanID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing subscription_id or plan_id"))
			return
		}
		if err := sub.AssignPlan(c.Request.Context(), req.SubscriptionID, req.PlanID, req.PlanName); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Get Lifecycle Statistics (Admin)
// @Description  Retrieves daily notification and lifecycle-run statistics.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.LifecycleStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  handlers.RespLifecycleStatistic
// @Router       /api/v1/admin/get_lifecycle_statistic [post]
func ApiGetLifecycleStatistic(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.LifecycleStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetLifecycleStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      List Lifecycle Runs (Admin)
// @Description  Returns the most recent lifecycle run records, newest first.
// @Tags         Admin
// @Produce      json
// @Param        limit  query  int  false  "max items (default 30)"
// @Success      200  {object}  handlers.RespLifecycleRuns
// @Router       /api/v1/admin/list_lifecycle_runs [get]
func ApiListLifecycleRuns(runs lifecycle.RunStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid limit"))
				return
			}
			limit = n
		}
		items, err := runs.ListRecent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

func RegisterAdminRoutes(r gin.IRouter, sub *subsvc.Service, stats *statistics.Service, runs lifecycle.RunStore) {
	r.POST("/list_subscriptions", ApiListSubscriptions(sub))
	r.POST("/activate_subscription", ApiActivateSubscription(sub))
	r.POST("/renew_subscription", ApiRenewSubscription(sub))
	r.POST("/cancel_subscription", ApiCancelSubscription(sub))
	r.POST("/assign_plan", ApiAssignPlan(sub))
	r.POST("/get_lifecycle_statistic", ApiGetLifecycleStatistic(stats))
	r.GET("/list_lifecycle_runs", ApiListLifecycleRuns(runs))
}
