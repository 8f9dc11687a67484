package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vitalfit/backend/internal/app/service/notification"
	"github.com/vitalfit/backend/pkg/response"
)

// @Summary      List notifications
// @Description  Returns a user's notifications, newest first.
// @Tags         Notifications
// @Produce      json
// @Param        user_id  query  string  true   "user id"
// @Param        unread   query  bool    false  "only unread"
// @Param        limit    query  int     false  "max items (default 50)"
// @Success      200  {object}  handlers.RespNotificationList
// @Router       /api/v1/notifications [get]
func ApiListNotifications(svc *notification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("user_id")
		if userID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id"))
			return
		}
		unread := c.Query("unread") == "true"
		limit := 0
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid limit"))
				return
			}
			limit = n
		}
		items, err := svc.ListByUser(c.Request.Context(), userID, unread, limit)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

type MarkNotificationReadRequest struct {
	UserID         string `json:"user_id"`
	NotificationID string `json:"notification_id"`
}

// @Summary      Mark notification as read
// @Description  Flips the read flag on one of the user's notifications.
// @Tags         Notifications
// @Accept       json
// @Produce      json
// @Param        request  body  MarkNotificationReadRequest  true  "mark read request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/notifications/mark_read [post]
func ApiMarkNotificationRead(svc *notification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MarkNotificationReadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.UserID == "" || req.NotificationID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing user_id or notification_id"))
			return
		}
		if err := svc.MarkRead(c.Request.Context(), req.UserID, req.NotificationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "notification not found"))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterNotificationRoutes(r gin.IRouter, svc *notification.Service) {
	r.GET("/notifications", ApiListNotifications(svc))
	r.POST("/notifications/mark_read", ApiMarkNotificationRead(svc))
}
