package handlers

import (
	"github.com/vitalfit/backend/internal/app/service/statistics"
	"github.com/vitalfit/backend/internal/models"
	"github.com/vitalfit/backend/pkg/response"
)

// Concrete envelope shapes for swagger only. The handlers themselves use the
// generic response.APIResponse, which swag cannot render.

type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

type RespNotificationList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []*models.Notification   `json:"data"`
}

type RespListSubscriptions struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    ListSubscriptionsResponse `json:"data"`
}

type RespLifecycleStatistic struct {
	Code    response.APIResponseCode              `json:"code"`
	Message string                                `json:"message"`
	Data    statistics.LifecycleStatisticResponse `json:"data"`
}

type RespLifecycleRuns struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []*models.LifecycleRun   `json:"data"`
}
