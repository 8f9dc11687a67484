package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterNotificationRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1")
	RegisterNotificationRoutes(g, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("GET /api/v1/notifications"))
	require.True(t, contains("POST /api/v1/notifications/mark_read"))
}

func TestRegisterAdminRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1/admin")
	RegisterAdminRoutes(g, nil, nil, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/admin/list_subscriptions"))
	require.True(t, contains("POST /api/v1/admin/activate_subscription"))
	require.True(t, contains("POST /api/v1/admin/renew_subscription"))
	require.True(t, contains("POST /api/v1/admin/cancel_subscription"))
	require.True(t, contains("POST /api/v1/admin/assign_plan"))
	require.True(t, contains("POST /api/v1/admin/get_lifecycle_statistic"))
	require.True(t, contains("GET /api/v1/admin/list_lifecycle_runs"))
}
