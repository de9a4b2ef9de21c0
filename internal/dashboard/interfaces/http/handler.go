// Package http 仪表盘 HTTP 处理器
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/prm/internal/dashboard/application"
)

type DashboardHandler struct {
	service *application.DashboardService
}

func NewDashboardHandler(service *application.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// 注册路由（调用方已挂载认证中间件）
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/v1/dashboard/summary", h.GetSummary)
}

func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID := c.GetString("user_id")

	summary, err := h.service.GetSummary(c.Request.Context(), userID)
	if err != nil {
		logging.Error(c.Request.Context(), "failed to build dashboard summary", "user_id", userID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, summary)
}
