// Package http 健康评分 HTTP 处理器
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/prm/internal/health/application"
)

type HealthHandler struct {
	service *application.HealthScanService
}

func NewHealthHandler(service *application.HealthScanService) *HealthHandler {
	return &HealthHandler{service: service}
}

// 注册路由（调用方已挂载认证中间件）
func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/health")
	{
		api.POST("/scan", h.Scan)
		api.GET("/metrics", h.ListMetrics)
	}
	alerts := router.Group("/v1/alerts")
	{
		alerts.GET("", h.ListAlerts)
		alerts.PUT("/:id/resolve", h.ResolveAlert)
	}
}

// Scan 对当前用户全部伙伴执行一次批量评分
// 返回体即评分汇总本身，供前端直接渲染
func (h *HealthHandler) Scan(c *gin.Context) {
	userID := c.GetString("user_id")

	summary, err := h.service.Run(c.Request.Context(), userID)
	if err != nil {
		logging.Error(c.Request.Context(), "health scan failed", "user_id", userID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *HealthHandler) ListMetrics(c *gin.Context) {
	metrics, err := h.service.ListMetrics(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, metrics)
}

func (h *HealthHandler) ListAlerts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	alerts, err := h.service.ListAlerts(c.Request.Context(), c.GetString("user_id"), limit)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, alerts)
}

func (h *HealthHandler) ResolveAlert(c *gin.Context) {
	alertID := c.Param("id")
	if err := h.service.ResolveAlert(c.Request.Context(), c.GetString("user_id"), alertID); err != nil {
		logging.Error(c.Request.Context(), "failed to resolve alert", "alert_id", alertID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"alert_id": alertID, "resolved": true})
}
