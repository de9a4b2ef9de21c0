// Package http 优先级排名 HTTP 处理器
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/prm/internal/priority/application"

	partnerdomain "github.com/wyfcoding/prm/internal/partner/domain"
)

type PriorityHandler struct {
	service *application.PriorityService
}

func NewPriorityHandler(service *application.PriorityService) *PriorityHandler {
	return &PriorityHandler{service: service}
}

// 注册路由（调用方已挂载认证中间件）
// 排名本身不单独暴露接口，由导入流程在应用层触发
func (h *PriorityHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/metrics")
	{
		api.POST("/monthly", h.ImportMonthlyMetrics)
		api.GET("/monthly", h.ListMonthlyMetrics)
	}
}

// ImportMonthlyMetricsRequest 月度指标导入请求
type ImportMonthlyMetricsRequest struct {
	Metrics []application.MonthlyMetricInput `json:"metrics" binding:"required,dive"`
	Focus   string                           `json:"focus"`
}

func (h *PriorityHandler) ImportMonthlyMetrics(c *gin.Context) {
	var req ImportMonthlyMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	userID := c.GetString("user_id")
	err := h.service.ImportMonthlyMetrics(c.Request.Context(), userID, req.Metrics, partnerdomain.ParetoFocus(req.Focus))
	if err != nil {
		logging.Error(c.Request.Context(), "failed to import monthly metrics", "user_id", userID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"imported": len(req.Metrics)})
}

func (h *PriorityHandler) ListMonthlyMetrics(c *gin.Context) {
	rows, err := h.service.ListMonthlyMetrics(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, rows)
}
