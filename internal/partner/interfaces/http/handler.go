// Package http 合作伙伴 HTTP 处理器
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"
	"github.com/wyfcoding/prm/internal/partner/application"
	"github.com/wyfcoding/prm/internal/partner/domain"
)

type PartnerHandler struct {
	service *application.PartnerService
}

func NewPartnerHandler(service *application.PartnerService) *PartnerHandler {
	return &PartnerHandler{service: service}
}

// 注册路由（调用方已挂载认证中间件）
func (h *PartnerHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/v1/partners")
	{
		api.POST("", h.CreatePartner)
		api.PUT("/:id", h.UpdatePartner)
		api.GET("/:id", h.GetPartner)
		api.GET("", h.ListPartners)
		api.POST("/:id/activities", h.RecordActivity)
		api.GET("/:id/activities", h.ListActivities)
		api.POST("/:id/tasks", h.CreateTask)
		api.GET("/:id/tasks", h.ListTasks)
	}
	router.PUT("/v1/tasks/:id/status", h.UpdateTaskStatus)
}

// PartnerRequest 创建/更新伙伴请求
type PartnerRequest struct {
	Name           string   `json:"name" binding:"required"`
	Categories     []string `json:"categories" binding:"required"`
	Status         string   `json:"status"`
	StartDate      *string  `json:"start_date"` // RFC3339
	ContactName    string   `json:"contact_name"`
	ContactEmail   string   `json:"contact_email"`
	CommissionRate string   `json:"commission_rate"`
	SettlementDays int      `json:"settlement_days"`
	MonthlyFee     string   `json:"monthly_fee"`
	CoverageArea   string   `json:"coverage_area"`
	ParetoFocus    string   `json:"pareto_focus"`
}

func (req *PartnerRequest) categories() []domain.PartnerCategory {
	out := make([]domain.PartnerCategory, 0, len(req.Categories))
	for _, c := range req.Categories {
		out = append(out, domain.PartnerCategory(c))
	}
	return out
}

func (req *PartnerRequest) startDate() (*time.Time, error) {
	if req.StartDate == nil || *req.StartDate == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *req.StartDate)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	var req PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	startDate, err := req.startDate()
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid start_date", "")
		return
	}
	commission, _ := decimal.NewFromString(req.CommissionRate)
	monthlyFee, _ := decimal.NewFromString(req.MonthlyFee)

	cmd := application.CreatePartnerCommand{
		UserID:         c.GetString("user_id"),
		Name:           req.Name,
		Categories:     req.categories(),
		Status:         domain.PartnerStatus(req.Status),
		StartDate:      startDate,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		CommissionRate: commission,
		SettlementDays: req.SettlementDays,
		MonthlyFee:     monthlyFee,
		CoverageArea:   req.CoverageArea,
		ParetoFocus:    domain.ParetoFocus(req.ParetoFocus),
	}

	partnerID, err := h.service.CreatePartner(c.Request.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) {
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "failed to create partner", "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"partner_id": partnerID})
}

func (h *PartnerHandler) UpdatePartner(c *gin.Context) {
	var req PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	startDate, err := req.startDate()
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid start_date", "")
		return
	}
	commission, _ := decimal.NewFromString(req.CommissionRate)
	monthlyFee, _ := decimal.NewFromString(req.MonthlyFee)

	cmd := application.UpdatePartnerCommand{
		UserID:         c.GetString("user_id"),
		PartnerID:      c.Param("id"),
		Name:           req.Name,
		Categories:     req.categories(),
		Status:         domain.PartnerStatus(req.Status),
		StartDate:      startDate,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		CommissionRate: commission,
		SettlementDays: req.SettlementDays,
		MonthlyFee:     monthlyFee,
		CoverageArea:   req.CoverageArea,
		ParetoFocus:    domain.ParetoFocus(req.ParetoFocus),
	}

	if err := h.service.UpdatePartner(c.Request.Context(), cmd); err != nil {
		if errors.Is(err, domain.ErrPartnerNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "failed to update partner", "partner_id", cmd.PartnerID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"partner_id": cmd.PartnerID})
}

func (h *PartnerHandler) GetPartner(c *gin.Context) {
	p, err := h.service.GetPartner(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrPartnerNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, p)
}

func (h *PartnerHandler) ListPartners(c *gin.Context) {
	partners, err := h.service.ListPartners(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, partners)
}

// ActivityRequest 记录活动请求
type ActivityRequest struct {
	Type        string  `json:"type" binding:"required"`
	Status      string  `json:"status"`
	Title       string  `json:"title" binding:"required"`
	Notes       string  `json:"notes"`
	ScheduledAt *string `json:"scheduled_at"`
}

func (h *PartnerHandler) RecordActivity(c *gin.Context) {
	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != nil && *req.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid scheduled_at", "")
			return
		}
		scheduledAt = &t
	}

	cmd := application.RecordActivityCommand{
		UserID:      c.GetString("user_id"),
		PartnerID:   c.Param("id"),
		Type:        domain.ActivityType(req.Type),
		Status:      domain.ActivityStatus(req.Status),
		Title:       req.Title,
		Notes:       req.Notes,
		ScheduledAt: scheduledAt,
	}

	activityID, err := h.service.RecordActivity(c.Request.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrPartnerNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "failed to record activity", "partner_id", cmd.PartnerID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"activity_id": activityID})
}

func (h *PartnerHandler) ListActivities(c *gin.Context) {
	activities, err := h.service.ListActivities(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, activities)
}

// TaskRequest 创建任务请求
type TaskRequest struct {
	Title    string  `json:"title" binding:"required"`
	Priority string  `json:"priority"`
	DueDate  *string `json:"due_date"`
}

func (h *PartnerHandler) CreateTask(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid due_date", "")
			return
		}
		dueDate = &t
	}

	cmd := application.CreateTaskCommand{
		UserID:    c.GetString("user_id"),
		PartnerID: c.Param("id"),
		Title:     req.Title,
		Priority:  domain.TaskPriority(req.Priority),
		DueDate:   dueDate,
	}

	taskID, err := h.service.CreateTask(c.Request.Context(), cmd)
	if err != nil {
		if errors.Is(err, domain.ErrPartnerNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		logging.Error(c.Request.Context(), "failed to create task", "partner_id", cmd.PartnerID, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"task_id": taskID})
}

// UpdateTaskStatusRequest 更新任务状态请求
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *PartnerHandler) UpdateTaskStatus(c *gin.Context) {
	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	err := h.service.UpdateTaskStatus(c.Request.Context(), c.GetString("user_id"), c.Param("id"), domain.TaskStatus(req.Status))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
			return
		}
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}

	response.Success(c, gin.H{"task_id": c.Param("id"), "status": req.Status})
}

func (h *PartnerHandler) ListTasks(c *gin.Context) {
	tasks, err := h.service.ListTasks(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, tasks)
}
