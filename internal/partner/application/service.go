// Package application 合作伙伴应用服务
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/prm/internal/partner/domain"
)

// CreatePartnerCommand 创建伙伴命令
type CreatePartnerCommand struct {
	UserID         string
	Name           string
	Categories     []domain.PartnerCategory
	Status         domain.PartnerStatus
	StartDate      *time.Time
	ContactName    string
	ContactEmail   string
	CommissionRate decimal.Decimal
	SettlementDays int
	MonthlyFee     decimal.Decimal
	CoverageArea   string
	ParetoFocus    domain.ParetoFocus
}

// UpdatePartnerCommand 更新伙伴命令（仅表单字段，不含排名字段）
type UpdatePartnerCommand struct {
	UserID         string
	PartnerID      string
	Name           string
	Categories     []domain.PartnerCategory
	Status         domain.PartnerStatus
	StartDate      *time.Time
	ContactName    string
	ContactEmail   string
	CommissionRate decimal.Decimal
	SettlementDays int
	MonthlyFee     decimal.Decimal
	CoverageArea   string
	ParetoFocus    domain.ParetoFocus
}

// RecordActivityCommand 记录 CRM 活动命令
type RecordActivityCommand struct {
	UserID      string
	PartnerID   string
	Type        domain.ActivityType
	Status      domain.ActivityStatus
	Title       string
	Notes       string
	ScheduledAt *time.Time
}

// CreateTaskCommand 创建任务命令
type CreateTaskCommand struct {
	UserID    string
	PartnerID string
	Title     string
	Priority  domain.TaskPriority
	DueDate   *time.Time
}

// PartnerService 合作伙伴应用服务
type PartnerService struct {
	partners   domain.PartnerRepository
	activities domain.ActivityRepository
	tasks      domain.TaskRepository
	logger     *slog.Logger
}

func NewPartnerService(
	partners domain.PartnerRepository,
	activities domain.ActivityRepository,
	tasks domain.TaskRepository,
	logger *slog.Logger,
) *PartnerService {
	return &PartnerService{
		partners:   partners,
		activities: activities,
		tasks:      tasks,
		logger:     logger.With("module", "partner_service"),
	}
}

// CreatePartner 创建合作伙伴
func (s *PartnerService) CreatePartner(ctx context.Context, cmd CreatePartnerCommand) (string, error) {
	for _, c := range cmd.Categories {
		if !domain.ValidCategory(c) {
			return "", domain.ErrInvalidCategory
		}
	}

	p := domain.NewPartner(cmd.UserID, cmd.Name, cmd.Categories)
	p.PartnerID = fmt.Sprintf("PRT%s", idgen.GenIDString())
	if cmd.Status != "" {
		p.Status = cmd.Status
	}
	p.StartDate = cmd.StartDate
	p.ContactName = cmd.ContactName
	p.ContactEmail = cmd.ContactEmail
	p.CommissionRate = cmd.CommissionRate
	p.SettlementDays = cmd.SettlementDays
	p.MonthlyFee = cmd.MonthlyFee
	p.CoverageArea = cmd.CoverageArea
	p.ParetoFocus = cmd.ParetoFocus

	if err := s.partners.Save(ctx, p); err != nil {
		return "", err
	}
	return p.PartnerID, nil
}

// UpdatePartner 更新合作伙伴表单字段
func (s *PartnerService) UpdatePartner(ctx context.Context, cmd UpdatePartnerCommand) error {
	p, err := s.partners.GetByPartnerID(ctx, cmd.UserID, cmd.PartnerID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrPartnerNotFound
	}

	for _, c := range cmd.Categories {
		if !domain.ValidCategory(c) {
			return domain.ErrInvalidCategory
		}
	}

	p.Name = cmd.Name
	p.SetCategories(cmd.Categories)
	if cmd.Status != "" {
		p.Status = cmd.Status
	}
	p.StartDate = cmd.StartDate
	p.ContactName = cmd.ContactName
	p.ContactEmail = cmd.ContactEmail
	p.CommissionRate = cmd.CommissionRate
	p.SettlementDays = cmd.SettlementDays
	p.MonthlyFee = cmd.MonthlyFee
	p.CoverageArea = cmd.CoverageArea
	p.ParetoFocus = cmd.ParetoFocus

	return s.partners.Save(ctx, p)
}

// GetPartner 查询单个伙伴
func (s *PartnerService) GetPartner(ctx context.Context, userID, partnerID string) (*domain.Partner, error) {
	p, err := s.partners.GetByPartnerID(ctx, userID, partnerID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPartnerNotFound
	}
	return p, nil
}

// ListPartners 查询用户全部伙伴
func (s *PartnerService) ListPartners(ctx context.Context, userID string) ([]*domain.Partner, error) {
	return s.partners.ListByUser(ctx, userID)
}

// RecordActivity 记录 CRM 活动
func (s *PartnerService) RecordActivity(ctx context.Context, cmd RecordActivityCommand) (string, error) {
	p, err := s.partners.GetByPartnerID(ctx, cmd.UserID, cmd.PartnerID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", domain.ErrPartnerNotFound
	}

	a := &domain.PartnerActivity{
		ActivityID:  fmt.Sprintf("ACT%s", idgen.GenIDString()),
		PartnerID:   cmd.PartnerID,
		UserID:      cmd.UserID,
		Type:        cmd.Type,
		Status:      cmd.Status,
		Title:       cmd.Title,
		Notes:       cmd.Notes,
		ScheduledAt: cmd.ScheduledAt,
	}
	if a.Status == "" {
		a.Status = domain.ActivityStatusScheduled
	}

	if err := s.activities.Save(ctx, a); err != nil {
		return "", err
	}
	return a.ActivityID, nil
}

// ListActivities 查询伙伴活动
func (s *PartnerService) ListActivities(ctx context.Context, userID, partnerID string) ([]*domain.PartnerActivity, error) {
	return s.activities.ListByPartner(ctx, userID, partnerID)
}

// CreateTask 创建任务
func (s *PartnerService) CreateTask(ctx context.Context, cmd CreateTaskCommand) (string, error) {
	p, err := s.partners.GetByPartnerID(ctx, cmd.UserID, cmd.PartnerID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", domain.ErrPartnerNotFound
	}

	t := &domain.PartnerTask{
		TaskID:    fmt.Sprintf("TSK%s", idgen.GenIDString()),
		PartnerID: cmd.PartnerID,
		UserID:    cmd.UserID,
		Title:     cmd.Title,
		Priority:  cmd.Priority,
		Status:    domain.TaskStatusTodo,
		DueDate:   cmd.DueDate,
	}
	if t.Priority == "" {
		t.Priority = domain.TaskPriorityMedium
	}

	if err := s.tasks.Save(ctx, t); err != nil {
		return "", err
	}
	return t.TaskID, nil
}

// UpdateTaskStatus 更新任务状态
func (s *PartnerService) UpdateTaskStatus(ctx context.Context, userID, taskID string, status domain.TaskStatus) error {
	t, err := s.tasks.GetByTaskID(ctx, userID, taskID)
	if err != nil {
		return err
	}
	if t == nil {
		return domain.ErrTaskNotFound
	}
	t.Status = status
	return s.tasks.Save(ctx, t)
}

// ListTasks 查询伙伴任务
func (s *PartnerService) ListTasks(ctx context.Context, userID, partnerID string) ([]*domain.PartnerTask, error) {
	return s.tasks.ListByPartner(ctx, userID, partnerID)
}
