// Package domain 合作伙伴领域模型
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrPartnerNotFound = errors.New("partner not found")
	ErrTaskNotFound    = errors.New("partner task not found")
	ErrInvalidCategory = errors.New("invalid partner category")
)

// PartnerCategory 合作伙伴业务类别
type PartnerCategory string

const (
	CategoryLogistic    PartnerCategory = "logistic"
	CategoryPayment     PartnerCategory = "payment"
	CategoryMarketplace PartnerCategory = "marketplace"
)

// PartnerStatus 合作状态
type PartnerStatus string

const (
	PartnerStatusActive   PartnerStatus = "active"
	PartnerStatusInactive PartnerStatus = "inactive"
	PartnerStatusPending  PartnerStatus = "pending"
)

// ParetoFocus Pareto 排名使用的聚焦指标
type ParetoFocus string

const (
	FocusGMV    ParetoFocus = "gmv"
	FocusRebate ParetoFocus = "rebate"
)

// Partner 合作伙伴聚合根
// 每个伙伴归属于唯一用户；isImportant / priorityRank / paretoFocus
// 三个字段仅由优先级排名任务回写
type Partner struct {
	gorm.Model
	PartnerID      string          `gorm:"column:partner_id;type:varchar(64);uniqueIndex;not null" json:"partner_id"`
	UserID         string          `gorm:"column:user_id;type:varchar(64);index;not null" json:"user_id"`
	Name           string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Categories     string          `gorm:"column:categories;type:varchar(128);not null" json:"categories"` // 逗号分隔
	Status         PartnerStatus   `gorm:"column:status;type:varchar(20);default:'pending'" json:"status"`
	StartDate      *time.Time      `gorm:"column:start_date" json:"start_date"`
	ContactName    string          `gorm:"column:contact_name;type:varchar(255)" json:"contact_name"`
	ContactEmail   string          `gorm:"column:contact_email;type:varchar(255)" json:"contact_email"`
	CommissionRate decimal.Decimal `gorm:"column:commission_rate;type:decimal(8,4)" json:"commission_rate"`
	SettlementDays int             `gorm:"column:settlement_days" json:"settlement_days"`
	MonthlyFee     decimal.Decimal `gorm:"column:monthly_fee;type:decimal(20,2)" json:"monthly_fee"`
	CoverageArea   string          `gorm:"column:coverage_area;type:varchar(255)" json:"coverage_area"`
	IsImportant    bool            `gorm:"column:is_important;default:false" json:"is_important"`
	PriorityRank   *int            `gorm:"column:priority_rank" json:"priority_rank"`
	ParetoFocus    ParetoFocus     `gorm:"column:pareto_focus;type:varchar(10)" json:"pareto_focus"` // 空值表示未设置
}

func (Partner) TableName() string { return "partners" }

// NewPartner 创建新合作伙伴
func NewPartner(userID, name string, categories []PartnerCategory) *Partner {
	return &Partner{
		UserID:     userID,
		Name:       name,
		Categories: joinCategories(categories),
		Status:     PartnerStatusPending,
	}
}

// CategoryList 返回类别列表
func (p *Partner) CategoryList() []PartnerCategory {
	if p.Categories == "" {
		return nil
	}
	parts := strings.Split(p.Categories, ",")
	out := make([]PartnerCategory, 0, len(parts))
	for _, s := range parts {
		out = append(out, PartnerCategory(strings.TrimSpace(s)))
	}
	return out
}

// HasCategory 判断伙伴是否属于某个类别
func (p *Partner) HasCategory(c PartnerCategory) bool {
	for _, got := range p.CategoryList() {
		if got == c {
			return true
		}
	}
	return false
}

// SetCategories 覆盖类别集合
func (p *Partner) SetCategories(categories []PartnerCategory) {
	p.Categories = joinCategories(categories)
}

func joinCategories(categories []PartnerCategory) string {
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ",")
}

// ValidCategory 校验类别取值
func ValidCategory(c PartnerCategory) bool {
	switch c {
	case CategoryLogistic, CategoryPayment, CategoryMarketplace:
		return true
	}
	return false
}

// PartnerRepository 合作伙伴仓储接口
type PartnerRepository interface {
	Save(ctx context.Context, partner *Partner) error
	GetByPartnerID(ctx context.Context, userID, partnerID string) (*Partner, error)
	ListByUser(ctx context.Context, userID string) ([]*Partner, error)
	// UpdatePriority 仅回写排名相关字段
	UpdatePriority(ctx context.Context, partnerID string, important bool, rank *int, focus ParetoFocus) error
}
