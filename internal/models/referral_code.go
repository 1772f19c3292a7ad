package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralCode 推荐码表
type ReferralCode struct {
	ID                    uint           `gorm:"primarykey" json:"id"`                               // 主键
	Code                  string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`  // 推荐码（大写字母数字）
	OwnerID               uint           `gorm:"not null;uniqueIndex" json:"owner_id"`               // 持有人ID（每人同时仅一个码）
	OwnerEmail            string         `gorm:"type:varchar(255)" json:"owner_email"`               // 持有人邮箱（冗余展示字段）
	IsActive              bool           `gorm:"not null;default:true;index" json:"is_active"`       // 是否启用
	ExpiresAt             *time.Time     `gorm:"index" json:"expires_at"`                            // 过期时间（nil 表示永久有效）
	UsageCount            int64          `gorm:"not null;default:0" json:"usage_count"`              // 成功兑换次数
	LastUsedAt            *time.Time     `json:"last_used_at,omitempty"`                             // 最近兑换时间
	TotalTransactions     int64          `gorm:"not null;default:0" json:"total_transactions"`       // 产生佣金的交易数（展示用）
	TotalTransactionValue Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_transaction_value"` // 交易总额（展示用）
	TotalEarnings         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_earnings"`          // 累计佣金（展示用，余额以账户表为准）
	CreatedAt             time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt             time.Time      `gorm:"index" json:"updated_at"`                            // 更新时间
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"` // 持有人信息
}

// TableName 指定表名
func (ReferralCode) TableName() string {
	return "referral_codes"
}

// Expired 判断在指定时间点是否已过期
func (c *ReferralCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// Usable 判断在指定时间点是否可被兑换
func (c *ReferralCode) Usable(now time.Time) bool {
	return c != nil && c.IsActive && !c.Expired(now)
}
