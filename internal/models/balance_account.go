package models

import (
	"time"

	"gorm.io/gorm"
)

// BalanceAccount 推荐人余额账户（权威余额，随流水同事务更新）
type BalanceAccount struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                        // 主键
	UserID         uint           `gorm:"not null;uniqueIndex" json:"user_id"`                         // 用户ID
	Balance        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`        // 可用余额
	TotalEarned    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_earned"`   // 累计入账佣金
	TotalWithdrawn Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_withdrawn"` // 累计提现
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                     // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间
}

// TableName 指定表名
func (BalanceAccount) TableName() string {
	return "balance_accounts"
}
