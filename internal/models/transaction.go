package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction 余额流水表（仅作审计与展示，余额以 BalanceAccount 为准）
type Transaction struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                      // 主键
	UserID         uint           `gorm:"not null;index" json:"user_id"`                             // 所属用户ID
	Type           string         `gorm:"type:varchar(20);not null;index" json:"type"`               // 流水类型（deposit/purchase）
	Method         string         `gorm:"type:varchar(32);not null;index" json:"method"`             // 业务子类（referral_commission/withdrawal/referral_balance）
	Amount         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`       // 金额（非负，方向由类型决定）
	Status         string         `gorm:"type:varchar(20);not null;index" json:"status"`             // 状态
	Description    string         `gorm:"type:varchar(255)" json:"description"`                      // 描述
	ReferralCode   string         `gorm:"type:varchar(32);index" json:"referral_code,omitempty"`     // 关联推荐码
	ReferredUserID *uint          `gorm:"index" json:"referred_user_id,omitempty"`                   // 被推荐用户ID
	PurchaseID     string         `gorm:"type:varchar(64);index" json:"purchase_id,omitempty"`       // 触发佣金的外部交易号
	BalanceBefore  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance_before"` // 变动前余额
	BalanceAfter   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance_after"`  // 变动后余额
	PaidAt         *time.Time     `gorm:"index" json:"paid_at,omitempty"`                            // 结清时间（提现打包时写入）
	PaidBy         string         `gorm:"type:varchar(64)" json:"paid_by,omitempty"`                 // 结清操作方
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (Transaction) TableName() string {
	return "transactions"
}
