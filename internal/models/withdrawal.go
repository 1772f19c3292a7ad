package models

import (
	"time"

	"gorm.io/gorm"
)

// Withdrawal 提现打款记录
type Withdrawal struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                 // 主键
	UserID           uint           `gorm:"not null;index" json:"user_id"`                        // 用户ID
	Amount           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`  // 提现金额
	TransactionCount int            `gorm:"not null;default:0" json:"transaction_count"`          // 打包结清的佣金流水数
	Status           string         `gorm:"type:varchar(20);not null;index" json:"status"`        // 状态
	BankSnapshot     JSON           `gorm:"type:json" json:"bank_snapshot"`                       // 打款时的银行账户快照
	ReviewedBy       string         `gorm:"type:varchar(64)" json:"reviewed_by,omitempty"`        // 审核/操作方
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                              // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 用户信息
}

// TableName 指定表名
func (Withdrawal) TableName() string {
	return "withdrawals"
}
