package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralCommission 佣金审计记录（唯一索引兜底防重复入账）
type ReferralCommission struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                                                    // 主键
	ReferrerID       uint           `gorm:"not null;index" json:"referrer_id"`                                                       // 推荐人ID
	ReferredUserID   uint           `gorm:"not null;index;index:idx_referral_commission_unique,unique" json:"referred_user_id"`      // 被推荐用户ID
	PurchaseID       string         `gorm:"type:varchar(64);not null;index:idx_referral_commission_unique,unique" json:"purchase_id"` // 外部交易号
	ReferralCode     string         `gorm:"type:varchar(32);not null;index" json:"referral_code"`                                    // 推荐码
	PlanID           string         `gorm:"type:varchar(64)" json:"plan_id"`                                                         // 套餐ID
	PlanName         string         `gorm:"type:varchar(255)" json:"plan_name"`                                                      // 套餐名称
	BaseAmount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_amount"`                                // 佣金基数金额
	RatePercent      Money          `gorm:"type:decimal(10,2);not null;default:0" json:"rate_percent"`                               // 佣金比例（百分比）
	CommissionAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_amount"`                          // 佣金金额
	Status           string         `gorm:"type:varchar(20);not null;index" json:"status"`                                           // 状态
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                                                 // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                                                 // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                                          // 软删除时间
}

// TableName 指定表名
func (ReferralCommission) TableName() string {
	return "referral_commissions"
}
