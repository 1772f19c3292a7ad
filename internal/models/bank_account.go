package models

import (
	"time"

	"gorm.io/gorm"
)

// BankAccount 提现收款银行账户（每用户一条）
type BankAccount struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                // 主键
	UserID        uint           `gorm:"not null;uniqueIndex" json:"user_id"`                 // 用户ID
	HolderName    string         `gorm:"type:varchar(128);not null" json:"holder_name"`       // 开户人姓名
	Currency      string         `gorm:"type:varchar(8);not null" json:"currency"`            // 币种（USD/CAD）
	Country       string         `gorm:"type:varchar(8);not null" json:"country"`             // 国家（US/CA）
	Institution   string         `gorm:"type:varchar(8)" json:"institution"`                  // 机构号（加拿大 3 位）
	Transit       string         `gorm:"type:varchar(16);not null" json:"transit"`            // 美国 Routing（9 位）/ 加拿大 Transit（5 位）
	AccountNumber string         `gorm:"type:varchar(32);not null" json:"account_number"`     // 账号
	AccountType   string         `gorm:"type:varchar(16);not null" json:"account_type"`       // 账户类型（checking/saving）
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                             // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (BankAccount) TableName() string {
	return "bank_accounts"
}

// Masked 返回脱敏副本（仅保留账号后四位）
func (b BankAccount) Masked() BankAccount {
	if n := len(b.AccountNumber); n > 4 {
		b.AccountNumber = "****" + b.AccountNumber[n-4:]
	}
	return b
}
