package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                        // 主键
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`           // 邮箱
	PasswordHash       string         `gorm:"not null" json:"-"`                           // 密码哈希（不返回给前端）
	DisplayName        string         `gorm:"default:''" json:"display_name"`              // 昵称
	Role               string         `gorm:"type:varchar(20);default:'user'" json:"role"` // 角色
	Status             string         `gorm:"default:'active'" json:"status"`              // 账号状态
	ReferralCode       *string        `gorm:"type:varchar(32);index" json:"referral_code"` // 本人持有的推荐码
	ReferredBy         *string        `gorm:"type:varchar(32);index" json:"referred_by"`   // 注册时兑换的推荐码（nil 表示未兑换过）
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                 // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                              // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                               // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                     // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`                     // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                              // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// HasRedeemed 是否已兑换过他人推荐码
func (u *User) HasRedeemed() bool {
	return u != nil && u.ReferredBy != nil && *u.ReferredBy != ""
}
