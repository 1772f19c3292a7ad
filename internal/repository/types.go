package repository

import "time"

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page          int
	PageSize      int
	Keyword       string
	Status        string
	Role          string
	ReferredBy    string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	LastLoginFrom *time.Time
	LastLoginTo   *time.Time
}

// ReferralCodeListFilter 查询推荐码列表的过滤条件
type ReferralCodeListFilter struct {
	Page       int
	PageSize   int
	Keyword    string
	OnlyActive bool
}

// TransactionListFilter 查询余额流水列表的过滤条件
type TransactionListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Type        string
	Methods     []string
	Status      string
	PurchaseID  string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CommissionListFilter 查询佣金审计记录的过滤条件
type CommissionListFilter struct {
	Page       int
	PageSize   int
	ReferrerID uint
	Code       string
	Status     string
}

// WithdrawalListFilter 查询提现记录的过滤条件
type WithdrawalListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AuthzAuditLogListFilter 查询权限审计日志列表的过滤条件
type AuthzAuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorAdminID uint
	TargetAdminID   uint
	Action          string
	Role            string
	Object          string
	Method          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}
