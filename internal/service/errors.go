package service

import "errors"

// 业务通用错误
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password too weak")
	ErrUserDisabled       = errors.New("user disabled")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrProfileEmpty       = errors.New("nothing to update")
)

// 推荐码相关错误
var (
	ErrReferralDisabled        = errors.New("referral program disabled")
	ErrReferralCodeNotFound    = errors.New("referral code not found")
	ErrReferralCodeInactive    = errors.New("referral code is not active")
	ErrReferralCodeExpired     = errors.New("referral code has expired")
	ErrReferralCodeTaken       = errors.New("referral code already exists")
	ErrReferralCodeInvalid     = errors.New("referral code format invalid")
	ErrReferralAlreadyRedeemed = errors.New("referral code already redeemed by this user")
	ErrSelfReferral            = errors.New("self-referral not allowed")
	ErrReferralConfigInvalid   = errors.New("referral config invalid")
)

// 佣金与提现相关错误
var (
	ErrCommissionRateNotConfigured = errors.New("commission rate not configured")
	ErrNothingToWithdraw           = errors.New("nothing to withdraw")
	ErrBankAccountMissing          = errors.New("bank account not set")
	ErrBankAccountInvalid          = errors.New("bank account invalid")
)

// WithdrawBelowMinimumError 低于最低提现门槛错误（携带差额）
type WithdrawBelowMinimumError struct {
	Minimum   string // 最低提现金额（2 位小数）
	Total     string // 当前可提现总额（2 位小数）
	Shortfall string // 差额（minimum - total，2 位小数）
}

// Error 实现 error 接口
func (e *WithdrawBelowMinimumError) Error() string {
	return "need $" + e.Shortfall + " more to reach the $" + e.Minimum + " minimum withdrawal"
}

// ErrWithdrawBelowMinimum 哨兵值，仅用于 errors.Is 匹配
var ErrWithdrawBelowMinimum = errors.New("withdrawal below minimum")

// Is 支持 errors.Is(err, ErrWithdrawBelowMinimum)
func (e *WithdrawBelowMinimumError) Is(target error) bool {
	return target == ErrWithdrawBelowMinimum
}
