package constants

// 流水类型常量
const (
	TxnTypeDeposit  = "deposit"
	TxnTypePurchase = "purchase"
)

// 流水业务子类常量
const (
	TxnMethodReferralCommission = "referral_commission"
	TxnMethodWithdrawal         = "withdrawal"
	// TxnMethodReferralBalance 历史数据中的提现扣减子类，余额口径与 withdrawal 等同
	TxnMethodReferralBalance = "referral_balance"
)

// 流水状态常量
const (
	TxnStatusPending   = "pending"
	TxnStatusCompleted = "completed"
	TxnStatusPaid      = "paid"
	TxnStatusFailed    = "failed"
)

// 佣金审计记录状态常量
const (
	CommissionStatusPending   = "pending"
	CommissionStatusPaid      = "paid"
	CommissionStatusCancelled = "cancelled"
)

// 提现记录状态常量
const (
	WithdrawalStatusCompleted = "completed"
)

// 推荐码常量
const (
	ReferralCodeAlphabet       = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ReferralCodeFallbackPrefix = "REF"
	ReferralCodeGenMaxRetry    = 10
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 用户角色常量
const (
	UserRoleUser  = "user"
	UserRoleAdmin = "admin"
)

// 银行账户常量
const (
	BankCurrencyUSD = "USD"
	BankCurrencyCAD = "CAD"
	BankCountryUS   = "US"
	BankCountryCA   = "CA"

	BankAccountTypeChecking = "checking"
	BankAccountTypeSaving   = "saving"
)

// 队列常量
const (
	QueueDefault           = "default"
	TaskReferralCommission = "referral:commission"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "esr"
)

// 设置键常量
const (
	SettingKeySiteConfig     = "site_config"
	SettingKeyReferralConfig = "referral_config"
)

// 币种常量
const (
	SiteCurrencyDefault = "USD"
)
