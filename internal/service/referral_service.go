package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/esim-referral/internal/constants"
	"github.com/esim-referral/internal/models"
	"github.com/esim-referral/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var customReferralCodePattern = regexp.MustCompile(`^[A-Z0-9]{4,16}$`)

// ReferralService 推荐返利业务服务
type ReferralService struct {
	repo           repository.ReferralRepository
	ledgerRepo     repository.LedgerRepository
	userRepo       repository.UserRepository
	bankRepo       repository.BankAccountRepository
	settingService *SettingService
}

// NewReferralService 创建推荐返利服务
func NewReferralService(
	repo repository.ReferralRepository,
	ledgerRepo repository.LedgerRepository,
	userRepo repository.UserRepository,
	bankRepo repository.BankAccountRepository,
	settingService *SettingService,
) *ReferralService {
	return &ReferralService{
		repo:           repo,
		ledgerRepo:     ledgerRepo,
		userRepo:       userRepo,
		bankRepo:       bankRepo,
		settingService: settingService,
	}
}

// ReferralStats 推荐人中心数据
type ReferralStats struct {
	Code           string               `json:"code"`
	IsActive       bool                 `json:"is_active"`
	ExpiresAt      *time.Time           `json:"expires_at"`
	UsageCount     int64                `json:"usage_count"`
	Balance        models.Money         `json:"balance"`
	TotalEarned    models.Money         `json:"total_earned"`
	TotalWithdrawn models.Money         `json:"total_withdrawn"`
	RecentEarnings []models.Transaction `json:"recent_earnings"`
}

// CommissionInput 佣金入账输入
type CommissionInput struct {
	UserID     uint            // 购买用户（被推荐人）
	Amount     decimal.Decimal // 购买金额
	PurchaseID string          // 外部交易号
	PlanID     string
	PlanName   string
}

// CommissionResult 佣金入账结果
type CommissionResult struct {
	Commission models.Money `json:"commission"`
	Duplicate  bool         `json:"duplicate"`
	Credited   bool         `json:"credited"`
}

// WithdrawResult 提现结果
type WithdrawResult struct {
	Withdrawal       *models.Withdrawal `json:"withdrawal"`
	Amount           models.Money       `json:"amount"`
	TransactionCount int                `json:"transaction_count"`
}

// BalanceReport 余额对账结果（账户余额与流水推导值的偏差）
type BalanceReport struct {
	UserID         uint         `json:"user_id"`
	Balance        models.Money `json:"balance"`
	DerivedBalance models.Money `json:"derived_balance"`
	Drift          models.Money `json:"drift"`
}

// ReferralUsageStats 推荐计划全局统计
type ReferralUsageStats struct {
	TotalRedemptions int64                 `json:"total_redemptions"`
	UniqueReferrers  int64                 `json:"unique_referrers"`
	TotalCommissions int64                 `json:"total_commissions"`
	TotalEarnings    models.Money          `json:"total_earnings"`
	RecentCodes      []models.ReferralCode `json:"recent_codes"`
}

// CreateReferralCode 为用户创建推荐码（已持有时直接返回现有码）
func (s *ReferralService) CreateReferralCode(userID uint, customCode string) (*models.ReferralCode, error) {
	if userID == 0 || s.repo == nil || s.userRepo == nil {
		return nil, ErrNotFound
	}
	setting, err := s.settingService.GetReferralSetting()
	if err != nil {
		return nil, err
	}
	if !setting.Enabled {
		return nil, ErrReferralDisabled
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if strings.TrimSpace(user.Status) == constants.UserStatusDisabled {
		return nil, ErrUserDisabled
	}

	existing, err := s.repo.GetCodeByOwnerID(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now()
	var expiresAt *time.Time
	if setting.CodeLifetimeMonths > 0 {
		t := now.AddDate(0, setting.CodeLifetimeMonths, 0)
		expiresAt = &t
	}

	custom := strings.ToUpper(strings.TrimSpace(customCode))
	if custom != "" {
		if !customReferralCodePattern.MatchString(custom) {
			return nil, ErrReferralCodeInvalid
		}
		created, err := s.createCodeWithOwner(user, custom, expiresAt)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrReferralCodeTaken
			}
			return nil, err
		}
		return created, nil
	}

	for i := 0; i < constants.ReferralCodeGenMaxRetry; i++ {
		code, genErr := generateReferralCode(setting.CodeLength)
		if genErr != nil {
			return nil, genErr
		}
		created, err := s.createCodeWithOwner(user, code, expiresAt)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, err
		}
		return created, nil
	}

	// 随机生成连续冲突时退化为时间戳码
	fallback := fallbackReferralCode(now)
	created, err := s.createCodeWithOwner(user, fallback, expiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrReferralCodeTaken
		}
		return nil, err
	}
	return created, nil
}

// createCodeWithOwner 在同一事务内写入推荐码与持有人指针
func (s *ReferralService) createCodeWithOwner(user *models.User, code string, expiresAt *time.Time) (*models.ReferralCode, error) {
	record := &models.ReferralCode{
		Code:       code,
		OwnerID:    user.ID,
		OwnerEmail: user.Email,
		IsActive:   true,
		ExpiresAt:  expiresAt,
	}
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		userRepoTx := s.userRepo.WithTx(tx)
		if err := repoTx.CreateCode(record); err != nil {
			return err
		}
		locked, err := userRepoTx.GetByIDForUpdate(user.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrNotFound
		}
		locked.ReferralCode = &record.Code
		return userRepoTx.Update(locked)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// IsValidReferralCode 校验推荐码是否可用（存在、启用且未过期）
func (s *ReferralService) IsValidReferralCode(code string) (bool, error) {
	normalized := normalizeReferralCodeInput(code)
	if normalized == "" {
		return false, nil
	}
	record, err := s.repo.GetCodeByCode(normalized)
	if err != nil {
		return false, err
	}
	return record != nil && record.Usable(time.Now()), nil
}

// ProcessReferralUsage 兑换推荐码（每用户至多一次，不可撤销）
func (s *ReferralService) ProcessReferralUsage(code string, newUserID uint) error {
	if newUserID == 0 || s.repo == nil || s.userRepo == nil {
		return ErrNotFound
	}
	setting, err := s.settingService.GetReferralSetting()
	if err != nil {
		return err
	}
	if !setting.Enabled {
		return ErrReferralDisabled
	}
	normalized := normalizeReferralCodeInput(code)
	if normalized == "" {
		return ErrReferralCodeNotFound
	}

	return s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		userRepoTx := s.userRepo.WithTx(tx)

		user, err := userRepoTx.GetByIDForUpdate(newUserID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrNotFound
		}
		if user.HasRedeemed() {
			return ErrReferralAlreadyRedeemed
		}

		record, err := repoTx.GetCodeByCodeForUpdate(normalized)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrReferralCodeNotFound
		}
		if !record.IsActive {
			return ErrReferralCodeInactive
		}
		now := time.Now()
		if record.Expired(now) {
			return ErrReferralCodeExpired
		}
		if record.OwnerID == newUserID {
			return ErrSelfReferral
		}

		record.UsageCount++
		record.LastUsedAt = &now
		if err := repoTx.UpdateCode(record); err != nil {
			return err
		}

		user.ReferredBy = &record.Code
		return userRepoTx.Update(user)
	})
}

// ProcessTransactionCommission 为被推荐用户的已完成购买入账佣金。
// 同一 (purchase_id, referred_user_id) 至多入账一次，重复调用返回 Duplicate 而非错误。
func (s *ReferralService) ProcessTransactionCommission(input CommissionInput) (*CommissionResult, error) {
	result := &CommissionResult{Commission: models.NewMoneyFromDecimal(decimal.Zero)}
	if input.UserID == 0 || strings.TrimSpace(input.PurchaseID) == "" {
		return nil, ErrNotFound
	}
	if s.repo == nil || s.ledgerRepo == nil || s.userRepo == nil {
		return nil, ErrNotFound
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if !user.HasRedeemed() {
		return result, nil
	}

	// 事务外预检仅为快速返回，并发下以唯一索引为准
	existing, err := s.repo.GetCommissionByPurchaseAndUser(input.PurchaseID, input.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		result.Duplicate = true
		result.Commission = existing.CommissionAmount
		return result, nil
	}

	record, err := s.repo.GetCodeByCode(*user.ReferredBy)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrReferralCodeNotFound
	}
	if record.OwnerID == input.UserID {
		return result, nil
	}

	setting, err := s.settingService.GetReferralSetting()
	if err != nil {
		return nil, err
	}
	if !setting.Enabled {
		return result, nil
	}
	if setting.CommissionRate == nil {
		return nil, ErrCommissionRateNotConfigured
	}

	baseAmount := input.Amount.Round(2)
	rate := decimal.NewFromFloat(*setting.CommissionRate).Round(2)
	commissionAmount := baseAmount.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	if commissionAmount.LessThanOrEqual(decimal.Zero) {
		return result, nil
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		repoTx := s.repo.WithTx(tx)
		ledgerTx := s.ledgerRepo.WithTx(tx)

		commission := &models.ReferralCommission{
			ReferrerID:       record.OwnerID,
			ReferredUserID:   input.UserID,
			PurchaseID:       strings.TrimSpace(input.PurchaseID),
			ReferralCode:     record.Code,
			PlanID:           input.PlanID,
			PlanName:         input.PlanName,
			BaseAmount:       models.NewMoneyFromDecimal(baseAmount),
			RatePercent:      models.NewMoneyFromDecimal(rate),
			CommissionAmount: models.NewMoneyFromDecimal(commissionAmount),
			Status:           constants.CommissionStatusPending,
		}
		if err := repoTx.CreateCommission(commission); err != nil {
			return err
		}

		account, err := ensureAccountForUpdate(ledgerTx, record.OwnerID)
		if err != nil {
			return err
		}
		balanceBefore := account.Balance.Decimal
		balanceAfter := balanceBefore.Add(commissionAmount).Round(2)
		account.Balance = models.NewMoneyFromDecimal(balanceAfter)
		account.TotalEarned = models.NewMoneyFromDecimal(account.TotalEarned.Decimal.Add(commissionAmount).Round(2))
		if err := ledgerTx.UpdateAccount(account); err != nil {
			return err
		}

		txn := &models.Transaction{
			UserID:         record.OwnerID,
			Type:           constants.TxnTypeDeposit,
			Method:         constants.TxnMethodReferralCommission,
			Amount:         models.NewMoneyFromDecimal(commissionAmount),
			Status:         constants.TxnStatusCompleted,
			Description:    fmt.Sprintf("Referral earnings from code %s", record.Code),
			ReferralCode:   record.Code,
			ReferredUserID: &input.UserID,
			PurchaseID:     strings.TrimSpace(input.PurchaseID),
			BalanceBefore:  models.NewMoneyFromDecimal(balanceBefore),
			BalanceAfter:   models.NewMoneyFromDecimal(balanceAfter),
		}
		if err := ledgerTx.CreateTransaction(txn); err != nil {
			return err
		}

		lockedCode, err := repoTx.GetCodeByCodeForUpdate(record.Code)
		if err != nil {
			return err
		}
		if lockedCode == nil {
			return ErrReferralCodeNotFound
		}
		lockedCode.TotalTransactions++
		lockedCode.TotalTransactionValue = models.NewMoneyFromDecimal(lockedCode.TotalTransactionValue.Decimal.Add(baseAmount).Round(2))
		lockedCode.TotalEarnings = models.NewMoneyFromDecimal(lockedCode.TotalEarnings.Decimal.Add(commissionAmount).Round(2))
		return repoTx.UpdateCode(lockedCode)
	})
	if err != nil {
		if isUniqueViolation(err) {
			// 并发下另一次调用已入账，按重复成功返回
			credited, lookupErr := s.repo.GetCommissionByPurchaseAndUser(input.PurchaseID, input.UserID)
			if lookupErr != nil {
				return nil, lookupErr
			}
			result.Duplicate = true
			if credited != nil {
				result.Commission = credited.CommissionAmount
			}
			return result, nil
		}
		return nil, err
	}

	result.Credited = true
	result.Commission = models.NewMoneyFromDecimal(commissionAmount)
	return result, nil
}

// Withdraw 将全部已完成未结清的佣金流水打包提现
func (s *ReferralService) Withdraw(userID uint) (*WithdrawResult, error) {
	if userID == 0 || s.ledgerRepo == nil {
		return nil, ErrNotFound
	}
	setting, err := s.settingService.GetReferralSetting()
	if err != nil {
		return nil, err
	}

	bank, err := s.bankRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if bank == nil {
		return nil, ErrBankAccountMissing
	}

	minAmount := decimal.NewFromFloat(setting.MinWithdrawAmount).Round(2)
	var result *WithdrawResult
	err = s.ledgerRepo.Transaction(func(tx *gorm.DB) error {
		ledgerTx := s.ledgerRepo.WithTx(tx)

		txns, err := ledgerTx.ListWithdrawableForUpdate(userID)
		if err != nil {
			return err
		}
		if len(txns) == 0 {
			return ErrNothingToWithdraw
		}

		total := decimal.Zero
		ids := make([]uint, 0, len(txns))
		for _, txn := range txns {
			total = total.Add(txn.Amount.Decimal)
			ids = append(ids, txn.ID)
		}
		total = total.Round(2)
		if total.LessThan(minAmount) {
			return &WithdrawBelowMinimumError{
				Minimum:   minAmount.StringFixed(2),
				Total:     total.StringFixed(2),
				Shortfall: minAmount.Sub(total).StringFixed(2),
			}
		}

		if err := ledgerTx.MarkTransactionsPaid(ids, "system"); err != nil {
			return err
		}

		account, err := ensureAccountForUpdate(ledgerTx, userID)
		if err != nil {
			return err
		}
		balanceBefore := account.Balance.Decimal
		balanceAfter := balanceBefore.Sub(total).Round(2)
		account.Balance = models.NewMoneyFromDecimal(balanceAfter)
		account.TotalWithdrawn = models.NewMoneyFromDecimal(account.TotalWithdrawn.Decimal.Add(total).Round(2))
		if err := ledgerTx.UpdateAccount(account); err != nil {
			return err
		}

		payout := &models.Transaction{
			UserID:        userID,
			Type:          constants.TxnTypePurchase,
			Method:        constants.TxnMethodWithdrawal,
			Amount:        models.NewMoneyFromDecimal(total),
			Status:        constants.TxnStatusCompleted,
			Description:   fmt.Sprintf("Withdrawal of %d referral commission transactions", len(ids)),
			BalanceBefore: models.NewMoneyFromDecimal(balanceBefore),
			BalanceAfter:  models.NewMoneyFromDecimal(balanceAfter),
		}
		if err := ledgerTx.CreateTransaction(payout); err != nil {
			return err
		}

		withdrawal := &models.Withdrawal{
			UserID:           userID,
			Amount:           models.NewMoneyFromDecimal(total),
			TransactionCount: len(ids),
			Status:           constants.WithdrawalStatusCompleted,
			BankSnapshot:     bankSnapshot(bank),
			ReviewedBy:       "system",
		}
		if err := ledgerTx.CreateWithdrawal(withdrawal); err != nil {
			return err
		}

		result = &WithdrawResult{
			Withdrawal:       withdrawal,
			Amount:           models.NewMoneyFromDecimal(total),
			TransactionCount: len(ids),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetReferralStats 获取推荐人中心数据（无码时惰性创建）
func (s *ReferralService) GetReferralStats(userID uint) (*ReferralStats, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	record, err := s.repo.GetCodeByOwnerID(userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record, err = s.CreateReferralCode(userID, "")
		if err != nil {
			return nil, err
		}
	}

	stats := &ReferralStats{
		Code:           record.Code,
		IsActive:       record.IsActive,
		ExpiresAt:      record.ExpiresAt,
		UsageCount:     record.UsageCount,
		Balance:        models.NewMoneyFromDecimal(decimal.Zero),
		TotalEarned:    models.NewMoneyFromDecimal(decimal.Zero),
		TotalWithdrawn: models.NewMoneyFromDecimal(decimal.Zero),
		RecentEarnings: []models.Transaction{},
	}

	account, err := s.ledgerRepo.GetAccountByUserID(userID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		stats.Balance = account.Balance
		stats.TotalEarned = account.TotalEarned
		stats.TotalWithdrawn = account.TotalWithdrawn
	}

	recent, _, err := s.ledgerRepo.ListTransactions(repository.TransactionListFilter{
		Page:     1,
		PageSize: 10,
		UserID:   userID,
		Methods:  []string{constants.TxnMethodReferralCommission},
	})
	if err != nil {
		return nil, err
	}
	stats.RecentEarnings = recent
	return stats, nil
}

// AvailableBalance 读取权威余额
func (s *ReferralService) AvailableBalance(userID uint) (models.Money, error) {
	account, err := s.ledgerRepo.GetAccountByUserID(userID)
	if err != nil {
		return models.Money{}, err
	}
	if account == nil {
		return models.NewMoneyFromDecimal(decimal.Zero), nil
	}
	return account.Balance, nil
}

// ListTransactions 分页查询用户流水，filter 取 all/earnings/withdrawals
func (s *ReferralService) ListTransactions(userID uint, page, pageSize int, filter string) ([]models.Transaction, int64, error) {
	if userID == 0 {
		return nil, 0, ErrNotFound
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	listFilter := repository.TransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
	}
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "", "all":
	case "earnings":
		listFilter.Methods = []string{constants.TxnMethodReferralCommission}
	case "withdrawals":
		// 历史 referral_balance 扣减与 withdrawal 口径一致
		listFilter.Methods = []string{constants.TxnMethodWithdrawal, constants.TxnMethodReferralBalance}
	default:
		return nil, 0, ErrNotFound
	}
	return s.ledgerRepo.ListTransactions(listFilter)
}

// ReconcileBalance 对账：账户余额与流水推导余额的偏差（只读，不修正）
func (s *ReferralService) ReconcileBalance(userID uint) (*BalanceReport, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	credits, err := s.ledgerRepo.SumByMethods(userID, []string{constants.TxnMethodReferralCommission})
	if err != nil {
		return nil, err
	}
	debits, err := s.ledgerRepo.SumByMethods(userID, []string{constants.TxnMethodWithdrawal, constants.TxnMethodReferralBalance})
	if err != nil {
		return nil, err
	}
	derived := credits.Decimal.Sub(debits.Decimal).Round(2)

	balance := decimal.Zero
	account, err := s.ledgerRepo.GetAccountByUserID(userID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		balance = account.Balance.Decimal
	}

	return &BalanceReport{
		UserID:         userID,
		Balance:        models.NewMoneyFromDecimal(balance),
		DerivedBalance: models.NewMoneyFromDecimal(derived),
		Drift:          models.NewMoneyFromDecimal(balance.Sub(derived).Round(2)),
	}, nil
}

// ListCodes 管理端分页查询推荐码
func (s *ReferralService) ListCodes(filter repository.ReferralCodeListFilter) ([]models.ReferralCode, int64, error) {
	return s.repo.ListCodes(filter)
}

// ListWithdrawals 管理端分页查询提现记录
func (s *ReferralService) ListWithdrawals(filter repository.WithdrawalListFilter) ([]models.Withdrawal, int64, error) {
	return s.ledgerRepo.ListWithdrawals(filter)
}

// GetUsageStats 管理端推荐计划全局统计
func (s *ReferralService) GetUsageStats() (*ReferralUsageStats, error) {
	redemptions, err := s.repo.SumCodeUsageCount()
	if err != nil {
		return nil, err
	}
	referrers, err := s.repo.CountDistinctReferrers()
	if err != nil {
		return nil, err
	}
	commissions, err := s.repo.CountCommissions()
	if err != nil {
		return nil, err
	}
	earnings, err := s.repo.SumCommissionAmount()
	if err != nil {
		return nil, err
	}
	recent, _, err := s.repo.ListCodes(repository.ReferralCodeListFilter{Page: 1, PageSize: 10})
	if err != nil {
		return nil, err
	}
	return &ReferralUsageStats{
		TotalRedemptions: redemptions,
		UniqueReferrers:  referrers,
		TotalCommissions: commissions,
		TotalEarnings:    earnings,
		RecentCodes:      recent,
	}, nil
}

// PurgeReferralData 管理端清空全部推荐数据（不可逆）
func (s *ReferralService) PurgeReferralData() (repository.PurgeResult, error) {
	return s.repo.PurgeAll()
}

// DeactivateExpiredCodes 停用已过期推荐码，返回受影响行数
func (s *ReferralService) DeactivateExpiredCodes(now time.Time) (int64, error) {
	return s.repo.DeactivateExpiredCodes(now)
}

// ensureAccountForUpdate 加锁获取余额账户，不存在则先创建
func ensureAccountForUpdate(ledgerTx repository.LedgerRepository, userID uint) (*models.BalanceAccount, error) {
	account, err := ledgerTx.GetAccountByUserIDForUpdate(userID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}
	created := &models.BalanceAccount{UserID: userID}
	if err := ledgerTx.CreateAccount(created); err != nil {
		if !isUniqueViolation(err) {
			return nil, err
		}
	}
	return ledgerTx.GetAccountByUserIDForUpdate(userID)
}

func bankSnapshot(bank *models.BankAccount) models.JSON {
	if bank == nil {
		return models.JSON{}
	}
	masked := bank.Masked()
	return models.JSON{
		"holder_name":    masked.HolderName,
		"currency":       masked.Currency,
		"country":        masked.Country,
		"institution":    masked.Institution,
		"transit":        masked.Transit,
		"account_number": masked.AccountNumber,
		"account_type":   masked.AccountType,
	}
}

func normalizeReferralCodeInput(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func generateReferralCode(length int) (string, error) {
	if length <= 0 {
		length = 8
	}
	var builder strings.Builder
	builder.Grow(length)
	max := big.NewInt(int64(len(constants.ReferralCodeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(constants.ReferralCodeAlphabet[n.Int64()])
	}
	return builder.String(), nil
}

func fallbackReferralCode(now time.Time) string {
	return fmt.Sprintf("%s%d", constants.ReferralCodeFallbackPrefix, now.UnixMilli()%100000000)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
