package service

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/esim-referral/internal/constants"
	"github.com/esim-referral/internal/models"
	"github.com/esim-referral/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupReferralServiceTest(t *testing.T) (*ReferralService, *SettingService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:referral_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.ReferralCode{},
		&models.ReferralCommission{},
		&models.Transaction{},
		&models.BalanceAccount{},
		&models.BankAccount{},
		&models.Withdrawal{},
		&models.Setting{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	settingService := NewSettingService(repository.NewSettingRepository(db))
	svc := NewReferralService(
		repository.NewReferralRepository(db),
		repository.NewLedgerRepository(db),
		repository.NewUserRepository(db),
		repository.NewBankAccountRepository(db),
		settingService,
	)
	return svc, settingService, db
}

func createReferralTestUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	user := &models.User{
		ID:           id,
		Email:        fmt.Sprintf("referral_user_%d@example.com", id),
		PasswordHash: "hash",
		Status:       constants.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func setCommissionRate(t *testing.T, settingService *SettingService, rate float64) {
	t.Helper()
	setting := ReferralDefaultSetting()
	setting.CommissionRate = &rate
	if _, err := settingService.UpdateReferralSetting(setting); err != nil {
		t.Fatalf("update referral setting failed: %v", err)
	}
}

func createReferralTestBank(t *testing.T, db *gorm.DB, userID uint) {
	t.Helper()
	bank := &models.BankAccount{
		UserID:        userID,
		HolderName:    "Test Holder",
		Currency:      constants.BankCurrencyUSD,
		Country:       constants.BankCountryUS,
		Transit:       "021000021",
		AccountNumber: "000123456789",
		AccountType:   constants.BankAccountTypeChecking,
	}
	if err := db.Create(bank).Error; err != nil {
		t.Fatalf("create bank account failed: %v", err)
	}
}

func TestCreateReferralCodeGenerated(t *testing.T) {
	svc, _, db := setupReferralServiceTest(t)
	user := createReferralTestUser(t, db, 1)

	record, err := svc.CreateReferralCode(user.ID, "")
	if err != nil {
		t.Fatalf("create referral code failed: %v", err)
	}
	if !regexp.MustCompile(`^[A-Z0-9]{8}$`).MatchString(record.Code) {
		t.Fatalf("unexpected code format: %s", record.Code)
	}
	if !record.IsActive {
		t.Fatalf("expected code to be active")
	}
	if record.ExpiresAt == nil || record.ExpiresAt.Before(time.Now().AddDate(0, 1, 0)) {
		t.Fatalf("expected expiry about two months out, got: %v", record.ExpiresAt)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if stored.ReferralCode == nil || *stored.ReferralCode != record.Code {
		t.Fatalf("expected user referral code %s, got %v", record.Code, stored.ReferralCode)
	}

	// 已持有时幂等返回同一个码
	again, err := svc.CreateReferralCode(user.ID, "")
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if again.Code != record.Code {
		t.Fatalf("expected same code %s, got %s", record.Code, again.Code)
	}
}

func TestCreateReferralCodeCustomNormalized(t *testing.T) {
	svc, _, db := setupReferralServiceTest(t)
	user := createReferralTestUser(t, db, 2)

	record, err := svc.CreateReferralCode(user.ID, "  myCode42 ")
	if err != nil {
		t.Fatalf("create custom code failed: %v", err)
	}
	if record.Code != "MYCODE42" {
		t.Fatalf("expected MYCODE42, got %s", record.Code)
	}
}

func TestCreateReferralCodeCustomInvalid(t *testing.T) {
	svc, _, db := setupReferralServiceTest(t)
	user := createReferralTestUser(t, db, 3)

	if _, err := svc.CreateReferralCode(user.ID, "ab!"); !errors.Is(err, ErrReferralCodeInvalid) {
		t.Fatalf("expected invalid code error, got: %v", err)
	}
}

func TestCreateReferralCodeTaken(t *testing.T) {
	svc, _, db := setupReferralServiceTest(t)
	first := createReferralTestUser(t, db, 4)
	second := createReferralTestUser(t, db, 5)

	if _, err := svc.CreateReferralCode(first.ID, "TAKEN123"); err != nil {
		t.Fatalf("create first code failed: %v", err)
	}
	if _, err := svc.CreateReferralCode(second.ID, "TAKEN123"); !errors.Is(err, ErrReferralCodeTaken) {
		t.Fatalf("expected taken error, got: %v", err)
	}
}

func TestIsValidReferralCode(t *testing.T) {
	svc, _, db := setupReferralServiceTest(t)
	owner := createReferralTestUser(t, db, 6)

	record, err := svc.CreateReferralCode(owner.ID, "VALID001")
	if err != nil {
		t.Fatalf("create code failed: %v", err)
	}

	valid, err := svc.IsValidReferralCode("valid001")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !valid {
		t.Fatalf("expected code to be valid")
	}

	valid, err = svc.IsValidReferralCode("MISSING1")
	if err != nil {
		t.Fatalf("validate missing failed: %v", err)
	}
	if valid {
		t.Fatalf("expected unknown code to be invalid")
	}

	expired := time.Now().Add(-time.Hour)
	if err := db.Model(&models.ReferralCode{}).Where("id = ?", record.ID).Update("expires_at", expired).Error; err != nil {
		t.Fatalf("expire code failed: %v", err)
	}
	valid, err = svc.IsValidReferralCode(record.Code)
	if err != nil {
		t.Fatalf("validate expired failed: %v", err)
	}
	if valid {
		t.Fatalf("expected expired code to be invalid")
	}
}

func TestProcessReferralUsage(t *testing.T) {
	svc, _, db := setupReferralServiceTest(t)
	owner := createReferralTestUser(t, db, 7)
	referred := createReferralTestUser(t, db, 8)

	record, err := svc.CreateReferralCode(owner.ID, "OWNER777")
	if err != nil {
		t.Fatalf("create code failed: %v", err)
	}

	if err := svc.ProcessReferralUsage(record.Code, referred.ID); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, referred.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if stored.ReferredBy == nil || *stored.ReferredBy != record.Code {
		t.Fatalf("expected referred_by %s, got %v", record.Code, stored.ReferredBy)
	}

	var storedCode models.ReferralCode
	if err := db.First(&storedCode, record.ID).Error; err != nil {
		t.Fatalf("reload code failed: %v", err)
	}
	if storedCode.UsageCount != 1 {
		t.Fatalf("expected usage count 1, got %d", storedCode.UsageCount)
	}
	if storedCode.LastUsedAt == nil {
		t.Fatalf("expected last_used_at to be set")
	}

	// 每个账户只能兑换一次
	if err := svc.ProcessReferralUsage(record.Code, referred.ID); !errors.Is(err, ErrReferralAlreadyRedeemed) {
		t.Fatalf("expected already redeemed, got: %v", err)
	}
}

func TestProcessReferralUsageSelfReferral(t *testing.T) {
	svc, _, db := setupReferralServiceTest(t)
	owner := createReferralTestUser(t, db, 9)

	record, err := svc.CreateReferralCode(owner.ID, "SELFCODE")
	if err != nil {
		t.Fatalf("create code failed: %v", err)
	}
	if err := svc.ProcessReferralUsage(record.Code, owner.ID); !errors.Is(err, ErrSelfReferral) {
		t.Fatalf("expected self referral error, got: %v", err)
	}
}

func TestProcessReferralUsageUnknownCode(t *testing.T) {
	svc, _, db := setupReferralServiceTest(t)
	referred := createReferralTestUser(t, db, 10)

	if err := svc.ProcessReferralUsage("NOPE0000", referred.ID); !errors.Is(err, ErrReferralCodeNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
}

func setupCommissionScenario(t *testing.T, svc *ReferralService, db *gorm.DB, ownerID, referredID uint, code string) {
	t.Helper()
	createReferralTestUser(t, db, ownerID)
	referred := createReferralTestUser(t, db, referredID)
	if _, err := svc.CreateReferralCode(ownerID, code); err != nil {
		t.Fatalf("create code failed: %v", err)
	}
	if err := svc.ProcessReferralUsage(code, referred.ID); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
}

func TestProcessTransactionCommissionCredited(t *testing.T) {
	svc, settingService, db := setupReferralServiceTest(t)
	setCommissionRate(t, settingService, 10)
	setupCommissionScenario(t, svc, db, 11, 12, "RATE1000")

	result, err := svc.ProcessTransactionCommission(CommissionInput{
		UserID:     12,
		Amount:     decimal.NewFromInt(100),
		PurchaseID: "ord-1001",
		PlanID:     "plan-eu-5gb",
		PlanName:   "Europe 5GB",
	})
	if err != nil {
		t.Fatalf("process commission failed: %v", err)
	}
	if !result.Credited || result.Duplicate {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Commission.String() != "10.00" {
		t.Fatalf("expected commission 10.00, got %s", result.Commission.String())
	}

	var account models.BalanceAccount
	if err := db.Where("user_id = ?", 11).First(&account).Error; err != nil {
		t.Fatalf("load balance account failed: %v", err)
	}
	if account.Balance.String() != "10.00" || account.TotalEarned.String() != "10.00" {
		t.Fatalf("unexpected account state: balance=%s earned=%s", account.Balance.String(), account.TotalEarned.String())
	}

	var txn models.Transaction
	if err := db.Where("user_id = ? AND method = ?", 11, constants.TxnMethodReferralCommission).First(&txn).Error; err != nil {
		t.Fatalf("load commission transaction failed: %v", err)
	}
	if txn.Type != constants.TxnTypeDeposit || txn.Status != constants.TxnStatusCompleted {
		t.Fatalf("unexpected transaction: type=%s status=%s", txn.Type, txn.Status)
	}
	if txn.BalanceBefore.String() != "0.00" || txn.BalanceAfter.String() != "10.00" {
		t.Fatalf("unexpected running balance: before=%s after=%s", txn.BalanceBefore.String(), txn.BalanceAfter.String())
	}
	if txn.PurchaseID != "ord-1001" {
		t.Fatalf("expected purchase id on transaction, got %s", txn.PurchaseID)
	}

	var storedCode models.ReferralCode
	if err := db.Where("code = ?", "RATE1000").First(&storedCode).Error; err != nil {
		t.Fatalf("load code failed: %v", err)
	}
	if storedCode.TotalTransactions != 1 {
		t.Fatalf("expected 1 counted transaction, got %d", storedCode.TotalTransactions)
	}
	if storedCode.TotalEarnings.String() != "10.00" {
		t.Fatalf("expected code earnings 10.00, got %s", storedCode.TotalEarnings.String())
	}
}

func TestProcessTransactionCommissionRounding(t *testing.T) {
	svc, settingService, db := setupReferralServiceTest(t)
	setCommissionRate(t, settingService, 7.5)
	setupCommissionScenario(t, svc, db, 13, 14, "ROUND750")

	result, err := svc.ProcessTransactionCommission(CommissionInput{
		UserID:     14,
		Amount:     decimal.RequireFromString("19.99"),
		PurchaseID: "ord-1002",
	})
	if err != nil {
		t.Fatalf("process commission failed: %v", err)
	}
	// 19.99 * 7.5% = 1.49925 → 1.50
	if result.Commission.String() != "1.50" {
		t.Fatalf("expected commission 1.50, got %s", result.Commission.String())
	}
}

func TestProcessTransactionCommissionDuplicate(t *testing.T) {
	svc, settingService, db := setupReferralServiceTest(t)
	setCommissionRate(t, settingService, 10)
	setupCommissionScenario(t, svc, db, 15, 16, "DUPE0001")

	input := CommissionInput{
		UserID:     16,
		Amount:     decimal.NewFromInt(100),
		PurchaseID: "ord-1003",
	}
	if _, err := svc.ProcessTransactionCommission(input); err != nil {
		t.Fatalf("first commission failed: %v", err)
	}

	result, err := svc.ProcessTransactionCommission(input)
	if err != nil {
		t.Fatalf("second commission failed: %v", err)
	}
	if !result.Duplicate || result.Credited {
		t.Fatalf("expected duplicate result, got: %+v", result)
	}
	if result.Commission.String() != "10.00" {
		t.Fatalf("expected recorded commission 10.00, got %s", result.Commission.String())
	}

	var count int64
	if err := db.Model(&models.Transaction{}).Where("user_id = ? AND method = ?", 15, constants.TxnMethodReferralCommission).Count(&count).Error; err != nil {
		t.Fatalf("count transactions failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one credit transaction, got %d", count)
	}

	var account models.BalanceAccount
	if err := db.Where("user_id = ?", 15).First(&account).Error; err != nil {
		t.Fatalf("load account failed: %v", err)
	}
	if account.Balance.String() != "10.00" {
		t.Fatalf("expected balance unchanged at 10.00, got %s", account.Balance.String())
	}
}

func TestProcessTransactionCommissionNoReferrer(t *testing.T) {
	svc, settingService, db := setupReferralServiceTest(t)
	setCommissionRate(t, settingService, 10)
	createReferralTestUser(t, db, 17)

	result, err := svc.ProcessTransactionCommission(CommissionInput{
		UserID:     17,
		Amount:     decimal.NewFromInt(100),
		PurchaseID: "ord-1004",
	})
	if err != nil {
		t.Fatalf("process commission failed: %v", err)
	}
	if result.Credited || result.Duplicate {
		t.Fatalf("expected no-op result, got: %+v", result)
	}
}

func TestProcessTransactionCommissionRateNotConfigured(t *testing.T) {
	svc, _, db := setupReferralServiceTest(t)
	setupCommissionScenario(t, svc, db, 18, 19, "NORATE01")

	_, err := svc.ProcessTransactionCommission(CommissionInput{
		UserID:     19,
		Amount:     decimal.NewFromInt(100),
		PurchaseID: "ord-1005",
	})
	if !errors.Is(err, ErrCommissionRateNotConfigured) {
		t.Fatalf("expected rate not configured, got: %v", err)
	}
}

func TestWithdrawBelowMinimum(t *testing.T) {
	svc, settingService, db := setupReferralServiceTest(t)
	setCommissionRate(t, settingService, 10)
	setupCommissionScenario(t, svc, db, 20, 21, "LOWBAL01")
	createReferralTestBank(t, db, 20)

	if _, err := svc.ProcessTransactionCommission(CommissionInput{
		UserID:     21,
		Amount:     decimal.NewFromInt(100),
		PurchaseID: "ord-1006",
	}); err != nil {
		t.Fatalf("process commission failed: %v", err)
	}

	_, err := svc.Withdraw(20)
	if !errors.Is(err, ErrWithdrawBelowMinimum) {
		t.Fatalf("expected below minimum, got: %v", err)
	}
	var belowMin *WithdrawBelowMinimumError
	if !errors.As(err, &belowMin) {
		t.Fatalf("expected WithdrawBelowMinimumError, got: %T", err)
	}
	if belowMin.Minimum != "50.00" || belowMin.Total != "10.00" || belowMin.Shortfall != "40.00" {
		t.Fatalf("unexpected shortfall detail: %+v", belowMin)
	}
}

func TestWithdrawSettlesTransactions(t *testing.T) {
	svc, settingService, db := setupReferralServiceTest(t)
	setCommissionRate(t, settingService, 10)
	setupCommissionScenario(t, svc, db, 22, 23, "PAYOUT01")
	createReferralTestBank(t, db, 22)

	for i, amount := range []int64{300, 300} {
		if _, err := svc.ProcessTransactionCommission(CommissionInput{
			UserID:     23,
			Amount:     decimal.NewFromInt(amount),
			PurchaseID: fmt.Sprintf("ord-2%03d", i),
		}); err != nil {
			t.Fatalf("process commission %d failed: %v", i, err)
		}
	}

	result, err := svc.Withdraw(22)
	if err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if result.Amount.String() != "60.00" || result.TransactionCount != 2 {
		t.Fatalf("unexpected withdraw result: amount=%s count=%d", result.Amount.String(), result.TransactionCount)
	}
	if result.Withdrawal == nil || result.Withdrawal.Status != constants.WithdrawalStatusCompleted {
		t.Fatalf("unexpected withdrawal record: %+v", result.Withdrawal)
	}
	if got := result.Withdrawal.BankSnapshot["account_number"]; got != "****6789" {
		t.Fatalf("expected masked account number in snapshot, got %v", got)
	}

	var account models.BalanceAccount
	if err := db.Where("user_id = ?", 22).First(&account).Error; err != nil {
		t.Fatalf("load account failed: %v", err)
	}
	if account.Balance.String() != "0.00" || account.TotalWithdrawn.String() != "60.00" {
		t.Fatalf("unexpected account state: balance=%s withdrawn=%s", account.Balance.String(), account.TotalWithdrawn.String())
	}

	var paidCount int64
	if err := db.Model(&models.Transaction{}).
		Where("user_id = ? AND method = ? AND status = ?", 22, constants.TxnMethodReferralCommission, constants.TxnStatusPaid).
		Count(&paidCount).Error; err != nil {
		t.Fatalf("count paid transactions failed: %v", err)
	}
	if paidCount != 2 {
		t.Fatalf("expected 2 paid transactions, got %d", paidCount)
	}

	var payout models.Transaction
	if err := db.Where("user_id = ? AND method = ?", 22, constants.TxnMethodWithdrawal).First(&payout).Error; err != nil {
		t.Fatalf("load payout transaction failed: %v", err)
	}
	if payout.Type != constants.TxnTypePurchase || payout.Amount.String() != "60.00" {
		t.Fatalf("unexpected payout: type=%s amount=%s", payout.Type, payout.Amount.String())
	}

	// 二次提现无可结清流水
	if _, err := svc.Withdraw(22); !errors.Is(err, ErrNothingToWithdraw) {
		t.Fatalf("expected nothing to withdraw, got: %v", err)
	}
}

func TestWithdrawWithoutBankAccount(t *testing.T) {
	svc, settingService, db := setupReferralServiceTest(t)
	setCommissionRate(t, settingService, 10)
	createReferralTestUser(t, db, 24)

	if _, err := svc.Withdraw(24); !errors.Is(err, ErrBankAccountMissing) {
		t.Fatalf("expected bank account missing, got: %v", err)
	}
}

func TestGetReferralStatsLazyCode(t *testing.T) {
	svc, _, db := setupReferralServiceTest(t)
	user := createReferralTestUser(t, db, 25)

	stats, err := svc.GetReferralStats(user.ID)
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.Code == "" || !stats.IsActive {
		t.Fatalf("expected lazily created active code, got: %+v", stats)
	}
	if stats.Balance.String() != "0.00" || stats.TotalEarned.String() != "0.00" {
		t.Fatalf("expected zero balances, got: balance=%s earned=%s", stats.Balance.String(), stats.TotalEarned.String())
	}
}

func TestListTransactionsFilter(t *testing.T) {
	svc, settingService, db := setupReferralServiceTest(t)
	setCommissionRate(t, settingService, 10)
	setupCommissionScenario(t, svc, db, 26, 27, "FILTER01")
	createReferralTestBank(t, db, 26)

	for i := 0; i < 2; i++ {
		if _, err := svc.ProcessTransactionCommission(CommissionInput{
			UserID:     27,
			Amount:     decimal.NewFromInt(300),
			PurchaseID: fmt.Sprintf("ord-3%03d", i),
		}); err != nil {
			t.Fatalf("process commission %d failed: %v", i, err)
		}
	}
	if _, err := svc.Withdraw(26); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}

	_, total, err := svc.ListTransactions(26, 1, 10, "all")
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 transactions, got %d", total)
	}

	_, total, err = svc.ListTransactions(26, 1, 10, "earnings")
	if err != nil {
		t.Fatalf("list earnings failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 earnings, got %d", total)
	}

	_, total, err = svc.ListTransactions(26, 1, 10, "withdrawals")
	if err != nil {
		t.Fatalf("list withdrawals failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 withdrawal, got %d", total)
	}

	if _, _, err := svc.ListTransactions(26, 1, 10, "bogus"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown filter, got: %v", err)
	}
}

func TestReconcileBalanceNoDrift(t *testing.T) {
	svc, settingService, db := setupReferralServiceTest(t)
	setCommissionRate(t, settingService, 10)
	setupCommissionScenario(t, svc, db, 28, 29, "RECON001")

	if _, err := svc.ProcessTransactionCommission(CommissionInput{
		UserID:     29,
		Amount:     decimal.NewFromInt(100),
		PurchaseID: "ord-4001",
	}); err != nil {
		t.Fatalf("process commission failed: %v", err)
	}

	report, err := svc.ReconcileBalance(28)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if report.Balance.String() != "10.00" || report.DerivedBalance.String() != "10.00" {
		t.Fatalf("unexpected report: balance=%s derived=%s", report.Balance.String(), report.DerivedBalance.String())
	}
	if !report.Drift.Decimal.IsZero() {
		t.Fatalf("expected zero drift, got %s", report.Drift.String())
	}
}

func TestDeactivateExpiredCodes(t *testing.T) {
	svc, _, db := setupReferralServiceTest(t)
	owner := createReferralTestUser(t, db, 30)

	record, err := svc.CreateReferralCode(owner.ID, "SWEEP001")
	if err != nil {
		t.Fatalf("create code failed: %v", err)
	}
	expired := time.Now().Add(-time.Hour)
	if err := db.Model(&models.ReferralCode{}).Where("id = ?", record.ID).Update("expires_at", expired).Error; err != nil {
		t.Fatalf("expire code failed: %v", err)
	}

	n, err := svc.DeactivateExpiredCodes(time.Now())
	if err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deactivated code, got %d", n)
	}

	var stored models.ReferralCode
	if err := db.First(&stored, record.ID).Error; err != nil {
		t.Fatalf("reload code failed: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("expected code to be inactive after sweep")
	}
}
