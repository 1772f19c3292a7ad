package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/esim-referral/internal/constants"
	"github.com/esim-referral/internal/models"
	"github.com/esim-referral/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupBankAccountServiceTest(t *testing.T) (*BankAccountService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:bank_account_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.BankAccount{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	svc := NewBankAccountService(repository.NewBankAccountRepository(db), repository.NewUserRepository(db))
	return svc, db
}

func createBankTestUser(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	user := &models.User{
		ID:           id,
		Email:        fmt.Sprintf("bank_user_%d@example.com", id),
		PasswordHash: "hash",
		Status:       constants.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
}

func TestSaveBankAccountUSD(t *testing.T) {
	svc, db := setupBankAccountServiceTest(t)
	createBankTestUser(t, db, 1)

	saved, err := svc.Save(1, BankAccountInput{
		HolderName:    "  Jane   Q. Doe ",
		Currency:      "usd",
		Transit:       "021000021",
		AccountNumber: "000123456789",
		AccountType:   "Checking",
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.HolderName != "Jane Q. Doe" {
		t.Fatalf("expected sanitized holder name, got %q", saved.HolderName)
	}
	if saved.Currency != constants.BankCurrencyUSD || saved.Country != constants.BankCountryUS {
		t.Fatalf("unexpected currency/country: %s/%s", saved.Currency, saved.Country)
	}
	if saved.AccountType != constants.BankAccountTypeChecking {
		t.Fatalf("expected checking, got %s", saved.AccountType)
	}
	if saved.AccountNumber != "****6789" {
		t.Fatalf("expected masked account number, got %s", saved.AccountNumber)
	}

	var stored models.BankAccount
	if err := db.Where("user_id = ?", 1).First(&stored).Error; err != nil {
		t.Fatalf("load stored account failed: %v", err)
	}
	if stored.AccountNumber != "000123456789" {
		t.Fatalf("expected full account number stored, got %s", stored.AccountNumber)
	}
}

func TestSaveBankAccountCAD(t *testing.T) {
	svc, db := setupBankAccountServiceTest(t)
	createBankTestUser(t, db, 2)

	saved, err := svc.Save(2, BankAccountInput{
		HolderName:    "John O'Neil",
		Currency:      "CAD",
		Institution:   "004",
		Transit:       "12345",
		AccountNumber: "1234567",
		AccountType:   "saving",
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if saved.Country != constants.BankCountryCA || saved.Institution != "004" {
		t.Fatalf("unexpected country/institution: %s/%s", saved.Country, saved.Institution)
	}
}

func TestSaveBankAccountValidation(t *testing.T) {
	svc, db := setupBankAccountServiceTest(t)
	createBankTestUser(t, db, 3)

	cases := []struct {
		name  string
		input BankAccountInput
	}{
		{"missing holder", BankAccountInput{Currency: "USD", Transit: "021000021", AccountNumber: "12345678", AccountType: "checking"}},
		{"bad currency", BankAccountInput{HolderName: "Jane Doe", Currency: "EUR", Transit: "021000021", AccountNumber: "12345678", AccountType: "checking"}},
		{"bad account type", BankAccountInput{HolderName: "Jane Doe", Currency: "USD", Transit: "021000021", AccountNumber: "12345678", AccountType: "crypto"}},
		{"short routing", BankAccountInput{HolderName: "Jane Doe", Currency: "USD", Transit: "1234", AccountNumber: "12345678", AccountType: "checking"}},
		{"long usd account", BankAccountInput{HolderName: "Jane Doe", Currency: "USD", Transit: "021000021", AccountNumber: "123456789012345678", AccountType: "checking"}},
		{"bad institution", BankAccountInput{HolderName: "Jane Doe", Currency: "CAD", Institution: "44", Transit: "12345", AccountNumber: "1234567", AccountType: "checking"}},
		{"bad cad transit", BankAccountInput{HolderName: "Jane Doe", Currency: "CAD", Institution: "004", Transit: "123", AccountNumber: "1234567", AccountType: "checking"}},
		{"short cad account", BankAccountInput{HolderName: "Jane Doe", Currency: "CAD", Institution: "004", Transit: "12345", AccountNumber: "123456", AccountType: "checking"}},
		{"non numeric", BankAccountInput{HolderName: "Jane Doe", Currency: "USD", Transit: "02100002a", AccountNumber: "12345678", AccountType: "checking"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Save(3, tc.input); !errors.Is(err, ErrBankAccountInvalid) {
				t.Fatalf("expected bank account invalid, got: %v", err)
			}
		})
	}
}

func TestSaveBankAccountUpsert(t *testing.T) {
	svc, db := setupBankAccountServiceTest(t)
	createBankTestUser(t, db, 4)

	input := BankAccountInput{
		HolderName:    "Jane Doe",
		Currency:      "USD",
		Transit:       "021000021",
		AccountNumber: "000123456789",
		AccountType:   "checking",
	}
	if _, err := svc.Save(4, input); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	input.AccountNumber = "999988887777"
	if _, err := svc.Save(4, input); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.BankAccount{}).Where("user_id = ?", 4).Count(&count).Error; err != nil {
		t.Fatalf("count accounts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single account row, got %d", count)
	}

	var stored models.BankAccount
	if err := db.Where("user_id = ?", 4).First(&stored).Error; err != nil {
		t.Fatalf("load account failed: %v", err)
	}
	if stored.AccountNumber != "999988887777" {
		t.Fatalf("expected updated account number, got %s", stored.AccountNumber)
	}
}

func TestGetBankAccountMasked(t *testing.T) {
	svc, db := setupBankAccountServiceTest(t)
	createBankTestUser(t, db, 5)

	got, err := svc.Get(5)
	if err != nil {
		t.Fatalf("get missing failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing account, got: %+v", got)
	}

	if _, err := svc.Save(5, BankAccountInput{
		HolderName:    "Jane Doe",
		Currency:      "USD",
		Transit:       "021000021",
		AccountNumber: "000123456789",
		AccountType:   "checking",
	}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err = svc.Get(5)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil || got.AccountNumber != "****6789" {
		t.Fatalf("expected masked account number, got: %+v", got)
	}

	if _, err := svc.Save(99, BankAccountInput{
		HolderName:    "Jane Doe",
		Currency:      "USD",
		Transit:       "021000021",
		AccountNumber: "000123456789",
		AccountType:   "checking",
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown user, got: %v", err)
	}
}
