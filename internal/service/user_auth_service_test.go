package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/esim-referral/internal/config"
	"github.com/esim-referral/internal/constants"
	"github.com/esim-referral/internal/models"
	"github.com/esim-referral/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *ReferralService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "user-auth-service-test-secret"
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}

	userRepo := repository.NewUserRepository(db)
	settingService := NewSettingService(repository.NewSettingRepository(db))
	referralService := NewReferralService(
		repository.NewReferralRepository(db),
		repository.NewLedgerRepository(db),
		userRepo,
		repository.NewBankAccountRepository(db),
		settingService,
	)
	return NewUserAuthService(cfg, userRepo, referralService), referralService, db
}

func TestUserRegister(t *testing.T) {
	svc, _, db := setupUserAuthServiceTest(t)

	result, err := svc.Register(" New.User@Example.COM ", "Secret1234", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token in register result")
	}
	if result.User.Email != "new.user@example.com" {
		t.Fatalf("expected normalized email, got %s", result.User.Email)
	}
	if result.User.DisplayName == "" {
		t.Fatalf("expected display name derived from email")
	}
	if result.ReferralWarning != "" {
		t.Fatalf("unexpected referral warning: %s", result.ReferralWarning)
	}

	claims, err := svc.ParseUserJWT(result.Token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != result.User.ID || claims.Email != result.User.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	var stored models.User
	if err := db.Where("email = ?", "new.user@example.com").First(&stored).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if stored.Status != constants.UserStatusActive {
		t.Fatalf("expected active user, got %s", stored.Status)
	}
}

func TestUserRegisterWithReferralCode(t *testing.T) {
	svc, referralService, db := setupUserAuthServiceTest(t)
	owner := createReferralTestUser(t, db, 100)
	if _, err := referralService.CreateReferralCode(owner.ID, "SIGNUP01"); err != nil {
		t.Fatalf("create code failed: %v", err)
	}

	result, err := svc.Register("referred@example.com", "Secret1234", "signup01")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.ReferralWarning != "" {
		t.Fatalf("unexpected referral warning: %s", result.ReferralWarning)
	}
	if result.User.ReferredBy == nil || *result.User.ReferredBy != "SIGNUP01" {
		t.Fatalf("expected result user referred_by SIGNUP01, got %v", result.User.ReferredBy)
	}

	// 注册末尾的整行保存（last_login_at）不得覆盖兑换写入的 referred_by
	var stored models.User
	if err := db.First(&stored, result.User.ID).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if stored.ReferredBy == nil || *stored.ReferredBy != "SIGNUP01" {
		t.Fatalf("expected referred_by SIGNUP01, got %v", stored.ReferredBy)
	}
	if stored.LastLoginAt == nil {
		t.Fatalf("expected last login timestamp after register")
	}
}

func TestUserRegisterBadReferralCodeDoesNotBlock(t *testing.T) {
	svc, _, db := setupUserAuthServiceTest(t)

	result, err := svc.Register("hopeful@example.com", "Secret1234", "MISSING9")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.ReferralWarning == "" {
		t.Fatalf("expected referral warning for unknown code")
	}

	var stored models.User
	if err := db.First(&stored, result.User.ID).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if stored.ReferredBy != nil {
		t.Fatalf("expected no referrer, got %v", *stored.ReferredBy)
	}
}

func TestUserRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := setupUserAuthServiceTest(t)

	if _, err := svc.Register("dupe@example.com", "Secret1234", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register("DUPE@example.com", "Secret1234", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected email taken, got: %v", err)
	}
}

func TestUserRegisterValidation(t *testing.T) {
	svc, _, _ := setupUserAuthServiceTest(t)

	if _, err := svc.Register("not-an-email", "Secret1234", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got: %v", err)
	}
	if _, err := svc.Register("weak@example.com", "alllowercase1", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password, got: %v", err)
	}
	if _, err := svc.Register("short@example.com", "Ab1", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password, got: %v", err)
	}
}

func TestUserLogin(t *testing.T) {
	svc, _, db := setupUserAuthServiceTest(t)

	if _, err := svc.Register("login@example.com", "Secret1234", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, token, _, err := svc.Login("login@example.com", "Secret1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || user.LastLoginAt == nil {
		t.Fatalf("expected token and last login timestamp")
	}

	if _, _, _, err := svc.Login("login@example.com", "WrongPass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	if _, _, _, err := svc.Login("ghost@example.com", "Secret1234"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got: %v", err)
	}

	if err := db.Model(&models.User{}).Where("email = ?", "login@example.com").Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("login@example.com", "Secret1234"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected user disabled, got: %v", err)
	}
}

func TestUserChangePassword(t *testing.T) {
	svc, _, db := setupUserAuthServiceTest(t)

	result, err := svc.Register("rotate@example.com", "Secret1234", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(result.User.ID, "WrongOld1", "Another1234"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected invalid password, got: %v", err)
	}
	if err := svc.ChangePassword(result.User.ID, "Secret1234", "weak"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected weak password, got: %v", err)
	}

	if err := svc.ChangePassword(result.User.ID, "Secret1234", "Another1234"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, result.User.ID).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if stored.TokenVersion != result.User.TokenVersion+1 {
		t.Fatalf("expected token version bump, got %d", stored.TokenVersion)
	}
	if stored.TokenInvalidBefore == nil {
		t.Fatalf("expected token invalidation timestamp")
	}

	if _, _, _, err := svc.Login("rotate@example.com", "Another1234"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := setupUserAuthServiceTest(t)

	result, err := svc.Register("profile@example.com", "Secret1234", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	nickname := "  Traveler  "
	updated, err := svc.UpdateProfile(result.User.ID, &nickname)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.DisplayName != "Traveler" {
		t.Fatalf("expected trimmed display name, got %q", updated.DisplayName)
	}

	empty := "   "
	if _, err := svc.UpdateProfile(result.User.ID, &empty); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected profile empty, got: %v", err)
	}
}
