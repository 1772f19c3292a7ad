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

func setupSettingServiceTest(t *testing.T) (*SettingService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:setting_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Setting{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewSettingService(repository.NewSettingRepository(db)), db
}

func TestReferralDefaultSetting(t *testing.T) {
	setting := ReferralDefaultSetting()
	if !setting.Enabled {
		t.Fatalf("expected enabled by default")
	}
	if setting.CommissionRate != nil {
		t.Fatalf("expected unset commission rate, got %v", *setting.CommissionRate)
	}
	if setting.MinWithdrawAmount != 50 {
		t.Fatalf("expected minimum withdraw 50, got %v", setting.MinWithdrawAmount)
	}
	if setting.CodeLifetimeMonths != 2 {
		t.Fatalf("expected code lifetime 2 months, got %d", setting.CodeLifetimeMonths)
	}
	if setting.CodeLength != 8 {
		t.Fatalf("expected code length 8, got %d", setting.CodeLength)
	}
}

func TestNormalizeReferralSettingClamps(t *testing.T) {
	rate := 150.0
	normalized := NormalizeReferralSetting(ReferralSetting{
		Enabled:            true,
		CommissionRate:     &rate,
		MinWithdrawAmount:  -10,
		CodeLifetimeMonths: 999,
		CodeLength:         1,
	})
	if normalized.CommissionRate == nil || *normalized.CommissionRate != 100 {
		t.Fatalf("expected rate clamped to 100, got %v", normalized.CommissionRate)
	}
	if normalized.MinWithdrawAmount != 0 {
		t.Fatalf("expected minimum withdraw clamped to 0, got %v", normalized.MinWithdrawAmount)
	}
	if normalized.CodeLifetimeMonths != 120 {
		t.Fatalf("expected lifetime clamped to 120, got %d", normalized.CodeLifetimeMonths)
	}
	if normalized.CodeLength != 4 {
		t.Fatalf("expected code length clamped to 4, got %d", normalized.CodeLength)
	}

	negative := -5.0
	normalized = NormalizeReferralSetting(ReferralSetting{CommissionRate: &negative, CodeLength: 99})
	if normalized.CommissionRate == nil || *normalized.CommissionRate != 0 {
		t.Fatalf("expected rate clamped to 0, got %v", normalized.CommissionRate)
	}
	if normalized.CodeLength != 16 {
		t.Fatalf("expected code length clamped to 16, got %d", normalized.CodeLength)
	}
}

func TestValidateReferralSetting(t *testing.T) {
	bad := ReferralSetting{CodeLength: 2, MinWithdrawAmount: 50}
	if err := ValidateReferralSetting(bad); !errors.Is(err, ErrReferralConfigInvalid) {
		t.Fatalf("expected config invalid error, got: %v", err)
	}

	rate := 200.0
	bad = ReferralSetting{CommissionRate: &rate, CodeLength: 8}
	if err := ValidateReferralSetting(bad); !errors.Is(err, ErrReferralConfigInvalid) {
		t.Fatalf("expected config invalid error, got: %v", err)
	}

	good := ReferralDefaultSetting()
	if err := ValidateReferralSetting(good); err != nil {
		t.Fatalf("expected defaults to validate, got: %v", err)
	}
}

func TestUpdateAndGetReferralSettingRoundTrip(t *testing.T) {
	svc, _ := setupSettingServiceTest(t)

	rate := 12.5
	setting := ReferralDefaultSetting()
	setting.CommissionRate = &rate
	setting.MinWithdrawAmount = 25
	setting.CodeLifetimeMonths = 6

	if _, err := svc.UpdateReferralSetting(setting); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	loaded, err := svc.GetReferralSetting()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.CommissionRate == nil || *loaded.CommissionRate != 12.5 {
		t.Fatalf("expected rate 12.5, got %v", loaded.CommissionRate)
	}
	if loaded.MinWithdrawAmount != 25 {
		t.Fatalf("expected minimum withdraw 25, got %v", loaded.MinWithdrawAmount)
	}
	if loaded.CodeLifetimeMonths != 6 {
		t.Fatalf("expected lifetime 6, got %d", loaded.CodeLifetimeMonths)
	}
}

func TestGetReferralSettingFallsBackToDefaults(t *testing.T) {
	svc, _ := setupSettingServiceTest(t)

	loaded, err := svc.GetReferralSetting()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.CommissionRate != nil || loaded.MinWithdrawAmount != 50 || loaded.CodeLength != 8 {
		t.Fatalf("expected defaults, got: %+v", loaded)
	}
}

func TestSeedReferralSettingWritesOnce(t *testing.T) {
	svc, db := setupSettingServiceTest(t)

	if err := svc.SeedReferralSetting(config.ReferralConfig{
		CommissionRatePercent: "10",
		MinWithdrawAmount:     "50",
		CodeLifetimeMonths:    2,
		CodeLength:            8,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	loaded, err := svc.GetReferralSetting()
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.CommissionRate == nil || *loaded.CommissionRate != 10 {
		t.Fatalf("expected seeded rate 10, got %v", loaded.CommissionRate)
	}

	// 设置表已有记录时不覆盖
	if err := svc.SeedReferralSetting(config.ReferralConfig{CommissionRatePercent: "99"}); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	loaded, err = svc.GetReferralSetting()
	if err != nil {
		t.Fatalf("get after reseed failed: %v", err)
	}
	if loaded.CommissionRate == nil || *loaded.CommissionRate != 10 {
		t.Fatalf("expected rate unchanged at 10, got %v", loaded.CommissionRate)
	}

	var count int64
	if err := db.Model(&models.Setting{}).Where("key = ?", constants.SettingKeyReferralConfig).Count(&count).Error; err != nil {
		t.Fatalf("count settings failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single setting row, got %d", count)
	}
}
