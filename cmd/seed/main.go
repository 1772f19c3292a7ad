package main

import (
	"fmt"
	"time"

	"github.com/esim-referral/internal/config"
	"github.com/esim-referral/internal/logger"
	"github.com/esim-referral/internal/models"
	"github.com/esim-referral/internal/repository"
	"github.com/esim-referral/internal/service"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 推荐配置（已有记录时不覆盖）
	settingService := service.NewSettingService(repository.NewSettingRepository(models.DB))
	if err := settingService.SeedReferralSetting(cfg.Referral); err != nil {
		stdLog.Printf("Failed to seed referral settings: %v", err)
	} else {
		stdLog.Println("Seeded referral settings")
	}

	// 演示用户：alice 持有推荐码，bob 注册时兑换
	demoPassword, err := bcrypt.GenerateFromPassword([]byte("Demo123456"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash demo password: %v", err)
	}

	aliceCode := "ALICE8WX"
	codeExpiry := time.Now().AddDate(0, 2, 0)

	users := []models.User{
		{
			Email:        "alice@example.com",
			PasswordHash: string(demoPassword),
			DisplayName:  "alice",
			Status:       "active",
			ReferralCode: &aliceCode,
		},
		{
			Email:        "bob@example.com",
			PasswordHash: string(demoPassword),
			DisplayName:  "bob",
			Status:       "active",
			ReferredBy:   &aliceCode,
		},
	}
	for i := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", users[i].Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&users[i]).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", users[i].Email, err)
			} else {
				stdLog.Printf("Created user: %s", users[i].Email)
			}
		} else {
			users[i] = existing
			stdLog.Printf("User already exists: %s", existing.Email)
		}
	}

	alice := users[0]
	if alice.ID != 0 {
		var existingCode models.ReferralCode
		if err := models.DB.Where("code = ?", aliceCode).First(&existingCode).Error; err != nil {
			code := models.ReferralCode{
				Code:       aliceCode,
				OwnerID:    alice.ID,
				OwnerEmail: alice.Email,
				IsActive:   true,
				ExpiresAt:  &codeExpiry,
				UsageCount: 1,
			}
			if err := models.DB.Create(&code).Error; err != nil {
				stdLog.Printf("Failed to create referral code %s: %v", aliceCode, err)
			} else {
				stdLog.Printf("Created referral code: %s", aliceCode)
			}
		} else {
			stdLog.Printf("Referral code already exists: %s", aliceCode)
		}

		var existingBank models.BankAccount
		if err := models.DB.Where("user_id = ?", alice.ID).First(&existingBank).Error; err != nil {
			bank := models.BankAccount{
				UserID:        alice.ID,
				HolderName:    "Alice Doe",
				Currency:      "USD",
				Country:       "US",
				Transit:       "021000021",
				AccountNumber: "000123456789",
				AccountType:   "checking",
			}
			if err := models.DB.Create(&bank).Error; err != nil {
				stdLog.Printf("Failed to create bank account for %s: %v", alice.Email, err)
			} else {
				stdLog.Printf("Created bank account for: %s", alice.Email)
			}
		}

		var existingAccount models.BalanceAccount
		if err := models.DB.Where("user_id = ?", alice.ID).First(&existingAccount).Error; err != nil {
			account := models.BalanceAccount{UserID: alice.ID}
			if err := models.DB.Create(&account).Error; err != nil {
				stdLog.Printf("Failed to create balance account for %s: %v", alice.Email, err)
			} else {
				stdLog.Printf("Created balance account for: %s", alice.Email)
			}
		}
	}

	fmt.Println("\nSeed data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- Default admin (admin / admin123 unless overridden)")
	fmt.Println("- Referral settings (settings table)")
	fmt.Println("- 2 demo users: alice@example.com (referrer), bob@example.com (referred)")
	fmt.Println("- 1 referral code, 1 bank account, 1 balance account")
}
