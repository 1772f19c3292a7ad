package repository

import (
	"errors"

	"github.com/esim-referral/internal/models"

	"gorm.io/gorm"
)

// BankAccountRepository 银行账户数据访问接口
type BankAccountRepository interface {
	GetByUserID(userID uint) (*models.BankAccount, error)
	Upsert(account *models.BankAccount) error
}

// GormBankAccountRepository GORM 实现
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewBankAccountRepository 创建银行账户仓库
func NewBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

// GetByUserID 按用户ID获取银行账户
func (r *GormBankAccountRepository) GetByUserID(userID uint) (*models.BankAccount, error) {
	if userID == 0 {
		return nil, nil
	}
	var account models.BankAccount
	if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// Upsert 创建或更新银行账户（每用户一条）
func (r *GormBankAccountRepository) Upsert(account *models.BankAccount) error {
	if account == nil {
		return nil
	}
	existing, err := r.GetByUserID(account.UserID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.Create(account).Error
	}
	account.ID = existing.ID
	account.CreatedAt = existing.CreatedAt
	return r.db.Save(account).Error
}
