package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/esim-referral/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferralRepository 推荐码与佣金审计数据访问接口
type ReferralRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ReferralRepository

	GetCodeByCode(code string) (*models.ReferralCode, error)
	GetCodeByCodeForUpdate(code string) (*models.ReferralCode, error)
	GetCodeByOwnerID(ownerID uint) (*models.ReferralCode, error)
	CreateCode(code *models.ReferralCode) error
	UpdateCode(code *models.ReferralCode) error
	ListCodes(filter ReferralCodeListFilter) ([]models.ReferralCode, int64, error)
	DeactivateExpiredCodes(now time.Time) (int64, error)

	GetCommissionByPurchaseAndUser(purchaseID string, referredUserID uint) (*models.ReferralCommission, error)
	CreateCommission(commission *models.ReferralCommission) error
	ListCommissions(filter CommissionListFilter) ([]models.ReferralCommission, int64, error)
	SumCommissionAmount() (models.Money, error)
	CountCommissions() (int64, error)
	CountDistinctReferrers() (int64, error)
	SumCodeUsageCount() (int64, error)

	PurgeAll() (PurgeResult, error)
}

// PurgeResult 清空推荐数据的删除统计
type PurgeResult struct {
	Codes        int64 `json:"codes"`
	Commissions  int64 `json:"commissions"`
	Transactions int64 `json:"transactions"`
	Accounts     int64 `json:"accounts"`
	Withdrawals  int64 `json:"withdrawals"`
	Users        int64 `json:"users"`
}

// GormReferralRepository GORM 实现
type GormReferralRepository struct {
	db *gorm.DB
}

// NewReferralRepository 创建推荐仓库
func NewReferralRepository(db *gorm.DB) *GormReferralRepository {
	return &GormReferralRepository{db: db}
}

// Transaction 在事务中执行
func (r *GormReferralRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// WithTx 绑定事务
func (r *GormReferralRepository) WithTx(tx *gorm.DB) ReferralRepository {
	if tx == nil {
		return r
	}
	return &GormReferralRepository{db: tx}
}

// GetCodeByCode 按推荐码查询
func (r *GormReferralRepository) GetCodeByCode(code string) (*models.ReferralCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var record models.ReferralCode
	if err := r.db.Where("code = ?", code).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetCodeByCodeForUpdate 按推荐码加锁查询
func (r *GormReferralRepository) GetCodeByCodeForUpdate(code string) (*models.ReferralCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var record models.ReferralCode
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetCodeByOwnerID 按持有人查询推荐码
func (r *GormReferralRepository) GetCodeByOwnerID(ownerID uint) (*models.ReferralCode, error) {
	if ownerID == 0 {
		return nil, nil
	}
	var record models.ReferralCode
	if err := r.db.Where("owner_id = ?", ownerID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// CreateCode 创建推荐码
func (r *GormReferralRepository) CreateCode(code *models.ReferralCode) error {
	return r.db.Create(code).Error
}

// UpdateCode 更新推荐码
func (r *GormReferralRepository) UpdateCode(code *models.ReferralCode) error {
	return r.db.Save(code).Error
}

// ListCodes 分页查询推荐码
func (r *GormReferralRepository) ListCodes(filter ReferralCodeListFilter) ([]models.ReferralCode, int64, error) {
	query := r.db.Model(&models.ReferralCode{})
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("code LIKE ? OR owner_email LIKE ?", like, like)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var codes []models.ReferralCode
	if err := query.Order("id DESC").Find(&codes).Error; err != nil {
		return nil, 0, err
	}
	return codes, total, nil
}

// DeactivateExpiredCodes 批量停用已过期的推荐码
func (r *GormReferralRepository) DeactivateExpiredCodes(now time.Time) (int64, error) {
	result := r.db.Model(&models.ReferralCode{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// GetCommissionByPurchaseAndUser 按外部交易号与被推荐用户查询佣金记录
func (r *GormReferralRepository) GetCommissionByPurchaseAndUser(purchaseID string, referredUserID uint) (*models.ReferralCommission, error) {
	purchaseID = strings.TrimSpace(purchaseID)
	if purchaseID == "" || referredUserID == 0 {
		return nil, nil
	}
	var record models.ReferralCommission
	if err := r.db.Where("purchase_id = ? AND referred_user_id = ?", purchaseID, referredUserID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// CreateCommission 创建佣金审计记录
func (r *GormReferralRepository) CreateCommission(commission *models.ReferralCommission) error {
	return r.db.Create(commission).Error
}

// ListCommissions 分页查询佣金审计记录
func (r *GormReferralRepository) ListCommissions(filter CommissionListFilter) ([]models.ReferralCommission, int64, error) {
	query := r.db.Model(&models.ReferralCommission{})
	if filter.ReferrerID != 0 {
		query = query.Where("referrer_id = ?", filter.ReferrerID)
	}
	if filter.Code != "" {
		query = query.Where("referral_code = ?", filter.Code)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var records []models.ReferralCommission
	if err := query.Order("id DESC").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// SumCommissionAmount 统计全量已入账佣金总额
func (r *GormReferralRepository) SumCommissionAmount() (models.Money, error) {
	var row struct {
		Total models.Money
	}
	err := r.db.Model(&models.ReferralCommission{}).
		Select("COALESCE(SUM(commission_amount), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return models.Money{}, err
	}
	return row.Total, nil
}

// CountCommissions 统计佣金记录数
func (r *GormReferralRepository) CountCommissions() (int64, error) {
	var count int64
	if err := r.db.Model(&models.ReferralCommission{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountDistinctReferrers 统计产生过佣金的推荐人数
func (r *GormReferralRepository) CountDistinctReferrers() (int64, error) {
	var count int64
	if err := r.db.Model(&models.ReferralCommission{}).
		Distinct("referrer_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumCodeUsageCount 统计全量推荐码兑换次数
func (r *GormReferralRepository) SumCodeUsageCount() (int64, error) {
	var row struct {
		Total int64
	}
	err := r.db.Model(&models.ReferralCode{}).
		Select("COALESCE(SUM(usage_count), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return 0, err
	}
	return row.Total, nil
}

// PurgeAll 清空全部推荐数据（硬删除），并重置用户推荐字段
func (r *GormReferralRepository) PurgeAll() (PurgeResult, error) {
	var result PurgeResult
	err := r.db.Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			counter *int64
			run     func() *gorm.DB
		}{
			{&result.Codes, func() *gorm.DB {
				return tx.Unscoped().Where("1 = 1").Delete(&models.ReferralCode{})
			}},
			{&result.Commissions, func() *gorm.DB {
				return tx.Unscoped().Where("1 = 1").Delete(&models.ReferralCommission{})
			}},
			{&result.Transactions, func() *gorm.DB {
				return tx.Unscoped().Where("1 = 1").Delete(&models.Transaction{})
			}},
			{&result.Accounts, func() *gorm.DB {
				return tx.Unscoped().Where("1 = 1").Delete(&models.BalanceAccount{})
			}},
			{&result.Withdrawals, func() *gorm.DB {
				return tx.Unscoped().Where("1 = 1").Delete(&models.Withdrawal{})
			}},
			{&result.Users, func() *gorm.DB {
				return tx.Model(&models.User{}).
					Where("referral_code IS NOT NULL OR referred_by IS NOT NULL").
					Updates(map[string]interface{}{
						"referral_code": nil,
						"referred_by":   nil,
					})
			}},
		}
		for _, step := range steps {
			res := step.run()
			if res.Error != nil {
				return res.Error
			}
			*step.counter = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return PurgeResult{}, err
	}
	return result, nil
}
