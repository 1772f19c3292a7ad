package repository

import (
	"errors"
	"strings"

	"github.com/esim-referral/internal/constants"
	"github.com/esim-referral/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository 余额账户与流水数据访问接口
type LedgerRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) LedgerRepository

	GetAccountByUserID(userID uint) (*models.BalanceAccount, error)
	GetAccountByUserIDForUpdate(userID uint) (*models.BalanceAccount, error)
	CreateAccount(account *models.BalanceAccount) error
	UpdateAccount(account *models.BalanceAccount) error

	CreateTransaction(txn *models.Transaction) error
	ListTransactions(filter TransactionListFilter) ([]models.Transaction, int64, error)
	ListWithdrawableForUpdate(userID uint) ([]models.Transaction, error)
	MarkTransactionsPaid(ids []uint, paidBy string) error
	SumByMethods(userID uint, methods []string) (models.Money, error)

	CreateWithdrawal(withdrawal *models.Withdrawal) error
	ListWithdrawals(filter WithdrawalListFilter) ([]models.Withdrawal, int64, error)
}

// GormLedgerRepository GORM 实现
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建账本仓库
func NewLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Transaction 在事务中执行
func (r *GormLedgerRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// WithTx 绑定事务
func (r *GormLedgerRepository) WithTx(tx *gorm.DB) LedgerRepository {
	if tx == nil {
		return r
	}
	return &GormLedgerRepository{db: tx}
}

// GetAccountByUserID 按用户ID获取余额账户
func (r *GormLedgerRepository) GetAccountByUserID(userID uint) (*models.BalanceAccount, error) {
	if userID == 0 {
		return nil, nil
	}
	var account models.BalanceAccount
	if err := r.db.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetAccountByUserIDForUpdate 按用户ID加锁获取余额账户
func (r *GormLedgerRepository) GetAccountByUserIDForUpdate(userID uint) (*models.BalanceAccount, error) {
	if userID == 0 {
		return nil, nil
	}
	var account models.BalanceAccount
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// CreateAccount 创建余额账户
func (r *GormLedgerRepository) CreateAccount(account *models.BalanceAccount) error {
	return r.db.Create(account).Error
}

// UpdateAccount 更新余额账户
func (r *GormLedgerRepository) UpdateAccount(account *models.BalanceAccount) error {
	return r.db.Save(account).Error
}

// CreateTransaction 创建流水
func (r *GormLedgerRepository) CreateTransaction(txn *models.Transaction) error {
	return r.db.Create(txn).Error
}

// ListTransactions 分页查询流水
func (r *GormLedgerRepository) ListTransactions(filter TransactionListFilter) ([]models.Transaction, int64, error) {
	query := r.db.Model(&models.Transaction{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if len(filter.Methods) > 0 {
		query = query.Where("method IN ?", filter.Methods)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PurchaseID != "" {
		query = query.Where("purchase_id = ?", strings.TrimSpace(filter.PurchaseID))
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var txns []models.Transaction
	if err := query.Order("id DESC").Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// ListWithdrawableForUpdate 加锁查询可结清的佣金流水（completed 状态的佣金入账）
func (r *GormLedgerRepository) ListWithdrawableForUpdate(userID uint) ([]models.Transaction, error) {
	if userID == 0 {
		return []models.Transaction{}, nil
	}
	var txns []models.Transaction
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND type = ? AND method = ? AND status = ?",
			userID, constants.TxnTypeDeposit, constants.TxnMethodReferralCommission, constants.TxnStatusCompleted).
		Order("id ASC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

// MarkTransactionsPaid 批量将流水标记为已结清
func (r *GormLedgerRepository) MarkTransactionsPaid(ids []uint, paidBy string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Transaction{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":  constants.TxnStatusPaid,
			"paid_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"paid_by": paidBy,
		}).Error
}

// SumByMethods 按业务子类汇总流水金额（对账用）
func (r *GormLedgerRepository) SumByMethods(userID uint, methods []string) (models.Money, error) {
	if userID == 0 || len(methods) == 0 {
		return models.Money{}, nil
	}
	var row struct {
		Total models.Money
	}
	err := r.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND method IN ?", userID, methods).
		Scan(&row).Error
	if err != nil {
		return models.Money{}, err
	}
	return row.Total, nil
}

// CreateWithdrawal 创建提现记录
func (r *GormLedgerRepository) CreateWithdrawal(withdrawal *models.Withdrawal) error {
	return r.db.Create(withdrawal).Error
}

// ListWithdrawals 分页查询提现记录
func (r *GormLedgerRepository) ListWithdrawals(filter WithdrawalListFilter) ([]models.Withdrawal, int64, error) {
	query := r.db.Model(&models.Withdrawal{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var withdrawals []models.Withdrawal
	if err := query.Order("id DESC").Find(&withdrawals).Error; err != nil {
		return nil, 0, err
	}
	return withdrawals, total, nil
}
