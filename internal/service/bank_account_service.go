package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/esim-referral/internal/constants"
	"github.com/esim-referral/internal/models"
	"github.com/esim-referral/internal/repository"
)

var (
	bankDigitsPattern     = regexp.MustCompile(`^[0-9]+$`)
	bankHolderNamePattern = regexp.MustCompile(`[^a-zA-Z .\-']`)
)

// BankAccountService 提现银行账户服务
type BankAccountService struct {
	repo     repository.BankAccountRepository
	userRepo repository.UserRepository
}

// NewBankAccountService 创建银行账户服务
func NewBankAccountService(repo repository.BankAccountRepository, userRepo repository.UserRepository) *BankAccountService {
	return &BankAccountService{repo: repo, userRepo: userRepo}
}

// BankAccountInput 银行账户写入参数
type BankAccountInput struct {
	HolderName    string `json:"holder_name"`
	Currency      string `json:"currency"`
	Institution   string `json:"institution"`
	Transit       string `json:"transit"`
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type"`
}

// Get 获取用户银行账户（脱敏）
func (s *BankAccountService) Get(userID uint) (*models.BankAccount, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	account, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}
	masked := account.Masked()
	return &masked, nil
}

// Save 创建或更新用户银行账户
func (s *BankAccountService) Save(userID uint, input BankAccountInput) (*models.BankAccount, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	account, err := buildBankAccount(userID, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(account); err != nil {
		return nil, err
	}
	masked := account.Masked()
	return &masked, nil
}

// buildBankAccount 校验并组装银行账户记录
func buildBankAccount(userID uint, input BankAccountInput) (*models.BankAccount, error) {
	holder := sanitizeHolderName(input.HolderName)
	if holder == "" {
		return nil, fmt.Errorf("%w: holder name is required", ErrBankAccountInvalid)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	accountType := strings.ToLower(strings.TrimSpace(input.AccountType))
	if accountType != constants.BankAccountTypeChecking && accountType != constants.BankAccountTypeSaving {
		return nil, fmt.Errorf("%w: account type must be checking or saving", ErrBankAccountInvalid)
	}

	account := &models.BankAccount{
		UserID:      userID,
		HolderName:  holder,
		Currency:    currency,
		AccountType: accountType,
	}

	transit := strings.TrimSpace(input.Transit)
	institution := strings.TrimSpace(input.Institution)
	number := strings.TrimSpace(input.AccountNumber)

	switch currency {
	case constants.BankCurrencyUSD:
		// 美国 ABA routing 固定 9 位，账号 4-17 位
		if !bankDigitsPattern.MatchString(transit) || len(transit) != 9 {
			return nil, fmt.Errorf("%w: routing number must be 9 digits", ErrBankAccountInvalid)
		}
		if !bankDigitsPattern.MatchString(number) || len(number) < 4 || len(number) > 17 {
			return nil, fmt.Errorf("%w: account number must be 4-17 digits", ErrBankAccountInvalid)
		}
		account.Country = constants.BankCountryUS
	case constants.BankCurrencyCAD:
		if !bankDigitsPattern.MatchString(institution) || len(institution) != 3 {
			return nil, fmt.Errorf("%w: institution number must be 3 digits", ErrBankAccountInvalid)
		}
		if !bankDigitsPattern.MatchString(transit) || len(transit) != 5 {
			return nil, fmt.Errorf("%w: transit number must be 5 digits", ErrBankAccountInvalid)
		}
		if !bankDigitsPattern.MatchString(number) || len(number) < 7 || len(number) > 12 {
			return nil, fmt.Errorf("%w: account number must be 7-12 digits", ErrBankAccountInvalid)
		}
		account.Country = constants.BankCountryCA
		account.Institution = institution
	default:
		return nil, fmt.Errorf("%w: currency must be USD or CAD", ErrBankAccountInvalid)
	}

	account.Transit = transit
	account.AccountNumber = number
	return account, nil
}

// sanitizeHolderName 仅保留姓名合法字符
func sanitizeHolderName(raw string) string {
	cleaned := bankHolderNamePattern.ReplaceAllString(raw, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return strings.TrimSpace(cleaned)
}
