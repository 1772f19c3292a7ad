package public

import (
	"errors"

	"github.com/esim-referral/internal/http/response"
	"github.com/esim-referral/internal/service"

	"github.com/gin-gonic/gin"
)

// GetBankAccount 获取我的提现银行账户（脱敏）
func (h *Handler) GetBankAccount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	account, err := h.BankAccountService.Get(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch bank account", err)
		return
	}
	response.Success(c, account)
}

// SaveBankAccountRequest 保存银行账户请求
type SaveBankAccountRequest struct {
	HolderName    string `json:"holder_name" binding:"required"`
	Currency      string `json:"currency" binding:"required"`
	Institution   string `json:"institution"`
	Transit       string `json:"transit" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	AccountType   string `json:"account_type" binding:"required"`
}

// SaveBankAccount 创建或更新我的提现银行账户
func (h *Handler) SaveBankAccount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req SaveBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	account, err := h.BankAccountService.Save(uid, service.BankAccountInput{
		HolderName:    req.HolderName,
		Currency:      req.Currency,
		Institution:   req.Institution,
		Transit:       req.Transit,
		AccountNumber: req.AccountNumber,
		AccountType:   req.AccountType,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBankAccountInvalid):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		default:
			respondError(c, response.CodeInternal, "failed to save bank account", err)
		}
		return
	}
	response.Success(c, account)
}
