package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/esim-referral/internal/http/response"
	"github.com/esim-referral/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateReferralCodeRequest 创建推荐码请求
type CreateReferralCodeRequest struct {
	CustomCode string `json:"custom_code"`
}

// CreateReferralCode 创建我的推荐码（已持有时返回现有码）
func (h *Handler) CreateReferralCode(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateReferralCodeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "invalid request body", err)
			return
		}
	}

	code, err := h.ReferralService.CreateReferralCode(uid, req.CustomCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReferralDisabled):
			respondError(c, response.CodeForbidden, "referral program is disabled", nil)
		case errors.Is(err, service.ErrReferralCodeInvalid):
			respondError(c, response.CodeBadRequest, "referral code must be 4-16 letters or digits", nil)
		case errors.Is(err, service.ErrReferralCodeTaken):
			respondError(c, response.CodeBadRequest, "referral code already taken", nil)
		case errors.Is(err, service.ErrUserDisabled):
			respondError(c, response.CodeForbidden, "account disabled", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		default:
			respondError(c, response.CodeInternal, "failed to create referral code", err)
		}
		return
	}
	response.Success(c, code)
}

// ValidateReferralCode 校验推荐码是否可用（公开接口，注册前预检）
func (h *Handler) ValidateReferralCode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		respondError(c, response.CodeBadRequest, "referral code required", nil)
		return
	}
	valid, err := h.ReferralService.IsValidReferralCode(code)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to validate referral code", err)
		return
	}
	response.Success(c, gin.H{"code": strings.ToUpper(code), "valid": valid})
}

// RedeemReferralCodeRequest 兑换推荐码请求
type RedeemReferralCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedeemReferralCode 登录态兑换推荐码（每账号至多一次）
func (h *Handler) RedeemReferralCode(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req RedeemReferralCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.ReferralService.ProcessReferralUsage(req.Code, uid); err != nil {
		respondReferralRedeemError(c, err)
		return
	}
	response.Success(c, gin.H{"redeemed": true})
}

// GetReferralStats 获取我的推荐中心数据
func (h *Handler) GetReferralStats(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	stats, err := h.ReferralService.GetReferralStats(uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReferralDisabled):
			respondError(c, response.CodeForbidden, "referral program is disabled", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		default:
			respondError(c, response.CodeInternal, "failed to fetch referral stats", err)
		}
		return
	}
	response.Success(c, stats)
}

// Withdraw 提现全部可结清佣金
func (h *Handler) Withdraw(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	result, err := h.ReferralService.Withdraw(uid)
	if err != nil {
		var belowMin *service.WithdrawBelowMinimumError
		switch {
		case errors.As(err, &belowMin):
			response.ErrorWithData(c, response.CodeBadRequest, belowMin.Error(), gin.H{
				"minimum":   belowMin.Minimum,
				"total":     belowMin.Total,
				"shortfall": belowMin.Shortfall,
			})
		case errors.Is(err, service.ErrNothingToWithdraw):
			respondError(c, response.CodeBadRequest, "no withdrawable earnings", nil)
		case errors.Is(err, service.ErrBankAccountMissing):
			respondError(c, response.CodeBadRequest, "bank account must be set before withdrawing", nil)
		default:
			respondError(c, response.CodeInternal, "withdrawal failed", err)
		}
		return
	}
	response.Success(c, result)
}

// ListMyTransactions 查询我的流水（filter=all/earnings/withdrawals）
func (h *Handler) ListMyTransactions(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	filter := strings.TrimSpace(c.DefaultQuery("filter", "all"))

	txns, total, err := h.ReferralService.ListTransactions(uid, page, pageSize, filter)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeBadRequest, "unknown transaction filter", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch transactions", err)
		return
	}
	response.SuccessWithPage(c, txns, buildPagination(page, pageSize, total))
}

// GetBalance 查询我的可用余额
func (h *Handler) GetBalance(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	balance, err := h.ReferralService.AvailableBalance(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch balance", err)
		return
	}
	response.Success(c, gin.H{"balance": balance})
}
