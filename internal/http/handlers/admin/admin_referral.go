package admin

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/esim-referral/internal/http/handlers/shared"
	"github.com/esim-referral/internal/http/response"
	"github.com/esim-referral/internal/repository"
	"github.com/esim-referral/internal/service"

	"github.com/gin-gonic/gin"
)

// GetReferralSettings 获取推荐配置
func (h *Handler) GetReferralSettings(c *gin.Context) {
	setting, err := h.SettingService.GetReferralSetting()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch referral settings", err)
		return
	}
	response.Success(c, setting)
}

// UpdateReferralSettings 更新推荐配置
func (h *Handler) UpdateReferralSettings(c *gin.Context) {
	var req service.ReferralSetting
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	setting, err := h.SettingService.UpdateReferralSetting(req)
	if err != nil {
		if errors.Is(err, service.ErrReferralConfigInvalid) {
			respondError(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to save referral settings", err)
		return
	}
	response.Success(c, setting)
}

// GetReferralCodes 获取推荐码列表
func (h *Handler) GetReferralCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	keyword := strings.TrimSpace(c.Query("keyword"))
	onlyActive := strings.EqualFold(strings.TrimSpace(c.Query("only_active")), "true")

	codes, total, err := h.ReferralService.ListCodes(repository.ReferralCodeListFilter{
		Page:       page,
		PageSize:   pageSize,
		Keyword:    keyword,
		OnlyActive: onlyActive,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch referral codes", err)
		return
	}
	response.SuccessWithPage(c, codes, handlershared.BuildPagination(page, pageSize, total))
}

// GetReferralUsageStats 获取推荐计划全局统计
func (h *Handler) GetReferralUsageStats(c *gin.Context) {
	stats, err := h.ReferralService.GetUsageStats()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch referral stats", err)
		return
	}
	response.Success(c, stats)
}

// GetReferralWithdrawals 获取提现记录列表
func (h *Handler) GetReferralWithdrawals(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var userID uint
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid user_id", nil)
			return
		}
		userID = uint(parsed)
	}

	withdrawals, total, err := h.ReferralService.ListWithdrawals(repository.WithdrawalListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch withdrawals", err)
		return
	}
	response.SuccessWithPage(c, withdrawals, handlershared.BuildPagination(page, pageSize, total))
}

// ReconcileReferralBalance 对账指定用户的余额与流水
func (h *Handler) ReconcileReferralBalance(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "invalid user id", nil)
		return
	}

	report, err := h.ReferralService.ReconcileBalance(uint(rawID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to reconcile balance", err)
		return
	}
	response.Success(c, report)
}

// PurgeReferralDataRequest 清空推荐数据请求
type PurgeReferralDataRequest struct {
	Confirm string `json:"confirm" binding:"required"` // 必须为 PURGE
}

// PurgeReferralData 清空全部推荐数据（不可逆，需显式确认）
func (h *Handler) PurgeReferralData(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req PurgeReferralDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Confirm) != "PURGE" {
		respondError(c, response.CodeBadRequest, "confirmation must be PURGE", nil)
		return
	}

	result, err := h.ReferralService.PurgeReferralData()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to purge referral data", err)
		return
	}
	requestLog(c).Warnw("referral_data_purged",
		"admin_id", adminID,
		"codes", result.Codes,
		"commissions", result.Commissions,
		"transactions", result.Transactions,
		"accounts", result.Accounts,
		"withdrawals", result.Withdrawals,
		"users", result.Users,
	)
	response.Success(c, result)
}
