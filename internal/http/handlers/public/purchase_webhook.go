package public

import (
	"crypto/subtle"
	"errors"
	"strings"

	handlershared "github.com/esim-referral/internal/http/handlers/shared"
	"github.com/esim-referral/internal/http/response"
	"github.com/esim-referral/internal/queue"
	"github.com/esim-referral/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PurchaseCompletedRequest 购买完成回调请求（服务间调用）
type PurchaseCompletedRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
	PurchaseID string `json:"purchase_id" binding:"required"`
	PlanID     string `json:"plan_id"`
	PlanName   string `json:"plan_name"`
}

// PurchaseCompleted 购买完成回调。校验 X-Internal-Token 后入账佣金；
// 队列可用时异步处理，否则同步入账。重复回调返回 duplicate 而非错误。
func (h *Handler) PurchaseCompleted(c *gin.Context) {
	if !h.authorizeInternal(c) {
		return
	}

	var req PurchaseCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || amount.IsNegative() {
		respondError(c, response.CodeBadRequest, "invalid purchase amount", nil)
		return
	}

	if h.QueueClient != nil && h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueReferralCommission(queue.ReferralCommissionPayload{
			UserID:     req.UserID,
			Amount:     amount.StringFixed(2),
			PurchaseID: strings.TrimSpace(req.PurchaseID),
			PlanID:     req.PlanID,
			PlanName:   req.PlanName,
		}); err != nil {
			handlershared.RequestLog(c).Errorw("referral_commission_enqueue_failed",
				"purchase_id", req.PurchaseID,
				"user_id", req.UserID,
				"error", err,
			)
			respondError(c, response.CodeInternal, "failed to enqueue commission task", err)
			return
		}
		response.Success(c, gin.H{"queued": true})
		return
	}

	result, err := h.ReferralService.ProcessTransactionCommission(service.CommissionInput{
		UserID:     req.UserID,
		Amount:     amount,
		PurchaseID: req.PurchaseID,
		PlanID:     req.PlanID,
		PlanName:   req.PlanName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		case errors.Is(err, service.ErrCommissionRateNotConfigured):
			respondError(c, response.CodeInternal, "commission rate not configured", nil)
		default:
			respondError(c, response.CodeInternal, "failed to process commission", err)
		}
		return
	}
	response.Success(c, result)
}

// authorizeInternal 校验服务间共享密钥
func (h *Handler) authorizeInternal(c *gin.Context) bool {
	expected := ""
	if h.Config != nil {
		expected = strings.TrimSpace(h.Config.Internal.Token)
	}
	if expected == "" {
		respondError(c, response.CodeForbidden, "internal endpoint not configured", nil)
		return false
	}
	provided := strings.TrimSpace(c.GetHeader("X-Internal-Token"))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
		respondError(c, response.CodeUnauthorized, "invalid internal token", nil)
		return false
	}
	return true
}
