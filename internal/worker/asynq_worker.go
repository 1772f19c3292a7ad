package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/esim-referral/internal/logger"
	"github.com/esim-referral/internal/provider"
	"github.com/esim-referral/internal/queue"
	"github.com/esim-referral/internal/service"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskReferralCommission, c.handleReferralCommission)
}

func (c *Consumer) handleReferralCommission(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_referral_commission_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ReferralCommissionPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// 损坏的载荷重试也不会恢复，丢弃而非重试
		logger.Warnw("worker_referral_commission_unmarshal_failed", "error", err)
		return nil
	}
	if payload.UserID == 0 || payload.PurchaseID == "" {
		logger.Debugw("worker_referral_commission_skip_invalid_payload",
			"user_id", payload.UserID,
			"purchase_id", payload.PurchaseID,
		)
		return nil
	}
	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		logger.Warnw("worker_referral_commission_bad_amount",
			"purchase_id", payload.PurchaseID,
			"amount", payload.Amount,
			"error", err,
		)
		return nil
	}
	if c.ReferralService == nil {
		logger.Warnw("worker_referral_commission_skip_service_nil", "purchase_id", payload.PurchaseID)
		return nil
	}

	result, err := c.ReferralService.ProcessTransactionCommission(service.CommissionInput{
		UserID:     payload.UserID,
		Amount:     amount,
		PurchaseID: payload.PurchaseID,
		PlanID:     payload.PlanID,
		PlanName:   payload.PlanName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			logger.Debugw("worker_referral_commission_skip_user_not_found",
				"user_id", payload.UserID,
				"purchase_id", payload.PurchaseID,
			)
			return nil
		case errors.Is(err, service.ErrCommissionRateNotConfigured):
			logger.Warnw("worker_referral_commission_rate_missing", "purchase_id", payload.PurchaseID)
			return nil
		default:
			logger.Warnw("worker_referral_commission_failed",
				"user_id", payload.UserID,
				"purchase_id", payload.PurchaseID,
				"error", err,
			)
			return err
		}
	}
	if result.Duplicate {
		logger.Debugw("worker_referral_commission_skip_duplicate", "purchase_id", payload.PurchaseID)
		return nil
	}
	if result.Credited {
		logger.Infow("worker_referral_commission_credited",
			"user_id", payload.UserID,
			"purchase_id", payload.PurchaseID,
			"commission", result.Commission.String(),
		)
	}
	return nil
}
