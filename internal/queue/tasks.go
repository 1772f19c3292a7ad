package queue

import (
	"encoding/json"

	"github.com/esim-referral/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskReferralCommission 购买完成佣金入账任务
	TaskReferralCommission = constants.TaskReferralCommission
)

// ReferralCommissionPayload 佣金入账任务载荷
type ReferralCommissionPayload struct {
	UserID     uint   `json:"user_id"`     // 购买用户（被推荐人）
	Amount     string `json:"amount"`      // 购买金额（字符串，避免浮点误差）
	PurchaseID string `json:"purchase_id"` // 外部交易号
	PlanID     string `json:"plan_id"`
	PlanName   string `json:"plan_name"`
}

// NewReferralCommissionTask 创建佣金入账任务
func NewReferralCommissionTask(payload ReferralCommissionPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReferralCommission, body), nil
}
