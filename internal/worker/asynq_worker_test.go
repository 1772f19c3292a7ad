package worker

import (
	"context"
	"testing"

	"github.com/esim-referral/internal/provider"
	"github.com/esim-referral/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandleReferralCommissionInvalidJSON(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	task := asynq.NewTask(queue.TaskReferralCommission, []byte("{not json"))

	// 损坏的载荷是终态失败，不应返回错误触发重试
	if err := consumer.handleReferralCommission(context.Background(), task); err != nil {
		t.Fatalf("malformed payload should be dropped without error, got %v", err)
	}
}

func TestHandleReferralCommissionSkipsInvalidPayload(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task, err := queue.NewReferralCommissionTask(queue.ReferralCommissionPayload{
		UserID: 0,
		Amount: "10.00",
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleReferralCommission(context.Background(), task); err != nil {
		t.Fatalf("zero user id should be skipped without error, got %v", err)
	}
}

func TestHandleReferralCommissionSkipsBadAmount(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task, err := queue.NewReferralCommissionTask(queue.ReferralCommissionPayload{
		UserID:     7,
		Amount:     "not-a-number",
		PurchaseID: "purchase-7",
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleReferralCommission(context.Background(), task); err != nil {
		t.Fatalf("unparsable amount should be skipped without error, got %v", err)
	}
}

func TestHandleReferralCommissionSkipsNilService(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})

	task, err := queue.NewReferralCommissionTask(queue.ReferralCommissionPayload{
		UserID:     7,
		Amount:     "10.00",
		PurchaseID: "purchase-7",
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleReferralCommission(context.Background(), task); err != nil {
		t.Fatalf("nil referral service should be skipped without error, got %v", err)
	}
}
