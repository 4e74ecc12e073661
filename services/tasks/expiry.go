package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypePromotionExpire = "promotion:expire"

// PromotionExpiryPayload identifies the promotion whose window has closed.
type PromotionExpiryPayload struct {
	TripID      string `json:"tripId"`
	PromotionID string `json:"promotionId"`
}

// NewPromotionExpiryTask builds a task that fires at the promotion end date.
// The promotion id doubles as the task id so a promotion is queued once.
func NewPromotionExpiryTask(payload PromotionExpiryPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePromotionExpire, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("promotion-expire:" + payload.PromotionID),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

// ParsePromotionExpiryPayload decodes a task payload.
func ParsePromotionExpiryPayload(task *asynq.Task) (PromotionExpiryPayload, error) {
	var p PromotionExpiryPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid promotion expiry payload: %w", err)
	}
	if p.TripID == "" || p.PromotionID == "" {
		return p, fmt.Errorf("promotion expiry payload missing ids")
	}
	return p, nil
}

// AsynqExpiryScheduler enqueues expiry tasks on the Redis-backed asynq queue.
type AsynqExpiryScheduler struct {
	Client *asynq.Client
}

func NewAsynqExpiryScheduler(client *asynq.Client) *AsynqExpiryScheduler {
	return &AsynqExpiryScheduler{Client: client}
}

func (s *AsynqExpiryScheduler) ScheduleExpiry(ctx context.Context, tripID, promotionID string, at time.Time) error {
	task, opts, err := NewPromotionExpiryTask(PromotionExpiryPayload{TripID: tripID, PromotionID: promotionID}, at)
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue promotion expiry: %w", err)
	}
	return nil
}
