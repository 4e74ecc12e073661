package tasks

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
)

func TestNewPromotionExpiryTask(t *testing.T) {
	at := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	task, opts, err := NewPromotionExpiryTask(PromotionExpiryPayload{TripID: "trip-1", PromotionID: "promo-1"}, at)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if task.Type() != TypePromotionExpire {
		t.Fatalf("unexpected task type %q", task.Type())
	}
	if len(opts) != 3 {
		t.Fatalf("expected process-at, task id and retry options, got %d", len(opts))
	}

	p, err := ParsePromotionExpiryPayload(task)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.TripID != "trip-1" || p.PromotionID != "promo-1" {
		t.Fatalf("unexpected payload: %+v", p)
	}
}

func TestParsePromotionExpiryPayloadRejectsGarbage(t *testing.T) {
	for _, body := range []string{"not json", `{"tripId":"trip-1"}`} {
		if _, err := ParsePromotionExpiryPayload(asynq.NewTask(TypePromotionExpire, []byte(body))); err == nil {
			t.Fatalf("payload %q should be rejected", body)
		}
	}
}
