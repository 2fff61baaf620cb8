package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nexlayer/backend/internal/config"
	"github.com/nexlayer/backend/internal/models"
)

func TestTaskTypeSecurityRecord_Constant(t *testing.T) {
	if TaskTypeSecurityRecord != "security:record" {
		t.Errorf("TaskTypeSecurityRecord = %q", TaskTypeSecurityRecord)
	}
}

func TestSyncQueue_ProcessesInline(t *testing.T) {
	var got []*SecurityEvent
	q := NewSyncQueue()
	q.SetProcessor(func(_ context.Context, e *SecurityEvent) error {
		got = append(got, e)
		return nil
	})

	if q.IsAsync() {
		t.Error("sync queue should not report async")
	}
	if err := q.Enqueue(&SecurityEvent{Type: models.SecurityEventAudit}); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Type != models.SecurityEventAudit {
		t.Errorf("processed = %+v", got)
	}
}

func TestSyncQueue_SwallowsProcessorErrors(t *testing.T) {
	q := NewSyncQueue()
	q.SetProcessor(func(context.Context, *SecurityEvent) error { return errors.New("db down") })
	if err := q.Enqueue(&SecurityEvent{Type: models.SecurityEventAudit}); err != nil {
		t.Errorf("Enqueue() error = %v, expected nil", err)
	}

	if err := NewSyncQueue().Enqueue(&SecurityEvent{}); err != nil {
		t.Errorf("Enqueue() without processor error = %v", err)
	}
}

func TestNewEventQueue_SyncWhenRedisDisabled(t *testing.T) {
	db := setupTestDB(t)
	logs := NewSecurityLogService(db)

	q := NewEventQueue(config.DefaultConfig(), logs.Record)
	defer q.Close()
	if q.IsAsync() {
		t.Fatal("expected the in-process queue with Redis disabled")
	}

	q.Enqueue(&SecurityEvent{Type: models.SecurityEventFirewallBlock, Path: "/x"})
	if n := count(t, db, &models.SecurityLog{}); n != 1 {
		t.Errorf("security logs = %d, expected 1", n)
	}
}

func TestNewWorker_NilWhenRedisDisabled(t *testing.T) {
	if w := NewWorker(&config.RedisConfig{Enabled: false}); w != nil {
		t.Error("worker should be nil without Redis")
	}
}

func TestSecurityEvent_ToModel(t *testing.T) {
	e := &SecurityEvent{Type: models.SecurityEventAuthFailure, IP: "1.1.1.1", UserID: "u", Details: map[string]interface{}{"status": 403}}
	m := e.toModel()
	if m.Type != e.Type || m.IP != e.IP || m.UserID != "u" || m.Details["status"] != 403 {
		t.Errorf("toModel() = %+v", m)
	}
}
