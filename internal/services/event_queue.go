package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/hibiken/asynq"
	"github.com/nexlayer/backend/internal/config"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/pkg/logger"
)

const (
	TaskTypeSecurityRecord = "security:record"
)

// SecurityEvent is a security-relevant occurrence waiting to be persisted.
type SecurityEvent struct {
	Type      string                 `json:"type"`
	IP        string                 `json:"ip"`
	Path      string                 `json:"path"`
	Method    string                 `json:"method"`
	UserAgent string                 `json:"user_agent"`
	UserID    string                 `json:"user_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

func (e *SecurityEvent) toModel() *models.SecurityLog {
	return &models.SecurityLog{
		Type:      e.Type,
		IP:        e.IP,
		Path:      e.Path,
		Method:    e.Method,
		UserAgent: e.UserAgent,
		UserID:    e.UserID,
		Details:   e.Details,
	}
}

// EventProcessor persists a single event.
type EventProcessor func(context.Context, *SecurityEvent) error

// EventQueue defines the interface for security event delivery
type EventQueue interface {
	// Enqueue hands an event to the queue
	Enqueue(event *SecurityEvent) error
	// IsAsync returns true if queue processes events asynchronously
	IsAsync() bool
	// Close gracefully shuts down the queue
	Close() error
}

var (
	globalEventQueue EventQueue
	eventQueueOnce   sync.Once
)

// InitEventQueue initializes the global event queue based on config. When
// Redis is unavailable events are processed in-process by processor.
func InitEventQueue(cfg *config.Config, processor EventProcessor) EventQueue {
	eventQueueOnce.Do(func() {
		globalEventQueue = NewEventQueue(cfg, processor)
	})
	return globalEventQueue
}

// NewEventQueue builds a queue without touching the global instance.
func NewEventQueue(cfg *config.Config, processor EventProcessor) EventQueue {
	if cfg.Redis.Enabled {
		queue, err := NewAsyncQueue(&cfg.Redis)
		if err == nil {
			logger.Infof("[EventQueue] Async queue initialized with Redis at %s", cfg.Redis.Addr)
			return queue
		}
		logger.Infof("[EventQueue] Redis unavailable, falling back to sync mode: %v", err)
	} else {
		logger.Infof("[EventQueue] Sync queue initialized (Redis disabled)")
	}
	q := NewSyncQueue()
	q.SetProcessor(processor)
	return q
}

// AsyncQueue implements EventQueue using asynq (Redis-based)
type AsyncQueue struct {
	client *asynq.Client
}

func redisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewAsyncQueue creates a new Redis-based async queue
func NewAsyncQueue(cfg *config.RedisConfig) (*AsyncQueue, error) {
	opt := redisOpt(cfg)
	client := asynq.NewClient(opt)

	inspector := asynq.NewInspector(opt)
	defer inspector.Close()

	if _, err := inspector.Queues(); err != nil {
		client.Close()
		return nil, err
	}

	return &AsyncQueue{client: client}, nil
}

func (q *AsyncQueue) Enqueue(event *SecurityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	t := asynq.NewTask(TaskTypeSecurityRecord, payload)
	info, err := q.client.Enqueue(t,
		asynq.Queue("security"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return err
	}

	logger.Debug().Str("task_id", info.ID).Str("type", event.Type).Msg("security event enqueued")
	return nil
}

func (q *AsyncQueue) IsAsync() bool {
	return true
}

func (q *AsyncQueue) Close() error {
	return q.client.Close()
}

// SyncQueue implements EventQueue by processing events in the caller's goroutine
type SyncQueue struct {
	processor EventProcessor
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{}
}

func (q *SyncQueue) SetProcessor(processor EventProcessor) {
	q.processor = processor
}

// Enqueue processes the event immediately. A processing failure is logged,
// never returned, so a broken log store cannot fail the originating request.
func (q *SyncQueue) Enqueue(event *SecurityEvent) error {
	if q.processor == nil {
		logger.Infof("[SyncQueue] Warning: no processor set, event will be dropped")
		return nil
	}
	if err := q.processor(context.Background(), event); err != nil {
		logger.Warn().Err(err).Str("type", event.Type).Msg("security event processing failed")
	}
	return nil
}

func (q *SyncQueue) IsAsync() bool {
	return false
}

func (q *SyncQueue) Close() error {
	return nil
}
