// Package taskqueue stores run records for background operations (RSS
// ingestion, newsletter broadcast) in Redis so the admin console can show
// the outcome of the latest runs.
package taskqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	redisc "github.com/techpress/core/internal/pkg/redis"
)

// TaskStatus represents the lifecycle state of a run.
type TaskStatus string

const (
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Task is one recorded run of a background operation.
type Task struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"` // "ingest" | "broadcast"
	Status    TaskStatus      `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

const (
	keyPrefix = "tp:task:"
	keyIndex  = "tp:tasks:index:" // per type, sorted set: score=created_at
	taskTTL   = 7 * 24 * time.Hour
)

// Service manages the Redis-backed run records.
type Service struct {
	rc *redisc.Client
}

func NewService(rc *redisc.Client) *Service {
	return &Service{rc: rc}
}

func (s *Service) taskKey(id string) string { return keyPrefix + id }

// Begin records a new running task and returns it.
func (s *Service) Begin(ctx context.Context, taskType string) (*Task, error) {
	now := time.Now()
	task := &Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Status:    TaskRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store(ctx, task); err != nil {
		return nil, err
	}
	err := s.rc.Raw().ZAdd(ctx, keyIndex+taskType, redis.Z{
		Score:  float64(now.UnixMilli()),
		Member: task.ID,
	}).Err()
	return task, err
}

// Complete marks a task finished with a result payload.
func (s *Service) Complete(ctx context.Context, task *Task, result interface{}) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	task.Status = TaskCompleted
	task.Result = raw
	task.UpdatedAt = time.Now()
	return s.store(ctx, task)
}

// Fail marks a task failed.
func (s *Service) Fail(ctx context.Context, task *Task, runErr error) error {
	task.Status = TaskFailed
	if runErr != nil {
		task.Error = runErr.Error()
	}
	task.UpdatedAt = time.Now()
	return s.store(ctx, task)
}

// Recent returns the latest run records for a task type, newest first.
func (s *Service) Recent(ctx context.Context, taskType string, limit int) ([]*Task, error) {
	if limit <= 0 {
		limit = 10
	}
	ids, err := s.rc.Raw().ZRevRange(ctx, keyIndex+taskType, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	tasks := make([]*Task, 0, len(ids))
	for _, id := range ids {
		task, err := s.GetByID(ctx, id)
		if err != nil {
			continue // expired record still indexed
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// GetByID loads a single task record.
func (s *Service) GetByID(ctx context.Context, id string) (*Task, error) {
	raw, err := s.rc.Raw().Get(ctx, s.taskKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("task %q not found: %w", id, err)
	}
	var task Task
	if err := json.Unmarshal([]byte(raw), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *Service) store(ctx context.Context, task *Task) error {
	raw, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return s.rc.Raw().Set(ctx, s.taskKey(task.ID), raw, taskTTL).Err()
}
