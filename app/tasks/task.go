package tasks

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lysyi3m/bandcamp-comb/app/feed"
)

type TaskType string

const (
	TaskTypeRefreshFeed TaskType = "refresh_feed"
)

const (
	DefaultMaxRetries = 3
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetVariant() feed.Variant
	GetRetryCount() int
	NextRetryDelay() (time.Duration, bool)
	Start()
	GetDuration() time.Duration
}

// Task carries its own retry policy, so successive failures of the same task
// walk one backoff sequence.
type Task struct {
	ID         string
	Type       TaskType
	Variant    feed.Variant
	RetryCount int
	StartedAt  *time.Time
	retry      backoff.BackOff
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetVariant() feed.Variant {
	return t.Variant
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

// NextRetryDelay reports false once the retry policy is exhausted.
func (t *Task) NextRetryDelay() (time.Duration, bool) {
	delay := t.retry.NextBackOff()
	if delay == backoff.Stop {
		return 0, false
	}
	t.RetryCount++
	return delay, true
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

// NewTask never retries when retry is nil.
func NewTask(taskType TaskType, variant feed.Variant, retry backoff.BackOff) Task {
	if retry == nil {
		retry = &backoff.StopBackOff{}
	}

	return Task{
		ID:      fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Intn(10000)),
		Type:    taskType,
		Variant: variant,
		retry:   retry,
	}
}
