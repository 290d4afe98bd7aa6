package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"
	"github.com/lysyi3m/bandcamp-comb/app/feed"
)

type Refresher interface {
	Refresh(ctx context.Context, variant feed.Variant) error
}

type RefreshFeedTask struct {
	Task
	refresher Refresher
}

func NewRefreshFeedTask(variant feed.Variant, refresher Refresher, retry backoff.BackOff) *RefreshFeedTask {
	return &RefreshFeedTask{
		Task:      NewTask(TaskTypeRefreshFeed, variant, retry),
		refresher: refresher,
	}
}

func (t *RefreshFeedTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.refresher.Refresh(ctx, t.Variant); err != nil {
		return fmt.Errorf("failed to refresh feed: %w", err)
	}

	slog.Info("Task completed",
		"type", "RefreshedFeed",
		"variant", t.Variant.String(),
		"duration", t.GetDuration())

	return nil
}
