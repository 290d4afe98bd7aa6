package api

import (
	"context"
	"time"

	"github.com/lysyi3m/bandcamp-comb/app/cache"
	"github.com/lysyi3m/bandcamp-comb/app/feed"
	"github.com/lysyi3m/bandcamp-comb/app/pipeline"
)

type ProcessorInterface interface {
	Handle(ctx context.Context, variant feed.Variant, selfURL string) (*pipeline.Result, error)
}

var _ ProcessorInterface = (*pipeline.Processor)(nil)

type Handler struct {
	processor ProcessorInterface
	cache     *cache.FreshnessCache
	account   string
	version   string
	now       func() time.Time
}
