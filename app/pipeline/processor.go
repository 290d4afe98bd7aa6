package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/bandcamp-comb/app/cache"
	"github.com/lysyi3m/bandcamp-comb/app/feed"
	"github.com/lysyi3m/bandcamp-comb/app/metrics"
	"golang.org/x/sync/singleflight"
)

type FetcherInterface interface {
	Run(ctx context.Context, url string) ([]byte, error)
}

var _ FetcherInterface = (*feed.Fetcher)(nil)

type Result struct {
	Document    []byte
	GeneratedAt time.Time
	Cached      bool
	Items       int
}

// Processor turns the Bandcamp feed page into syndication documents and
// keeps the most recent one per variant in the freshness cache.
type Processor struct {
	fetcher   FetcherInterface
	extractor *feed.Extractor
	generator *feed.Generator
	parser    *feed.Parser
	cache     *cache.FreshnessCache
	account   string
	sourceURL string
	now       func() time.Time

	group    singleflight.Group
	selfMu   sync.Mutex
	selfURLs map[feed.Variant]string
}

func NewProcessor(fetcher FetcherInterface, extractor *feed.Extractor, generator *feed.Generator,
	parser *feed.Parser, feedCache *cache.FreshnessCache, account, sourceURL string, now func() time.Time) *Processor {
	if now == nil {
		now = time.Now
	}
	return &Processor{
		fetcher:   fetcher,
		extractor: extractor,
		generator: generator,
		parser:    parser,
		cache:     feedCache,
		account:   account,
		sourceURL: sourceURL,
		now:       now,
		selfURLs:  make(map[feed.Variant]string, len(feed.Variants)),
	}
}

// Handle serves variant from the cache while it is fresh. On a miss exactly
// one pipeline run per variant is in flight; concurrent callers share its
// document or its error. A failed run never falls back to stale data.
func (p *Processor) Handle(ctx context.Context, variant feed.Variant, selfURL string) (*Result, error) {
	p.rememberSelfURL(variant, selfURL)

	if entry, ok := p.cache.Lookup(variant, p.now()); ok {
		slog.Info("Returning cached feed", "variant", variant.String())
		metrics.CacheHits.WithLabelValues(variant.String()).Inc()
		return &Result{Document: entry.Document, GeneratedAt: entry.GeneratedAt, Cached: true}, nil
	}

	metrics.CacheMisses.WithLabelValues(variant.String()).Inc()

	v, err, shared := p.group.Do(variant.String(), func() (interface{}, error) {
		// A run that finished while this caller waited for the group may already have filled the cache.
		if entry, ok := p.cache.Lookup(variant, p.now()); ok {
			return &Result{Document: entry.Document, GeneratedAt: entry.GeneratedAt, Cached: true}, nil
		}
		return p.run(context.WithoutCancel(ctx), variant, selfURL)
	})
	if err != nil {
		return nil, err
	}

	if shared {
		slog.Debug("Shared in-flight feed generation", "variant", variant.String())
	}

	return v.(*Result), nil
}

// Refresh regenerates variant unconditionally, using the self URL of the last
// request. It is a no-op until a request has supplied that URL, so the cache
// never holds a document without its self link.
func (p *Processor) Refresh(ctx context.Context, variant feed.Variant) error {
	selfURL := p.lastSelfURL(variant)
	if selfURL == "" {
		slog.Debug("Skipping refresh, no request seen yet", "variant", variant.String())
		return nil
	}

	_, err, _ := p.group.Do(variant.String(), func() (interface{}, error) {
		return p.run(ctx, variant, selfURL)
	})
	return err
}

func (p *Processor) run(ctx context.Context, variant feed.Variant, selfURL string) (*Result, error) {
	startedAt := p.now()

	start := time.Now()
	data, err := p.fetcher.Run(ctx, p.sourceURL)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	metrics.UpstreamFetches.WithLabelValues("success").Inc()

	items, skipped, err := p.extractor.Run(data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract stories: %w", err)
	}
	metrics.SkippedStories.Add(float64(len(skipped)))

	meta := feed.Metadata{
		Account:   p.account,
		SourceURL: p.sourceURL,
		SelfURL:   selfURL,
		BuildTime: startedAt,
	}

	document, err := p.generator.Run(variant, meta, items)
	if err != nil {
		return nil, err
	}

	summary, err := p.parser.Run(document)
	if err != nil {
		return nil, &feed.SynthesisError{Reason: "generated document is not readable", Err: err}
	}
	if len(summary.GUIDs) != len(items) {
		return nil, &feed.SynthesisError{Reason: fmt.Sprintf("generated document has %d entries, expected %d", len(summary.GUIDs), len(items))}
	}

	p.cache.Put(variant, document, startedAt)
	metrics.FeedItems.WithLabelValues(variant.String()).Set(float64(len(items)))

	slog.Info("Generated new feed and updated cache",
		"variant", variant.String(),
		"items", len(items),
		"skipped", len(skipped),
		"duration", p.now().Sub(startedAt))

	return &Result{Document: document, GeneratedAt: startedAt, Items: len(items)}, nil
}

func (p *Processor) rememberSelfURL(variant feed.Variant, selfURL string) {
	if selfURL == "" {
		return
	}
	p.selfMu.Lock()
	defer p.selfMu.Unlock()
	p.selfURLs[variant] = selfURL
}

func (p *Processor) lastSelfURL(variant feed.Variant) string {
	p.selfMu.Lock()
	defer p.selfMu.Unlock()
	return p.selfURLs[variant]
}
