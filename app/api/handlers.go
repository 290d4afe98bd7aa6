package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/bandcamp-comb/app/cache"
	"github.com/lysyi3m/bandcamp-comb/app/feed"
)

func NewHandler(processor ProcessorInterface, feedCache *cache.FreshnessCache, account, version string) *Handler {
	return &Handler{
		processor: processor,
		cache:     feedCache,
		account:   account,
		version:   version,
		now:       time.Now,
	}
}

func (h *Handler) GetRSS(c *gin.Context) {
	h.serveFeed(c, feed.VariantRSS)
}

func (h *Handler) GetAtom(c *gin.Context) {
	h.serveFeed(c, feed.VariantAtom)
}

func (h *Handler) serveFeed(c *gin.Context, variant feed.Variant) {
	result, err := h.processor.Handle(c.Request.Context(), variant, requestURL(c.Request))
	if err != nil {
		var fetchErr *feed.FetchError
		if errors.As(err, &fetchErr) {
			slog.Error("Upstream fetch error", "variant", variant.String(), "status", fetchErr.StatusCode, "error", err)
			c.Status(http.StatusBadGateway)
			return
		}

		slog.Error("Feed generation error", "variant", variant.String(), "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Cache", "MISS")
	if result.Cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Feed-Items", strconv.Itoa(result.Items))
	}
	c.Header("X-Last-Updated", result.GeneratedAt.Format(time.RFC3339))

	c.Data(http.StatusOK, variant.ContentType(), result.Document)
}

func (h *Handler) GetHealth(c *gin.Context) {
	now := h.now()

	health := map[string]interface{}{
		"status":    "OK",
		"timestamp": now.Format(time.RFC3339),
		"account":   h.account,
		"version":   h.version,
	}

	if h.cache != nil {
		health["cache_ttl"] = h.cache.TTL().String()
		health["cache"] = h.cache.Stats(now)
	}

	slog.Debug("Health check endpoint accessed")

	c.JSON(http.StatusOK, health)
}

// requestURL rebuilds the externally visible URL of r, honouring reverse proxy headers.
func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	host := r.Host
	if forwarded := r.Header.Get("X-Forwarded-Host"); forwarded != "" {
		host = forwarded
	}

	return scheme + "://" + host + r.URL.RequestURI()
}
