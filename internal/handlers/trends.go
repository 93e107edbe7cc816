package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ideahub/server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TrendFetcher looks up keyword trend data from an external source.
type TrendFetcher interface {
	Fetch(ctx context.Context, keywords []string, source string) (json.RawMessage, error)
}

// HTTPTrendFetcher is the thin wrapper around the upstream trend API.
type HTTPTrendFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPTrendFetcher(baseURL string) *HTTPTrendFetcher {
	return &HTTPTrendFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (f *HTTPTrendFetcher) Fetch(ctx context.Context, keywords []string, source string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s?q=%s&source=%s", f.BaseURL,
		url.QueryEscape(strings.Join(keywords, ",")), url.QueryEscape(source))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trend API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

type TrendRequest struct {
	Keywords     []string `json:"keywords" binding:"required,min=1,max=10"`
	Source       string   `json:"source" binding:"omitempty,max=32"`
	ForceRefresh bool     `json:"force_refresh"`
}

const defaultTrendSource = "google-trends"

// GetTrends serves trend data through the 24-hour cache. Cache key is the
// sorted keyword set plus source, so keyword order does not fragment entries.
// Failures are never cached.
func (h *Handlers) GetTrends(c *gin.Context) {
	var req TrendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := req.Source
	if source == "" {
		source = defaultTrendSource
	}
	cacheKey := models.TrendCacheKey(req.Keywords, source)

	var entry models.TrendCache
	err := h.db.Where("cache_key = ?", cacheKey).First(&entry).Error
	haveEntry := err == nil
	if err != nil && err != gorm.ErrRecordNotFound {
		h.logger.Error("trend cache lookup", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if haveEntry && !req.ForceRefresh && entry.Fresh(time.Now()) {
		c.JSON(http.StatusOK, gin.H{
			"cached":     true,
			"updated_at": entry.UpdatedAt,
			"data":       json.RawMessage(entry.Payload),
		})
		return
	}

	payload, err := h.trends.Fetch(c.Request.Context(), req.Keywords, source)
	if err != nil {
		h.logger.Error("trend fetch", "cache_key", cacheKey, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trend data"})
		return
	}

	if haveEntry {
		entry.Payload = string(payload)
		if err := h.db.Save(&entry).Error; err != nil {
			h.logger.Warn("trend cache update", "error", err)
		}
	} else {
		entry = models.TrendCache{CacheKey: cacheKey, Payload: string(payload)}
		if err := h.db.Create(&entry).Error; err != nil {
			h.logger.Warn("trend cache insert", "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"cached": false,
		"data":   json.RawMessage(payload),
	})
}
