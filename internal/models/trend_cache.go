package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrendCacheTTL is the freshness window for memoized trend lookups.
const TrendCacheTTL = 24 * time.Hour

// TrendCache memoizes an external trend-API result keyed by keyword set and
// source. Payload is the raw JSON returned by the upstream.
type TrendCache struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CacheKey  string    `gorm:"type:varchar(512);uniqueIndex;not null" json:"cache_key"`
	Payload   string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *TrendCache) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// Fresh reports whether the cached payload is still within the TTL.
func (t *TrendCache) Fresh(now time.Time) bool {
	return now.Sub(t.UpdatedAt) < TrendCacheTTL
}

// TrendCacheKey builds the canonical cache key: keywords sorted and
// comma-joined, then the source tag. ["b","a"] and ["a","b"] share a key.
func TrendCacheKey(keywords []string, source string) string {
	sorted := make([]string, len(keywords))
	copy(sorted, keywords)
	sort.Strings(sorted)
	return strings.Join(sorted, ",") + "|" + source
}
