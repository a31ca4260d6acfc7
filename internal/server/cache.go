package server

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/goccy/go-json"
	cache "github.com/patrickmn/go-cache"
	"github.com/rpgo/corpus-planner/internal/domain"
	"github.com/rpgo/corpus-planner/internal/metrics"
)

// PlanCache keeps recent plan results keyed by data version and inputs.
type PlanCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewPlanCache creates a cache. A non-positive ttl disables caching.
func NewPlanCache(ttl, cleanup time.Duration) *PlanCache {
	if ttl <= 0 {
		return &PlanCache{}
	}
	if cleanup <= 0 {
		cleanup = ttl * 2
	}
	return &PlanCache{cache: cache.New(ttl, cleanup), ttl: ttl}
}

// Get retrieves a cached plan.
func (pc *PlanCache) Get(key string) (*domain.PlanResult, bool) {
	if pc.cache == nil {
		return nil, false
	}
	if v, found := pc.cache.Get(key); found {
		if result, ok := v.(*domain.PlanResult); ok {
			metrics.RecordCacheLookup(true)
			return result, true
		}
	}
	metrics.RecordCacheLookup(false)
	return nil, false
}

// Set stores a plan.
func (pc *PlanCache) Set(key string, result *domain.PlanResult) {
	if pc.cache == nil {
		return
	}
	pc.cache.Set(key, result, pc.ttl)
}

// Len is the number of cached plans, including expired ones not yet cleaned up.
func (pc *PlanCache) Len() int {
	if pc.cache == nil {
		return 0
	}
	return pc.cache.ItemCount()
}

// PlanKey hashes the canonical JSON of inputs together with the data version.
func PlanKey(dataVersion string, inputs domain.PlanInputs) (string, error) {
	body, err := json.Marshal(inputs)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(dataVersion+"\n"), body...))
	return hex.EncodeToString(sum[:]), nil
}
