package pep

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/dtc-forks/authzforce-core/models"
)

// DecisionCache provides caching for policy decisions
type DecisionCache struct {
	mu      sync.RWMutex
	cache   map[string]*cacheEntry
	maxSize int
	ttl     time.Duration
	stats   CacheStats
}

// cacheEntry represents a cached decision with metadata
type cacheEntry struct {
	response  *models.AuthzResponse
	timestamp time.Time
}

// CacheStats holds cache performance statistics
type CacheStats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
}

// NewDecisionCache creates a new decision cache
func NewDecisionCache(maxSize int, ttl time.Duration) *DecisionCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &DecisionCache{
		cache:   make(map[string]*cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get retrieves a cached decision, or nil on miss or expiry.
func (c *DecisionCache) Get(request *models.AuthzRequest) *models.AuthzResponse {
	key := c.generateKey(request)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.cache[key]
	if !exists {
		c.stats.Misses++
		return nil
	}
	if time.Since(entry.timestamp) > c.ttl {
		delete(c.cache, key)
		c.stats.Misses++
		c.stats.Evictions++
		return nil
	}
	c.stats.Hits++
	return entry.response
}

// Put stores a decision. When the cache is full, expired entries are dropped
// first; if none expired an arbitrary entry is evicted.
func (c *DecisionCache) Put(request *models.AuthzRequest, response *models.AuthzResponse) {
	key := c.generateKey(request)

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cache) >= c.maxSize {
		evicted := false
		for k, e := range c.cache {
			if time.Since(e.timestamp) > c.ttl {
				delete(c.cache, k)
				c.stats.Evictions++
				evicted = true
			}
		}
		if !evicted {
			for k := range c.cache {
				delete(c.cache, k)
				c.stats.Evictions++
				break
			}
		}
	}
	c.cache[key] = &cacheEntry{response: response, timestamp: time.Now()}
}

// Stats returns a snapshot of cache statistics.
func (c *DecisionCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stats := c.stats
	stats.Size = len(c.cache)
	return stats
}

// generateKey hashes the request's categories; the request id is excluded so
// identical requests share one entry.
func (c *DecisionCache) generateKey(request *models.AuthzRequest) string {
	payload, _ := json.Marshal(struct {
		ReturnPolicyIDList bool                 `json:"rp"`
		Categories         []models.CategoryDoc `json:"c"`
	}{request.ReturnPolicyIDList, request.Categories})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
