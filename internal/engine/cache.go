package engine

import (
	"log"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/harukit/journeys-backend-go/internal/models"
)

// CacheEntry holds the per-user fast path in front of durable storage. The
// three fields are always populated together so the classifier and the
// decision engine see a consistent snapshot.
type CacheEntry struct {
	LastJourney       *models.LocationJourney
	LastMovingJourney *models.LocationJourney
	Window            Window
}

// consistent checks the type invariants of the entry. An entry that fails
// them is treated as a cold cache, never surfaced to the caller.
func (e *CacheEntry) consistent(userID string) bool {
	if e.LastJourney != nil && e.LastJourney.UserID != userID {
		return false
	}
	if e.LastMovingJourney != nil {
		if e.LastMovingJourney.UserID != userID || !e.LastMovingJourney.IsMoving() {
			return false
		}
	}
	return true
}

// Cache is a bounded per-user LRU in front of the journey and sample stores.
// Eviction never loses correctness, only performance: the stores are the
// source of truth and a cold entry is rehydrated on the next decision.
type Cache struct {
	entries *lru.Cache[string, *CacheEntry]
}

// NewCache creates a cache bounded to capacity users
func NewCache(capacity int) (*Cache, error) {
	entries, err := lru.New[string, *CacheEntry](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Get returns the entry for userID. Inconsistent entries are dropped and
// reported as a miss, forcing a reload from the stores.
func (c *Cache) Get(userID string) (*CacheEntry, bool) {
	entry, ok := c.entries.Get(userID)
	if !ok {
		return nil, false
	}
	if !entry.consistent(userID) {
		log.Printf("[JourneyCache] Inconsistent entry for user %s, forcing reload", userID)
		c.entries.Remove(userID)
		return nil, false
	}
	return entry, true
}

// Put overwrites the entry for userID
func (c *Cache) Put(userID string, entry *CacheEntry) {
	c.entries.Add(userID, entry)
}

// Len returns the number of cached users
func (c *Cache) Len() int {
	return c.entries.Len()
}
