package usecase

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CoalesceOutcome says how a coalesced call was answered
type CoalesceOutcome int

const (
	// CoalesceExecuted means this caller ran the pipeline itself
	CoalesceExecuted CoalesceOutcome = iota
	// CoalesceCached means a completed result younger than the TTL was reused
	CoalesceCached
	// CoalesceJoined means the caller waited on an in-flight execution
	CoalesceJoined
)

type completedSearch struct {
	result *SearchResult
	at     time.Time
}

// SearchCoalescer prevents duplicate work for identical queries. A
// completed result is served for ttl after it finished; while a
// computation is in flight, identical calls block on it instead of
// launching their own. At most one computation runs per key.
type SearchCoalescer struct {
	ttl   time.Duration
	group singleflight.Group

	mu   sync.Mutex
	done map[string]*completedSearch
}

// NewSearchCoalescer creates a coalescer with the given completed-result TTL
func NewSearchCoalescer(ttl time.Duration) *SearchCoalescer {
	return &SearchCoalescer{
		ttl:  ttl,
		done: make(map[string]*completedSearch),
	}
}

// Do answers from the completed cache, joins an in-flight execution, or
// runs fn. The in-flight marker is released whether fn succeeds or fails,
// so a failed pipeline never wedges its key; failures are also not cached.
func (c *SearchCoalescer) Do(key string, fn func() (*SearchResult, error)) (*SearchResult, CoalesceOutcome, error) {
	c.mu.Lock()
	if entry, ok := c.done[key]; ok {
		if time.Since(entry.at) < c.ttl {
			c.mu.Unlock()
			return entry.result, CoalesceCached, nil
		}
		delete(c.done, key)
	}
	c.mu.Unlock()

	executed := false
	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		executed = true
		result, err := fn()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.done[key] = &completedSearch{result: result, at: time.Now()}
		c.mu.Unlock()
		return result, nil
	})
	if err != nil {
		return nil, CoalesceExecuted, err
	}

	outcome := CoalesceJoined
	if executed {
		outcome = CoalesceExecuted
	}
	return value.(*SearchResult), outcome, nil
}
