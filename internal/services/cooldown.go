package services

import (
	"mediawall/internal/structures"
	"sync"
	"time"
)

// Cooldown throttles suggestion submissions per client. State lives only in
// memory and is lost on restart.
type Cooldown struct {
	mu     sync.Mutex
	window time.Duration
	until  map[string]time.Time
	now    func() time.Time
}

func NewCooldown(conf *structures.Config) *Cooldown {
	return newCooldown(conf.Api.SuggestionCooldown, time.Now)
}

func newCooldown(window time.Duration, now func() time.Time) *Cooldown {
	return &Cooldown{
		window: window,
		until:  make(map[string]time.Time),
		now:    now,
	}
}

// Reserve starts the window for client when none is active and reports
// ok. Otherwise it returns how long client must still wait. Checking and
// setting happen under one lock, so concurrent requests from one client
// cannot all pass.
func (c *Cooldown) Reserve(client string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if expiry, ok := c.until[client]; ok {
		if wait := expiry.Sub(now); wait > 0 {
			return wait, false
		}
		delete(c.until, client)
	}
	if c.window > 0 {
		c.until[client] = now.Add(c.window)
	}
	return 0, true
}

// Release drops the window taken by Reserve, for submissions that must not
// count against the client.
func (c *Cooldown) Release(client string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.until, client)
}

// Sweep drops expired entries and returns how many were removed.
func (c *Cooldown) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for client, expiry := range c.until {
		if !expiry.After(now) {
			delete(c.until, client)
			removed++
		}
	}
	return removed
}

func (c *Cooldown) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.until)
}
