// Package notifications holds the transient user-facing messages of a session.
// Every notification expires after its duration; removing it earlier cancels the
// pending expiry.
package notifications

import (
	"sync"
	"time"
)

type Type string

const (
	Success Type = "success"
	Error   Type = "error"
	Warning Type = "warning"
	Info    Type = "info"
)

const DefaultDuration = 5 * time.Second

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type Notification struct {
	ID       int64         `json:"id"`       // Millisecond timestamp, bumped to stay unique
	Type     Type          `json:"type"`     // success, error, warning or info
	Message  string        `json:"message"`  // Text shown to the user
	Duration time.Duration `json:"duration"` // Time until automatic removal
}

// Center is a queue of notifications with one expiry timer per id.
type Center struct {
	mu              sync.Mutex
	items           []Notification
	timers          map[int64]*time.Timer
	lastID          int64
	defaultDuration time.Duration
	closed          bool
	onChange        func()
}

// NewCenter creates a Center. A zero defaultDuration uses DefaultDuration.
func NewCenter(defaultDuration time.Duration) *Center {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	return &Center{
		timers:          make(map[int64]*time.Timer),
		defaultDuration: defaultDuration,
	}
}

// OnChange registers fn to run after the queue changes. fn is called without
// any Center lock held.
func (c *Center) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Add appends n without scheduling its removal. A zero Type or Duration is
// filled in. A zero ID, or one not above every id handed out so far, is replaced.
func (c *Center) Add(n Notification) Notification {
	c.mu.Lock()
	n = c.normalise(n)
	c.items = append(c.items, n)
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	return n
}

// Show appends n and removes it again once its duration has elapsed.
func (c *Center) Show(n Notification) Notification {
	c.mu.Lock()
	n = c.normalise(n)
	c.items = append(c.items, n)
	if !c.closed {
		id := n.ID
		c.timers[id] = time.AfterFunc(n.Duration, func() {
			c.expire(id)
		})
	}
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
	return n
}

// Remove deletes the notification with id and cancels its timer. It reports
// whether anything was removed.
func (c *Center) Remove(id int64) bool {
	c.mu.Lock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	removed := c.removeLocked(id)
	fn := c.onChange
	c.mu.Unlock()

	if removed && fn != nil {
		fn()
	}
	return removed
}

func (c *Center) expire(id int64) {
	c.mu.Lock()
	delete(c.timers, id)
	removed := c.removeLocked(id)
	fn := c.onChange
	c.mu.Unlock()

	if removed && fn != nil {
		fn()
	}
}

// List returns a copy of the current queue, oldest first.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Pending is the number of scheduled expiry timers.
func (c *Center) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Close stops every pending timer. Notifications already queued stay in place.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.closed = true
}

func (c *Center) normalise(n Notification) Notification {
	// ids are strictly increasing, so a reused or stale id gets a fresh one
	if n.ID <= c.lastID {
		n.ID = 0
	}
	if n.ID == 0 {
		id := NowTimeFunc().UnixMilli()
		if id <= c.lastID {
			id = c.lastID + 1
		}
		n.ID = id
	}
	c.lastID = n.ID
	if n.Type == "" {
		n.Type = Info
	}
	if n.Duration <= 0 {
		n.Duration = c.defaultDuration
	}
	return n
}

func (c *Center) removeLocked(id int64) bool {
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}
