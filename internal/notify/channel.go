// Package notify holds the transient user notifications: an ordered list
// where every entry expires on its own unless dismissed first.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/leadboard/internal/infra/http/middleware"
)

// DefaultDuration is how long a notification stays visible.
const DefaultDuration = 3000 * time.Millisecond

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

func (k Kind) valid() bool {
	switch k {
	case Success, Error, Warning, Info:
		return true
	}
	return false
}

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Poster is the narrow view of a Channel that use cases depend on.
type Poster interface {
	Post(message string, kind Kind) string
}

type Channel struct {
	mu     sync.Mutex
	ttl    time.Duration
	items  []Notification
	timers map[string]*time.Timer
	subs   map[int]func(Notification)
	nextID int
	closed bool
}

// NewChannel returns a channel whose entries expire after ttl. A ttl of zero
// or less selects DefaultDuration.
func NewChannel(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = DefaultDuration
	}
	return &Channel{
		ttl:    ttl,
		timers: make(map[string]*time.Timer),
		subs:   make(map[int]func(Notification)),
	}
}

// Post appends a notification and schedules its expiry. Unknown kinds are
// posted as Info.
func (c *Channel) Post(message string, kind Kind) string {
	if !kind.valid() {
		kind = Info
	}
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		Timestamp: time.Now(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n.ID
	}
	c.items = append(c.items, n)
	c.timers[n.ID] = time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	subs := make([]func(Notification), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	middleware.RecordNotification(string(kind))
	for _, fn := range subs {
		fn(n)
	}
	return n.ID
}

// Dismiss removes id. Dismissing an absent id is a no-op.
func (c *Channel) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Channel) DismissAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.items = nil
}

// List returns the live notifications, oldest first.
func (c *Channel) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Subscribe registers fn for every later Post. The returned func removes it.
func (c *Channel) Subscribe(fn func(Notification)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Close stops pending expiry timers and ignores later posts.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}
