package notify

import (
	"sync"
	"time"
)

type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
)

const DefaultDelay = 3 * time.Second

type Notification struct {
	Kind      Kind
	Message   string
	ShownAt   time.Time
	ExpiresAt time.Time
}

// Center keeps at most one visible notification per slot (one slot per
// browser session). A new message replaces the visible one.
type Center struct {
	mu    sync.Mutex
	delay time.Duration
	now   func() time.Time
	slots map[string]Notification
}

type Option func(*Center)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func NewCenter(delay time.Duration, opts ...Option) *Center {
	if delay <= 0 {
		delay = DefaultDelay
	}
	c := &Center{
		delay: delay,
		now:   time.Now,
		slots: make(map[string]Notification),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Center) Show(slot string, kind Kind, message string) Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	n := Notification{
		Kind:      kind,
		Message:   message,
		ShownAt:   now,
		ExpiresAt: now.Add(c.delay),
	}
	c.slots[slot] = n
	return n
}

func (c *Center) Info(slot, message string) Notification {
	return c.Show(slot, Info, message)
}

func (c *Center) Success(slot, message string) Notification {
	return c.Show(slot, Success, message)
}

func (c *Center) Error(slot, message string) Notification {
	return c.Show(slot, Error, message)
}

func (c *Center) Warning(slot, message string) Notification {
	return c.Show(slot, Warning, message)
}

// Current returns the visible notification, dismissing it once expired.
func (c *Center) Current(slot string) (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.slots[slot]
	if !ok {
		return Notification{}, false
	}
	if !c.now().Before(n.ExpiresAt) {
		delete(c.slots, slot)
		return Notification{}, false
	}
	return n, true
}

func (c *Center) Dismiss(slot string) {
	c.mu.Lock()
	delete(c.slots, slot)
	c.mu.Unlock()
}

// Sweep drops every expired notification and returns how many were removed.
func (c *Center) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for slot, n := range c.slots {
		if !now.Before(n.ExpiresAt) {
			delete(c.slots, slot)
			removed++
		}
	}
	return removed
}
