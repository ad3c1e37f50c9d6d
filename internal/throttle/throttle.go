// Package throttle bounds high-frequency event streams (scroll, pointer
// move) to a maximum callback frequency.
package throttle

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is roughly one frame at 60Hz.
const DefaultInterval = 16 * time.Millisecond

// Throttle admits at most one event per interval.
type Throttle struct {
	l *rate.Limiter
}

// New returns a Throttle; interval <= 0 selects DefaultInterval.
func New(interval time.Duration) *Throttle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Throttle{l: rate.NewLimiter(rate.Every(interval), 1)}
}

// Allow reports whether an event arriving now should be handled.
func (t *Throttle) Allow() bool { return t.l.Allow() }

// AllowAt reports whether an event arriving at now should be handled.
func (t *Throttle) AllowAt(now time.Time) bool { return t.l.AllowN(now, 1) }

// Keyed keeps one Throttle per key, e.g. per visitor.
type Keyed struct {
	interval time.Duration

	mu      sync.Mutex
	entries map[string]*keyedEntry
}

type keyedEntry struct {
	t    *Throttle
	seen time.Time
}

// NewKeyed returns an empty Keyed throttle.
func NewKeyed(interval time.Duration) *Keyed {
	return &Keyed{interval: interval, entries: make(map[string]*keyedEntry)}
}

// AllowAt reports whether key may fire at now.
func (k *Keyed) AllowAt(key string, now time.Time) bool {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &keyedEntry{t: New(k.interval)}
		k.entries[key] = e
	}
	e.seen = now
	k.mu.Unlock()
	return e.t.AllowAt(now)
}

// Prune drops keys not seen since before cutoff and returns how many were
// removed.
func (k *Keyed) Prune(cutoff time.Time) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	n := 0
	for key, e := range k.entries {
		if e.seen.Before(cutoff) {
			delete(k.entries, key)
			n++
		}
	}
	return n
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
