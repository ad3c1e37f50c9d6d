// Package effects builds the timed presentational sequences of the site:
// the hero typewriter, the submit progress bar and toast notifications.
package effects

import (
	"sync"
	"time"

	"github.com/Zachkp/folio/internal/schedule"
)

// Default timings.
const (
	TypeInterval    = 100 * time.Millisecond
	ProgressStep    = 200 * time.Millisecond
	DismissAfter    = 5 * time.Second
	TypewriterStart = 500 * time.Millisecond
)

// Typewriter returns a sequence that reveals text one rune per step.
// emit receives the visible prefix after every step. The first step waits
// start, the rest wait interval.
func Typewriter(text string, start, interval time.Duration, emit func(string)) schedule.Sequence {
	runes := []rune(text)
	seq := make(schedule.Sequence, 0, len(runes))
	for i := range runes {
		prefix := string(runes[:i+1])
		d := interval
		if i == 0 {
			d = start
		}
		seq = append(seq, schedule.Step{Delay: d, Action: func() { emit(prefix) }})
	}
	return seq
}

// Frames runs a typewriter to completion on a virtual clock and returns
// every emitted frame with its offset from the start.
func Frames(text string, start, interval time.Duration) []Frame {
	clock := schedule.NewFakeClock(time.Time{})
	var frames []Frame
	seq := Typewriter(text, start, interval, func(s string) {
		frames = append(frames, Frame{At: clock.Now().Sub(time.Time{}), Text: s})
	})
	schedule.Start(clock, seq, nil)
	clock.Advance(seq.Duration())
	return frames
}

// Frame is one rendered typewriter state.
type Frame struct {
	At   time.Duration `json:"at"`
	Text string        `json:"text"`
}

// Progress returns a sequence that reports percentages from 100/steps up to
// 100, one step per interval.
func Progress(steps int, interval time.Duration, report func(pct int)) schedule.Sequence {
	if steps <= 0 {
		return nil
	}
	seq := make(schedule.Sequence, 0, steps)
	for i := 1; i <= steps; i++ {
		pct := i * 100 / steps
		seq = append(seq, schedule.Step{Delay: interval, Action: func() { report(pct) }})
	}
	return seq
}

// Kind is the visual style of a notification.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// Notification is a transient toast.
type Notification struct {
	ID      int    `json:"id"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Notifier keeps the live toasts and dismisses each one after a fixed
// duration.
type Notifier struct {
	clock schedule.Clock
	ttl   time.Duration

	mu     sync.Mutex
	nextID int
	live   []Notification
}

// NewNotifier returns a Notifier; ttl <= 0 selects DismissAfter.
func NewNotifier(clock schedule.Clock, ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DismissAfter
	}
	return &Notifier{clock: clock, ttl: ttl}
}

// Show adds a toast and schedules its dismissal.
func (n *Notifier) Show(kind Kind, message string) Notification {
	n.mu.Lock()
	n.nextID++
	note := Notification{ID: n.nextID, Kind: kind, Message: message}
	n.live = append(n.live, note)
	n.mu.Unlock()

	n.clock.AfterFunc(n.ttl, func() { n.Dismiss(note.ID) })
	return note
}

// Dismiss removes a toast early. Unknown ids are ignored.
func (n *Notifier) Dismiss(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, note := range n.live {
		if note.ID == id {
			n.live = append(n.live[:i], n.live[i+1:]...)
			return
		}
	}
}

// Active returns the toasts currently shown, oldest first.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.live...)
}
