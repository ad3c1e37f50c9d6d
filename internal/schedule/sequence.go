package schedule

import (
	"sync"
	"time"
)

// Step runs Action after waiting Delay from the previous step.
type Step struct {
	Delay  time.Duration
	Action func()
}

// Sequence is a finite, ordered list of timed steps.
type Sequence []Step

// Duration is the total time the sequence takes to complete.
func (s Sequence) Duration() time.Duration {
	var d time.Duration
	for _, st := range s {
		d += st.Delay
	}
	return d
}

// Run is a started sequence.
type Run struct {
	mu       sync.Mutex
	timer    Timer
	next     int
	canceled bool
	done     chan struct{}
}

// Start schedules seq on clock. Each step is scheduled only after the
// previous one ran, so a canceled Run never fires later steps. onDone, if
// non-nil, is called after the last step.
func Start(clock Clock, seq Sequence, onDone func()) *Run {
	r := &Run{done: make(chan struct{})}
	r.schedule(clock, seq, onDone)
	return r
}

func (r *Run) schedule(clock Clock, seq Sequence, onDone func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.canceled {
		return
	}
	if r.next >= len(seq) {
		close(r.done)
		if onDone != nil {
			r.mu.Unlock()
			onDone()
			r.mu.Lock()
		}
		return
	}
	st := seq[r.next]
	r.timer = clock.AfterFunc(st.Delay, func() {
		r.mu.Lock()
		if r.canceled {
			r.mu.Unlock()
			return
		}
		r.next++
		r.mu.Unlock()
		if st.Action != nil {
			st.Action()
		}
		r.schedule(clock, seq, onDone)
	})
}

// Cancel stops the sequence before its next step.
func (r *Run) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.canceled {
		return
	}
	r.canceled = true
	if r.timer != nil {
		r.timer.Stop()
	}
}

// Done is closed once every step has run.
func (r *Run) Done() <-chan struct{} { return r.done }

// Completed returns how many steps have run.
func (r *Run) Completed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}
