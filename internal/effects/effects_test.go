package effects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Zachkp/folio/internal/schedule"
)

func TestFramesRevealOneRuneAtATime(t *testing.T) {
	t.Parallel()

	frames := Frames("Hé!", 500*time.Millisecond, 100*time.Millisecond)
	require.Equal(t, []Frame{
		{At: 500 * time.Millisecond, Text: "H"},
		{At: 600 * time.Millisecond, Text: "Hé"},
		{At: 700 * time.Millisecond, Text: "Hé!"},
	}, frames)

	require.Empty(t, Frames("", TypewriterStart, TypeInterval))
}

func TestProgressReachesHundred(t *testing.T) {
	t.Parallel()

	clock := schedule.NewFakeClock(time.Time{})
	var got []int
	seq := Progress(4, ProgressStep, func(p int) { got = append(got, p) })
	schedule.Start(clock, seq, nil)

	clock.Advance(2 * ProgressStep)
	require.Equal(t, []int{25, 50}, got)
	clock.Advance(time.Minute)
	require.Equal(t, []int{25, 50, 75, 100}, got)

	require.Nil(t, Progress(0, ProgressStep, func(int) {}))
}

func TestNotifierAutoDismiss(t *testing.T) {
	t.Parallel()

	clock := schedule.NewFakeClock(time.Time{})
	n := NewNotifier(clock, 0)

	first := n.Show(Success, "sent")
	clock.Advance(2 * time.Second)
	second := n.Show(Error, "failed")
	require.Len(t, n.Active(), 2)

	clock.Advance(3 * time.Second)
	require.Equal(t, []Notification{second}, n.Active())

	n.Dismiss(second.ID)
	n.Dismiss(first.ID)
	require.Empty(t, n.Active())
	clock.Advance(time.Minute)
	require.Empty(t, n.Active())
}
