package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestFakeClockFiresInOrder(t *testing.T) {
	t.Parallel()

	c := NewFakeClock(epoch)
	var got []string
	c.AfterFunc(3*time.Second, func() { got = append(got, "c") })
	c.AfterFunc(time.Second, func() { got = append(got, "a") })
	c.AfterFunc(time.Second, func() { got = append(got, "b") })

	c.Advance(2 * time.Second)
	require.Equal(t, []string{"a", "b"}, got)
	require.Equal(t, epoch.Add(2*time.Second), c.Now())
	require.Equal(t, 1, c.Pending())

	c.Advance(time.Second)
	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestFakeClockStop(t *testing.T) {
	t.Parallel()

	c := NewFakeClock(epoch)
	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })
	require.True(t, tm.Stop())
	require.False(t, tm.Stop())
	c.Advance(time.Minute)
	require.False(t, fired)
}

func TestSequenceRunsStepsAtTheirTimes(t *testing.T) {
	t.Parallel()

	c := NewFakeClock(epoch)
	var at []time.Duration
	step := func() { at = append(at, c.Now().Sub(epoch)) }
	seq := Sequence{
		{Delay: 100 * time.Millisecond, Action: step},
		{Delay: 100 * time.Millisecond, Action: step},
		{Delay: 300 * time.Millisecond, Action: step},
	}
	require.Equal(t, 500*time.Millisecond, seq.Duration())

	finished := false
	r := Start(c, seq, func() { finished = true })

	c.Advance(150 * time.Millisecond)
	require.Equal(t, 1, r.Completed())

	c.Advance(time.Second)
	require.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 500 * time.Millisecond}, at)
	require.True(t, finished)
	select {
	case <-r.Done():
	default:
		t.Fatal("run not done")
	}
}

func TestSequenceCancel(t *testing.T) {
	t.Parallel()

	c := NewFakeClock(epoch)
	n := 0
	seq := Sequence{
		{Delay: time.Second, Action: func() { n++ }},
		{Delay: time.Second, Action: func() { n++ }},
	}
	r := Start(c, seq, nil)
	c.Advance(time.Second)
	r.Cancel()
	c.Advance(time.Minute)
	require.Equal(t, 1, n)
	require.Equal(t, 0, c.Pending())
}

func TestSleepHonorsContext(t *testing.T) {
	t.Parallel()

	c := NewFakeClock(epoch)
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- Sleep(ctx, c, time.Hour) }()
	c.BlockUntil(1)
	cancel()
	require.True(t, errors.Is(<-errc, context.Canceled))
	require.Equal(t, 0, c.Pending())

	go func() { errc <- Sleep(context.Background(), c, time.Second) }()
	c.BlockUntil(1)
	c.Advance(time.Second)
	require.NoError(t, <-errc)
}
