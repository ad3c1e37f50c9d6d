package section

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func layout() []Section {
	return []Section{
		{ID: "home", Top: 0, Height: 600},
		{ID: "about", Top: 600, Height: 800},
		{ID: "projects", Top: 1500, Height: 900}, // 100px gap after about
		{ID: "contact", Top: 2400, Height: 500},
	}
}

func links() []NavLink {
	return []NavLink{
		{Target: "home", Label: "Home"},
		{Target: "about", Label: "About"},
		{Target: "projects", Label: "Projects"},
		{Target: "contact", Label: "Contact"},
	}
}

func TestComputeActiveInsideSection(t *testing.T) {
	t.Parallel()

	cases := []struct {
		scrollY float64
		want    string
	}{
		{0, "home"},
		{449, "home"},
		{450, "about"},
		{1249, "about"},
		{1350, "projects"},
		{2249, "projects"},
		{2250, "contact"},
	}
	for _, tc := range cases {
		got, ok := ComputeActive(layout(), tc.scrollY, DefaultLead)
		require.True(t, ok, "scrollY=%v", tc.scrollY)
		require.Equal(t, tc.want, got, "scrollY=%v", tc.scrollY)
	}
}

func TestComputeActiveGapAndEmpty(t *testing.T) {
	t.Parallel()

	// 1250+150 = 1400, between about (ends 1400) and projects (starts 1500).
	for i := 0; i < 3; i++ {
		id, ok := ComputeActive(layout(), 1250, DefaultLead)
		require.False(t, ok)
		require.Empty(t, id)
	}

	id, ok := ComputeActive(nil, 100, DefaultLead)
	require.False(t, ok)
	require.Empty(t, id)

	_, ok = ComputeActive(layout(), 5000, DefaultLead)
	require.False(t, ok, "past the last section nothing is active")
}

func TestTrackerHighlightsExactlyOne(t *testing.T) {
	t.Parallel()

	tr := NewTracker(layout(), links(), DefaultLead)
	require.Empty(t, tr.Active())

	require.Equal(t, "about", tr.Update(700))
	active := 0
	for _, l := range tr.Links() {
		if l.Active {
			active++
			require.Equal(t, "about", l.Target)
		}
	}
	require.Equal(t, 1, active)
}

func TestTrackerGapKeepsPreviousHighlight(t *testing.T) {
	t.Parallel()

	tr := NewTracker(layout(), links(), DefaultLead)
	tr.Update(700)
	require.Equal(t, "about", tr.Update(1300))
	require.True(t, tr.Links()[1].Active)

	require.Equal(t, "projects", tr.Update(1400))
	require.False(t, tr.Links()[1].Active)
	require.True(t, tr.Links()[2].Active)
}

func TestTrackerLinksAreCopies(t *testing.T) {
	t.Parallel()

	tr := NewTracker(layout(), links(), DefaultLead)
	tr.Update(0)
	ls := tr.Links()
	ls[0].Active = false
	require.True(t, tr.Links()[0].Active)
}

func TestTrackerSeedsFromActiveLink(t *testing.T) {
	t.Parallel()

	ls := links()
	ls[3].Active = true
	tr := NewTracker(layout(), ls, DefaultLead)
	require.Equal(t, "contact", tr.Active())
	require.Equal(t, "contact", tr.Update(1250))
}

func TestChromeAt(t *testing.T) {
	t.Parallel()

	require.Equal(t, Chrome{}, ChromeAt(0))
	require.Equal(t, Chrome{}, ChromeAt(100))
	require.Equal(t, Chrome{Scrolled: true}, ChromeAt(101))
	require.Equal(t, Chrome{Scrolled: true, BackToTop: true}, ChromeAt(301))
}

func TestScrollTarget(t *testing.T) {
	t.Parallel()

	y, ok := ScrollTarget(layout(), "about")
	require.True(t, ok)
	require.Equal(t, 520.0, y)

	y, ok = ScrollTarget(layout(), "home")
	require.True(t, ok)
	require.Zero(t, y)

	_, ok = ScrollTarget(layout(), "missing")
	require.False(t, ok)
}
