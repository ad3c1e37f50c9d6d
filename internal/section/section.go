// Package section maps a scroll offset onto the page region that the
// navigation bar should highlight.
package section

// DefaultLead compensates for the fixed header so a section becomes active
// slightly before it reaches the top of the viewport.
const DefaultLead = 150

// Section is one vertically stacked page region, measured from the top of
// the document.
type Section struct {
	ID     string  `json:"id" yaml:"id"`
	Top    float64 `json:"top" yaml:"top"`
	Height float64 `json:"height" yaml:"height"`
}

// Contains reports whether pos falls inside [Top, Top+Height).
func (s Section) Contains(pos float64) bool {
	return pos >= s.Top && pos < s.Top+s.Height
}

// NavLink is a navigation entry pointing at a section.
type NavLink struct {
	Target string `json:"target"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// ComputeActive returns the id of the first section containing
// scrollY+lead. The boolean is false when no section qualifies, which
// includes an empty section set and positions that fall in a gap.
func ComputeActive(sections []Section, scrollY, lead float64) (string, bool) {
	pos := scrollY + lead
	for _, s := range sections {
		if s.Contains(pos) {
			return s.ID, true
		}
	}
	return "", false
}

// Tracker keeps the nav highlight in sync with repeated scroll updates.
// A Tracker is not safe for concurrent use.
type Tracker struct {
	sections []Section
	links    []NavLink
	lead     float64
	active   string
}

// NewTracker snapshots sections and links. Both slices are copied.
func NewTracker(sections []Section, links []NavLink, lead float64) *Tracker {
	t := &Tracker{
		sections: append([]Section(nil), sections...),
		links:    append([]NavLink(nil), links...),
		lead:     lead,
	}
	for _, l := range t.links {
		if l.Active {
			t.active = l.Target
			break
		}
	}
	t.highlight(t.active)
	return t
}

// Update recomputes the active section for scrollY and returns the id that
// is highlighted afterwards. When the position falls in a gap the previous
// highlight is kept.
func (t *Tracker) Update(scrollY float64) string {
	id, ok := ComputeActive(t.sections, scrollY, t.lead)
	if !ok {
		return t.active
	}
	t.active = id
	t.highlight(id)
	return id
}

// Active returns the currently highlighted section id, or "" if none.
func (t *Tracker) Active() string { return t.active }

// Links returns a copy of the nav links with their current state.
func (t *Tracker) Links() []NavLink {
	return append([]NavLink(nil), t.links...)
}

func (t *Tracker) highlight(id string) {
	for i := range t.links {
		t.links[i].Active = id != "" && t.links[i].Target == id
	}
}

// Thresholds for scroll-dependent page chrome.
const (
	ScrolledAfter  = 100
	BackToTopAfter = 300
	// HeaderOffset is the fixed header height kept clear when jumping to an anchor.
	HeaderOffset = 80
)

// Chrome is the scroll-dependent state of the page furniture.
type Chrome struct {
	Scrolled  bool `json:"scrolled"`
	BackToTop bool `json:"back_to_top"`
}

// ChromeAt reports which pieces of chrome are visible at scrollY.
func ChromeAt(scrollY float64) Chrome {
	return Chrome{
		Scrolled:  scrollY > ScrolledAfter,
		BackToTop: scrollY > BackToTopAfter,
	}
}

// ScrollTarget is the offset to scroll to so section id sits just below
// the fixed header. Never negative.
func ScrollTarget(sections []Section, id string) (float64, bool) {
	for _, s := range sections {
		if s.ID == id {
			return max(s.Top-HeaderOffset, 0), true
		}
	}
	return 0, false
}
