// Package content loads the portfolio profile (copy, projects, CV facts and
// page layout) and renders its Markdown bodies to safe HTML.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Zachkp/folio/internal/section"
)

//go:embed profile.yaml
var defaultProfile []byte

// Profile is everything the site says about its owner.
type Profile struct {
	Name     string `yaml:"name"`
	Title    string `yaml:"title"`
	Tagline  string `yaml:"tagline"`
	Email    string `yaml:"email"`
	Location string `yaml:"location"`
	Website  string `yaml:"website"`
	GitHub   string `yaml:"github"`

	About      string       `yaml:"about"` // Markdown
	Projects   []Project    `yaml:"projects"`
	Experience []Position   `yaml:"experience"`
	Education  []Degree     `yaml:"education"`
	Skills     []SkillGroup `yaml:"skills"`
	Research   []string     `yaml:"research"`

	// Sections is the measured page layout, top to bottom.
	Sections []PageSection `yaml:"sections"`
}

// Project is a portfolio entry.
type Project struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"` // Markdown
	Tags        []string `yaml:"tags"`
	URL         string   `yaml:"url"`
}

// Position is a job.
type Position struct {
	Title   string   `yaml:"title"`
	Company string   `yaml:"company"`
	Start   string   `yaml:"start"`
	End     string   `yaml:"end"`
	Logo    string   `yaml:"logo"`
	Bullets []string `yaml:"bullets"`
}

// Degree is a qualification or certification.
type Degree struct {
	Degree      string   `yaml:"degree"`
	Institution string   `yaml:"institution"`
	Start       string   `yaml:"start"`
	End         string   `yaml:"end"`
	Logo        string   `yaml:"logo"`
	Bullets     []string `yaml:"bullets"`
}

// SkillGroup is a labeled list of skills.
type SkillGroup struct {
	Group string   `yaml:"group"`
	Items []string `yaml:"items"`
}

// PageSection is a navigable region of the home page and its nav label.
type PageSection struct {
	ID     string  `yaml:"id"`
	Label  string  `yaml:"label"`
	Top    float64 `yaml:"top"`
	Height float64 `yaml:"height"`
}

// Default returns the embedded profile.
func Default() (*Profile, error) {
	return Parse(defaultProfile)
}

// Load reads a profile from path; an empty path selects the embedded one.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read profile: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML profile and checks the section layout.
func Parse(b []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("content: decode profile: %w", err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("content: profile has no name")
	}
	seen := make(map[string]bool, len(p.Sections))
	for i, s := range p.Sections {
		if s.ID == "" {
			return nil, fmt.Errorf("content: section %d has no id", i)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("content: duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Height <= 0 {
			return nil, fmt.Errorf("content: section %q has non-positive height", s.ID)
		}
		if i > 0 && s.Top < p.Sections[i-1].Top+p.Sections[i-1].Height {
			return nil, fmt.Errorf("content: section %q overlaps %q", s.ID, p.Sections[i-1].ID)
		}
	}
	return &p, nil
}

// Layout returns the sections in tracker form.
func (p *Profile) Layout() []section.Section {
	out := make([]section.Section, 0, len(p.Sections))
	for _, s := range p.Sections {
		out = append(out, section.Section{ID: s.ID, Top: s.Top, Height: s.Height})
	}
	return out
}

// NavLinks returns one inactive link per section.
func (p *Profile) NavLinks() []section.NavLink {
	out := make([]section.NavLink, 0, len(p.Sections))
	for _, s := range p.Sections {
		out = append(out, section.NavLink{Target: s.ID, Label: s.Label})
	}
	return out
}
