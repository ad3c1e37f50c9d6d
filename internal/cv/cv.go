// Package cv renders the downloadable plain-text CV in its academic and
// professional variants.
package cv

import (
	"fmt"
	"strings"
	"time"

	"github.com/Zachkp/folio/internal/content"
)

// Variant selects which CV layout is produced.
type Variant string

const (
	Academic     Variant = "academic"
	Professional Variant = "professional"
)

// ParseVariant accepts "academic" or "professional".
func ParseVariant(s string) (Variant, bool) {
	switch Variant(strings.ToLower(s)) {
	case Academic:
		return Academic, true
	case Professional:
		return Professional, true
	}
	return "", false
}

func (v Variant) title() string {
	if v == Academic {
		return "Academic"
	}
	return "Professional"
}

// ContentType is the media type the CV is served with.
const ContentType = "text/plain; charset=utf-8"

// DateLayout formats the generation date.
const DateLayout = "January 2, 2006"

// Filename returns the download name, e.g. "Ada_Lovelace_Academic_CV.txt".
func Filename(name string, v Variant) string {
	file := v.title() + "_CV.txt"
	if base := strings.Join(strings.Fields(name), "_"); base != "" {
		file = base + "_" + file
	}
	return file
}

// Generate renders the CV. Output depends only on its arguments.
func Generate(p *content.Profile, v Variant, date time.Time) string {
	var b strings.Builder

	header := strings.ToUpper(p.Name)
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(header))) + "\n")
	if p.Title != "" {
		b.WriteString(p.Title + "\n")
	}
	contact(&b, p)
	fmt.Fprintf(&b, "\n%s Curriculum Vitae, generated %s\n", v.title(), date.Format(DateLayout))

	if v == Academic {
		education(&b, p)
		if len(p.Research) > 0 {
			heading(&b, "Research Interests")
			for _, r := range p.Research {
				bullet(&b, r)
			}
		}
		projects(&b, p)
		experience(&b, p)
	} else {
		if p.Tagline != "" {
			heading(&b, "Summary")
			b.WriteString(p.Tagline + "\n")
		}
		experience(&b, p)
		projects(&b, p)
		education(&b, p)
	}
	skills(&b, p)
	return b.String()
}

func contact(b *strings.Builder, p *content.Profile) {
	var parts []string
	for _, s := range []string{p.Email, p.Location, p.Website, p.GitHub} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) > 0 {
		b.WriteString(strings.Join(parts, " | ") + "\n")
	}
}

func heading(b *strings.Builder, title string) {
	t := strings.ToUpper(title)
	fmt.Fprintf(b, "\n%s\n%s\n", t, strings.Repeat("-", len(t)))
}

func bullet(b *strings.Builder, s string) {
	fmt.Fprintf(b, "  * %s\n", s)
}

func span(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return " (" + start + ")"
	}
	return " (" + start + " - " + end + ")"
}

func education(b *strings.Builder, p *content.Profile) {
	if len(p.Education) == 0 {
		return
	}
	heading(b, "Education")
	for _, d := range p.Education {
		fmt.Fprintf(b, "%s, %s%s\n", d.Degree, d.Institution, span(d.Start, d.End))
		for _, s := range d.Bullets {
			bullet(b, s)
		}
	}
}

func experience(b *strings.Builder, p *content.Profile) {
	if len(p.Experience) == 0 {
		return
	}
	heading(b, "Experience")
	for _, j := range p.Experience {
		fmt.Fprintf(b, "%s, %s%s\n", j.Title, j.Company, span(j.Start, j.End))
		for _, s := range j.Bullets {
			bullet(b, s)
		}
	}
}

func projects(b *strings.Builder, p *content.Profile) {
	if len(p.Projects) == 0 {
		return
	}
	heading(b, "Projects")
	for _, pr := range p.Projects {
		line := pr.Name
		if len(pr.Tags) > 0 {
			line += " [" + strings.Join(pr.Tags, ", ") + "]"
		}
		b.WriteString(line + "\n")
		if pr.Description != "" {
			fmt.Fprintf(b, "    %s\n", strings.Join(strings.Fields(pr.Description), " "))
		}
	}
}

func skills(b *strings.Builder, p *content.Profile) {
	if len(p.Skills) == 0 {
		return
	}
	heading(b, "Skills")
	for _, g := range p.Skills {
		fmt.Fprintf(b, "%s: %s\n", g.Group, strings.Join(g.Items, ", "))
	}
}
