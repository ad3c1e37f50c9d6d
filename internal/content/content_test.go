package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultProfileLayout(t *testing.T) {
	t.Parallel()

	p, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, p.Name)

	layout := p.Layout()
	require.Len(t, layout, len(p.Sections))
	require.Equal(t, "home", layout[0].ID)

	links := p.NavLinks()
	require.Equal(t, "Home", links[0].Label)
	for _, l := range links {
		require.False(t, l.Active)
	}
}

func TestParseRejectsBadLayouts(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"no name":   "sections: []",
		"no id":     "name: x\nsections: [{top: 0, height: 10}]",
		"duplicate": "name: x\nsections: [{id: a, top: 0, height: 10}, {id: a, top: 10, height: 10}]",
		"height":    "name: x\nsections: [{id: a, top: 0, height: 0}]",
		"overlap":   "name: x\nsections: [{id: a, top: 0, height: 10}, {id: b, top: 5, height: 10}]",
		"yaml":      "name: [",
	}
	for name, src := range cases {
		_, err := Parse([]byte(src))
		require.Error(t, err, name)
	}

	p, err := Parse([]byte("name: x\nsections: [{id: a, top: 0, height: 10}, {id: b, top: 20, height: 10}]"))
	require.NoError(t, err, "gaps are allowed")
	require.Len(t, p.Sections, 2)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Ada Lovelace\n"), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", p.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRendererSanitizes(t *testing.T) {
	t.Parallel()

	r := NewRenderer()
	out, err := r.HTML("Hello **world** <script>alert(1)</script>")
	require.NoError(t, err)
	require.Contains(t, string(out), "<strong>world</strong>")
	require.False(t, strings.Contains(string(out), "<script>"))
}
