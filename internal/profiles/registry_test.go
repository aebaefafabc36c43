package profiles

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "sjsage522/mpcontacts/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllOrderIsStable(t *testing.T) {
	assert.Equal(t, []string{
		"BC", "PEI", "Alberta", "Manitoba", "NovaScotia",
		"Ontario", "Quebec", "OurCommons", "Saskatchewan", "NewBrunswick",
	}, Builtin().IDs())
}

func TestLookupIgnoresCase(t *testing.T) {
	p, ok := Builtin().Lookup("novascotia")
	require.True(t, ok)
	assert.Equal(t, "NovaScotia", p.ID)

	_, ok = Builtin().Lookup("Yukon")
	assert.False(t, ok)
}

func TestBuiltinReturnsCopies(t *testing.T) {
	a := Builtin()
	p, _ := a.Lookup("BC")
	p.Constants["ProvinceTerritory"] = "changed"

	q, _ := Builtin().Lookup("BC")
	assert.Equal(t, "BC", q.Constants["ProvinceTerritory"])
}

func TestSelect(t *testing.T) {
	all, err := Builtin().Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 10)

	ps, err := Builtin().Select([]string{"quebec", "BC", "Quebec"})
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "Quebec", ps[0].ID)
	assert.Equal(t, "BC", ps[1].ID)

	_, err = Builtin().Select([]string{"BC", "Atlantis"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestLoadFileOverridesBuiltins(t *testing.T) {
	loaded, err := LoadFile(filepath.Join("testdata", "profiles.yaml"))
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Yukon", loaded[0].ID)
	assert.Equal(t, []string{"/fr/"}, loaded[0].Links.Deny)
	assert.Equal(t, "Yukon", loaded[0].Constants["ProvinceTerritory"])

	set := Builtin()
	set.Override(loaded...)

	assert.Len(t, set.All(), 11)
	assert.Equal(t, "Yukon", set.IDs()[10])

	q, ok := set.Lookup("Quebec")
	require.True(t, ok)
	assert.Equal(t, "https://www.assnat.qc.ca/fr/deputes/index.html", q.StartURL)
	assert.Equal(t, "Québec", q.Constants["ProvinceTerritory"])
	// The override keeps the built-in's position.
	assert.Equal(t, "quebec", set.IDs()[6])
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "profiles: []\n"},
		{"unknown key", "profiles:\n  - id: X\n    start_url: https://x.ca/\n    links: {selector: a, follow: true}\n"},
		{"invalid profile", "profiles:\n  - id: X\n    start_url: x.ca\n    links: {selector: a}\n"},
		{"bad rule kind", "profiles:\n  - id: X\n    start_url: https://x.ca/\n    links: {selector: a}\n    fields:\n      - field: Name\n        rules: [{kind: xpath, selector: h1}]\n"},
		{"duplicate", "profiles:\n  - {id: X, start_url: 'https://x.ca/', links: {selector: a}}\n  - {id: x, start_url: 'https://x.ca/', links: {selector: a}}\n"},
		{"not yaml", "profiles: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
