package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/ephem"
	"github.com/litescript/ls-nightwatch/internal/sky"
)

func TestBuiltin(t *testing.T) {
	objs := Builtin()
	require.NotEmpty(t, objs)

	byID := ByID(objs)
	assert.Len(t, byID, len(objs), "ids are unique")

	perCategory := map[sky.Category]int{}
	for _, o := range objs {
		perCategory[o.Category]++
		assert.NoError(t, o.Target.Validate(), o.ID)
	}
	for _, c := range sky.Categories() {
		assert.Positive(t, perCategory[c], "category %s", c)
	}
	assert.Equal(t, 7, perCategory[sky.CategoryPlanet])

	m31 := byID["M31"]
	assert.Equal(t, "Andromeda Galaxy", m31.CommonName)
	assert.True(t, m31.Messier)
	assert.Equal(t, sky.SubtypeGalaxy, m31.Subtype)
	assert.Equal(t, ephem.KindFixed, m31.Target.Kind)
	require.NotNil(t, m31.Magnitude)
	assert.Equal(t, 3.4, *m31.Magnitude)

	jup := byID["jupiter"]
	assert.Equal(t, ephem.KindPlanet, jup.Target.Kind)
	assert.Equal(t, astro.Jupiter, jup.Target.Planet)

	borisov := byID["2I"]
	assert.True(t, borisov.Interstellar)
	require.NotNil(t, borisov.Target.Orbit)
	assert.True(t, borisov.Target.Orbit.Comet)
	assert.Equal(t, time.Date(2019, 12, 8, 13, 0, 0, 0, time.UTC), borisov.PerihelionDate)

	vesta := byID["vesta"]
	require.NotNil(t, vesta.Target.Orbit)
	assert.False(t, vesta.Target.Orbit.Comet)
	assert.Equal(t, 0.32, vesta.Target.Orbit.Slope)
}

func TestBuiltinIsACopy(t *testing.T) {
	a := Builtin()
	a[0].ID = "changed"
	assert.NotEqual(t, "changed", Builtin()[0].ID)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing id", `objects: [{category: dso, ra: 1, dec: 2}]`, "id is required"},
		{"bad category", `objects: [{id: x, category: nebulae, ra: 1, dec: 2}]`, "unknown category"},
		{"no position", `objects: [{id: x, category: dso}]`, "no position"},
		{"unknown planet", `objects: [{id: x, category: planet, planet: pluto}]`, "unknown planet"},
		{"duplicate", `objects: [{id: x, category: dso, ra: 1, dec: 2}, {id: x, category: dso, ra: 3, dec: 4}]`, "duplicate"},
		{"not yaml", `objects: [`, "invalid catalog yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseInvalidCoordinates(t *testing.T) {
	_, err := Parse([]byte(`objects: [{id: x, category: dso, ra: 400, dec: 2}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, astro.ErrInvalidCoordinates))

	_, err = Parse([]byte(`objects: [{id: c, category: comet, orbit: {q: -1, e: 0.5, i: 10, perihelion: 2025-01-01T00:00:00Z}}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, astro.ErrInvalidCoordinates))
}

func TestParseCometDefaults(t *testing.T) {
	objs, err := Parse([]byte(`
objects:
  - id: C2099X1
    category: Comet
    orbit: {q: 1.2, e: 0.99, i: 30, node: 10, peri: 20, perihelion: 2099-06-01T00:00:00Z}
`))
	require.NoError(t, err)
	require.Len(t, objs, 1)

	o := objs[0]
	assert.Equal(t, "C2099X1", o.Name, "name defaults to id")
	assert.Equal(t, sky.CategoryComet, o.Category)
	require.NotNil(t, o.Target.Orbit)
	assert.Equal(t, DefaultCometAbsMag, o.Target.Orbit.AbsMag)
	assert.Equal(t, DefaultCometSlope, o.Target.Orbit.Slope)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
objects:
  - id: NGC891
    name: NGC 891
    common_name: Silver Sliver
    category: dso
    subtype: galaxy
    ra: 35.639
    dec: 42.349
    magnitude: 9.9
    size_arcmin: 13.5
  - id: saturn
    category: planet
    planet: Saturn
`), 0o644))

	objs, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "Silver Sliver", objs[0].DisplayName())
	assert.Equal(t, astro.Saturn, objs[1].Target.Planet)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading catalog")
}
