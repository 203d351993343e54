// Package catalog loads the objects a forecast considers: a built-in list of
// showpieces and user YAML files in the same format.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/ephem"
	"github.com/litescript/ls-nightwatch/internal/sky"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Default photometry for comets without catalog values.
const (
	DefaultCometAbsMag = 10.0
	DefaultCometSlope  = 4.0
)

// File is the on-disk catalog document.
type File struct {
	Objects []Entry `yaml:"objects"`
}

// Entry is one catalog record. Exactly one of (ra, dec), planet or orbit
// locates the object. Coordinates are J2000 degrees.
type Entry struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	CommonName string `yaml:"common_name"`
	Category   string `yaml:"category"`
	Subtype    string `yaml:"subtype"`
	Messier    bool   `yaml:"messier"`

	RA     *float64    `yaml:"ra"`
	Dec    *float64    `yaml:"dec"`
	Planet string      `yaml:"planet"`
	Orbit  *OrbitEntry `yaml:"orbit"`

	Magnitude         *float64 `yaml:"magnitude"`
	SizeArcmin        *float64 `yaml:"size_arcmin"`
	SurfaceBrightness *float64 `yaml:"surface_brightness"`
	Interstellar      bool     `yaml:"interstellar"`
}

// OrbitEntry holds perihelion-referenced elements.
type OrbitEntry struct {
	Q          float64   `yaml:"q"`
	E          float64   `yaml:"e"`
	I          float64   `yaml:"i"`
	Node       float64   `yaml:"node"`
	Peri       float64   `yaml:"peri"`
	Perihelion time.Time `yaml:"perihelion"`
	H          *float64  `yaml:"h"`
	Slope      *float64  `yaml:"slope"`
}

var builtin []sky.Object

func init() {
	objs, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog: %v", err))
	}
	builtin = objs
}

// Builtin returns a copy of the built-in catalog.
func Builtin() []sky.Object {
	return append([]sky.Object(nil), builtin...)
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) ([]sky.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	objs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return objs, nil
}

// Parse decodes and validates a YAML catalog document. IDs must be unique.
func Parse(data []byte) ([]sky.Object, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid catalog yaml: %w", err)
	}

	seen := make(map[string]bool, len(f.Objects))
	objs := make([]sky.Object, 0, len(f.Objects))
	for i, e := range f.Objects {
		obj, err := e.Object()
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, e.ID, err)
		}
		if seen[obj.ID] {
			return nil, fmt.Errorf("duplicate object id %q", obj.ID)
		}
		seen[obj.ID] = true
		objs = append(objs, obj)
	}
	return objs, nil
}

// Object converts the entry into a sky.Object.
func (e Entry) Object() (sky.Object, error) {
	if e.ID == "" {
		return sky.Object{}, fmt.Errorf("id is required")
	}
	cat := sky.Category(strings.ToLower(e.Category))
	if !validCategory(cat) {
		return sky.Object{}, fmt.Errorf("unknown category %q", e.Category)
	}

	obj := sky.Object{
		ID:                e.ID,
		Name:              e.Name,
		CommonName:        e.CommonName,
		Category:          cat,
		Subtype:           sky.Subtype(strings.ToLower(e.Subtype)),
		Messier:           e.Messier,
		Magnitude:         e.Magnitude,
		AngularSizeArcmin: e.SizeArcmin,
		SurfaceBrightness: e.SurfaceBrightness,
		Interstellar:      e.Interstellar,
	}
	if obj.Name == "" {
		obj.Name = e.ID
	}

	target, err := e.target(cat)
	if err != nil {
		return sky.Object{}, err
	}
	if err := target.Validate(); err != nil {
		return sky.Object{}, err
	}
	obj.Target = target
	if target.Orbit != nil {
		obj.PerihelionDate = target.Orbit.PerihelionTime
	}
	return obj, nil
}

func (e Entry) target(cat sky.Category) (ephem.Target, error) {
	switch {
	case e.Planet != "":
		p, ok := astro.PlanetByName(e.Planet)
		if !ok {
			return ephem.Target{}, fmt.Errorf("unknown planet %q", e.Planet)
		}
		return ephem.PlanetTarget(p), nil

	case e.Orbit != nil:
		o := e.Orbit
		el := astro.OrbitalElements{
			PerihelionAU:   o.Q,
			Eccentricity:   o.E,
			InclinationDeg: o.I,
			NodeDeg:        o.Node,
			ArgPeriDeg:     o.Peri,
			PerihelionTime: o.Perihelion,
			Comet:          cat == sky.CategoryComet,
		}
		if el.Comet {
			el.AbsMag, el.Slope = DefaultCometAbsMag, DefaultCometSlope
		}
		if o.H != nil {
			el.AbsMag = *o.H
		}
		if o.Slope != nil {
			el.Slope = *o.Slope
		}
		return ephem.SmallBody(el), nil

	case e.RA != nil && e.Dec != nil:
		return ephem.Fixed(*e.RA, *e.Dec), nil
	}
	return ephem.Target{}, fmt.Errorf("no position: need ra/dec, planet or orbit")
}

func validCategory(c sky.Category) bool {
	for _, v := range sky.Categories() {
		if v == c {
			return true
		}
	}
	return false
}

// ByID indexes objects by ID.
func ByID(objs []sky.Object) map[string]sky.Object {
	m := make(map[string]sky.Object, len(objs))
	for _, o := range objs {
		m[o.ID] = o
	}
	return m
}
