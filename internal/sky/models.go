// Package sky computes the observing night envelope and per-object visibility.
package sky

import (
	"math"
	"time"

	"github.com/litescript/ls-nightwatch/internal/astro"
	"github.com/litescript/ls-nightwatch/internal/ephem"
)

// Category is the broad class of a catalog object.
type Category string

const (
	CategoryPlanet      Category = "planet"
	CategoryDSO         Category = "dso"
	CategoryComet       Category = "comet"
	CategoryAsteroid    Category = "asteroid"
	CategoryDwarfPlanet Category = "dwarf_planet"
	CategoryMilkyWay    Category = "milky_way"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{CategoryPlanet, CategoryDSO, CategoryComet, CategoryAsteroid, CategoryDwarfPlanet, CategoryMilkyWay}
}

// IsDeepSky reports whether long-exposure conditions (haze, transparency)
// dominate imaging of this category.
func (c Category) IsDeepSky() bool {
	return c == CategoryDSO || c == CategoryMilkyWay || c == CategoryComet
}

// Subtype refines a category, e.g. galaxy or open_cluster for DSOs.
type Subtype string

const (
	SubtypeGalaxy           Subtype = "galaxy"
	SubtypeGalaxyGroup      Subtype = "galaxy_group"
	SubtypeGalaxyPair       Subtype = "galaxy_pair"
	SubtypeGalaxyTriplet    Subtype = "galaxy_triplet"
	SubtypeGalaxyCluster    Subtype = "galaxy_cluster"
	SubtypePlanetaryNebula  Subtype = "planetary_nebula"
	SubtypeEmissionNebula   Subtype = "emission_nebula"
	SubtypeReflectionNebula Subtype = "reflection_nebula"
	SubtypeSupernovaRemnant Subtype = "supernova_remnant"
	SubtypeNebula           Subtype = "nebula"
	SubtypeOpenCluster      Subtype = "open_cluster"
	SubtypeGlobularCluster  Subtype = "globular_cluster"
	SubtypeClusterNebula    Subtype = "cluster_nebula"
	SubtypeQuasar           Subtype = "quasar"
	SubtypeStar             Subtype = "star"
	SubtypeDoubleStar       Subtype = "double_star"
	SubtypeAssociation      Subtype = "stellar_association"
	SubtypeAsterism         Subtype = "asterism"
	SubtypeOther            Subtype = "other"

	SubtypeInnerPlanet  Subtype = "inner"
	SubtypeOuterPlanet  Subtype = "outer"
	SubtypeGalacticCore Subtype = "galactic_core"
)

// Object is a catalog record as consumed by the visibility and scoring code.
// Optional fields are nil when the catalog has no value.
type Object struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	CommonName string   `json:"common_name,omitempty"`
	Category   Category `json:"category"`
	Subtype    Subtype  `json:"subtype"`
	Messier    bool     `json:"messier,omitempty"`

	Target ephem.Target `json:"-"`

	Magnitude         *float64 `json:"magnitude,omitempty"`
	AngularSizeArcmin *float64 `json:"angular_size_arcmin,omitempty"`
	SurfaceBrightness *float64 `json:"surface_brightness,omitempty"` // mag/arcsec²

	PerihelionDate time.Time `json:"perihelion_date,omitempty"`
	Interstellar   bool      `json:"interstellar,omitempty"`
}

// DisplayName returns the common name when present, otherwise the catalog name.
func (o Object) DisplayName() string {
	if o.CommonName != "" {
		return o.CommonName
	}
	return o.Name
}

// NightInfo is the temporal envelope of one observing night at one location.
type NightInfo struct {
	Date     time.Time      `json:"date"` // local midnight that starts the calendar evening
	Location astro.Observer `json:"location"`

	Sunset           time.Time `json:"sunset"`
	Sunrise          time.Time `json:"sunrise"`
	AstronomicalDusk time.Time `json:"astronomical_dusk"`
	AstronomicalDawn time.Time `json:"astronomical_dawn"`

	MoonPhase        float64    `json:"moon_phase"`        // 0 new, 0.5 full
	MoonIllumination float64    `json:"moon_illumination"` // percent
	MoonRise         *time.Time `json:"moon_rise,omitempty"`
	MoonSet          *time.Time `json:"moon_set,omitempty"`
	MoonRAdeg        float64    `json:"moon_ra_deg"`
	MoonDecDeg       float64    `json:"moon_dec_deg"`
}

// Key returns the date key used to index per-night results.
func (n NightInfo) Key() string {
	return n.Date.Format("2006-01-02")
}

// Degenerate reports whether the night has no usable dark window.
func (n NightInfo) Degenerate() bool {
	return n.AstronomicalDusk.IsZero() || n.AstronomicalDawn.IsZero() ||
		!n.AstronomicalDusk.Before(n.AstronomicalDawn)
}

// DarkHours returns the length of astronomical darkness in hours.
func (n NightInfo) DarkHours() float64 {
	if n.Degenerate() {
		return 0
	}
	return n.AstronomicalDawn.Sub(n.AstronomicalDusk).Hours()
}

// Window is an inclusive time interval.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns End - Start.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t lies within the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Sample is one point of an altitude track.
type Sample struct {
	Time   time.Time `json:"time"`
	AltDeg float64   `json:"alt_deg"`
	AzDeg  float64   `json:"az_deg"`
}

// ObjectVisibility is the per-object, per-night result of the visibility fold.
type ObjectVisibility struct {
	ObjectID   string   `json:"object_id"`
	ObjectName string   `json:"object_name"`
	Category   Category `json:"category"`
	Subtype    Subtype  `json:"subtype"`

	IsVisible       bool       `json:"is_visible"`
	MaxAltitude     float64    `json:"max_altitude"`
	MaxAltitudeTime *time.Time `json:"max_altitude_time,omitempty"`
	AzimuthAtPeak   float64    `json:"azimuth_at_peak"`

	Above45 *Window `json:"above_45,omitempty"`
	Above60 *Window `json:"above_60,omitempty"`
	Above75 *Window `json:"above_75,omitempty"`

	MoonSeparation *float64 `json:"moon_separation,omitempty"`
	MoonWarning    bool     `json:"moon_warning"`
	MinAirmass     *float64 `json:"min_airmass,omitempty"`

	// Resolved at peak for solar-system bodies, copied from the catalog otherwise.
	Magnitude         *float64 `json:"magnitude,omitempty"`
	AngularSizeArcmin *float64 `json:"angular_size_arcmin,omitempty"`
	RAdeg             float64  `json:"ra_deg"`
	DecDeg            float64  `json:"dec_deg"`

	Samples []Sample `json:"samples"`
}

// AboveThreshold returns the window for one of the tracked thresholds
// (45, 60 or 75 degrees), or nil.
func (v ObjectVisibility) AboveThreshold(deg float64) *Window {
	switch deg {
	case 45:
		return v.Above45
	case 60:
		return v.Above60
	case 75:
		return v.Above75
	}
	return nil
}

// MinAirmassOr returns the minimum airmass, or fallback when the object never
// cleared the horizon.
func (v ObjectVisibility) MinAirmassOr(fallback float64) float64 {
	if v.MinAirmass == nil {
		return fallback
	}
	return *v.MinAirmass
}

func floatPtr(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func timePtr(t time.Time) *time.Time {
	return &t
}
