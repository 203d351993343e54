package scoring

import (
	"math"
	"regexp"
	"time"

	"github.com/litescript/ls-nightwatch/internal/sky"
)

// TransientBonus rewards targets that may not be around next season, 0-25.
func TransientBonus(obj sky.Object, night time.Time) float64 {
	if obj.Interstellar {
		return interstellarBonus
	}
	switch obj.Category {
	case sky.CategoryComet:
		if !obj.PerihelionDate.IsZero() && !night.IsZero() {
			days := math.Abs(night.Sub(obj.PerihelionDate).Hours()) / 24
			if days <= perihelionWindowDays {
				return cometPerihelionBonus
			}
		}
		return cometBonus
	case sky.CategoryAsteroid:
		return asteroidBonus
	}
	return 0
}

// SeasonalScore is highest when the object sits opposite the Sun in right
// ascension, 0-15.
func SeasonalScore(raDeg, sunRAdeg float64) float64 {
	diff := math.Abs(raDeg-sunRAdeg) / 15
	diff = math.Mod(diff, 24)
	if diff > 12 {
		diff = 24 - diff
	}
	return SeasonalMax * diff / 12
}

var messierID = regexp.MustCompile(`^M\s?\d{1,3}$`)

// IsMessier reports whether the object is in the Messier catalog.
func IsMessier(obj sky.Object) bool {
	return obj.Messier || messierID.MatchString(obj.ID) || messierID.MatchString(obj.Name)
}

// NoveltyScore favours well-known showpieces, 0-10.
func NoveltyScore(obj sky.Object) float64 {
	switch {
	case IsMessier(obj):
		return messierNovelty
	case obj.CommonName != "":
		return namedNovelty
	}
	return 0
}
