package astro

import "math"

// Airmass returns the relative optical path length through the atmosphere
// for an apparent altitude in degrees, using Pickering (2002):
//
//	X = 1 / sin((h + 244/(165 + 47·h^1.1)) · π/180)
//
// It is exactly 1 at the zenith and +Inf at or below the horizon.
func Airmass(altDeg float64) float64 {
	if math.IsNaN(altDeg) || altDeg <= 0 {
		return math.Inf(1)
	}
	if altDeg >= 90 {
		return 1.0
	}

	arg := altDeg + 244/(165+47*math.Pow(altDeg, 1.1))
	// The refraction term pushes the argument past 90° just below the zenith;
	// past that point sin() turns back down and airmass would dip under 1.
	if arg >= 90 {
		return 1.0
	}
	return 1 / math.Sin(arg*math.Pi/180)
}
