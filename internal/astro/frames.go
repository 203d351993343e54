package astro

import (
	"math"
)

// AU is the Astronomical Unit in kilometers.
const AU = 149597870.7

// speedOfLightAUPerDay is c expressed in AU/day.
const speedOfLightAUPerDay = 173.144632674

// obliquityJ2000 is the mean obliquity of the ecliptic at J2000 in degrees.
const obliquityJ2000 = 23.439291

// Vec3 represents a 3D vector in any reference frame.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// EclipticToEquatorial rotates an ecliptic J2000 vector into the equatorial frame.
func EclipticToEquatorial(ecl Vec3) Vec3 {
	eps := degToRad(obliquityJ2000)
	sinE, cosE := math.Sincos(eps)
	return Vec3{
		X: ecl.X,
		Y: ecl.Y*cosE - ecl.Z*sinE,
		Z: ecl.Y*sinE + ecl.Z*cosE,
	}
}

// VecToRADec converts an equatorial vector to RA/Dec in degrees.
func VecToRADec(v Vec3) (raDeg, decDeg float64) {
	r := v.Norm()
	if r == 0 {
		return 0, 0
	}
	raDeg = normalizeAngle360(radToDeg(math.Atan2(v.Y, v.X)))
	decDeg = radToDeg(math.Asin(clampUnit(v.Z / r)))
	return raDeg, decDeg
}

// LightTimeDays returns the one-way light travel time in days for a distance in AU.
func LightTimeDays(au float64) float64 {
	return au / speedOfLightAUPerDay
}
