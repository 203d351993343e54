package astro

import (
	"math"
	"time"
)

// EarthRadiusKm is the equatorial radius of the Earth.
const EarthRadiusKm = 6378.14

// MoonRiseAltitude is the altitude of the Moon's center at rise/set when the
// topocentric position is used (refraction plus mean semi-diameter).
const MoonRiseAltitude = -0.833

// MoonEquatorial is the geocentric position of the Moon.
type MoonEquatorial struct {
	RAdeg  float64
	DecDeg float64
	DistKm float64
	LonDeg float64 // ecliptic longitude of date
}

// MoonIllumination describes the lit portion of the Moon.
type MoonIllumination struct {
	Fraction   float64 // 0 (new) to 1 (full)
	Phase      float64 // 0 = new, 0.25 = first quarter, 0.5 = full, 0.75 = last quarter
	PhaseAngle float64 // Sun-Moon-Earth angle in degrees
	Waxing     bool
}

// Periodic terms of the lunar theory (Meeus, Astronomical Algorithms ch. 47),
// truncated to amplitudes above ~0.03°. Arguments are multiples of D, M, M', F.
type moonTerm struct {
	d, m, mp, f float64
	coef        float64
}

var moonLonTerms = []moonTerm{
	{0, 0, 1, 0, 6.288774},
	{2, 0, -1, 0, 1.274027},
	{2, 0, 0, 0, 0.658314},
	{0, 0, 2, 0, 0.213618},
	{0, 1, 0, 0, -0.185116},
	{0, 0, 0, 2, -0.114332},
	{2, 0, -2, 0, 0.058793},
	{2, -1, -1, 0, 0.057066},
	{2, 0, 1, 0, 0.053322},
	{2, -1, 0, 0, 0.045758},
	{0, 1, -1, 0, -0.040923},
	{1, 0, 0, 0, -0.034720},
	{0, 1, 1, 0, -0.030383},
}

var moonLatTerms = []moonTerm{
	{0, 0, 0, 1, 5.128122},
	{0, 0, 1, 1, 0.280602},
	{0, 0, 1, -1, 0.277693},
	{2, 0, 0, -1, 0.173237},
	{2, 0, -1, 1, 0.055413},
	{2, 0, -1, -1, 0.046271},
	{2, 0, 0, 1, 0.032573},
}

var moonDistTerms = []moonTerm{
	{0, 0, 1, 0, -20905.355},
	{2, 0, -1, 0, -3699.111},
	{2, 0, 0, 0, -2955.968},
	{0, 0, 2, 0, -569.925},
	{0, 1, 0, 0, 48.888},
	{2, 0, -2, 0, 246.158},
	{2, -1, -1, 0, -152.138},
	{2, 0, 1, 0, -170.733},
	{2, -1, 0, 0, -204.586},
	{0, 1, -1, 0, -129.620},
	{1, 0, 0, 0, 108.743},
	{0, 1, 1, 0, 104.755},
}

// MoonPosition returns the geocentric apparent position of the Moon.
// Accuracy is a few arcminutes, adequate for separations and rise/set.
func MoonPosition(t time.Time) MoonEquatorial {
	T := centuriesSinceJ2000(t)

	Lp := normalizeAngle360(218.3164477 + 481267.88123421*T)
	D := degToRad(normalizeAngle360(297.8501921 + 445267.1114034*T))
	M := degToRad(normalizeAngle360(357.5291092 + 35999.0502909*T))
	Mp := degToRad(normalizeAngle360(134.9633964 + 477198.8675055*T))
	F := degToRad(normalizeAngle360(93.2720950 + 483202.0175233*T))

	arg := func(term moonTerm) float64 {
		return term.d*D + term.m*M + term.mp*Mp + term.f*F
	}

	lon := Lp
	for _, term := range moonLonTerms {
		lon += term.coef * math.Sin(arg(term))
	}
	lat := 0.0
	for _, term := range moonLatTerms {
		lat += term.coef * math.Sin(arg(term))
	}
	dist := 385000.56
	for _, term := range moonDistTerms {
		dist += term.coef * math.Cos(arg(term))
	}

	lon = normalizeAngle360(lon)
	eps := degToRad(23.439291 - 0.0130042*T)
	lonR, latR := degToRad(lon), degToRad(lat)

	ra := math.Atan2(math.Sin(lonR)*math.Cos(eps)-math.Tan(latR)*math.Sin(eps), math.Cos(lonR))
	dec := math.Asin(clampUnit(math.Sin(latR)*math.Cos(eps) + math.Cos(latR)*math.Sin(eps)*math.Sin(lonR)))

	return MoonEquatorial{
		RAdeg:  normalizeAngle360(radToDeg(ra)),
		DecDeg: radToDeg(dec),
		DistKm: dist,
		LonDeg: lon,
	}
}

// MoonTopocentric returns the Moon's position corrected for the observer's
// parallax (up to ~1° near the horizon), with horizontal coordinates filled in.
func MoonTopocentric(obs Observer, t time.Time) SkyCoord {
	geo := MoonPosition(t)

	lat := degToRad(obs.LatDeg)
	u := math.Atan(0.99664719 * math.Tan(lat))
	hRatio := obs.ElevationM / (EarthRadiusKm * 1000)
	rhoSin := 0.99664719*math.Sin(u) + hRatio*math.Sin(lat)
	rhoCos := math.Cos(u) + hRatio*math.Cos(lat)

	sinPi := EarthRadiusKm / geo.DistKm
	ra := degToRad(geo.RAdeg)
	dec := degToRad(geo.DecDeg)
	H := degToRad(LocalSiderealTime(t, obs.LonDeg) - geo.RAdeg)

	dAlpha := math.Atan2(-rhoCos*sinPi*math.Sin(H), math.Cos(dec)-rhoCos*sinPi*math.Cos(H))
	raTopo := ra + dAlpha
	decTopo := math.Atan2((math.Sin(dec)-rhoSin*sinPi)*math.Cos(dAlpha), math.Cos(dec)-rhoCos*sinPi*math.Cos(H))

	topo := SkyCoord{
		RAdeg:  normalizeAngle360(radToDeg(raTopo)),
		DecDeg: radToDeg(decTopo),
		DistAU: geo.DistKm / AU,
	}
	return EquatorialToHorizontal(topo, obs, t)
}

// MoonAltitude returns the Moon's topocentric altitude in degrees.
func MoonAltitude(obs Observer, t time.Time) float64 {
	return MoonTopocentric(obs, t).ElDeg
}

// MoonIlluminationAt computes the illuminated fraction and phase of the Moon.
func MoonIlluminationAt(t time.Time) MoonIllumination {
	moon := MoonPosition(t)
	sunRA, sunDec := SunPosition(t)
	sunDistKm := SunDistance(t) * AU

	elong := degToRad(AngularSeparation(sunRA, sunDec, moon.RAdeg, moon.DecDeg))
	inc := math.Atan2(sunDistKm*math.Sin(elong), moon.DistKm-sunDistKm*math.Cos(elong))

	sunLon := solarAt(t).appLonDeg
	waxing := normalizeAngle360(moon.LonDeg-sunLon) < 180

	phase := 0.5 + inc/(2*math.Pi)
	if waxing {
		phase = 0.5 - inc/(2*math.Pi)
	}

	return MoonIllumination{
		Fraction:   (1 + math.Cos(inc)) / 2,
		Phase:      phase,
		PhaseAngle: radToDeg(inc),
		Waxing:     waxing,
	}
}

// MoonPhaseName returns the conventional name for a phase in [0, 1).
func MoonPhaseName(phase float64) string {
	switch {
	case phase < 0.03 || phase >= 0.97:
		return "New Moon"
	case phase < 0.22:
		return "Waxing Crescent"
	case phase < 0.28:
		return "First Quarter"
	case phase < 0.47:
		return "Waxing Gibbous"
	case phase < 0.53:
		return "Full Moon"
	case phase < 0.72:
		return "Waning Gibbous"
	case phase < 0.78:
		return "Last Quarter"
	default:
		return "Waning Crescent"
	}
}
