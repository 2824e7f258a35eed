package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometres between two
// points given in degrees. The intermediate term is clamped to [0, 1] so
// rounding near identical or antipodal points never yields NaN.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lng2 - lng1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	a = clamp(a, 0, 1)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
