package geo

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two WGS84
// coordinates. Non-finite input propagates as NaN; callers filter
// with ValidCoords first.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLon := degreesToRadians(lon2 - lon1)

	lat1R := degreesToRadians(lat1)
	lat2R := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1R)*math.Cos(lat2R)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// ValidCoords reports whether both values are finite and inside the
// usual lat/lng ranges. A record failing this is excluded rather than
// treated as distance 0.
func ValidCoords(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}
