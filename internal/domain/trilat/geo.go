package trilat

import (
	"math"

	"github.com/mlahde/locus/internal/domain/model"
)

// Mean Earth radius in meters, for great-circle distances.
const earthRadiusMeters = 6371009.0

const degToRad = math.Pi / 180

// Distance returns the great-circle distance in meters between two
// coordinates.
func Distance(a, b model.Location) float64 {
	return greatCircleDistance(a, b)
}

// greatCircleDistance returns the haversine distance in meters between
// two coordinates.
func greatCircleDistance(a, b model.Location) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLat := (b.Lat - a.Lat) * degToRad
	dLon := (b.Lon - a.Lon) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
