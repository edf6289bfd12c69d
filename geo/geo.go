// Package geo holds the coordinate and attribute value types shared by the
// network, route and tour packages.
package geo

import (
	"fmt"
	"math"
)

const (
	// earth radius in meters
	earthRadius = 6371000.0
)

// Coordinate WGS84 position in degrees.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// NewCoordinate creates a coordinate from latitude and longitude.
func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Latitude: lat, Longitude: lon}
}

// Valid reports whether the coordinate is within WGS84 ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180 &&
		!math.IsNaN(c.Latitude) && !math.IsNaN(c.Longitude)
}

// String returns "lat,lon".
func (c Coordinate) String() string {
	return fmt.Sprintf("%f,%f", c.Latitude, c.Longitude)
}

// Distance haversine distance between two coordinates in meters.
func Distance(c1, c2 Coordinate) float64 {
	lat1 := toRadians(c1.Latitude)
	lat2 := toRadians(c2.Latitude)
	deltaLat := toRadians(c2.Latitude - c1.Latitude)
	deltaLon := toRadians(c2.Longitude - c1.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Interpolate returns the point at fraction t (0..1) on the segment c1->c2.
// Segments in a road network are short enough for linear interpolation.
func Interpolate(c1, c2 Coordinate, t float64) Coordinate {
	return Coordinate{
		Latitude:  c1.Latitude + (c2.Latitude-c1.Latitude)*t,
		Longitude: c1.Longitude + (c2.Longitude-c1.Longitude)*t,
	}
}

// ProjectOnSegment projects p on the segment a->b and returns the fraction
// along the segment (clamped to 0..1) and the projected point.
// Uses an equirectangular approximation around p.
func ProjectOnSegment(p, a, b Coordinate) (float64, Coordinate) {
	cosLat := math.Cos(toRadians(p.Latitude))
	ax, ay := a.Longitude*cosLat, a.Latitude
	bx, by := b.Longitude*cosLat, b.Latitude
	px, py := p.Longitude*cosLat, p.Latitude

	dx, dy := bx-ax, by-ay
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return 0, a
	}

	t := ((px-ax)*dx + (py-ay)*dy) / lengthSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t, Interpolate(a, b, t)
}

// BoundingBox box in degrees.
type BoundingBox struct {
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// BoxAround returns the box of the given radius (meters) around c.
func BoxAround(c Coordinate, meters float64) BoundingBox {
	// latitude: 1 degree is about 111km
	latDelta := meters / 111000.0
	// longitude: 1 degree is about 111km * cos(lat)
	cosLat := math.Cos(toRadians(c.Latitude))
	if cosLat < 1e-6 {
		cosLat = 1e-6
	}
	lonDelta := meters / (111000.0 * cosLat)

	return BoundingBox{
		MinLat: c.Latitude - latDelta,
		MinLon: c.Longitude - lonDelta,
		MaxLat: c.Latitude + latDelta,
		MaxLon: c.Longitude + lonDelta,
	}
}

// BoxOf returns the bounding box of the given coordinates.
func BoxOf(coordinates ...Coordinate) BoundingBox {
	if len(coordinates) == 0 {
		return BoundingBox{}
	}
	bb := BoundingBox{
		MinLat: coordinates[0].Latitude,
		MinLon: coordinates[0].Longitude,
		MaxLat: coordinates[0].Latitude,
		MaxLon: coordinates[0].Longitude,
	}
	for _, c := range coordinates[1:] {
		bb.MinLat = math.Min(bb.MinLat, c.Latitude)
		bb.MinLon = math.Min(bb.MinLon, c.Longitude)
		bb.MaxLat = math.Max(bb.MaxLat, c.Latitude)
		bb.MaxLon = math.Max(bb.MaxLon, c.Longitude)
	}
	return bb
}

// Overlaps reports whether two boxes intersect.
func (bb BoundingBox) Overlaps(other BoundingBox) bool {
	return bb.MinLat <= other.MaxLat && other.MinLat <= bb.MaxLat &&
		bb.MinLon <= other.MaxLon && other.MinLon <= bb.MaxLon
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
