package profile

import (
	"strconv"
	"strings"

	"github.com/merrydance/logistics/geo"
)

// Vehicle speed table (km/h) per highway class plus oneway handling.
type Vehicle struct {
	Name           string
	Speeds         map[string]float64
	DefaultSpeed   float64
	RespectsOneway bool
	// RespectsMaxSpeed caps the table speed by a "maxspeed" attribute.
	RespectsMaxSpeed bool
}

// Car motor vehicle.
var Car = &Vehicle{
	Name: "car",
	Speeds: map[string]float64{
		"motorway":       120,
		"motorway_link":  70,
		"trunk":          90,
		"trunk_link":     70,
		"primary":        70,
		"primary_link":   60,
		"secondary":      60,
		"secondary_link": 50,
		"tertiary":       50,
		"tertiary_link":  40,
		"unclassified":   40,
		"residential":    30,
		"service":        20,
		"living_street":  10,
		"road":           30,
	},
	RespectsOneway:   true,
	RespectsMaxSpeed: true,
}

// Bicycle cyclist.
var Bicycle = &Vehicle{
	Name: "bicycle",
	Speeds: map[string]float64{
		"cycleway":      18,
		"primary":       15,
		"primary_link":  15,
		"secondary":     15,
		"tertiary":      15,
		"unclassified":  15,
		"residential":   15,
		"service":       15,
		"living_street": 12,
		"track":         12,
		"path":          12,
		"road":          15,
	},
	RespectsOneway: true,
}

// Pedestrian walker; oneway restrictions do not apply.
var Pedestrian = &Vehicle{
	Name: "pedestrian",
	Speeds: map[string]float64{
		"primary":       5,
		"primary_link":  5,
		"secondary":     5,
		"tertiary":      5,
		"unclassified":  5,
		"residential":   5,
		"service":       5,
		"living_street": 5,
		"pedestrian":    5,
		"footway":       5,
		"path":          5,
		"steps":         3,
		"track":         5,
		"cycleway":      5,
		"road":          5,
	},
}

func (v *Vehicle) speedAndDirection(attributes geo.Attributes) (float64, Direction) {
	highway, ok := attributes.TryGetValue("highway")
	if !ok {
		return 0, DirectionBoth
	}
	speed, ok := v.Speeds[highway]
	if !ok {
		speed = v.DefaultSpeed
	}
	if speed <= 0 {
		return 0, DirectionBoth
	}
	if access := attributes.Get(v.Name); access == "no" {
		return 0, DirectionBoth
	}

	if v.RespectsMaxSpeed {
		if raw, ok := attributes.TryGetValue("maxspeed"); ok {
			if maxSpeed, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && maxSpeed > 0 && maxSpeed < speed {
				speed = maxSpeed
			}
		}
	}

	direction := DirectionBoth
	if v.RespectsOneway {
		switch attributes.Get("oneway") {
		case "yes", "true", "1":
			direction = DirectionForward
		case "-1", "reverse":
			direction = DirectionBackward
		}
	}
	return speed, direction
}
