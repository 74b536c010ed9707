// Package geo converts projected point cloud coordinates to WGS84.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// WGS84 ellipsoid.
const (
	semiMajor  = 6378137.0
	flattening = 1 / 298.257223563

	utmScale        = 0.9996
	utmFalseEasting = 500000.0
	utmFalseNorth   = 10000000.0
)

// ErrUnsupportedProjection indicates the proj4 string names a projection
// this package cannot invert.
var ErrUnsupportedProjection = errors.New("unsupported projection")

// Transformer converts projected coordinates to WGS84 latitude/longitude.
type Transformer struct {
	geographic bool
	zone       int
	south      bool
}

// NewTransformer parses a proj4 string. Geographic CRS (+proj=longlat) and
// UTM (+proj=utm +zone=N [+south]) are supported; anything else returns
// ErrUnsupportedProjection so callers can skip geolocation.
func NewTransformer(proj4 string) (*Transformer, error) {
	t := &Transformer{}
	var projName string

	for _, token := range strings.Fields(proj4) {
		token = strings.TrimPrefix(token, "+")
		key, value, _ := strings.Cut(token, "=")
		switch key {
		case "proj":
			projName = value
		case "zone":
			zone, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("parse utm zone %q: %w", value, err)
			}
			t.zone = zone
		case "south":
			t.south = true
		}
	}

	switch projName {
	case "longlat", "latlong":
		t.geographic = true
	case "utm":
		if t.zone < 1 || t.zone > 60 {
			return nil, fmt.Errorf("utm zone %d out of range", t.zone)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProjection, projName)
	}

	return t, nil
}

// ToWGS84 converts projected x/y to latitude/longitude in degrees.
func (t *Transformer) ToWGS84(x, y float64) (lat, lon float64) {
	if t.geographic {
		return y, x
	}
	return utmInverse(x, y, t.zone, t.south)
}

// utmInverse applies the standard inverse transverse Mercator series
// (Snyder, Map Projections: A Working Manual, eq. 8-17..8-25).
func utmInverse(easting, northing float64, zone int, south bool) (lat, lon float64) {
	e2 := flattening * (2 - flattening)
	ep2 := e2 / (1 - e2)

	x := easting - utmFalseEasting
	y := northing
	if south {
		y -= utmFalseNorth
	}

	m := y / utmScale
	mu := m / (semiMajor * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sinPhi := math.Sin(phi1)
	cosPhi := math.Cos(phi1)
	tanPhi := math.Tan(phi1)

	c1 := ep2 * cosPhi * cosPhi
	t1 := tanPhi * tanPhi
	n1 := semiMajor / math.Sqrt(1-e2*sinPhi*sinPhi)
	r1 := semiMajor * (1 - e2) / math.Pow(1-e2*sinPhi*sinPhi, 1.5)
	d := x / (n1 * utmScale)

	latRad := phi1 - (n1*tanPhi/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lonRad := (d - (1+2*t1+c1)*math.Pow(d, 3)/6 +
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120) / cosPhi

	centralMeridian := float64(zone*6-183) * math.Pi / 180

	return latRad * 180 / math.Pi, (lonRad + centralMeridian) * 180 / math.Pi
}
