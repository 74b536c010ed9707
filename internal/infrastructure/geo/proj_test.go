package geo_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/lidarhub/potree-api/internal/infrastructure/geo"
)

func TestNewTransformer(t *testing.T) {
	tests := []struct {
		name    string
		proj4   string
		wantErr bool
	}{
		{"utm north", "+proj=utm +zone=16 +datum=NAD83 +units=m +no_defs", false},
		{"utm south", "+proj=utm +zone=19 +south +datum=WGS84 +units=m +no_defs", false},
		{"longlat", "+proj=longlat +datum=WGS84 +no_defs", false},
		{"latlong alias", "+proj=latlong +datum=WGS84", false},
		{"missing zone", "+proj=utm +datum=WGS84", true},
		{"zone out of range", "+proj=utm +zone=61", true},
		{"lambert conformal conic", "+proj=lcc +lat_1=33 +lat_2=45", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geo.NewTransformer(tt.proj4)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTransformer(%q) error = %v, wantErr %v", tt.proj4, err, tt.wantErr)
			}
		})
	}
}

func TestNewTransformer_UnsupportedProjection(t *testing.T) {
	_, err := geo.NewTransformer("+proj=lcc +lat_1=33 +lat_2=45")
	if !errors.Is(err, geo.ErrUnsupportedProjection) {
		t.Errorf("error = %v, want ErrUnsupportedProjection", err)
	}
}

func TestToWGS84_Geographic(t *testing.T) {
	tr, err := geo.NewTransformer("+proj=longlat +datum=WGS84 +no_defs")
	if err != nil {
		t.Fatalf("NewTransformer() error = %v", err)
	}

	lat, lon := tr.ToWGS84(-87.5, 30.2)
	if lat != 30.2 || lon != -87.5 {
		t.Errorf("ToWGS84() = (%v, %v), want (30.2, -87.5)", lat, lon)
	}
}

func TestToWGS84_UTMCentralMeridian(t *testing.T) {
	// On the central meridian at the equator the inverse is exact:
	// easting 500000 / northing 0 maps to lat 0, lon = zone*6 - 183.
	tests := []struct {
		zone    int
		wantLon float64
	}{
		{1, -177},
		{16, -87},
		{31, 3},
		{60, 177},
	}

	for _, tt := range tests {
		tr, err := geo.NewTransformer(fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84", tt.zone))
		if err != nil {
			t.Fatalf("NewTransformer() error = %v", err)
		}

		lat, lon := tr.ToWGS84(500000, 0)
		if math.Abs(lat) > 1e-6 {
			t.Errorf("zone %d: lat = %v, want 0", tt.zone, lat)
		}
		if math.Abs(lon-tt.wantLon) > 1e-6 {
			t.Errorf("zone %d: lon = %v, want %v", tt.zone, lon, tt.wantLon)
		}
	}
}

func TestToWGS84_UTMSouth(t *testing.T) {
	tr, err := geo.NewTransformer("+proj=utm +zone=19 +south +datum=WGS84")
	if err != nil {
		t.Fatalf("NewTransformer() error = %v", err)
	}

	// False northing of 10,000,000 puts the equator at lat 0.
	lat, lon := tr.ToWGS84(500000, 10000000)
	if math.Abs(lat) > 1e-6 {
		t.Errorf("lat = %v, want 0", lat)
	}
	if math.Abs(lon-(-69)) > 1e-6 {
		t.Errorf("lon = %v, want -69", lon)
	}

	// South of the equator latitudes must be negative.
	lat, _ = tr.ToWGS84(500000, 8000000)
	if lat >= 0 {
		t.Errorf("lat = %v, want negative in southern hemisphere", lat)
	}
}

func TestToWGS84_UTMKnownPoint(t *testing.T) {
	// Eiffel Tower, UTM zone 31N.
	tr, err := geo.NewTransformer("+proj=utm +zone=31 +datum=WGS84 +units=m +no_defs")
	if err != nil {
		t.Fatalf("NewTransformer() error = %v", err)
	}

	lat, lon := tr.ToWGS84(448251.8, 5411932.7)
	if math.Abs(lat-48.8582) > 0.01 {
		t.Errorf("lat = %v, want about 48.8582", lat)
	}
	if math.Abs(lon-2.2945) > 0.01 {
		t.Errorf("lon = %v, want about 2.2945", lon)
	}
}

func TestToWGS84_LatIncreasesWithNorthing(t *testing.T) {
	tr, err := geo.NewTransformer("+proj=utm +zone=16 +datum=NAD83")
	if err != nil {
		t.Fatalf("NewTransformer() error = %v", err)
	}

	lower, _ := tr.ToWGS84(500000, 3000000)
	upper, _ := tr.ToWGS84(500000, 3500000)
	if upper <= lower {
		t.Errorf("lat did not increase with northing: %v -> %v", lower, upper)
	}
}
