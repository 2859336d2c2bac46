package geofence

import (
	"math"
	"testing"
)

// Pergeseran murni lintang: haversine menyederhana jadi d = R * Δlat,
// jadi nilai harapannya bisa dihitung eksak.
const metersPerDegreeLat = 6371000.0 * math.Pi / 180 // ≈ 111194.93 m

func TestDistanceKnownValues(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
		tolerance              float64
	}{
		{"satu derajat lintang", -6.2000, 106.8167, -5.2000, 106.8167, metersPerDegreeLat, 1},
		{"seper-seratus derajat lintang", -6.2000, 106.8167, -6.1900, 106.8167, metersPerDegreeLat / 100, 0.01},
		{"jakarta-bandung", -6.1754, 106.8272, -6.9175, 107.6191, 118000, 3000},
	}
	for _, tc := range cases {
		got := Distance(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
		if math.Abs(got-tc.want) > tc.tolerance {
			t.Errorf("%s: Distance = %f, want %f ± %f", tc.name, got, tc.want, tc.tolerance)
		}
	}
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{-6.2, 106.8, -7.8, 110.4},
		{12.9716, 77.5946, 13.0827, 80.2707},
		{0, 0, 0, 180},
		{89.9, 0, -89.9, 0},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-6 {
			t.Errorf("Distance tidak simetris: %f vs %f untuk %v", ab, ba, p)
		}
	}
}

func TestDistanceIdentity(t *testing.T) {
	if d := Distance(-6.2, 106.8, -6.2, 106.8); d != 0 {
		t.Errorf("Distance(a, a) = %f, want 0", d)
	}
}

func TestIsInsideBoundary(t *testing.T) {
	centerLat, centerLng := -6.2000, 106.8167
	radius := 500.0

	// Titik tepat di jarak 500m dari pusat (offset lintang murni).
	deltaAtRadius := radius / metersPerDegreeLat

	for _, eps := range []float64{0.001, 0.1, 1, 10, 100} {
		insideLat := centerLat + (radius-eps)/metersPerDegreeLat
		if ok, d := IsInside(insideLat, centerLng, centerLat, centerLng, radius); !ok {
			t.Errorf("titik pada R-%f (d=%f) harusnya diterima", eps, d)
		}

		outsideLat := centerLat + (radius+eps)/metersPerDegreeLat
		if ok, d := IsInside(outsideLat, centerLng, centerLat, centerLng, radius); ok {
			t.Errorf("titik pada R+%f (d=%f) harusnya ditolak", eps, d)
		}
	}

	// Tepat di garis radius masih diterima (<=).
	if ok, _ := IsInside(centerLat+deltaAtRadius, centerLng, centerLat, centerLng, radius+1e-9); !ok {
		t.Error("titik tepat di radius harusnya diterima")
	}
}

func TestIsInsideReportsDistance(t *testing.T) {
	centerLat, centerLng := -6.2000, 106.8167
	lat := centerLat + 1000/metersPerDegreeLat

	ok, d := IsInside(lat, centerLng, centerLat, centerLng, 500)
	if ok {
		t.Fatal("titik 1000m harusnya di luar radius 500m")
	}
	if math.Abs(d-1000) > 0.5 {
		t.Errorf("jarak terlapor %f, want ≈ 1000", d)
	}
}
