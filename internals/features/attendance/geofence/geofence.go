// internals/features/attendance/geofence/geofence.go
package geofence

import "math"

// Radius bumi dalam meter (great-circle).
const earthRadiusM = 6371000.0

// Distance menghitung jarak haversine antara dua koordinat (derajat),
// hasil dalam meter. Fungsi murni, tanpa I/O.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

// IsInside: true kalau titik berada dalam zona lingkaran center+radius.
// Jarak terhitung ikut dikembalikan supaya pesan penolakan bisa
// menyebutkan angka pastinya.
func IsInside(lat, lng, centerLat, centerLng, radiusM float64) (bool, float64) {
	d := Distance(lat, lng, centerLat, centerLng)
	return d <= radiusM, d
}
