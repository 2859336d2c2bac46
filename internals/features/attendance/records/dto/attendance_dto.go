package dto

// LocationDto dipakai student app saat check-in (hasil geolocation browser).
type LocationDto struct {
	Lat *float64 `json:"lat" validate:"required"`
	Lng *float64 `json:"lng" validate:"required"`
}

// MarkRequest: check-in via scan QR (sessionId dari payload QR).
type MarkRequest struct {
	SessionId string      `json:"sessionId" validate:"required,uuid"`
	Location  LocationDto `json:"location" validate:"required"`
}

// MarkByCodeRequest: check-in via kode kelas 6 digit (fallback tanpa kamera).
type MarkByCodeRequest struct {
	ClassCode string      `json:"classCode" validate:"required,len=6,numeric"`
	Location  LocationDto `json:"location" validate:"required"`
}

// ManualMarkRequest: guru menandai hadir manual, tanpa cek geofence.
type ManualMarkRequest struct {
	SessionId   string `json:"sessionId" validate:"required,uuid"`
	RollNo      string `json:"rollNo" validate:"required"`
	StudentName string `json:"studentName" validate:"required"`
}
