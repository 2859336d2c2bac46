// internals/features/attendance/stats/stats.go
package stats

import (
	"math"
	"sort"

	"absensiku_backend/internals/features/attendance/records/model"
)

// Agregasi read-only di atas deretan AttendanceRecord. Fungsi total:
// tidak pernah gagal untuk input numerik valid, dan persentase 0 saat
// total 0 (bukan pembagian nol).

type SubjectStat struct {
	Name       string `json:"name"`
	Present    int    `json:"present"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

type DayStat struct {
	Date       string `json:"date"`
	Present    int    `json:"present"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

type RecentEntry struct {
	Subject string `json:"subject"`
	Date    string `json:"date"`
	Status  string `json:"status"`
}

type Overall struct {
	Present    int `json:"present"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func percentage(present, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(present) / float64(total) * 100))
}

// BySubject: group per mata kuliah, urut nama biar deterministik.
func BySubject(records []model.AttendanceRecordModel) []SubjectStat {
	type acc struct{ present, total int }
	m := make(map[string]*acc)
	for _, r := range records {
		a := m[r.AttendanceRecordSubject]
		if a == nil {
			a = &acc{}
			m[r.AttendanceRecordSubject] = a
		}
		a.total++
		if r.AttendanceRecordStatus == model.StatusPresent {
			a.present++
		}
	}

	out := make([]SubjectStat, 0, len(m))
	for name, a := range m {
		out = append(out, SubjectStat{
			Name:       name,
			Present:    a.present,
			Total:      a.total,
			Percentage: percentage(a.present, a.total),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DailyTrend: group per tanggal (urut naik), dipotong lastN hari terakhir.
func DailyTrend(records []model.AttendanceRecordModel, lastN int) []DayStat {
	type acc struct{ present, total int }
	m := make(map[string]*acc)
	for _, r := range records {
		a := m[r.AttendanceRecordDate]
		if a == nil {
			a = &acc{}
			m[r.AttendanceRecordDate] = a
		}
		a.total++
		if r.AttendanceRecordStatus == model.StatusPresent {
			a.present++
		}
	}

	out := make([]DayStat, 0, len(m))
	for date, a := range m {
		out = append(out, DayStat{
			Date:       date,
			Present:    a.present,
			Total:      a.total,
			Percentage: percentage(a.present, a.total),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	if lastN > 0 && len(out) > lastN {
		out = out[len(out)-lastN:]
	}
	return out
}

// Recent: n record terbaru untuk feed.
func Recent(records []model.AttendanceRecordModel, n int) []RecentEntry {
	sorted := make([]model.AttendanceRecordModel, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AttendanceRecordCreatedAt.After(sorted[j].AttendanceRecordCreatedAt)
	})

	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]RecentEntry, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, RecentEntry{
			Subject: r.AttendanceRecordSubject,
			Date:    r.AttendanceRecordDate,
			Status:  r.AttendanceRecordStatus,
		})
	}
	return out
}

// ComputeOverall: rekap keseluruhan.
func ComputeOverall(records []model.AttendanceRecordModel) Overall {
	present := 0
	for _, r := range records {
		if r.AttendanceRecordStatus == model.StatusPresent {
			present++
		}
	}
	return Overall{
		Present:    present,
		Total:      len(records),
		Percentage: percentage(present, len(records)),
	}
}
