package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/yeremiapane/cleantrack/models"
)

var (
	// ErrInvalidRange menolak rentang tanggal dengan end sebelum start.
	ErrInvalidRange = errors.New("end date is before start date")
	// ErrInvalidTarget menolak location dengan target harian < 1.
	ErrInvalidTarget = errors.New("target daily frequency must be at least 1")
)

type Classification string

const (
	Overachieved Classification = "overachieved"
	AtRisk       Classification = "atRisk"
	OnTrack      Classification = "onTrack"
)

// UnknownCleaner dipakai ketika referensi cleaner pada sebuah log sudah
// tidak bisa di-resolve (mis. cleaner-nya dihapus).
const UnknownCleaner = "unknown"

type LocationStats struct {
	Location        models.Location `json:"location"`
	Count           int             `json:"count"`
	PeriodTarget    int             `json:"period_target"`
	Percentage      int             `json:"percentage"`
	Classification  Classification  `json:"classification"`
	LastCompletedAt int64           `json:"last_completed_at"` // epoch millis, 0 = belum pernah
}

type Report struct {
	PeriodDays      int             `json:"period_days"`
	TotalTarget     int             `json:"total_target"`
	TotalCompleted  int             `json:"total_completed"`
	OverallProgress int             `json:"overall_progress"`
	AtRiskCount     int             `json:"at_risk_count"`
	Locations       []LocationStats `json:"locations"`
}

type DetailEntry struct {
	Log         models.CleaningLog `json:"log"`
	CleanerName string             `json:"cleaner_name"`
}

const oneDay = 24 * time.Hour

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(oneDay - time.Millisecond)
}

func roundPct(numerator, denominator int) int {
	return int(math.Round(float64(numerator) / float64(denominator) * 100))
}

// Aggregate menghitung statistik kepatuhan satu departemen untuk rentang
// tanggal inklusif [start, end] pada batas hari lokal. Murni: tanpa efek
// samping, idempoten, dan tidak peduli urutan log masukan.
//
// Target periode selalu dibandingkan penuh, tanpa prorata untuk rentang
// yang masih berjalan (keputusan produk, lihat DESIGN.md).
func Aggregate(locations []models.Location, logs []models.CleaningLog, start, end time.Time) (*Report, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	for _, loc := range locations {
		if loc.TargetDailyFrequency < 1 {
			return nil, fmt.Errorf("location %s: %w", loc.ID, ErrInvalidTarget)
		}
	}

	startTs := startOfDay(start).UnixMilli()
	endTs := endOfDay(end).UnixMilli()
	periodDays := int(math.Round(float64(endTs-startTs) / float64(oneDay.Milliseconds())))
	if periodDays < 1 {
		periodDays = 1
	}

	countByLocation := make(map[string]int)
	lastByLocation := make(map[string]int64)
	totalCompleted := 0
	for _, l := range logs {
		if l.Timestamp < startTs || l.Timestamp > endTs {
			continue
		}
		countByLocation[l.LocationID]++
		totalCompleted++
		if l.Timestamp > lastByLocation[l.LocationID] {
			lastByLocation[l.LocationID] = l.Timestamp
		}
	}

	report := &Report{
		PeriodDays: periodDays,
		Locations:  make([]LocationStats, 0, len(locations)),
	}
	for _, loc := range locations {
		count := countByLocation[loc.ID]
		periodTarget := loc.TargetDailyFrequency * periodDays

		ls := LocationStats{
			Location:        loc,
			Count:           count,
			PeriodTarget:    periodTarget,
			Percentage:      roundPct(count, periodTarget),
			LastCompletedAt: lastByLocation[loc.ID],
		}
		switch {
		case count > periodTarget:
			ls.Classification = Overachieved
		case ls.Percentage < 80:
			ls.Classification = AtRisk
		default:
			ls.Classification = OnTrack
		}

		report.TotalTarget += periodTarget
		if ls.Classification == AtRisk && periodTarget > 0 {
			report.AtRiskCount++
		}
		report.Locations = append(report.Locations, ls)
	}

	report.TotalCompleted = totalCompleted
	if report.TotalTarget > 0 {
		report.OverallProgress = roundPct(report.TotalCompleted, report.TotalTarget)
	}
	return report, nil
}

// LocationDetail mengembalikan aktivitas satu location dalam rentang,
// terurut timestamp menurun, dengan nama cleaner ter-resolve. Referensi
// cleaner yang hilang jatuh ke sentinel UnknownCleaner, bukan error.
func LocationDetail(logs []models.CleaningLog, cleaners []models.Cleaner, locationID string, start, end time.Time) ([]DetailEntry, error) {
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	startTs := startOfDay(start).UnixMilli()
	endTs := endOfDay(end).UnixMilli()

	nameByID := make(map[string]string, len(cleaners))
	for _, c := range cleaners {
		nameByID[c.ID] = c.Name
	}

	entries := make([]DetailEntry, 0)
	for _, l := range logs {
		if l.LocationID != locationID || l.Timestamp < startTs || l.Timestamp > endTs {
			continue
		}
		name, ok := nameByID[l.CleanerID]
		if !ok {
			name = UnknownCleaner
		}
		entries = append(entries, DetailEntry{Log: l, CleanerName: name})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Log.Timestamp > entries[j].Log.Timestamp
	})
	return entries, nil
}
