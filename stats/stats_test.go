package stats

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/cleantrack/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func makeLogs(locationID string, on time.Time, count int) []models.CleaningLog {
	logs := make([]models.CleaningLog, 0, count)
	base := time.Date(on.Year(), on.Month(), on.Day(), 8, 0, 0, 0, time.Local)
	for i := 0; i < count; i++ {
		logs = append(logs, models.CleaningLog{
			ID:           locationID + "-log-" + strconv.Itoa(i),
			DepartmentID: "dept-1",
			LocationID:   locationID,
			CleanerID:    "c1",
			Timestamp:    base.Add(time.Duration(i) * time.Minute).UnixMilli(),
			Status:       models.LogStatusCompleted,
		})
	}
	return logs
}

func TestAggregateSingleDayAtRisk(t *testing.T) {
	loc := models.Location{ID: "loc1", DepartmentID: "dept-1", NameEn: "Entrance", TargetDailyFrequency: 10}
	d := day(2024, time.January, 1)

	report, err := Aggregate([]models.Location{loc}, makeLogs("loc1", d, 7), d, d)
	assert.NoError(t, err)
	assert.Equal(t, 1, report.PeriodDays)

	ls := report.Locations[0]
	assert.Equal(t, 7, ls.Count)
	assert.Equal(t, 10, ls.PeriodTarget)
	assert.Equal(t, 70, ls.Percentage)
	assert.Equal(t, AtRisk, ls.Classification)
	assert.Equal(t, 1, report.AtRiskCount)
}

func TestAggregateSingleDayOverachieved(t *testing.T) {
	loc := models.Location{ID: "loc1", DepartmentID: "dept-1", TargetDailyFrequency: 10}
	d := day(2024, time.January, 1)

	report, err := Aggregate([]models.Location{loc}, makeLogs("loc1", d, 11), d, d)
	assert.NoError(t, err)
	assert.Equal(t, Overachieved, report.Locations[0].Classification)
}

func TestAggregateEightyPercentBoundaryIsOnTrack(t *testing.T) {
	loc := models.Location{ID: "loc1", DepartmentID: "dept-1", TargetDailyFrequency: 10}
	d := day(2024, time.January, 1)

	report, err := Aggregate([]models.Location{loc}, makeLogs("loc1", d, 8), d, d)
	assert.NoError(t, err)

	ls := report.Locations[0]
	assert.Equal(t, 80, ls.Percentage)
	// 80 bukan < 80: tepat di ambang tetap onTrack.
	assert.Equal(t, OnTrack, ls.Classification)
	assert.Equal(t, 0, report.AtRiskCount)
}

func TestAggregateMultiDayRange(t *testing.T) {
	loc := models.Location{ID: "loc1", DepartmentID: "dept-1", TargetDailyFrequency: 5}
	start := day(2024, time.January, 1)
	end := day(2024, time.January, 3)

	logs := makeLogs("loc1", start, 10)
	logs = append(logs, makeLogs("loc1", end, 10)...)

	report, err := Aggregate([]models.Location{loc}, logs, start, end)
	assert.NoError(t, err)
	assert.Equal(t, 3, report.PeriodDays)

	ls := report.Locations[0]
	assert.Equal(t, 20, ls.Count)
	assert.Equal(t, 15, ls.PeriodTarget)
	assert.Equal(t, 133, ls.Percentage)
	assert.Equal(t, Overachieved, ls.Classification)
}

func TestAggregateRejectsZeroTarget(t *testing.T) {
	loc := models.Location{ID: "loc1", DepartmentID: "dept-1", TargetDailyFrequency: 0}
	d := day(2024, time.January, 1)

	_, err := Aggregate([]models.Location{loc}, nil, d, d)
	assert.True(t, errors.Is(err, ErrInvalidTarget))
}

func TestAggregateRejectsInvertedRange(t *testing.T) {
	loc := models.Location{ID: "loc1", DepartmentID: "dept-1", TargetDailyFrequency: 1}

	_, err := Aggregate([]models.Location{loc}, nil, day(2024, time.January, 5), day(2024, time.January, 1))
	assert.True(t, errors.Is(err, ErrInvalidRange))
}

func TestAggregateIgnoresLogsOutsideRange(t *testing.T) {
	loc := models.Location{ID: "loc1", DepartmentID: "dept-1", TargetDailyFrequency: 10}
	d := day(2024, time.January, 2)

	logs := makeLogs("loc1", d, 4)
	logs = append(logs, makeLogs("loc1", day(2024, time.January, 1), 3)...)
	logs = append(logs, makeLogs("loc1", day(2024, time.January, 3), 3)...)

	report, err := Aggregate([]models.Location{loc}, logs, d, d)
	assert.NoError(t, err)
	assert.Equal(t, 4, report.Locations[0].Count)
	assert.Equal(t, 4, report.TotalCompleted)
}

func TestAggregateOrderIndependent(t *testing.T) {
	locs := []models.Location{
		{ID: "loc1", DepartmentID: "dept-1", TargetDailyFrequency: 10},
		{ID: "loc2", DepartmentID: "dept-1", TargetDailyFrequency: 5},
	}
	d := day(2024, time.January, 1)
	logs := append(makeLogs("loc1", d, 9), makeLogs("loc2", d, 2)...)

	first, err := Aggregate(locs, logs, d, d)
	assert.NoError(t, err)

	shuffled := make([]models.CleaningLog, len(logs))
	copy(shuffled, logs)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	second, err := Aggregate(locs, shuffled, d, d)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregateLastCompletedAt(t *testing.T) {
	loc := models.Location{ID: "loc1", DepartmentID: "dept-1", TargetDailyFrequency: 10}
	d := day(2024, time.January, 1)
	logs := makeLogs("loc1", d, 3)

	report, err := Aggregate([]models.Location{loc}, logs, d, d)
	assert.NoError(t, err)

	var max int64
	for _, l := range logs {
		if l.Timestamp > max {
			max = l.Timestamp
		}
	}
	assert.Equal(t, max, report.Locations[0].LastCompletedAt)

	// Tanpa event: "belum pernah" = 0.
	empty, err := Aggregate([]models.Location{loc}, nil, d, d)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), empty.Locations[0].LastCompletedAt)
}

func TestLocationDetail(t *testing.T) {
	d := day(2024, time.January, 1)
	logs := makeLogs("loc1", d, 3)
	logs = append(logs, makeLogs("loc2", d, 2)...)
	cleaners := []models.Cleaner{{ID: "c1", DepartmentID: "dept-1", Name: "Ayu"}}

	entries, err := LocationDetail(logs, cleaners, "loc1", d, d)
	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Log.Timestamp, entries[i].Log.Timestamp)
	}
	assert.Equal(t, "Ayu", entries[0].CleanerName)
}

func TestLocationDetailUnknownCleaner(t *testing.T) {
	d := day(2024, time.January, 1)
	logs := makeLogs("loc1", d, 1)

	entries, err := LocationDetail(logs, nil, "loc1", d, d)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, UnknownCleaner, entries[0].CleanerName)
}
