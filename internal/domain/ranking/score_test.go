package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
)

func rec(userID string, distance, duration, elevation float64) activity.Record {
	return activity.Record{
		UserID:    userID,
		ID:        "a1",
		Kind:      activity.KindRun,
		Distance:  distance,
		Duration:  duration,
		Elevation: elevation,
		Date:      "2024-05-01T10:00:00Z",
	}
}

func TestScore_TwoActivityBucket(t *testing.T) {
	// distance 15 km -> 15, avg pace 85/15=5.67 -> 44, elevation 100 m -> 10,
	// 2 runs -> 20, longest 10 km -> 20, no consistency bonus.
	bucket := []activity.Record{
		rec("u1", 10, 60, 100),
		rec("u1", 5, 25, 0),
	}
	assert.Equal(t, 109, Score(bucket))
}

func TestScore_SingleLongActivity(t *testing.T) {
	// distance 20 -> 20, pace 100/20=5.0 -> exactly 60, elevation 300 -> 30,
	// 1 run -> 10, longest 20 km -> 30, no bonus. Total 150.
	bucket := []activity.Record{rec("u1", 20, 100, 300)}
	assert.Equal(t, 150, Score(bucket))
}

func TestScore_ZeroDurationBucket(t *testing.T) {
	// Zero duration must not divide by zero and earns no pace points.
	bucket := []activity.Record{rec("u1", 10, 0, 0)}
	got := Score(bucket)
	// distance 10 + pace 0 + elevation 0 + runs 10 + longest 20 + bonus 0
	assert.Equal(t, 40, got)
}

func TestScore_ZeroDistanceBucket(t *testing.T) {
	// Duration without distance has no meaningful pace either.
	bucket := []activity.Record{rec("u1", 0, 45, 0)}
	// distance 0 + pace 0 + elevation 0 + runs 10 + longest 0 + bonus 0
	assert.Equal(t, 10, Score(bucket))
}

func TestScore_AllCapsReachable(t *testing.T) {
	// Three fast long climbs hit every cap: distance, pace, elevation,
	// run count, longest and the consistency bonus.
	bucket := []activity.Record{
		rec("u1", 20, 95, 150),
		rec("u1", 20, 95, 150),
		rec("u1", 20, 95, 150),
	}
	assert.Equal(t, MaxScore, Score(bucket))
	assert.Equal(t, 230, MaxScore)
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	buckets := [][]activity.Record{
		{rec("u1", 0, 0, 0)},
		{rec("u1", 1000, 1, 100000)},
		{rec("u1", 0.1, 500, 5)},
		{rec("u1", 5, 25, 50), rec("u1", 5, 25, 50), rec("u1", 5, 25, 50), rec("u1", 5, 25, 50)},
	}
	for i, bucket := range buckets {
		got := Score(bucket)
		assert.GreaterOrEqual(t, got, 0, "bucket %d", i)
		assert.LessOrEqual(t, got, MaxScore, "bucket %d", i)
	}
}

func TestPaceScore_Anchors(t *testing.T) {
	tests := []struct {
		name     string
		km, min  float64
		expected int
	}{
		{"faster than best anchor", 10, 40, 60}, // 4.0 min/km
		{"exactly best anchor", 10, 50, 60},     // 5.0 min/km
		{"midpoint", 10, 62.5, 30},              // 6.25 min/km
		{"exactly worst anchor", 10, 75, 0},     // 7.5 min/km
		{"slower than worst anchor", 10, 90, 0}, // 9.0 min/km
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, paceScore(tt.km, tt.min))
		})
	}
}

func TestPaceScore_MonotonicallyNonIncreasing(t *testing.T) {
	// As pace slows, the sub-score never increases.
	prev := paceScore(10, 10)
	for min := 12.0; min <= 100; min += 2 {
		cur := paceScore(10, min)
		assert.LessOrEqual(t, cur, prev, "pace %.2f min/km", min/10)
		assert.GreaterOrEqual(t, cur, 0)
		assert.LessOrEqual(t, cur, paceCapPts)
		prev = cur
	}
}

func TestDistanceScore_Cap(t *testing.T) {
	assert.Equal(t, 15, distanceScore(15.2))
	assert.Equal(t, 60, distanceScore(60))
	assert.Equal(t, 60, distanceScore(500))
	assert.Equal(t, 0, distanceScore(0))
}

func TestElevationScore_TruncatesAndCaps(t *testing.T) {
	assert.Equal(t, 0, elevationScore(9.9))
	assert.Equal(t, 10, elevationScore(100))
	assert.Equal(t, 29, elevationScore(299))
	assert.Equal(t, 30, elevationScore(300))
	assert.Equal(t, 30, elevationScore(10000))
}

func TestRunCountScore_Cap(t *testing.T) {
	assert.Equal(t, 10, runCountScore(1))
	assert.Equal(t, 30, runCountScore(3))
	assert.Equal(t, 30, runCountScore(12))
}

func TestLongestScore_Steps(t *testing.T) {
	tests := []struct {
		km       float64
		expected int
	}{
		{4.9, 0}, {5, 10}, {9.9, 10}, {10, 20}, {14.9, 20}, {15, 30}, {42.2, 30},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1fkm", tt.km), func(t *testing.T) {
			assert.Equal(t, tt.expected, longestScore(tt.km))
		})
	}
}

func TestComputeScores_Idempotent(t *testing.T) {
	records := []activity.Record{
		rec("u1", 10, 60, 100),
		rec("u2", 20, 100, 300),
		rec("u1", 5, 25, 0),
	}
	first := ComputeScores(records)
	second := ComputeScores(records)
	assert.Equal(t, first, second)
	assert.Equal(t, 109, first["u1"])
	assert.Equal(t, 150, first["u2"])
}
