package ranking

import (
	"math"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCORING FUNCTION
//
// A user's score is the sum of six independently capped sub-scores, so
// excellence on one axis (say, huge distance) cannot alone dominate the
// ranking. Balanced performance wins leagues.
// ══════════════════════════════════════════════════════════════════════════════

// Sub-score caps and anchors (rebalanced point scale).
const (
	// Distance: one point per kilometer, capped.
	distanceCapPts = 60

	// Pace: linear interpolation between the two anchors.
	paceBestMinPerKm  = 5.0
	paceWorstMinPerKm = 7.5
	paceCapPts        = 60

	// Elevation: one point per 10 m of gain, capped.
	elevationDivisorM = 10.0
	elevationCapPts   = 30

	// Run count: flat points per recorded activity, capped.
	pointsPerRun   = 10
	runCountCapPts = 30

	// Longest single activity: stepped by distance.
	longestEpicKm    = 15.0
	longestEpicPts   = 30
	longestLongKm    = 10.0
	longestLongPts   = 20
	longestMediumKm  = 5.0
	longestMediumPts = 10

	// Consistency: flat bonus for showing up repeatedly.
	consistencyMinRuns  = 3
	consistencyBonusPts = 20
)

// MaxScore is the upper bound of a total score: every sub-score at its cap.
const MaxScore = distanceCapPts + paceCapPts + elevationCapPts +
	runCountCapPts + longestEpicPts + consistencyBonusPts

// Score converts one user's bucket of activities into a single bounded
// integer score. The bucket is assumed non-empty (the aggregator never
// produces empty buckets); an empty bucket scores the degenerate minimum.
func Score(bucket []activity.Record) int {
	var totalKm, totalMin, totalElevM, longestKm float64
	for _, rec := range bucket {
		totalKm += rec.Distance
		totalMin += rec.Duration
		totalElevM += rec.Elevation
		if rec.Distance > longestKm {
			longestKm = rec.Distance
		}
	}
	runs := len(bucket)

	score := distanceScore(totalKm)
	score += paceScore(totalKm, totalMin)
	score += elevationScore(totalElevM)
	score += runCountScore(runs)
	score += longestScore(longestKm)
	if runs >= consistencyMinRuns {
		score += consistencyBonusPts
	}
	return score
}

// distanceScore awards one point per total kilometer, capped.
func distanceScore(totalKm float64) int {
	pts := int(math.Round(totalKm))
	if pts > distanceCapPts {
		return distanceCapPts
	}
	if pts < 0 {
		return 0
	}
	return pts
}

// paceScore maps average pace (min/km) onto points by linear interpolation:
// paceBestMinPerKm or faster earns the cap, paceWorstMinPerKm or slower
// earns nothing. A bucket with zero total duration or distance has no
// meaningful pace and earns nothing - zero-effort entries are never
// rewarded, and there is no division by zero.
func paceScore(totalKm, totalMin float64) int {
	if totalMin <= 0 || totalKm <= 0 {
		return 0
	}

	pace := totalMin / totalKm
	if pace <= paceBestMinPerKm {
		return paceCapPts
	}
	if pace >= paceWorstMinPerKm {
		return 0
	}

	span := paceWorstMinPerKm - paceBestMinPerKm
	pts := int(math.Round((paceWorstMinPerKm - pace) / span * paceCapPts))
	if pts > paceCapPts {
		return paceCapPts
	}
	if pts < 0 {
		return 0
	}
	return pts
}

// elevationScore awards one point per elevationDivisorM meters of total
// gain, truncated, capped.
func elevationScore(totalElevM float64) int {
	pts := int(totalElevM / elevationDivisorM)
	if pts > elevationCapPts {
		return elevationCapPts
	}
	if pts < 0 {
		return 0
	}
	return pts
}

// runCountScore awards flat points per recorded activity, capped.
func runCountScore(runs int) int {
	pts := runs * pointsPerRun
	if pts > runCountCapPts {
		return runCountCapPts
	}
	return pts
}

// longestScore awards stepped points for the longest single activity.
func longestScore(longestKm float64) int {
	switch {
	case longestKm >= longestEpicKm:
		return longestEpicPts
	case longestKm >= longestLongKm:
		return longestLongPts
	case longestKm >= longestMediumKm:
		return longestMediumPts
	default:
		return 0
	}
}

// ComputeScores aggregates records by user and scores each bucket.
func ComputeScores(records []activity.Record) map[string]int {
	buckets := GroupByUser(records)
	scores := make(map[string]int, len(buckets))
	for userID, bucket := range buckets {
		scores[userID] = Score(bucket)
	}
	return scores
}
