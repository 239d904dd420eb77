// Package ranking implements the league ranking engine: the scoring period
// filter, the per-user aggregator, the multi-factor scoring function, and
// the leaderboard builder. The engine is a pure computation over an
// in-memory snapshot - it owns no persistent state and performs no I/O.
package ranking

import (
	"fmt"
	"strings"
	"time"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
)

// Period is the scoring time window.
type Period string

const (
	// PeriodGeneral scores all activities regardless of age.
	PeriodGeneral Period = "general"

	// PeriodWeekly scores the trailing 7 days.
	PeriodWeekly Period = "weekly"
)

// weeklyWindowDays is the length of the trailing weekly window.
const weeklyWindowDays = 7

// ParsePeriod normalizes a period selector. Unknown values fall back to
// PeriodGeneral rather than failing: an old client asking for a window we
// no longer support still gets a leaderboard.
func ParsePeriod(s string) Period {
	if strings.EqualFold(strings.TrimSpace(s), string(PeriodWeekly)) {
		return PeriodWeekly
	}
	return PeriodGeneral
}

// String returns the period selector as sent on the wire.
func (p Period) String() string {
	return string(p)
}

// FilterByPeriod returns the subset of records whose timestamp falls within
// the period's window. The cutoff is computed once from now, so every
// record in a single invocation is compared against the same instant.
// The input slice is never mutated or reordered.
//
// A record whose timestamp cannot be parsed fails the whole call: scores
// must be computed over a well-defined basis, never over a silent subset.
func FilterByPeriod(records []activity.Record, p Period, now time.Time) ([]activity.Record, error) {
	if p != PeriodWeekly {
		return records, nil
	}

	cutoff := now.UTC().AddDate(0, 0, -weeklyWindowDays)
	filtered := make([]activity.Record, 0, len(records))
	for _, rec := range records {
		startedAt, err := rec.StartedAt()
		if err != nil {
			return nil, fmt.Errorf("ranking: record %s: %w", rec.DocumentID(), err)
		}
		if !startedAt.Before(cutoff) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// GroupByUser buckets records by owning user, preserving encounter order
// within each bucket. Users with no records in the input do not appear.
func GroupByUser(records []activity.Record) map[string][]activity.Record {
	buckets := make(map[string][]activity.Record)
	for _, rec := range records {
		buckets[rec.UserID] = append(buckets[rec.UserID], rec)
	}
	return buckets
}
