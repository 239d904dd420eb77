package strava

import (
	"math"
	"strconv"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - DTO to domain entity transformations
//
// Anti-corruption layer: the rest of the backend never sees raw Strava
// payloads. Units are normalized here (meters -> kilometers, seconds ->
// minutes) and unsupported activity types are dropped.
// ══════════════════════════════════════════════════════════════════════════════

// Mapper converts Strava DTOs into domain entities.
type Mapper struct{}

// NewMapper creates a new Mapper instance.
func NewMapper() *Mapper {
	return &Mapper{}
}

// RecordFromDTO converts one raw activity into a domain record owned by
// the given user. Returns false when the activity type does not count
// toward league scoring.
func (m *Mapper) RecordFromDTO(dto ActivityDTO, userID string) (activity.Record, bool) {
	kind := activity.Kind(dto.Type)
	if !kind.IsSupported() {
		return activity.Record{}, false
	}

	rec := activity.Record{
		UserID:          userID,
		ID:              strconv.FormatInt(dto.ID, 10),
		Kind:            kind,
		Distance:        round2(dto.Distance / 1000),
		Duration:        round2(float64(dto.MovingTime) / 60),
		Elevation:       round2(dto.TotalElevationGain),
		Date:            dto.StartDate,
		SummaryPolyline: dto.Map.SummaryPolyline,
	}
	if dto.AverageSpeed > 0 {
		speed := dto.AverageSpeed
		rec.AvgSpeed = &speed
	}
	return rec, true
}

// RecordsFromDTOs converts a raw activity list, keeping only supported
// activity types and preserving Strava's order.
func (m *Mapper) RecordsFromDTOs(dtos []ActivityDTO, userID string) []activity.Record {
	records := make([]activity.Record, 0, len(dtos))
	for _, dto := range dtos {
		if rec, ok := m.RecordFromDTO(dto, userID); ok {
			records = append(records, rec)
		}
	}
	return records
}

// round2 rounds to two decimal places, the precision the mobile client
// displays.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
