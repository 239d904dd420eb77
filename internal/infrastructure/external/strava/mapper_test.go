package strava

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
)

func TestMapper_RecordFromDTO(t *testing.T) {
	dto := ActivityDTO{
		ID:                 123456789,
		Type:               "Run",
		Distance:           10550, // meters
		MovingTime:         3745,  // seconds
		TotalElevationGain: 120.456,
		AverageSpeed:       2.817,
		StartDate:          "2024-05-01T10:30:00Z",
		Map:                MapDTO{SummaryPolyline: "abc123"},
	}

	mapper := NewMapper()
	rec, ok := mapper.RecordFromDTO(dto, "u1")
	require.True(t, ok)

	assert.Equal(t, "u1", rec.UserID)
	assert.Equal(t, "123456789", rec.ID)
	assert.Equal(t, activity.KindRun, rec.Kind)
	assert.InDelta(t, 10.55, rec.Distance, 0.001)
	assert.InDelta(t, 62.42, rec.Duration, 0.001)
	assert.InDelta(t, 120.46, rec.Elevation, 0.001)
	assert.Equal(t, "2024-05-01T10:30:00Z", rec.Date)
	assert.Equal(t, "abc123", rec.SummaryPolyline)
	require.NotNil(t, rec.AvgSpeed)
	assert.InDelta(t, 2.817, *rec.AvgSpeed, 0.001)

	assert.NoError(t, rec.Validate())
}

func TestMapper_RecordFromDTO_UnsupportedType(t *testing.T) {
	mapper := NewMapper()
	for _, kind := range []string{"Ride", "Swim", "WeightTraining", ""} {
		_, ok := mapper.RecordFromDTO(ActivityDTO{ID: 1, Type: kind}, "u1")
		assert.False(t, ok, "type %q", kind)
	}
}

func TestMapper_RecordsFromDTOs_FiltersAndPreservesOrder(t *testing.T) {
	dtos := []ActivityDTO{
		{ID: 1, Type: "Run", StartDate: "2024-05-01T10:00:00Z"},
		{ID: 2, Type: "Ride", StartDate: "2024-05-02T10:00:00Z"},
		{ID: 3, Type: "Walk", StartDate: "2024-05-03T10:00:00Z"},
	}

	records := NewMapper().RecordsFromDTOs(dtos, "u1")
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "3", records[1].ID)
}

func TestMapper_NoAvgSpeedOmitted(t *testing.T) {
	rec, ok := NewMapper().RecordFromDTO(ActivityDTO{ID: 1, Type: "Walk"}, "u1")
	require.True(t, ok)
	assert.Nil(t, rec.AvgSpeed)
}
