package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() Record {
	return Record{
		UserID:    "u1",
		ID:        "12345",
		Kind:      KindRun,
		Distance:  10.5,
		Duration:  62.3,
		Elevation: 120,
		Date:      "2024-05-01T10:30:00Z",
	}
}

func TestRecord_Validate(t *testing.T) {
	assert.NoError(t, validRecord().Validate())
}

func TestRecord_Validate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr error
	}{
		{"missing user", func(r *Record) { r.UserID = "" }, ErrMissingUserID},
		{"missing id", func(r *Record) { r.ID = "" }, ErrMissingID},
		{"missing kind", func(r *Record) { r.Kind = "" }, ErrMissingKind},
		{"negative distance", func(r *Record) { r.Distance = -1 }, ErrNegativeDistance},
		{"negative duration", func(r *Record) { r.Duration = -0.1 }, ErrNegativeDuration},
		{"negative elevation", func(r *Record) { r.Elevation = -5 }, ErrNegativeElevation},
		{"bad date", func(r *Record) { r.Date = "last tuesday" }, ErrInvalidDate},
		{"empty date", func(r *Record) { r.Date = "" }, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			assert.ErrorIs(t, rec.Validate(), tt.wantErr)
		})
	}
}

func TestRecord_Validate_ZeroValuesAllowed(t *testing.T) {
	// Zero distance/duration/elevation is degenerate but legal; the
	// scoring function handles it without dividing by zero.
	rec := validRecord()
	rec.Distance = 0
	rec.Duration = 0
	rec.Elevation = 0
	assert.NoError(t, rec.Validate())
}

func TestRecord_StartedAt(t *testing.T) {
	rec := validRecord()
	got, err := rec.StartedAt()
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)))
}

func TestRecord_DocumentID(t *testing.T) {
	assert.Equal(t, "u1_12345", validRecord().DocumentID())
}

func TestKind_IsSupported(t *testing.T) {
	assert.True(t, KindRun.IsSupported())
	assert.True(t, KindWalk.IsSupported())
	assert.False(t, Kind("Ride").IsSupported())
	assert.False(t, Kind("").IsSupported())
}
