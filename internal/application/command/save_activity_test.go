package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jogr-app/jogr-backend/internal/domain/activity"
	"github.com/jogr-app/jogr-backend/internal/domain/shared"
)

type fakeActivityRepo struct {
	saved   []activity.Record
	leagues [][]string
	err     error
}

func (f *fakeActivityRepo) Save(ctx context.Context, rec activity.Record, leagueIDs []string) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, rec)
	f.leagues = append(f.leagues, leagueIDs)
	return nil
}

func (f *fakeActivityRepo) ByUser(ctx context.Context, userID string) ([]activity.Record, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeActivityRepo) ByLeague(ctx context.Context, leagueID string) ([]activity.Record, error) {
	return nil, errors.New("not implemented")
}

type fakeInvalidator struct {
	invalidated []string
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, leagueID string) {
	f.invalidated = append(f.invalidated, leagueID)
}

func validRecord() activity.Record {
	return activity.Record{
		UserID:    "u1",
		ID:        "a1",
		Kind:      activity.KindRun,
		Distance:  10.5,
		Duration:  62,
		Elevation: 120,
		Date:      "2024-05-01T10:00:00Z",
	}
}

func TestSaveActivity_PersistsAndInvalidates(t *testing.T) {
	repo := &fakeActivityRepo{}
	inv := &fakeInvalidator{}
	h := NewSaveActivityHandler(repo, inv, nil)

	err := h.Handle(context.Background(), SaveActivityCommand{
		Record:    validRecord(),
		LeagueIDs: []string{"l1", "l2"},
	})
	require.NoError(t, err)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, []string{"l1", "l2"}, repo.leagues[0])
	assert.Equal(t, []string{"l1", "l2"}, inv.invalidated)
}

func TestSaveActivity_SkipsEmptyLeagueIDs(t *testing.T) {
	repo := &fakeActivityRepo{}
	inv := &fakeInvalidator{}
	h := NewSaveActivityHandler(repo, inv, nil)

	err := h.Handle(context.Background(), SaveActivityCommand{
		Record:    validRecord(),
		LeagueIDs: []string{"", "l1"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"l1"}, inv.invalidated)
}

func TestSaveActivity_RejectsInvalidRecord(t *testing.T) {
	repo := &fakeActivityRepo{}
	h := NewSaveActivityHandler(repo, nil, nil)

	rec := validRecord()
	rec.UserID = ""
	err := h.Handle(context.Background(), SaveActivityCommand{Record: rec})
	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.saved)
}

func TestSaveActivity_NoInvalidationOnStoreFailure(t *testing.T) {
	repo := &fakeActivityRepo{err: errors.New("store down")}
	inv := &fakeInvalidator{}
	h := NewSaveActivityHandler(repo, inv, nil)

	err := h.Handle(context.Background(), SaveActivityCommand{
		Record:    validRecord(),
		LeagueIDs: []string{"l1"},
	})
	require.Error(t, err)
	assert.Empty(t, inv.invalidated)
}
