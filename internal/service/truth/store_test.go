package truth

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/sentinel/internal/core"
	"github.com/sandevgo/sentinel/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct {
	err error
}

func (f failingRepo) LoadFactHistory(context.Context, string) ([]core.Fact, error) {
	return nil, f.err
}

func (f failingRepo) AppendFact(context.Context, core.Fact) error { return f.err }

func (f failingRepo) ListFacts(context.Context) ([]core.Fact, error) { return nil, f.err }

func newStore() *Store {
	return NewStore(memory.NewFactRepo())
}

func TestStore_WriteSameValueTwice(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	first, conflict, err := s.Write(ctx, "priority", "P1")
	require.NoError(t, err)
	assert.Nil(t, conflict)
	assert.Equal(t, 1, first.Version)

	second, conflict, err := s.Write(ctx, "priority", "P1")
	require.NoError(t, err)
	assert.Nil(t, conflict)
	assert.Equal(t, first, second)

	hist, err := s.GetHistory(ctx, "priority")
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestStore_WriteNormalizedValueIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	_, _, err := s.Write(ctx, "launch_date", "Friday")
	require.NoError(t, err)

	fact, conflict, err := s.Write(ctx, "launch_date", "  FRIDAY ")
	require.NoError(t, err)
	assert.Nil(t, conflict)
	assert.Equal(t, "Friday", fact.Value)
	assert.Equal(t, 1, fact.Version)
}

func TestStore_ConflictExample(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	v1, conflict, err := s.Write(ctx, "launch_date", "Friday")
	require.NoError(t, err)
	assert.Nil(t, conflict)
	assert.Equal(t, 1, v1.Version)

	v2, conflict, err := s.Write(ctx, "launch_date", "Monday")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, "launch_date", conflict.Key)
	assert.Equal(t, "Friday", conflict.OldValue)
	assert.Equal(t, "Monday", conflict.NewValue)
	assert.Equal(t, "Which is correct for launch_date: 'Friday' or 'Monday'?", conflict.Question)

	latest, err := s.GetLatest(ctx, "launch_date")
	require.NoError(t, err)
	assert.Equal(t, "Monday", latest.Value)
	assert.Equal(t, 2, latest.Version)
}

func TestStore_HistoryStrictlyIncreasing(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	values := []string{"a", "b", "b", "c", "A", "d"}
	for _, v := range values {
		_, _, err := s.Write(ctx, "k", v)
		require.NoError(t, err)
	}

	hist, err := s.GetHistory(ctx, "k")
	require.NoError(t, err)

	want := []string{"a", "b", "c", "A", "d"}
	require.Len(t, hist, len(want))
	for i, f := range hist {
		assert.Equal(t, i+1, f.Version)
		assert.Equal(t, want[i], f.Value)
	}
}

func TestStore_UnknownKey(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	_, err := s.GetLatest(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrKeyNotFound)

	hist, err := s.GetHistory(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, hist)
	assert.Empty(t, hist)
}

func TestStore_InvalidWrite(t *testing.T) {
	s := newStore()
	_, _, err := s.Write(context.Background(), " ", "x")
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	_, _, err = s.Write(context.Background(), "k", "")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestStore_StorageUnavailable(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("disk gone")
	s := NewStore(failingRepo{err: cause})

	_, err := s.GetLatest(ctx, "k")
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, core.ErrKeyNotFound)

	_, _, err = s.Write(ctx, "k", "v")
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)

	_, err = s.Latest(ctx)
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
}

func TestStore_LatestAndTimeline(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	for _, w := range [][2]string{{"scope", "CHANGED"}, {"launch_date", "Friday"}, {"launch_date", "Monday"}} {
		_, _, err := s.Write(ctx, w[0], w[1])
		require.NoError(t, err)
	}

	latest, err := s.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "launch_date", latest[0].Key)
	assert.Equal(t, "Monday", latest[0].Value)
	assert.Equal(t, "scope", latest[1].Key)

	timeline, err := s.Timeline(ctx)
	require.NoError(t, err)
	assert.Len(t, timeline["launch_date"], 2)
	assert.Len(t, timeline["scope"], 1)
}

func TestDetector_Check(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	d := NewDetector(s)

	conflict, err := d.Check(ctx, "launch_date", "Friday")
	require.NoError(t, err)
	assert.Nil(t, conflict, "unknown key never conflicts")

	_, _, err = s.Write(ctx, "launch_date", "Friday")
	require.NoError(t, err)

	conflict, err = d.Check(ctx, "launch_date", "friday")
	require.NoError(t, err)
	assert.Nil(t, conflict)

	conflict, err = d.Check(ctx, "launch_date", "Monday")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "Friday", conflict.OldValue)

	hist, err := s.GetHistory(ctx, "launch_date")
	require.NoError(t, err)
	assert.Len(t, hist, 1, "check never writes")
}

func TestDetector_PropagatesStorageErrors(t *testing.T) {
	d := NewDetector(NewStore(failingRepo{err: errors.New("boom")}))
	_, err := d.Check(context.Background(), "k", "v")
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "end of week", Normalize("  End   of\tWEEK "))
	assert.True(t, Same("Friday", "friday "))
	assert.False(t, Same("Friday", "Fri day"))
}

func TestStore_PrepareDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	_, _, err := s.Write(ctx, "launch_date", "Friday")
	require.NoError(t, err)

	fact, conflict, fresh, err := s.Prepare(ctx, "launch_date", "Monday")
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, 2, fact.Version)
	require.NotNil(t, conflict)
	assert.Equal(t, "Friday", conflict.OldValue)

	hist, err := s.GetHistory(ctx, "launch_date")
	require.NoError(t, err)
	assert.Len(t, hist, 1, "prepare leaves history alone")

	require.NoError(t, s.Append(ctx, fact))
	latest, err := s.GetLatest(ctx, "launch_date")
	require.NoError(t, err)
	assert.Equal(t, "Monday", latest.Value)
}

func TestStore_PrepareSameValueIsNotFresh(t *testing.T) {
	ctx := context.Background()
	s := newStore()

	written, _, err := s.Write(ctx, "scope", "CHANGED")
	require.NoError(t, err)

	fact, conflict, fresh, err := s.Prepare(ctx, "scope", " changed ")
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Nil(t, conflict)
	assert.Equal(t, written, fact)
}

func TestDetector_AgreesWithWrite(t *testing.T) {
	ctx := context.Background()
	s := newStore()
	d := NewDetector(s)

	_, _, err := s.Write(ctx, "priority", "P1")
	require.NoError(t, err)

	checked, err := d.Check(ctx, "priority", "P0")
	require.NoError(t, err)
	_, written, err := s.Write(ctx, "priority", "P0")
	require.NoError(t, err)
	assert.Equal(t, checked, written)
}
