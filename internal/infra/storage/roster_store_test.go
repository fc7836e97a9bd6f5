package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jose-valero/war-roster-bot/internal/domain"
)

func warRoster(t *testing.T, msgID string, createdAt time.Time) *domain.Roster {
	t.Helper()
	v, ok := domain.VariantByTag("bizwar")
	require.True(t, ok)
	rec := domain.NewRoster(v, "chan-1", createdAt, nil)
	rec.MessageID = msgID
	return rec
}

func TestPutGetRoundTrip(t *testing.T) {
	s := NewRosterStore()
	defer s.Close()
	created := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

	require.NoError(t, s.Put(warRoster(t, "m1", created)))

	got, err := s.Get("m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", got.MessageID)
	assert.Equal(t, 1, s.Len())
}

func TestPutRejectsDuplicatesAndEmptyIDs(t *testing.T) {
	s := NewRosterStore()
	defer s.Close()
	created := time.Now()

	require.NoError(t, s.Put(warRoster(t, "m1", created)))
	assert.ErrorIs(t, s.Put(warRoster(t, "m1", created)), ErrDuplicateKey)
	assert.Error(t, s.Put(warRoster(t, "", created)))
}

func TestGetUnknownIsNotFound(t *testing.T) {
	s := NewRosterStore()
	defer s.Close()
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMutateReturnsPostMutationSnapshot(t *testing.T) {
	s := NewRosterStore()
	defer s.Close()
	require.NoError(t, s.Put(warRoster(t, "m1", time.Now())))

	snap, err := s.Mutate("m1", func(r *domain.Roster) {
		r.Join(domain.Member{ID: "u1", DisplayName: "alice"})
	})
	require.NoError(t, err)
	require.Len(t, snap.Main, 1)

	// the snapshot is detached from the live record
	snap.Main[0].DisplayName = "mutated"
	got, err := s.Get("m1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Main[0].DisplayName)

	_, err = s.Mutate("gone", func(r *domain.Roster) {})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepDropsClosedAfterGraceAndAncientRecords(t *testing.T) {
	s := NewRosterStore()
	defer s.Close()
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

	open := warRoster(t, "open", now.Add(-time.Hour))
	recent := warRoster(t, "recently-closed", now.Add(-2*time.Hour))
	recent.Close(now.Add(-time.Hour))
	stale := warRoster(t, "long-closed", now.Add(-10*time.Hour))
	stale.Close(now.Add(-7*time.Hour))
	ancient := warRoster(t, "ancient", now.Add(-72*time.Hour))

	for _, rec := range []*domain.Roster{open, recent, stale, ancient} {
		require.NoError(t, s.Put(rec))
	}

	dropped := s.Sweep(now, 6*time.Hour, 48*time.Hour)
	assert.Equal(t, 2, dropped)

	_, err := s.Get("open")
	assert.NoError(t, err)
	_, err = s.Get("recently-closed")
	assert.NoError(t, err)
	_, err = s.Get("long-closed")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("ancient")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepZeroKnobsDisableRules(t *testing.T) {
	s := NewRosterStore()
	defer s.Close()
	now := time.Now()

	old := warRoster(t, "old", now.Add(-1000*time.Hour))
	old.Close(now.Add(-999 * time.Hour))
	require.NoError(t, s.Put(old))

	assert.Equal(t, 0, s.Sweep(now, 0, 0))
	assert.Equal(t, 1, s.Len())
}
