package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoster(t *testing.T, tag string) *Roster {
	t.Helper()
	v, ok := VariantByTag(tag)
	require.True(t, ok, "unknown variant %q", tag)
	return NewRoster(v, "chan-1", time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC), nil)
}

func member(n int) Member {
	return Member{ID: fmt.Sprintf("u%03d", n), DisplayName: fmt.Sprintf("user%d", n)}
}

func TestInformalFillsToTenThenFull(t *testing.T) {
	r := newTestRoster(t, "informal")

	for i := 1; i <= 10; i++ {
		assert.Equal(t, JoinedMain, r.Join(member(i)), "join #%d", i)
	}
	assert.Equal(t, Full, r.Join(member(11)))
	assert.Len(t, r.Main, 10)
	assert.Empty(t, r.Subs, "informal rosters have no substitute tier")
}

func TestInformalLeaveShiftsLaterMembersUp(t *testing.T) {
	r := newTestRoster(t, "informal")
	for i := 1; i <= 10; i++ {
		r.Join(member(i))
	}

	assert.Equal(t, Left, r.Leave(member(3).ID, true))
	require.Len(t, r.Main, 9)
	// members 4..10 each moved up one position
	assert.Equal(t, member(4).ID, r.Main[2].ID)
	assert.Equal(t, member(10).ID, r.Main[8].ID)
}

func TestWarOverflowsIntoSubsThenFull(t *testing.T) {
	r := newTestRoster(t, "bizwar")

	for i := 1; i <= 25; i++ {
		assert.Equal(t, JoinedMain, r.Join(member(i)), "main join #%d", i)
	}
	for i := 26; i <= 35; i++ {
		assert.Equal(t, JoinedSub, r.Join(member(i)), "sub join #%d", i)
	}
	assert.Equal(t, Full, r.Join(member(36)))
	assert.Len(t, r.Main, 25)
	assert.Len(t, r.Subs, 10)
}

func TestJoinTwiceIsRejected(t *testing.T) {
	r := newTestRoster(t, "bizwar")

	require.Equal(t, JoinedMain, r.Join(member(1)))
	before := r.Clone()

	assert.Equal(t, AlreadyJoined, r.Join(member(1)))
	assert.Equal(t, before.Main, r.Main)
	assert.Equal(t, before.Subs, r.Subs)
}

func TestJoinThenLeaveRestoresPriorState(t *testing.T) {
	r := newTestRoster(t, "rpticket")
	for i := 1; i <= 5; i++ {
		r.Join(member(i))
	}
	before := r.Clone()

	require.Equal(t, JoinedMain, r.Join(member(99)))
	require.Equal(t, Left, r.Leave(member(99).ID, true))

	assert.Equal(t, before.Main, r.Main)
	assert.Equal(t, before.Subs, r.Subs)
}

func TestLeaveWhenAbsent(t *testing.T) {
	r := newTestRoster(t, "ratings")
	r.Join(member(1))
	assert.Equal(t, NotOnRoster, r.Leave("stranger", true))
	assert.Len(t, r.Main, 1)
}

func TestLeavePromotesFirstSub(t *testing.T) {
	r := newTestRoster(t, "foundry")
	for i := 1; i <= 27; i++ {
		r.Join(member(i))
	}
	require.Len(t, r.Subs, 2)

	assert.Equal(t, Left, r.Leave(member(10).ID, true))
	assert.Len(t, r.Main, 25, "promotion keeps the main roster full")
	assert.Equal(t, member(26).ID, r.Main[24].ID, "first sub takes the tail slot")
	require.Len(t, r.Subs, 1)
	assert.Equal(t, member(27).ID, r.Subs[0].ID)
}

func TestLeaveWithoutPromotionLeavesGap(t *testing.T) {
	r := newTestRoster(t, "foundry")
	for i := 1; i <= 27; i++ {
		r.Join(member(i))
	}

	assert.Equal(t, Left, r.Leave(member(10).ID, false))
	assert.Len(t, r.Main, 24)
	assert.Len(t, r.Subs, 2)
}

func TestSubsImplyFullMainUnderChurn(t *testing.T) {
	r := newTestRoster(t, "vineyard")

	// Alternate joins and leaves and check the invariant after each step.
	next := 1
	join := func() {
		r.Join(member(next))
		next++
	}
	for i := 0; i < 30; i++ {
		join()
	}
	steps := []func(){
		func() { r.Leave(member(3).ID, true) },
		join,
		func() { r.Leave(member(28).ID, true) },
		join,
		func() { r.Leave(member(1).ID, true) },
		func() { r.Leave(member(30).ID, true) },
	}
	for i, step := range steps {
		step()
		assert.LessOrEqual(t, len(r.Main), 25, "step %d", i)
		assert.LessOrEqual(t, len(r.Subs), 10, "step %d", i)
		if len(r.Subs) > 0 {
			assert.Len(t, r.Main, 25, "step %d: subs present but main not full", i)
		}
		seen := map[string]bool{}
		for _, m := range append(append([]Member{}, r.Main...), r.Subs...) {
			assert.False(t, seen[m.ID], "step %d: %s appears twice", i, m.ID)
			seen[m.ID] = true
		}
	}
}

func TestClosedIsTerminal(t *testing.T) {
	r := newTestRoster(t, "bizwar")
	r.Join(member(1))
	closedAt := time.Date(2025, 3, 10, 19, 15, 0, 0, time.UTC)
	r.Close(closedAt)

	assert.Equal(t, Closed, r.Join(member(2)))
	assert.Equal(t, Closed, r.Leave(member(1).ID, true))
	assert.Len(t, r.Main, 1)

	// a second Close keeps the original timestamp
	r.Close(closedAt.Add(time.Hour))
	require.NotNil(t, r.ClosedAt)
	assert.True(t, r.ClosedAt.Equal(closedAt))
}

func TestCloneIsDeep(t *testing.T) {
	r := newTestRoster(t, "informal")
	r.Join(member(1))
	snap := r.Clone()

	r.Join(member(2))
	assert.Len(t, snap.Main, 1, "snapshot must not see later joins")
}
