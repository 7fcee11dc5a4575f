package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullRunToVictory drives an entire seven-floor run to completion by
// forcing every revealed room to a harmless, prompt-free card so the
// floor/boss-mode/attunement machinery can be exercised end to end without
// hand-resolving every suit's prompt surface.
func TestFullRunToVictory(t *testing.T) {
	s := newStartedRun(t, 1, 7)

	steps := 0
	for s.Phase != PhaseRunVictory {
		steps++
		require.Less(t, steps, 200, "run should reach victory well within 200 driven steps")

		switch s.Phase {
		case PhaseFloorStart:
			s = selectNoAttunement(t, s)
		case PhaseRoomChoice:
			s = engageRoom(t, s)
			for i := range s.Room.Slots {
				s.Room.Slots[i] = CardIDOf(SuitPentacles, Rank2)
				s.Room.Orientations[i] = Upright
			}
			// A room resolves exactly three of its four slots; the fourth
			// carries forward into the next room, so only three commits are
			// driven here.
			for i := 0; i < 3; i++ {
				var err error
				s, _, err = ApplyAction(s, Action{Type: ActionCommitResolve, SlotIndex: i})
				require.NoError(t, err)
			}
		default:
			t.Fatalf("unexpected phase %q mid-run", s.Phase)
		}
	}

	assert.Equal(t, PhaseRunVictory, s.Phase)
	assert.Len(t, s.Majors.Claimed, 7)
	assert.Greater(t, s.Player.Gold, 0, "the non-boss Pentacles rooms should have left a net gold gain")

	_, err := LegalActions(s)
	require.NoError(t, err)
	actions, err := LegalActions(s)
	require.NoError(t, err)
	assert.Nil(t, actions, "a terminal phase offers no further actions")
}

// TestFullRunToDefeatViaReplay replays a short scripted action log into an
// engaged room, then forces lethal reversed Swords cards into that room and
// applies one COMMIT_RESOLVE directly, confirming it ends in RUN_DEFEAT.
func TestFullRunToDefeatViaReplay(t *testing.T) {
	loadTestContent(t)

	log := ActionLog{Actions: []Action{
		{Type: ActionStartRun, Seed: 3, RunLengthTarget: 7},
		{Type: ActionSelectAttunement},
		{Type: ActionChooseEngage},
	}}

	final, hashes, err := ReplayLog(log)
	require.NoError(t, err)
	require.Equal(t, PhasePreResolveWindow, final.Phase)
	require.Len(t, hashes, 3)

	final.Player.HP = 1
	for i := range final.Room.Slots {
		final.Room.Slots[i] = CardIDOf(SuitSwords, Rank9)
		final.Room.Orientations[i] = Reversed
	}

	defeated, events, err := ApplyAction(final, Action{Type: ActionCommitResolve, SlotIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, PhaseRunDefeat, defeated.Phase)

	found := false
	for _, e := range events {
		if e.Type == EventRunDefeat {
			found = true
		}
	}
	assert.True(t, found)
}
