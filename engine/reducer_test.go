package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRunRejectsBadRunLengthTarget(t *testing.T) {
	loadTestContent(t)
	s := CreateRun()
	_, _, err := ApplyAction(s, Action{Type: ActionStartRun, Seed: 1, RunLengthTarget: 9})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestStartRunEntersFloorStart(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	assert.Equal(t, PhaseFloorStart, s.Phase)
	assert.Equal(t, uint32(1), s.Seed)
	assert.Equal(t, 7, s.RunLengthTarget)
	assert.Len(t, s.Orientations, 56)
	assert.Equal(t, startingHP, s.Player.HP)
	assert.Equal(t, startingFate, s.Player.Fate)
}

func TestFullRoomRevealAndEngageFlow(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	s = selectNoAttunement(t, s)
	assert.Equal(t, PhaseRoomChoice, s.Phase)

	for i, id := range s.Room.Slots {
		assert.NotEmpty(t, id, "slot %d should be dealt a card", i)
	}

	s = engageRoom(t, s)
	assert.Equal(t, PhasePreResolveWindow, s.Phase)
	assert.True(t, s.Room.IsEngaged)
}

func TestChooseFleeBottomsCardsAndForbidsConsecutiveFlee(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	s = selectNoAttunement(t, s)

	before := len(s.Floor.Deck)
	s, _, err := ApplyAction(s, Action{Type: ActionChooseFlee})
	require.NoError(t, err)
	assert.True(t, s.LastRoomWasFlee)
	// 4 cards bottomed to the deck, then 4 freshly dealt off the front: net
	// deck length is unchanged, but its composition has shifted.
	assert.Equal(t, before, len(s.Floor.Deck))

	_, _, err = ApplyAction(s, Action{Type: ActionChooseFlee})
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestLeapOfFaithFlipsOrientationOncePerRoom(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	s = selectNoAttunement(t, s)
	s = engageRoom(t, s)

	before := effectiveOrientation(s, 0)
	s, events, err := ApplyAction(s, Action{Type: ActionUseLeapOfFaith, SlotIndex: 0})
	require.NoError(t, err)
	after := effectiveOrientation(s, 0)
	assert.NotEqual(t, before, after)
	assert.True(t, s.Room.LeapUsedThisRoom)

	found := false
	for _, e := range events {
		if e.Type == EventOrientationFlipped {
			found = true
		}
	}
	assert.True(t, found, "expected an ORIENTATION_FLIPPED event")

	_, _, err = ApplyAction(s, Action{Type: ActionUseLeapOfFaith, SlotIndex: 1})
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestCommitResolveRejectsUnoccupiedOrResolvedSlot(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	s = selectNoAttunement(t, s)
	s = engageRoom(t, s)

	_, _, err := ApplyAction(s, Action{Type: ActionCommitResolve, SlotIndex: 99})
	assert.ErrorIs(t, err, ErrIllegalAction)

	resolved := s.Clone()
	resolved.Room.ResolvedMask[0] = true
	_, _, err = ApplyAction(resolved, Action{Type: ActionCommitResolve, SlotIndex: 0})
	assert.ErrorIs(t, err, ErrIllegalAction)

	unoccupied := s.Clone()
	unoccupied.Room.Slots[1] = ""
	_, _, err = ApplyAction(unoccupied, Action{Type: ActionCommitResolve, SlotIndex: 1})
	assert.ErrorIs(t, err, ErrIllegalAction)
}

func TestOrderConstraintLeftToRightRestrictsCommit(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	s = selectNoAttunement(t, s)
	s = engageRoom(t, s)
	s.Floor.Rules.OrderConstraint = OrderConstraintLeftToRight

	// Force every slot to be a harmless Pentacles numbered card so
	// resolution never parks on a prompt while we probe ordering.
	for i := range s.Room.Slots {
		s.Room.Slots[i] = CardIDOf(SuitPentacles, Rank2)
		s.Room.Orientations[i] = Upright
	}

	_, _, err := ApplyAction(s, Action{Type: ActionCommitResolve, SlotIndex: 1})
	assert.ErrorIs(t, err, ErrIllegalAction)

	s2, _, err := ApplyAction(s, Action{Type: ActionCommitResolve, SlotIndex: 0})
	require.NoError(t, err)
	assert.True(t, s2.Room.ResolvedMask[0])
}

func TestRunEndsInDefeatWhenHPReachesZero(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	s = selectNoAttunement(t, s)
	s = engageRoom(t, s)

	s.Player.HP = 1
	for i := range s.Room.Slots {
		s.Room.Slots[i] = CardIDOf(SuitSwords, Rank9)
		s.Room.Orientations[i] = Reversed // no weapon equipped: direct damage
	}

	s, events, err := ApplyAction(s, Action{Type: ActionCommitResolve, SlotIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, PhaseRunDefeat, s.Phase)

	found := false
	for _, e := range events {
		if e.Type == EventRunDefeat {
			found = true
		}
	}
	assert.True(t, found)

	_, _, err = ApplyAction(s, Action{Type: ActionCommitResolve, SlotIndex: 1})
	assert.ErrorIs(t, err, ErrIllegalAction)
}
