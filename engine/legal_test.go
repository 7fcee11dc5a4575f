package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionTypes(actions []Action) []ActionType {
	out := make([]ActionType, len(actions))
	for i, a := range actions {
		out[i] = a.Type
	}
	return out
}

func TestLegalActionsAtRunInit(t *testing.T) {
	loadTestContent(t)
	s := CreateRun()
	actions, err := LegalActions(s)
	require.NoError(t, err)
	assert.Equal(t, []Action{{Type: ActionStartRun}}, actions)
}

func TestLegalActionsAtFloorStartEnumeratesAttunementSubsets(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	actions, err := LegalActions(s)
	require.NoError(t, err)
	require.NotEmpty(t, actions)
	assert.Equal(t, ActionSelectAttunement, actions[0].Type)
	assert.Empty(t, actions[0].AttunementSet, "the empty subset is always first")
}

func TestLegalActionsAtRoomChoiceOmitsFleeAfterFlee(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	s = selectNoAttunement(t, s)

	actions, err := LegalActions(s)
	require.NoError(t, err)
	assert.Equal(t, []ActionType{ActionChooseEngage, ActionChooseFlee}, actionTypes(actions))

	s, _, err = ApplyAction(s, Action{Type: ActionChooseFlee})
	require.NoError(t, err)

	actions, err = LegalActions(s)
	require.NoError(t, err)
	assert.Equal(t, []ActionType{ActionChooseEngage}, actionTypes(actions))
}

func TestLegalActionsNoneAtTerminalPhase(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	s = selectNoAttunement(t, s)
	s = engageRoom(t, s)
	s.Phase = PhaseRunVictory

	actions, err := LegalActions(s)
	require.NoError(t, err)
	assert.Nil(t, actions)
}

func TestLegalCommitSlotsUnderSuitOrder(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	s = selectNoAttunement(t, s)
	s = engageRoom(t, s)
	s.Floor.Rules.OrderConstraint = OrderConstraintSuitOrder

	s.Room.Slots[0] = CardIDOf(SuitWands, Rank5)
	s.Room.Slots[1] = CardIDOf(SuitCups, Rank5)
	s.Room.Slots[2] = CardIDOf(SuitSwords, Rank5)
	s.Room.Slots[3] = CardIDOf(SuitPentacles, Rank5)

	slots := legalCommitSlots(s)
	assert.Equal(t, []int{1}, slots, "cups sorts first in SUIT_ORDER")
}

func TestLegalAceChoiceActionsSwordsIncludesCheatWeaponAlways(t *testing.T) {
	s := engagedRoomWithAllSlots(t, CardIDOf(SuitSwords, RankAce), Upright)
	s, _, err := ApplyAction(s, Action{Type: ActionCommitResolve, SlotIndex: 0})
	require.NoError(t, err)
	require.NotNil(t, s.Pending)

	actions, err := LegalActions(s)
	require.NoError(t, err)
	require.NotEmpty(t, actions)
	assert.Equal(t, "cheat_weapon_free", actions[0].OptionKey)
}

func TestLegalPreResolveActionsRespectsLeapUsedAndFateBalance(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	s = selectNoAttunement(t, s)
	s = engageRoom(t, s)
	s.Player.Fate = 0

	actions, err := LegalActions(s)
	require.NoError(t, err)
	for _, a := range actions {
		assert.NotEqual(t, ActionSpendFateReroll, a.Type, "no fate should mean no fate-spend actions")
		assert.NotEqual(t, ActionSpendFateCleanse, a.Type)
	}

	s.Room.LeapUsedThisRoom = true
	actions, err = LegalActions(s)
	require.NoError(t, err)
	for _, a := range actions {
		assert.NotEqual(t, ActionUseLeapOfFaith, a.Type)
	}
}
