package engine

import "github.com/google/uuid"

// EngineVersion is the engine build identifier carried into fatal-error
// diagnostics and into a run's Debug sidecar for log correlation. It is
// bumped whenever a change affects replay determinism.
const EngineVersion = "1.0.0"

// Starting resources, locked by the regression fixtures.
const (
	startingHP    = 20
	startingGold  = 0
	startingFate  = 1
	startingMaxHP = 20
)

// bossRoomsRequiredForFloor applies the floor-number thresholds that widen
// the boss-room requirement as a run gets deeper.
func bossRoomsRequiredForFloor(floorNumber int) int {
	switch {
	case floorNumber <= 7:
		return 2
	case floorNumber <= 14:
		return 3
	default:
		return 4
	}
}

// CreateRun returns the not-yet-initialized RUN_INIT state. The run's seed
// and victory target are not supplied here: per the action-log contract, a
// conforming client applies a leading ActionStartRun through ApplyAction to
// perform the actual setup, so replay from an identical log byte-for-byte
// reproduces every RNG draw CreateRun would otherwise have made itself.
func CreateRun() RunState {
	return RunState{Phase: PhaseRunInit, Debug: DebugPayload{RunID: uuid.New()}}
}

// startRun performs the one-time setup driven by an ActionStartRun: seeds
// the RNG, assigns every minor card's starting physical orientation exactly
// once for the life of the run, shuffles the Major deck, and enters the
// first floor.
func startRun(s RunState, a Action) (RunState, []Event, error) {
	if s.Phase != PhaseRunInit {
		return s, nil, illegalf("run has already been started")
	}
	content, err := requireContent()
	if err != nil {
		return s, nil, err
	}
	if a.RunLengthTarget != 7 && a.RunLengthTarget != 14 && a.RunLengthTarget != 21 {
		return s, nil, illegalf("run_length_target must be 7, 14, or 21")
	}

	rng := NewRNG(a.Seed)

	orientations := make(map[CardID]Orientation, len(MinorDeckIDs))
	for _, id := range MinorDeckIDs {
		if rng.Next()&1 == 0 {
			orientations[id] = Upright
		} else {
			orientations[id] = Reversed
		}
	}

	majorDeck := append([]MajorID(nil), content.order...)
	rng.ShuffleMajors(majorDeck)

	s.Seed = a.Seed
	s.RunLengthTarget = a.RunLengthTarget
	s.RNG = rng
	s.ContentVersion = content.version
	s.Orientations = orientations
	s.Majors = MajorsState{Deck: majorDeck}
	s.Player = Player{HP: startingHP, MaxHP: startingMaxHP, Gold: startingGold, Fate: startingFate}

	s, events := enterFloorStart(s, 1)
	return s, events, nil
}

// rebuildMinorDeck rebuilds a floor's draw pile from all 56 minor ids minus
// whatever is currently equipped (weapon/armor/spell), then shuffles it
// with the run's single RNG stream.
func rebuildMinorDeck(s RunState) []CardID {
	excluded := map[CardID]bool{}
	if s.Player.Weapon != nil {
		excluded[s.Player.Weapon.CardID] = true
	}
	if s.Player.Armor != nil {
		excluded[s.Player.Armor.CardID] = true
	}
	if s.Player.Spell != nil {
		excluded[s.Player.Spell.CardID] = true
	}

	deck := make([]CardID, 0, len(MinorDeckIDs))
	for _, id := range MinorDeckIDs {
		if !excluded[id] {
			deck = append(deck, id)
		}
	}
	s.RNG.Shuffle(deck)
	return deck
}
