package engine

import "fmt"

// enterFloorStart begins floorNumber: it resets floor-scoped rules, draws
// the floor's active Major from the pre-shuffled major_deck, rebuilds the
// minor deck, and fires any FLOOR_START Major shadow still attuned from the
// previous floor — attunement is re-chosen via SELECT_ATTUNEMENT once per
// floor, but carries its prior value into this trigger until then.
func enterFloorStart(s RunState, floorNumber int) (RunState, []Event) {
	var activeMajor MajorID
	deck := s.Majors.Deck
	if len(deck) > 0 {
		activeMajor = deck[0]
		deck = deck[1:]
	}
	s.Majors.Deck = deck
	s.Majors.SpentThisFloor = nil

	s.Floor = Floor{
		Number:        floorNumber,
		ActiveMajorID: activeMajor,
		Rules: FloorRules{
			WeaponRestrictionMode: WeaponRestrictionDefault,
			OrderConstraint:       OrderConstraintNone,
		},
	}
	s.Floor.Deck = rebuildMinorDeck(s)
	s.Phase = PhaseFloorStart

	events, shadowEvents := []Event{}, []Event(nil)
	s, shadowEvents = fireMajorTrigger(s, TriggerFloorStart)
	events = append(events, shadowEvents...)
	return s, events
}

// attunementSubsets enumerates, in the locked order every conforming
// implementation must reproduce byte-for-byte, every subset of claimed of
// size 0..min(3, len(claimed)): the empty set, then singletons in claimed
// order, then pairs in lexicographic index order, then triples.
func attunementSubsets(claimed []MajorID) [][]MajorID {
	n := len(claimed)
	max := 3
	if n < max {
		max = n
	}

	out := [][]MajorID{{}}
	for size := 1; size <= max; size++ {
		out = append(out, combinationsOf(claimed, size)...)
	}
	return out
}

// combinationsOf returns every size-length subset of items, in ascending
// lexicographic index order.
func combinationsOf(items []MajorID, size int) [][]MajorID {
	var out [][]MajorID
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	n := len(items)
	for {
		combo := make([]MajorID, size)
		for i, x := range idx {
			combo[i] = items[x]
		}
		out = append(out, combo)

		i := size - 1
		for i >= 0 && idx[i] == n-size+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}

func isValidAttunementSubset(claimed, chosen []MajorID) bool {
	max := 3
	if len(claimed) < max {
		max = len(claimed)
	}
	if len(chosen) > max {
		return false
	}
	seen := map[MajorID]bool{}
	for _, m := range chosen {
		if seen[m] || !containsMajor(claimed, m) {
			return false
		}
		seen[m] = true
	}
	return true
}

// revealRoom deals four fresh cards from the floor's active deck (the minor
// deck normally, the boss deck once boss_mode is active) into a fresh Room
// with no carried slot, then fires every ROOM_REVEALED Major shadow
// trigger. This is the reveal used for a floor's first room and for any
// reveal following a flee, neither of which carries a card forward.
func revealRoom(s RunState) (RunState, []Event, error) {
	return dealRoom(s, "", Upright)
}

// revealRoomWithCarry deals a room where slot 0 holds the card carried over
// from the room just ended (per §4.5, a room resolves exactly three of its
// four slots and carries the fourth into the next one) and the remaining
// three slots are dealt fresh from the active deck.
func revealRoomWithCarry(s RunState, carriedID CardID, carriedOrientation Orientation) (RunState, []Event, error) {
	return dealRoom(s, carriedID, carriedOrientation)
}

// dealRoom builds the next Room. With a non-empty carriedID it occupies
// slot 0 with that card (marked via Room.CarriedIndex) and draws the
// remaining three slots from the active deck; with an empty carriedID it
// draws all four slots fresh.
func dealRoom(s RunState, carriedID CardID, carriedOrientation Orientation) (RunState, []Event, error) {
	deck := &s.Floor.Deck
	if s.Floor.BossMode {
		deck = &s.Floor.BossDeck
	}

	need := 4
	if carriedID != "" {
		need = 3
	}
	if len(*deck) < need {
		return s, nil, fmt.Errorf("active deck holds %d cards, %d needed: %w", len(*deck), need, ErrDeckExhausted)
	}

	var room Room
	start := 0
	if carriedID != "" {
		room.Slots[0] = carriedID
		room.Orientations[0] = carriedOrientation
		carriedIdx := 0
		room.CarriedIndex = &carriedIdx
		start = 1
	}
	for i := start; i < 4; i++ {
		id := (*deck)[0]
		*deck = (*deck)[1:]
		room.Slots[i] = id
		room.Orientations[i] = s.Orientations[id]
	}

	s.Room = room
	s.Phase = PhaseRoomReveal

	events := make([]Event, 0, 4)
	for i, id := range room.Slots {
		events = append(events, Event{Type: EventRoomRevealed, SlotIndex: i, CardID: id, Orientation: room.Orientations[i]})
	}

	var shadowEvents []Event
	s, shadowEvents = fireMajorTrigger(s, TriggerRoomRevealed)
	events = append(events, shadowEvents...)

	s.Phase = PhaseRoomChoice
	return s, events, nil
}

// fireMajorTrigger invokes every attuned Major's shadow effect whose
// Trigger matches t.
func fireMajorTrigger(s RunState, t Trigger) (RunState, []Event) {
	content, err := requireContent()
	if err != nil {
		return s, nil
	}
	var events []Event
	for _, major := range s.Majors.Attuned {
		def, ok := content.majors[major]
		if !ok || def.Shadow.Trigger != t {
			continue
		}
		var effectEvents []Event
		s, effectEvents, _ = evalEffect(s, def.Shadow.Effect, major, false, nil)
		events = append(events, Event{Type: EventMajorShadowFired, MajorID: major})
		events = append(events, effectEvents...)
		if s.Pending != nil {
			// A shadow effect parked on a prompt; remaining attuned Majors'
			// FLOOR_START/ROOM_REVEALED triggers resume firing once it's
			// resolved is out of scope for this pass and is treated as a
			// content-authoring constraint: at most one attuned Major's
			// shadow may require player input per trigger.
			break
		}
	}
	return s, events
}

// roomReachedResolveLimit reports whether three of room's four occupied
// slots have resolved — the point at which, per §4.5, the room ends and
// its fourth slot carries forward into the next room.
func roomReachedResolveLimit(room Room) bool {
	n := 0
	for i, id := range room.Slots {
		if id != "" && room.ResolvedMask[i] {
			n++
		}
	}
	return n >= 3
}

// remainingCarryCard returns the one room slot left unresolved once
// roomReachedResolveLimit holds, plus its current orientation. A room
// always starts with exactly four occupied slots, so this is well-defined
// whenever it's called from endRoom.
func remainingCarryCard(room Room) (CardID, Orientation, bool) {
	for i, id := range room.Slots {
		if id != "" && !room.ResolvedMask[i] {
			return id, room.Orientations[i], true
		}
	}
	return "", Upright, false
}

// endRoom is called once a room has resolved three of its four slots. It
// carries the fourth slot's card forward, performs boss-mode bookkeeping,
// and advances to the next room, the next floor, or a terminal run phase.
func endRoom(s RunState) (RunState, []Event) {
	var events []Event

	carriedID, carriedOrientation, hasCarry := remainingCarryCard(s.Room)

	if s.Room.IsEngaged {
		s.Floor.EngagedRoomsCompleted++
	}

	if !s.Floor.BossMode && s.Floor.EngagedRoomsCompleted >= 6 {
		s.Floor.BossMode = true
		s.Floor.BossDeck = append([]CardID(nil), s.Floor.Discard...)
		s.RNG.Shuffle(s.Floor.BossDeck)
		s.Floor.BossRoomsRequired = bossRoomsRequiredForFloor(s.Floor.Number)
		s.Floor.BossRoomsCompleted = 0
		events = append(events, Event{Type: EventBossModeEntered, MajorID: s.Floor.ActiveMajorID})
	} else if s.Floor.BossMode && s.Room.IsEngaged {
		s.Floor.BossRoomsCompleted++
	}

	if s.Floor.BossMode && s.Floor.BossRoomsCompleted >= s.Floor.BossRoomsRequired {
		major := s.Floor.ActiveMajorID
		if major != "" && !s.Majors.isClaimed(major) {
			s.Majors.Claimed = append(s.Majors.Claimed, major)
		}
		if major != "" && !s.Majors.isSpentThisFloor(major) {
			s.Majors.SpentThisFloor = append(s.Majors.SpentThisFloor, major)
		}
		events = append(events, Event{Type: EventMajorClaimed, MajorID: major})

		if len(s.Majors.Claimed) >= s.RunLengthTarget {
			s.Phase = PhaseRunVictory
			events = append(events, Event{Type: EventRunVictory})
			return s, events
		}

		var more []Event
		s, more = enterFloorStart(s, s.Floor.Number+1)
		return s, append(events, more...)
	}

	s.Phase = PhaseRoomEnd
	var revealEvents []Event
	var err error
	if hasCarry {
		s, revealEvents, err = revealRoomWithCarry(s, carriedID, carriedOrientation)
	} else {
		s, revealEvents, err = revealRoom(s)
	}
	if err != nil {
		// Deck exhaustion before boss mode triggers is an engine-invariant
		// violation: valid content/decks never reach it.
		logFatalError(err, s.ContentVersion, s.Seed, ActionLog{}, Action{})
		return s, events
	}
	return s, append(events, revealEvents...)
}
