package engine

import "fmt"

// ApplyAction validates and applies one client action against s, returning
// the resulting state and the events it produced. It clones s once on
// entry and mutates the clone through unexported helpers, the same
// "mutate internally, hand back a fresh value" shape used throughout this
// package.
func ApplyAction(s RunState, a Action) (RunState, []Event, error) {
	if _, err := requireContent(); err != nil {
		return s, nil, err
	}
	if s.Phase == PhaseRunVictory || s.Phase == PhaseRunDefeat {
		return s, nil, illegalf("run has already ended")
	}

	next := s.Clone()
	wasAnyResolved := next.Room.AnyResolvedThisRoom

	var events []Event
	var err error
	if next.Pending != nil {
		next, events, err = applyPendingAction(next, a)
	} else {
		next, events, err = applyPhaseAction(next, a)
	}
	if err != nil {
		return s, nil, err
	}

	if !wasAnyResolved && next.Room.AnyResolvedThisRoom {
		var moreEvents []Event
		next, moreEvents = fireMajorTrigger(next, TriggerAfterFirstResolution)
		events = append(events, moreEvents...)
	}

	next, endEvents := checkRunEnd(next)
	events = append(events, endEvents...)

	if next.Pending == nil && next.Room.IsEngaged &&
		(next.Phase == PhasePreResolveWindow || next.Phase == PhaseResolveExecute) &&
		roomReachedResolveLimit(next.Room) {
		var advanceEvents []Event
		next, advanceEvents = endRoom(next)
		events = append(events, advanceEvents...)
		next, endEvents = checkRunEnd(next)
		events = append(events, endEvents...)
	}

	next.TurnCount++
	return next, events, nil
}

// checkRunEnd transitions to RUN_DEFEAT once HP reaches zero, overriding
// any other outcome — a dead player cannot keep deciding.
func checkRunEnd(s RunState) (RunState, []Event) {
	if s.Player.HP <= 0 && s.Phase != PhaseRunDefeat {
		s.Phase = PhaseRunDefeat
		s.Pending = nil
		return s, []Event{{Type: EventRunDefeat}}
	}
	return s, nil
}

// applyPendingAction resolves whatever prompt s.Pending describes. The
// action must match the prompt's kind exactly.
func applyPendingAction(s RunState, a Action) (RunState, []Event, error) {
	p := s.Pending

	switch p.Kind {
	case PendingAceChoice:
		if a.Type != ActionResolveAceChoice {
			return s, nil, promptMismatch(p.Kind, a.Type)
		}
		return resolveAceChoice(s, a)

	case PendingCupsHighChoice:
		if a.Type != ActionResolveCupsHighChoice {
			return s, nil, promptMismatch(p.Kind, a.Type)
		}
		return resolveCupsHighChoice(s, a)

	case PendingEnemyFightChoice:
		if a.Type != ActionResolveEnemyFight {
			return s, nil, promptMismatch(p.Kind, a.Type)
		}
		return resolveEnemyFightChoice(s, a)

	case PendingSwordsAmbushBlock:
		if a.Type != ActionResolveAmbushBlock {
			return s, nil, promptMismatch(p.Kind, a.Type)
		}
		return resolveAmbushBlock(s, a)

	case PendingMajorChoice:
		if a.Type != ActionResolveMajorChoice {
			return s, nil, promptMismatch(p.Kind, a.Type)
		}
		return resolveMajorPrompt(s, a)

	case PendingMajorBargain:
		if a.Type != ActionResolveMajorBargain {
			return s, nil, promptMismatch(p.Kind, a.Type)
		}
		return resolveMajorPrompt(s, a)

	case PendingMajorTargetSelect:
		if a.Type != ActionResolveMajorTarget {
			return s, nil, promptMismatch(p.Kind, a.Type)
		}
		return resolveMajorPrompt(s, a)

	case PendingMajorReorder:
		if a.Type != ActionResolveMajorReorder {
			return s, nil, promptMismatch(p.Kind, a.Type)
		}
		return resolveMajorPrompt(s, a)
	}

	return s, nil, illegalf("unhandled pending prompt kind %q", p.Kind)
}

// applyPhaseAction dispatches an action legal when no prompt is pending,
// keyed by the run's current phase.
func applyPhaseAction(s RunState, a Action) (RunState, []Event, error) {
	switch s.Phase {
	case PhaseRunInit:
		if a.Type != ActionStartRun {
			return s, nil, illegalf("action %q is not legal before the run has started", a.Type)
		}
		return startRun(s, a)

	case PhaseFloorStart:
		return applyFloorStartAction(s, a)

	case PhaseRoomChoice:
		return applyRoomChoiceAction(s, a)

	case PhasePreResolveWindow:
		return applyPreResolveAction(s, a)
	}

	return s, nil, illegalf("action %q is not legal in the current phase", a.Type)
}

// applyFloorStartAction handles SELECT_ATTUNEMENT, the one decision the
// FLOOR_START phase blocks on, then reveals the floor's first room.
func applyFloorStartAction(s RunState, a Action) (RunState, []Event, error) {
	if a.Type != ActionSelectAttunement {
		return s, nil, illegalf("action %q is not legal during floor start", a.Type)
	}
	if !isValidAttunementSubset(s.Majors.Claimed, a.AttunementSet) {
		return s, nil, illegalf("attunement set is not a valid subset of claimed majors")
	}
	s.Majors.Attuned = append([]MajorID(nil), a.AttunementSet...)

	events := make([]Event, 0, len(s.Majors.Attuned))
	for _, m := range s.Majors.Attuned {
		events = append(events, Event{Type: EventMajorAttuned, MajorID: m})
	}

	next, more, err := revealRoom(s)
	if err != nil {
		return s, nil, err
	}
	return next, append(events, more...), nil
}

// applyRoomChoiceAction handles CHOOSE_ENGAGE / CHOOSE_FLEE, the ROOM_CHOICE
// phase's only decisions.
func applyRoomChoiceAction(s RunState, a Action) (RunState, []Event, error) {
	switch a.Type {
	case ActionChooseEngage:
		s.Room.IsEngaged = true
		s.LastRoomWasFlee = false
		s.Phase = PhasePreResolveWindow
		return s, nil, nil

	case ActionChooseFlee:
		if s.LastRoomWasFlee {
			return s, nil, illegalf("cannot flee two rooms in a row")
		}
		var events []Event
		for i, id := range s.Room.Slots {
			if id == "" {
				continue
			}
			s.Floor.Deck = append(s.Floor.Deck, id)
			events = append(events, Event{Type: EventCardBottomed, CardID: id, SlotIndex: i})
		}
		s.LastRoomWasFlee = true

		next, more, err := revealRoom(s)
		if err != nil {
			return s, nil, err
		}
		return next, append(events, more...), nil
	}

	return s, nil, illegalf("action %q is not legal while choosing to engage or flee", a.Type)
}

// applyPreResolveAction handles the full optional-action set available
// before committing to a room slot, plus COMMIT_RESOLVE itself.
func applyPreResolveAction(s RunState, a Action) (RunState, []Event, error) {
	switch a.Type {
	case ActionUseLeapOfFaith:
		return useLeapOfFaith(s, a.SlotIndex)
	case ActionSpendFateReroll:
		return spendFateReroll(s, a.SlotIndex)
	case ActionSpendFateCleanse:
		return spendFateCleanse(s, a.SlotIndex)
	case ActionSpendFateExileReplace:
		return spendFateExileReplace(s, a.SlotIndex)
	case ActionSpendFateCheatWeapon:
		return spendFateCheatWeapon(s)
	case ActionUseSpellCleanse:
		return useSpellCleanse(s, a.SlotIndex)
	case ActionUseSpellReroll:
		return useSpellReroll(s, a.SlotIndex)
	case ActionUseMajorGift:
		return useMajorGift(s, a.MajorID)
	case ActionCommitResolve:
		return commitResolve(s, a.SlotIndex)
	}

	return s, nil, illegalf("action %q is not legal in the pre-resolve window", a.Type)
}

// validSlot reports whether idx names an occupied room slot not yet
// resolved or exiled.
func validSlot(s RunState, idx int) error {
	if idx < 0 || idx >= len(s.Room.Slots) {
		return illegalf("slot index %d is out of range", idx)
	}
	if s.Room.Slots[idx] == "" {
		return illegalf("slot %d is unoccupied", idx)
	}
	if s.Room.ResolvedMask[idx] || s.Room.ExiledMask[idx] {
		return illegalf("slot %d has already been resolved", idx)
	}
	return nil
}

func useLeapOfFaith(s RunState, idx int) (RunState, []Event, error) {
	if s.Room.LeapUsedThisRoom {
		return s, nil, illegalf("leap of faith has already been used in this room")
	}
	if err := validSlot(s, idx); err != nil {
		return s, nil, err
	}
	s.Room.LeapUsedThisRoom = true
	newOrient := Upright
	if s.Room.Orientations[idx] == Upright {
		newOrient = Reversed
	}
	s.Room.Orientations[idx] = newOrient
	s.Orientations[s.Room.Slots[idx]] = newOrient
	return s, []Event{{Type: EventOrientationFlipped, CardID: s.Room.Slots[idx], SlotIndex: idx, Orientation: newOrient}}, nil
}

func spendFateReroll(s RunState, idx int) (RunState, []Event, error) {
	if s.Player.Fate < 1 {
		return s, nil, illegalf("not enough fate")
	}
	if fateActionDisabled(s, FateActionReroll) {
		return s, nil, illegalf("reroll has been disabled for this room")
	}
	if err := validSlot(s, idx); err != nil {
		return s, nil, err
	}
	before := s.Player.Fate
	s.Player.Fate--
	events := []Event{fateEvent(s.Player.Fate-before, s.Player.Fate)}
	var more []Event
	s, more = rerollSlot(s, idx)
	return s, append(events, more...), nil
}

func spendFateCleanse(s RunState, idx int) (RunState, []Event, error) {
	if s.Player.Fate < 1 {
		return s, nil, illegalf("not enough fate")
	}
	if fateActionDisabled(s, FateActionCleanse) {
		return s, nil, illegalf("cleanse has been disabled for this room")
	}
	if err := validSlot(s, idx); err != nil {
		return s, nil, err
	}
	before := s.Player.Fate
	s.Player.Fate--
	events := []Event{fateEvent(s.Player.Fate-before, s.Player.Fate)}
	s = cleanseSlot(s, idx)
	return s, events, nil
}

func spendFateExileReplace(s RunState, idx int) (RunState, []Event, error) {
	if s.Player.Fate < 1 {
		return s, nil, illegalf("not enough fate")
	}
	if err := validSlot(s, idx); err != nil {
		return s, nil, err
	}
	before := s.Player.Fate
	s.Player.Fate--
	events := []Event{fateEvent(s.Player.Fate-before, s.Player.Fate)}
	var more []Event
	s, more = exileReplaceSlot(s, idx)
	return s, append(events, more...), nil
}

func spendFateCheatWeapon(s RunState) (RunState, []Event, error) {
	if s.Player.Fate < 1 {
		return s, nil, illegalf("not enough fate")
	}
	if s.Player.Weapon == nil {
		return s, nil, illegalf("no weapon equipped")
	}
	before := s.Player.Fate
	s.Player.Fate--
	s.Player.CheatWeaponNextEnemyFight = true
	return s, []Event{fateEvent(s.Player.Fate-before, s.Player.Fate)}, nil
}

func useSpellCleanse(s RunState, idx int) (RunState, []Event, error) {
	if s.Player.Spell == nil {
		return s, nil, illegalf("no spell equipped")
	}
	if err := validSlot(s, idx); err != nil {
		return s, nil, err
	}
	events := []Event{{Type: EventDiscardEquipment, Equipment: EquipmentSpell, CardID: s.Player.Spell.CardID}}
	s.Floor.Discard = append(s.Floor.Discard, s.Player.Spell.CardID)
	s.Player.Spell = nil
	s = cleanseSlot(s, idx)
	return s, events, nil
}

func useSpellReroll(s RunState, idx int) (RunState, []Event, error) {
	if s.Player.Spell == nil {
		return s, nil, illegalf("no spell equipped")
	}
	if err := validSlot(s, idx); err != nil {
		return s, nil, err
	}
	events := []Event{{Type: EventDiscardEquipment, Equipment: EquipmentSpell, CardID: s.Player.Spell.CardID}}
	s.Floor.Discard = append(s.Floor.Discard, s.Player.Spell.CardID)
	s.Player.Spell = nil
	var more []Event
	s, more = rerollSlot(s, idx)
	return s, append(events, more...), nil
}

func useMajorGift(s RunState, major MajorID) (RunState, []Event, error) {
	if major == "" || !s.Majors.isAttuned(major) {
		return s, nil, illegalf("major %q is not currently attuned", major)
	}
	if s.Majors.isSpentThisFloor(major) {
		return s, nil, illegalf("major %q's gift has already been used this floor", major)
	}
	content, err := requireContent()
	if err != nil {
		return s, nil, err
	}
	def, ok := content.majors[major]
	if !ok {
		return s, nil, illegalf("unknown major %q", major)
	}
	s.Majors.SpentThisFloor = append(s.Majors.SpentThisFloor, major)

	s, events, _ := evalEffect(s, def.Gift.Effect, major, true, nil)
	events = append([]Event{{Type: EventMajorGiftUsed, MajorID: major}}, events...)
	return s, events, nil
}

// commitResolve handles COMMIT_RESOLVE: the first attempt in a room fires
// BEFORE_FIRST_RESOLVE_ATTEMPT and, if a Hanged Man-style shadow has armed
// FORCED_EXILE_FIRST_RESOLVE_ATTEMPT, force-exiles the targeted slot
// instead of resolving it.
func commitResolve(s RunState, idx int) (RunState, []Event, error) {
	if err := checkOrderConstraint(s, idx); err != nil {
		return s, nil, err
	}
	if err := validSlot(s, idx); err != nil {
		return s, nil, err
	}

	var events []Event
	if !s.Room.FirstResolveAttemptedThisRoom {
		s.Room.FirstResolveAttemptedThisRoom = true
		var shadowEvents []Event
		s, shadowEvents = fireMajorTrigger(s, TriggerBeforeFirstResolveAttempt)
		events = append(events, shadowEvents...)
		if s.Pending != nil {
			return s, events, nil
		}

		if s.Floor.Rules.FloorParams["forced_exile_first_resolve_attempt"] == "true" && !s.Room.HangedManTriggeredThisRoom {
			s.Room.HangedManTriggeredThisRoom = true
			var exileEvents []Event
			s, exileEvents = exileReplaceSlot(s, idx)
			events = append(events, exileEvents...)
			return s, events, nil
		}
	}

	s.Phase = PhaseResolveExecute
	var slotEvents []Event
	var parked bool
	s, slotEvents, parked = resolveSlot(s, idx)
	events = append(events, slotEvents...)
	if !parked {
		s.Phase = PhasePreResolveWindow
	}
	return s, events, nil
}

// checkOrderConstraint enforces the floor's current order constraint
// against committing to slotIndex.
func checkOrderConstraint(s RunState, slotIndex int) error {
	remaining := unresolvedSlotIndices(s.Room)
	if len(remaining) == 0 {
		return nil
	}
	switch s.Floor.Rules.OrderConstraint {
	case OrderConstraintNone, "":
		return nil
	case OrderConstraintLeftToRight:
		if slotIndex != remaining[0] {
			return illegalf("order constraint requires resolving slots left to right")
		}
	case OrderConstraintRightToLeft:
		if slotIndex != remaining[len(remaining)-1] {
			return illegalf("order constraint requires resolving slots right to left")
		}
	case OrderConstraintSuitOrder:
		best := remaining[0]
		for _, idx := range remaining[1:] {
			if suitLockIndex(s.Room.Slots[idx].Suit()) < suitLockIndex(s.Room.Slots[best].Suit()) {
				best = idx
			}
		}
		if slotIndex != best {
			return illegalf("order constraint requires resolving the lowest-suit-order slot first")
		}
	case OrderConstraintAscOrderingValue:
		best := remaining[0]
		for _, idx := range remaining[1:] {
			if slotEffectiveValue(s, idx) < slotEffectiveValue(s, best) {
				best = idx
			}
		}
		if slotIndex != best {
			return illegalf("order constraint requires resolving the lowest-value slot first")
		}
	}
	return nil
}

func promptMismatch(kind PendingKind, got ActionType) error {
	return fmt.Errorf("action %q does not match pending prompt %q: %w", got, kind, ErrPromptMismatch)
}
