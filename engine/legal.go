package engine

// LegalActions enumerates every action that would currently be accepted
// by ApplyAction, in a fixed deterministic order: this ordering is load
// bearing for byte-for-byte replay parity across independent
// implementations, not just a display convenience.
func LegalActions(s RunState) ([]Action, error) {
	if _, err := requireContent(); err != nil {
		return nil, err
	}
	if s.Phase == PhaseRunVictory || s.Phase == PhaseRunDefeat {
		return nil, nil
	}

	if s.Pending != nil {
		return legalPendingActions(s), nil
	}

	switch s.Phase {
	case PhaseRunInit:
		return []Action{{Type: ActionStartRun}}, nil
	case PhaseFloorStart:
		return legalFloorStartActions(s), nil
	case PhaseRoomChoice:
		return legalRoomChoiceActions(s), nil
	case PhasePreResolveWindow:
		return legalPreResolveActions(s), nil
	}
	return nil, nil
}

// legalFloorStartActions enumerates every SELECT_ATTUNEMENT subset in the
// locked order attunementSubsets produces.
func legalFloorStartActions(s RunState) []Action {
	subsets := attunementSubsets(s.Majors.Claimed)
	out := make([]Action, len(subsets))
	for i, subset := range subsets {
		out[i] = Action{Type: ActionSelectAttunement, AttunementSet: subset}
	}
	return out
}

// legalRoomChoiceActions lists CHOOSE_ENGAGE before CHOOSE_FLEE, omitting
// the flee option once the previous room was itself a flee.
func legalRoomChoiceActions(s RunState) []Action {
	out := []Action{{Type: ActionChooseEngage}}
	if !s.LastRoomWasFlee {
		out = append(out, Action{Type: ActionChooseFlee})
	}
	return out
}

// legalPreResolveActions enumerates the pre-resolve window's full optional
// action set, in the locked category order: attuned unspent gifts, leap of
// faith, fate-spend reroll, fate-spend cleanse, fate-spend exile-replace,
// fate-spend cheat-weapon, spell cleanse, spell reroll, then the currently
// committable slots.
func legalPreResolveActions(s RunState) []Action {
	var out []Action

	for _, m := range s.Majors.Attuned {
		if !s.Majors.isSpentThisFloor(m) {
			out = append(out, Action{Type: ActionUseMajorGift, MajorID: m})
		}
	}

	if !s.Room.LeapUsedThisRoom {
		for _, idx := range unresolvedSlotIndices(s.Room) {
			out = append(out, Action{Type: ActionUseLeapOfFaith, SlotIndex: idx})
		}
	}

	if s.Player.Fate >= 1 {
		if !fateActionDisabled(s, FateActionReroll) {
			for _, idx := range unresolvedSlotIndices(s.Room) {
				out = append(out, Action{Type: ActionSpendFateReroll, SlotIndex: idx})
			}
		}
		if !fateActionDisabled(s, FateActionCleanse) {
			for _, idx := range unresolvedSlotIndices(s.Room) {
				out = append(out, Action{Type: ActionSpendFateCleanse, SlotIndex: idx})
			}
		}
		for _, idx := range unresolvedSlotIndices(s.Room) {
			out = append(out, Action{Type: ActionSpendFateExileReplace, SlotIndex: idx})
		}
		if s.Player.Weapon != nil {
			out = append(out, Action{Type: ActionSpendFateCheatWeapon})
		}
	}

	if s.Player.Spell != nil {
		for _, idx := range unresolvedSlotIndices(s.Room) {
			out = append(out, Action{Type: ActionUseSpellCleanse, SlotIndex: idx})
		}
		for _, idx := range unresolvedSlotIndices(s.Room) {
			out = append(out, Action{Type: ActionUseSpellReroll, SlotIndex: idx})
		}
	}

	for _, idx := range legalCommitSlots(s) {
		out = append(out, Action{Type: ActionCommitResolve, SlotIndex: idx})
	}

	return out
}

// legalCommitSlots returns, in ascending slot-index order, the room slots
// that COMMIT_RESOLVE may currently target under the floor's order
// constraint.
func legalCommitSlots(s RunState) []int {
	remaining := unresolvedSlotIndices(s.Room)
	if len(remaining) == 0 {
		return nil
	}

	switch s.Floor.Rules.OrderConstraint {
	case OrderConstraintLeftToRight:
		return []int{remaining[0]}
	case OrderConstraintRightToLeft:
		return []int{remaining[len(remaining)-1]}
	case OrderConstraintSuitOrder:
		best := remaining[0]
		for _, idx := range remaining[1:] {
			if suitLockIndex(s.Room.Slots[idx].Suit()) < suitLockIndex(s.Room.Slots[best].Suit()) {
				best = idx
			}
		}
		return []int{best}
	case OrderConstraintAscOrderingValue:
		best := remaining[0]
		for _, idx := range remaining[1:] {
			if slotEffectiveValue(s, idx) < slotEffectiveValue(s, best) {
				best = idx
			}
		}
		return []int{best}
	default:
		return remaining
	}
}

func legalPendingActions(s RunState) []Action {
	p := s.Pending
	var out []Action

	switch p.Kind {
	case PendingAceChoice:
		out = legalAceChoiceActions(s, p)

	case PendingCupsHighChoice:
		out = append(out,
			Action{Type: ActionResolveCupsHighChoice, ChooseHeal: true},
			Action{Type: ActionResolveCupsHighChoice, ChooseHeal: false},
		)

	case PendingEnemyFightChoice:
		out = append(out,
			Action{Type: ActionResolveEnemyFight, UseWeapon: true},
			Action{Type: ActionResolveEnemyFight, UseWeapon: false},
		)

	case PendingSwordsAmbushBlock:
		out = append(out,
			Action{Type: ActionResolveAmbushBlock, Block: true},
			Action{Type: ActionResolveAmbushBlock, Block: false},
		)

	case PendingMajorChoice:
		for _, k := range p.OptionKeys {
			out = append(out, Action{Type: ActionResolveMajorChoice, OptionKey: k})
		}

	case PendingMajorBargain:
		for _, k := range p.BargainKeys {
			out = append(out, Action{Type: ActionResolveMajorBargain, BargainKey: k})
		}

	case PendingMajorTargetSelect:
		for _, idx := range p.CandidateSlots {
			out = append(out, Action{Type: ActionResolveMajorTarget, TargetSlots: []int{idx}})
		}

	case PendingMajorReorder:
		// Every permutation is legal; enumerating them all would be
		// exponential, so only the identity permutation is listed as a
		// representative legal action. Clients build their own
		// permutation of the same candidate set.
		n := len(p.PeekCardIDs)
		if n == 0 {
			n = len(p.CandidateSlots)
		}
		identity := make([]int, n)
		for i := range identity {
			identity[i] = i
		}
		out = append(out, Action{Type: ActionResolveMajorReorder, TargetSlots: identity})
	}

	return out
}

// legalAceChoiceActions enumerates an Ace prompt's suit-specific options,
// in the suit's own canonical option order.
func legalAceChoiceActions(s RunState, p *PendingPrompt) []Action {
	id := s.Room.Slots[p.SlotIndex]
	var out []Action

	switch id.Suit() {
	case SuitPentacles:
		if s.Player.Gold >= 5 {
			out = append(out, Action{Type: ActionResolveAceChoice, OptionKey: "pay5_heal5"})
		}
		out = append(out, Action{Type: ActionResolveAceChoice, OptionKey: "gain5_take3"})

	case SuitCups:
		out = append(out, Action{Type: ActionResolveAceChoice, OptionKey: "heal_to_full"})
		for _, idx := range otherSlots(s, p.SlotIndex) {
			if effectiveOrientation(s, idx) == Reversed {
				out = append(out, Action{Type: ActionResolveAceChoice, OptionKey: "cleanse_free", TargetSlot: idx})
			}
		}

	case SuitWands:
		for _, idx := range otherSlots(s, p.SlotIndex) {
			out = append(out, Action{Type: ActionResolveAceChoice, OptionKey: "exile_replace_free", TargetSlot: idx})
		}
		for _, idx := range otherSlots(s, p.SlotIndex) {
			out = append(out, Action{Type: ActionResolveAceChoice, OptionKey: "reroll_free", TargetSlot: idx})
		}

	case SuitSwords:
		out = append(out, Action{Type: ActionResolveAceChoice, OptionKey: "cheat_weapon_free"})
		for _, idx := range otherSlots(s, p.SlotIndex) {
			out = append(out, Action{Type: ActionResolveAceChoice, OptionKey: "reroll_free", TargetSlot: idx})
		}
	}

	return out
}

// otherSlots returns, ascending, every occupied unresolved/unexiled room
// slot other than self.
func otherSlots(s RunState, self int) []int {
	var out []int
	for i, id := range s.Room.Slots {
		if i == self || id == "" || s.Room.ResolvedMask[i] || s.Room.ExiledMask[i] {
			continue
		}
		out = append(out, i)
	}
	return out
}
