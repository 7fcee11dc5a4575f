package engine

// evalEffect walks one Major effect-tree node to completion or to its next
// decision point. rest is the list of sibling nodes still to evaluate once
// node itself completes — for a top-level call this is nil; for a node
// reached while iterating a SEQUENCE it is that SEQUENCE's remaining
// effects (with the enclosing call's own rest appended after them).
//
// When node requires player input, s.Pending is set to a prompt carrying
// rest as its Continuation and done is false. The caller must stop
// applying further effects and return control to the client; resumption
// happens via resolveMajorPrompt, never by calling evalEffect again with
// the same node.
func evalEffect(s RunState, node EffectNode, major MajorID, isGift bool, rest []EffectNode) (RunState, []Event, bool) {
	switch node.Primitive {
	case "", EffectNoop:
		return continueWith(s, rest, major, isGift)

	case EffectSequence:
		return evalSequence(s, node.Effects, major, isGift, rest)

	case EffectConditional:
		branch := node.Else
		if evalPredicate(s, *node.If) {
			branch = node.Then
		}
		return evalEffect(s, *branch, major, isGift, rest)

	case EffectChoice:
		s.Pending = &PendingPrompt{
			Kind:          PendingMajorChoice,
			EffectKind:    EffectChoice,
			ResumeMajor:   major,
			ResumeIsGift:  isGift,
			ChoiceOptions: node.Options,
			OptionKeys:    optionKeys(node.Options),
			Continuation:  rest,
		}
		return s, nil, false

	case EffectBargain:
		s.Pending = &PendingPrompt{
			Kind:           PendingMajorBargain,
			EffectKind:     EffectBargain,
			ResumeMajor:    major,
			ResumeIsGift:   isGift,
			BargainOptions: node.BargainOptions,
			BargainKeys:    bargainKeys(node.BargainOptions),
			Continuation:   rest,
		}
		return s, nil, false

	case EffectRerollRevealed, EffectExileReplaceRevealed, EffectCleanseRevealed:
		return evalTargetedRevealedEffect(s, node, major, isGift, rest)

	case EffectPeekTopN:
		deck := activeDeck(s)
		n := node.N
		if n > len(*deck) {
			n = len(*deck)
		}
		peeked := append([]CardID(nil), (*deck)[:n]...)
		events := []Event{{Type: EventPeekTopN, PeekedCardIDs: peeked}}

		if !node.CanReorder {
			next, moreEvents, done := continueWith(s, rest, major, isGift)
			return next, append(events, moreEvents...), done
		}

		s.Pending = &PendingPrompt{
			Kind:         PendingMajorReorder,
			EffectKind:   EffectPeekTopN,
			ResumeMajor:  major,
			ResumeIsGift: isGift,
			PeekCardIDs:  peeked,
			Continuation: rest,
		}
		return s, events, false

	case EffectReorderTopN:
		deck := activeDeck(s)
		n := node.N
		if n > len(*deck) {
			n = len(*deck)
		}
		peeked := append([]CardID(nil), (*deck)[:n]...)
		s.Pending = &PendingPrompt{
			Kind:         PendingMajorReorder,
			EffectKind:   EffectReorderTopN,
			ResumeMajor:  major,
			ResumeIsGift: isGift,
			PeekCardIDs:  peeked,
			Continuation: rest,
		}
		return s, nil, false

	case EffectReorderRoomArbitrary:
		candidates := unresolvedSlotIndices(s.Room)
		s.Pending = &PendingPrompt{
			Kind:           PendingMajorReorder,
			EffectKind:     EffectReorderRoomArbitrary,
			ResumeMajor:    major,
			ResumeIsGift:   isGift,
			CandidateSlots: candidates,
			Continuation:   rest,
		}
		return s, nil, false

	case EffectReorderRoomByValue:
		s = reorderRoomByValue(s)
		return continueWith(s, rest, major, isGift)

	case EffectDisableFateAction:
		if node.Scope == ScopeThisFloor {
			if s.Floor.Rules.DisabledFateActionsThisFloor == nil {
				s.Floor.Rules.DisabledFateActionsThisFloor = map[FateActionKind]bool{}
			}
			s.Floor.Rules.DisabledFateActionsThisFloor[node.FateAction] = true
		} else {
			if s.Room.DisabledFateActionsThisRoom == nil {
				s.Room.DisabledFateActionsThisRoom = map[FateActionKind]bool{}
			}
			s.Room.DisabledFateActionsThisRoom[node.FateAction] = true
		}
		return continueWith(s, rest, major, isGift)

	case EffectSetWeaponRestrictionMode:
		s.Floor.Rules.WeaponRestrictionMode = node.Mode
		s.Floor.Rules.WeaponRestrictionRoomScoped = node.Scope == ScopeThisRoom
		return continueWith(s, rest, major, isGift)

	case EffectSetOrderConstraint:
		s.Floor.Rules.OrderConstraint = node.OrderConstraint
		s.Floor.Rules.RequiresChooseCarriedFirst = node.RequiresChooseCarriedFirst
		s.Floor.Rules.OrderConstraintRoomScoped = node.Scope == ScopeThisRoom
		return continueWith(s, rest, major, isGift)

	case EffectSetFloorParam:
		if s.Floor.Rules.FloorParams == nil {
			s.Floor.Rules.FloorParams = map[string]string{}
		}
		s.Floor.Rules.FloorParams[node.ParamKey] = node.ParamValue
		if node.ParamKey == "chariotDirection" {
			s.Floor.ChariotDirection = ChariotDirection(node.ParamValue)
		}
		return continueWith(s, rest, major, isGift)

	case EffectForcedExileFirstResolveAttempt:
		if s.Floor.Rules.FloorParams == nil {
			s.Floor.Rules.FloorParams = map[string]string{}
		}
		s.Floor.Rules.FloorParams["forced_exile_first_resolve_attempt"] = "true"
		return continueWith(s, rest, major, isGift)

	default:
		return continueWith(s, rest, major, isGift)
	}
}

// evalSequence evaluates nodes in order, threading the enclosing rest after
// the last one so a pause anywhere in the middle still carries forward
// everything that should run once it resolves.
func evalSequence(s RunState, nodes []EffectNode, major MajorID, isGift bool, outerRest []EffectNode) (RunState, []Event, bool) {
	if len(nodes) == 0 {
		return continueWith(s, outerRest, major, isGift)
	}
	combinedRest := append(append([]EffectNode(nil), nodes[1:]...), outerRest...)
	return evalEffect(s, nodes[0], major, isGift, combinedRest)
}

// continueWith evaluates the next queued node, if any, or reports done.
func continueWith(s RunState, rest []EffectNode, major MajorID, isGift bool) (RunState, []Event, bool) {
	if len(rest) == 0 {
		return s, nil, true
	}
	return evalEffect(s, rest[0], major, isGift, rest[1:])
}

func evalPredicate(s RunState, cond ConditionSpec) bool {
	switch cond.Predicate {
	case PredicateRoomHasEnemy:
		for i, id := range s.Room.Slots {
			if id == "" || s.Room.ResolvedMask[i] || s.Room.ExiledMask[i] {
				continue
			}
			if id.Rank().IsCourt() {
				return true
			}
		}
		return false
	case PredicateRoomHasAnyEffectiveReversed:
		for i, id := range s.Room.Slots {
			if id == "" || s.Room.ResolvedMask[i] || s.Room.ExiledMask[i] {
				continue
			}
			if effectiveOrientation(s, i) == Reversed {
				return true
			}
		}
		return false
	case PredicatePlayerGoldAtLeast:
		return s.Player.Gold >= cond.Value
	default:
		return false
	}
}

// activeDeck returns a pointer to the floor's currently active draw pile:
// the boss deck once boss_mode is active, otherwise the minor deck.
func activeDeck(s RunState) *[]CardID {
	if s.Floor.BossMode {
		return &s.Floor.BossDeck
	}
	return &s.Floor.Deck
}

// evalTargetedRevealedEffect handles REROLL_REVEALED, EXILE_REPLACE_REVEALED
// and CLEANSE_REVEALED, which all pick a room slot by Selector and then
// mutate it.
func evalTargetedRevealedEffect(s RunState, node EffectNode, major MajorID, isGift bool, rest []EffectNode) (RunState, []Event, bool) {
	candidates := unresolvedSlotIndices(s.Room)

	resolveAuto := func(idx int) (RunState, []Event, bool) {
		s2, events := applyRevealedEffect(s, node.Primitive, idx)
		next, moreEvents, done := continueWith(s2, rest, major, isGift)
		return next, append(events, moreEvents...), done
	}

	switch node.Selector {
	case SelectorLeftmost:
		if len(candidates) == 0 {
			return continueWith(s, rest, major, isGift)
		}
		return resolveAuto(candidates[0])

	case SelectorHighestValue:
		if len(candidates) == 0 {
			return continueWith(s, rest, major, isGift)
		}
		best := candidates[0]
		tied := []int{best}
		for _, idx := range candidates[1:] {
			switch v := slotEffectiveValue(s, idx); {
			case v > slotEffectiveValue(s, best):
				best = idx
				tied = []int{idx}
			case v == slotEffectiveValue(s, best):
				tied = append(tied, idx)
			}
		}
		if len(tied) > 1 {
			s.Pending = &PendingPrompt{
				Kind:           PendingMajorTargetSelect,
				EffectKind:     node.Primitive,
				ResumeMajor:    major,
				ResumeIsGift:   isGift,
				CandidateSlots: tied,
				Continuation:   rest,
			}
			return s, nil, false
		}
		return resolveAuto(best)

	case SelectorRandom:
		if len(candidates) == 0 {
			return continueWith(s, rest, major, isGift)
		}
		pick := candidates[s.RNG.Intn(len(candidates))]
		return resolveAuto(pick)

	case SelectorPlayerChoice, SelectorIfEnemyPresentPlayerChoice, SelectorIfAnyReversedPlayerChoice:
		if len(candidates) == 0 {
			return continueWith(s, rest, major, isGift)
		}
		s.Pending = &PendingPrompt{
			Kind:           PendingMajorTargetSelect,
			EffectKind:     node.Primitive,
			ResumeMajor:    major,
			ResumeIsGift:   isGift,
			CandidateSlots: candidates,
			Continuation:   rest,
		}
		return s, nil, false

	default:
		return continueWith(s, rest, major, isGift)
	}
}

// applyRevealedEffect performs the concrete mutation for a targeted
// revealed-card primitive against the chosen slot index.
func applyRevealedEffect(s RunState, prim EffectPrimitive, idx int) (RunState, []Event) {
	if idx < 0 || idx >= len(s.Room.Slots) {
		return s, nil
	}

	switch prim {
	case EffectRerollRevealed:
		return rerollSlot(s, idx)
	case EffectExileReplaceRevealed:
		return exileReplaceSlot(s, idx)
	case EffectCleanseRevealed:
		return cleanseSlot(s, idx), nil
	}
	return s, nil
}

// reorderRoomByValue insertion-sorts the room's unresolved, unexiled slots
// ascending by OrderingValue, remapping CarriedIndex/CarryChoiceIndex to
// follow the cards they pointed at rather than the positions.
func reorderRoomByValue(s RunState) RunState {
	var carried, carryChoice CardID
	if s.Room.CarriedIndex != nil {
		carried = s.Room.Slots[*s.Room.CarriedIndex]
	}
	if s.Room.CarryChoiceIndex != nil {
		carryChoice = s.Room.Slots[*s.Room.CarryChoiceIndex]
	}

	movable := func(i int) bool {
		return s.Room.Slots[i] != "" && !s.Room.ResolvedMask[i] && !s.Room.ExiledMask[i]
	}
	swap := func(a, b int) {
		s.Room.Slots[a], s.Room.Slots[b] = s.Room.Slots[b], s.Room.Slots[a]
		s.Room.Orientations[a], s.Room.Orientations[b] = s.Room.Orientations[b], s.Room.Orientations[a]
		s.Room.PendingCleanses[a], s.Room.PendingCleanses[b] = s.Room.PendingCleanses[b], s.Room.PendingCleanses[a]
	}

	for i := 1; i < len(s.Room.Slots); i++ {
		j := i
		for j > 0 && movable(j-1) && movable(j) &&
			s.Room.Slots[j-1].Rank().OrderingValue() > s.Room.Slots[j].Rank().OrderingValue() {
			swap(j-1, j)
			j--
		}
	}

	if s.Room.CarriedIndex != nil {
		for i, id := range s.Room.Slots {
			if id == carried {
				idx := i
				s.Room.CarriedIndex = &idx
				break
			}
		}
	}
	if s.Room.CarryChoiceIndex != nil {
		for i, id := range s.Room.Slots {
			if id == carryChoice {
				idx := i
				s.Room.CarryChoiceIndex = &idx
				break
			}
		}
	}
	return s
}

func slotEffectiveValue(s RunState, idx int) int {
	return s.Room.Slots[idx].Rank().OrderingValue()
}

func unresolvedSlotIndices(room Room) []int {
	var out []int
	for i, id := range room.Slots {
		if id == "" {
			continue
		}
		if !room.ResolvedMask[i] && !room.ExiledMask[i] {
			out = append(out, i)
		}
	}
	return out
}

func optionKeys(opts []EffectOption) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Key
	}
	return out
}

func bargainKeys(opts []BargainOption) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Key
	}
	return out
}

// resolveMajorPrompt applies the client's answer to a parked Major effect
// prompt and resumes evaluation of its Continuation. It assumes the caller
// has already verified action.Type matches s.Pending.Kind.
func resolveMajorPrompt(s RunState, action Action) (RunState, []Event, error) {
	p := s.Pending
	major, isGift, rest := p.ResumeMajor, p.ResumeIsGift, p.Continuation
	s.Pending = nil

	switch p.Kind {
	case PendingMajorChoice:
		var chosen *EffectOption
		for i := range p.ChoiceOptions {
			if p.ChoiceOptions[i].Key == action.OptionKey {
				chosen = &p.ChoiceOptions[i]
				break
			}
		}
		if chosen == nil {
			return s, nil, illegalf("option_key %q is not valid for this prompt", action.OptionKey)
		}
		next, events, _ := evalEffect(s, chosen.Effect, major, isGift, rest)
		return next, events, nil

	case PendingMajorBargain:
		var chosen *BargainOption
		for i := range p.BargainOptions {
			if p.BargainOptions[i].Key == action.BargainKey {
				chosen = &p.BargainOptions[i]
				break
			}
		}
		if chosen == nil {
			return s, nil, illegalf("bargain_key %q is not valid for this prompt", action.BargainKey)
		}
		var events []Event
		if chosen.PayGold > 0 {
			before := s.Player.Gold
			s.Player.Gold = clampNonNegative(s.Player.Gold - chosen.PayGold)
			events = append(events, goldEvent(s.Player.Gold-before, s.Player.Gold))
		}
		if chosen.GainGold > 0 {
			before := s.Player.Gold
			s.Player.Gold = clampGold(s.Player.Gold + chosen.GainGold)
			events = append(events, goldEvent(s.Player.Gold-before, s.Player.Gold))
		}
		if chosen.TakeDamage > 0 {
			var dmgEvents []Event
			s, dmgEvents = applyDamage(s, chosen.TakeDamage, false)
			events = append(events, dmgEvents...)
		}
		if chosen.Heal > 0 {
			var healed int
			s, healed = applyHeal(s, chosen.Heal)
			if healed > 0 {
				events = append(events, hpEvent(healed, s.Player.HP))
			}
		}
		next, moreEvents, _ := continueWith(s, rest, major, isGift)
		return next, append(events, moreEvents...), nil

	case PendingMajorTargetSelect:
		if len(action.TargetSlots) != 1 {
			return s, nil, illegalf("target select prompt requires exactly one slot")
		}
		idx := action.TargetSlots[0]
		if !containsInt(p.CandidateSlots, idx) {
			return s, nil, illegalf("slot %d is not a valid target for this prompt", idx)
		}
		s, events := applyRevealedEffect(s, p.EffectKind, idx)
		next, moreEvents, _ := continueWith(s, rest, major, isGift)
		return next, append(events, moreEvents...), nil

	case PendingMajorReorder:
		switch p.EffectKind {
		case EffectPeekTopN, EffectReorderTopN:
			n := len(p.PeekCardIDs)
			if len(action.TargetSlots) != n {
				return s, nil, illegalf("reorder prompt requires a full permutation of %d cards", n)
			}
			reordered := make([]CardID, n)
			used := make(map[int]bool, n)
			for i, pos := range action.TargetSlots {
				if pos < 0 || pos >= n || used[pos] {
					return s, nil, illegalf("reorder prompt received an invalid permutation")
				}
				used[pos] = true
				reordered[i] = p.PeekCardIDs[pos]
			}
			deck := activeDeck(s)
			copy(*deck, reordered)
			next, events, _ := continueWith(s, rest, major, isGift)
			return next, events, nil

		case EffectReorderRoomArbitrary:
			if len(action.TargetSlots) != len(p.CandidateSlots) {
				return s, nil, illegalf("reorder prompt requires a full permutation of the candidate slots")
			}
			original := s.Room
			used := make(map[int]bool, len(action.TargetSlots))
			for i, fromIdx := range action.TargetSlots {
				if !containsInt(p.CandidateSlots, fromIdx) || used[fromIdx] {
					return s, nil, illegalf("reorder prompt received an invalid permutation")
				}
				used[fromIdx] = true
				destIdx := p.CandidateSlots[i]
				s.Room.Slots[destIdx] = original.Slots[fromIdx]
				s.Room.Orientations[destIdx] = original.Orientations[fromIdx]
				s.Room.PendingCleanses[destIdx] = original.PendingCleanses[fromIdx]
			}
			next, events, _ := continueWith(s, rest, major, isGift)
			return next, events, nil
		}
	}

	return s, nil, illegalf("unhandled pending major prompt kind %q", p.Kind)
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
