package engine

// resolveSlot performs the suit-driven resolution of a single room slot
// once the player has committed to it. It returns the updated state,
// emitted events, and whether resolution parked on a prompt rather than
// completing outright.
func resolveSlot(s RunState, idx int) (RunState, []Event, bool) {
	id := s.Room.Slots[idx]
	rank := id.Rank()
	orient := effectiveOrientation(s, idx)

	if rank == RankAce {
		return raiseAcePrompt(s, idx)
	}
	if rank.IsCourt() {
		return resolveCourtOrPrompt(s, idx, orient)
	}

	v := rank.NumberedValue()
	switch id.Suit() {
	case SuitPentacles:
		return resolvePentaclesNumbered(s, idx, orient, v)
	case SuitCups:
		return resolveCupsNumbered(s, idx, orient, v)
	case SuitWands:
		return resolveWandsNumbered(s, idx, orient, v)
	case SuitSwords:
		return resolveSwordsNumbered(s, idx, orient, v)
	}
	return s, nil, false
}

// completeResolution performs the bookkeeping common to every completed
// resolution: marking the slot resolved, discarding the card to the floor
// discard (unless it became equipment, which the caller handles itself),
// emitting CARD_RESOLVED, and granting the universal reversed-resolution
// Fate bonus.
func completeResolution(s RunState, idx int, orient Orientation, discardToFloor bool) (RunState, []Event) {
	id := s.Room.Slots[idx]
	s.Room.ResolvedMask[idx] = true
	s.Room.AnyResolvedThisRoom = true
	s.Room.PendingCleanses[idx] = false

	events := []Event{{Type: EventCardResolved, CardID: id, SlotIndex: idx, Orientation: orient}}
	if discardToFloor {
		s.Floor.Discard = append(s.Floor.Discard, id)
	}
	var fateEvents []Event
	s, fateEvents = gainFate(s, orient, idx)
	return s, append(events, fateEvents...)
}

// applyDamage deals amount damage to the player, reducing by the equipped
// armor's value first unless bypassArmor is set (the reversed-Cups case).
// Armor is single-use: once its reduction applies to a hit it is
// discarded.
func applyDamage(s RunState, amount int, bypassArmor bool) (RunState, []Event) {
	var events []Event
	dmg := amount
	if !bypassArmor {
		if av := armorValue(s.Player); av > 0 {
			dmg -= av
			if dmg < 0 {
				dmg = 0
			}
			events = append(events, Event{Type: EventDiscardEquipment, Equipment: EquipmentArmor, CardID: s.Player.Armor.CardID})
			s.Floor.Discard = append(s.Floor.Discard, s.Player.Armor.CardID)
			s.Player.Armor = nil
		}
	}
	if dmg < 0 {
		dmg = 0
	}
	before := s.Player.HP
	s.Player.HP = clampHP(s.Player.HP-dmg, s.Player.MaxHP)
	return s, append(events, hpEvent(s.Player.HP-before, s.Player.HP))
}

// drawReplacement pops the top card of the floor's currently active deck
// (the boss deck once boss_mode is active, otherwise the minor deck).
func drawReplacement(s RunState) (RunState, CardID, bool) {
	deck := &s.Floor.Deck
	if s.Floor.BossMode {
		deck = &s.Floor.BossDeck
	}
	if len(*deck) == 0 {
		return s, "", false
	}
	id := (*deck)[0]
	*deck = (*deck)[1:]
	return s, id, true
}

// rerollSlot bottoms the card at idx onto the tail of the floor's currently
// active deck (the boss deck once boss_mode is active, otherwise the minor
// deck) and deals a fresh replacement with its own fresh orientation.
func rerollSlot(s RunState, idx int) (RunState, []Event) {
	old := s.Room.Slots[idx]
	s, newID, ok := drawReplacement(s)
	if !ok {
		return s, nil
	}
	deck := &s.Floor.Deck
	if s.Floor.BossMode {
		deck = &s.Floor.BossDeck
	}
	*deck = append(*deck, old)
	s.Room.Slots[idx] = newID
	s.Room.Orientations[idx] = s.Orientations[newID]
	s.Room.PendingCleanses[idx] = false
	return s, []Event{{Type: EventCardBottomed, CardID: old, SlotIndex: idx}}
}

// exileReplaceSlot moves the card at idx to the floor discard and deals a
// fresh replacement.
func exileReplaceSlot(s RunState, idx int) (RunState, []Event) {
	old := s.Room.Slots[idx]
	s, newID, ok := drawReplacement(s)
	if !ok {
		return s, nil
	}
	s.Floor.Discard = append(s.Floor.Discard, old)
	s.Room.Slots[idx] = newID
	s.Room.Orientations[idx] = s.Orientations[newID]
	s.Room.PendingCleanses[idx] = false
	return s, []Event{{Type: EventCardExiled, CardID: old, SlotIndex: idx}}
}

// cleanseSlot marks idx as cleansed: its effective orientation reads
// upright regardless of physical orientation or boss corruption, until the
// slot is resolved or replaced.
func cleanseSlot(s RunState, idx int) RunState {
	s.Room.PendingCleanses[idx] = true
	return s
}

// raiseAcePrompt parks resolution of an Ace on its suit-specific choice.
func raiseAcePrompt(s RunState, idx int) (RunState, []Event, bool) {
	s.Pending = &PendingPrompt{Kind: PendingAceChoice, SlotIndex: idx}
	return s, []Event{{Type: EventPromptRaised, PromptKind: PendingAceChoice, SlotIndex: idx}}, true
}

// resolvePentaclesNumbered: upright grants gold equal to rank value;
// reversed drains up to that much gold, and any shortfall the player
// couldn't cover spills into direct damage.
func resolvePentaclesNumbered(s RunState, idx int, orient Orientation, v int) (RunState, []Event, bool) {
	var events []Event
	if orient == Upright {
		before := s.Player.Gold
		s.Player.Gold = clampGold(s.Player.Gold + v)
		events = append(events, goldEvent(s.Player.Gold-before, s.Player.Gold))
	} else {
		lose := v
		if lose > s.Player.Gold {
			lose = s.Player.Gold
		}
		before := s.Player.Gold
		s.Player.Gold -= lose
		events = append(events, goldEvent(s.Player.Gold-before, s.Player.Gold))
		if shortfall := v - lose; shortfall > 0 {
			var dmgEvents []Event
			s, dmgEvents = applyDamage(s, shortfall, false)
			events = append(events, dmgEvents...)
		}
	}
	var compEvents []Event
	s, compEvents = completeResolution(s, idx, orient, true)
	return s, append(events, compEvents...), false
}

// resolveCupsNumbered: reversed deals damage bypassing armor; upright at 8+
// parks on a heal-vs-equip-armor choice, otherwise auto-heals subject to
// the once-per-room healing limiter.
func resolveCupsNumbered(s RunState, idx int, orient Orientation, v int) (RunState, []Event, bool) {
	if orient == Reversed {
		var events []Event
		var dmgEvents []Event
		s, dmgEvents = applyDamage(s, v, true)
		events = append(events, dmgEvents...)
		var compEvents []Event
		s, compEvents = completeResolution(s, idx, orient, true)
		return s, append(events, compEvents...), false
	}
	if v >= 8 {
		s.Pending = &PendingPrompt{Kind: PendingCupsHighChoice, SlotIndex: idx}
		return s, []Event{{Type: EventPromptRaised, PromptKind: PendingCupsHighChoice, SlotIndex: idx}}, true
	}
	var events []Event
	var healed int
	s, healed = applyHeal(s, v)
	if healed > 0 {
		events = append(events, hpEvent(healed, s.Player.HP))
	}
	var compEvents []Event
	s, compEvents = completeResolution(s, idx, orient, true)
	return s, append(events, compEvents...), false
}

// resolveWandsNumbered: upright equips as the spell, discarding the old
// one; reversed discards a prepared spell (granting Fate via the reversed
// rule) or, with no spell prepared, deals 2 damage.
func resolveWandsNumbered(s RunState, idx int, orient Orientation, v int) (RunState, []Event, bool) {
	id := s.Room.Slots[idx]

	if orient == Reversed {
		var events []Event
		if s.Player.Spell != nil {
			events = append(events, Event{Type: EventDiscardEquipment, Equipment: EquipmentSpell, CardID: s.Player.Spell.CardID})
			s.Floor.Discard = append(s.Floor.Discard, s.Player.Spell.CardID)
			s.Player.Spell = nil
		} else {
			var dmgEvents []Event
			s, dmgEvents = applyDamage(s, 2, false)
			events = append(events, dmgEvents...)
		}
		var compEvents []Event
		s, compEvents = completeResolution(s, idx, orient, true)
		return s, append(events, compEvents...), false
	}

	var events []Event
	if s.Player.Spell != nil {
		events = append(events, Event{Type: EventDiscardEquipment, Equipment: EquipmentSpell, CardID: s.Player.Spell.CardID})
		s.Floor.Discard = append(s.Floor.Discard, s.Player.Spell.CardID)
	}
	s.Player.Spell = &Equipment{CardID: id, Value: v}
	events = append(events, Event{Type: EventEquipSpell, CardID: id, SlotIndex: idx, Value: v})
	s.Room.ResolvedMask[idx] = true
	s.Room.AnyResolvedThisRoom = true
	events = append(events, Event{Type: EventCardResolved, CardID: id, SlotIndex: idx, Orientation: orient})
	return s, events, false
}

// resolveSwordsNumbered: upright equips as the weapon, discarding the old
// one; reversed, with a weapon prepared, parks on an ambush-block choice,
// otherwise deals direct damage equal to rank value.
func resolveSwordsNumbered(s RunState, idx int, orient Orientation, v int) (RunState, []Event, bool) {
	id := s.Room.Slots[idx]

	if orient == Reversed {
		if s.Player.Weapon != nil {
			s.Pending = &PendingPrompt{Kind: PendingSwordsAmbushBlock, SlotIndex: idx}
			return s, []Event{{Type: EventPromptRaised, PromptKind: PendingSwordsAmbushBlock, SlotIndex: idx}}, true
		}
		var events []Event
		var dmgEvents []Event
		s, dmgEvents = applyDamage(s, v, false)
		events = append(events, dmgEvents...)
		var compEvents []Event
		s, compEvents = completeResolution(s, idx, orient, true)
		return s, append(events, compEvents...), false
	}

	var events []Event
	if s.Player.Weapon != nil {
		events = append(events, Event{Type: EventDiscardEquipment, Equipment: EquipmentWeapon, CardID: s.Player.Weapon.CardID})
		s.Floor.Discard = append(s.Floor.Discard, s.Player.Weapon.CardID)
	}
	s.Player.Weapon = &Equipment{CardID: id, Value: v}
	events = append(events, Event{Type: EventEquipWeapon, CardID: id, SlotIndex: idx, Value: v})
	s.Room.ResolvedMask[idx] = true
	s.Room.AnyResolvedThisRoom = true
	events = append(events, Event{Type: EventCardResolved, CardID: id, SlotIndex: idx, Orientation: orient})
	return s, events, false
}

// resolveCourtOrPrompt computes a court card's enemy value and either
// parks on ENEMY_FIGHT_CHOICE when a usable weapon is equipped, or forces
// barehand combat.
func resolveCourtOrPrompt(s RunState, idx int, orient Orientation) (RunState, []Event, bool) {
	id := s.Room.Slots[idx]
	e := id.Rank().EnemyBaseValue()
	if orient == Reversed {
		e += 2
	}
	if s.Player.Weapon != nil && canUseWeapon(s.Player, s.Floor.Rules.WeaponRestrictionMode, e) {
		s.Pending = &PendingPrompt{Kind: PendingEnemyFightChoice, SlotIndex: idx, EnemyValue: e}
		return s, []Event{{Type: EventPromptRaised, PromptKind: PendingEnemyFightChoice, SlotIndex: idx}}, true
	}
	var events []Event
	var dmgEvents []Event
	s, dmgEvents = applyDamage(s, e, false)
	events = append(events, dmgEvents...)
	var compEvents []Event
	s, compEvents = completeResolution(s, idx, orient, true)
	return s, append(events, compEvents...), false
}

// resolveEnemyFightChoice applies the player's weapon/barehand answer to a
// parked ENEMY_FIGHT_CHOICE prompt.
func resolveEnemyFightChoice(s RunState, a Action) (RunState, []Event, error) {
	p := s.Pending
	idx := p.SlotIndex
	e := p.EnemyValue
	orient := effectiveOrientation(s, idx)
	s.Pending = nil

	var events []Event
	if a.UseWeapon {
		if s.Player.Weapon == nil {
			return s, nil, illegalf("no weapon equipped")
		}
		dmg := e - s.Player.Weapon.Value
		if dmg < 0 {
			dmg = 0
		}
		var dmgEvents []Event
		s, dmgEvents = applyDamage(s, dmg, false)
		events = append(events, dmgEvents...)
		v := e
		s.Player.Weapon.LastHelpedDefeatValue = &v
		s.Player.Weapon.TuckedEnemyIDs = append(s.Player.Weapon.TuckedEnemyIDs, s.Room.Slots[idx])
		s.Player.CheatWeaponNextEnemyFight = false
		s.Player.CheatWeaponThisRoom = false
	} else {
		var dmgEvents []Event
		s, dmgEvents = applyDamage(s, e, false)
		events = append(events, dmgEvents...)
	}
	var compEvents []Event
	s, compEvents = completeResolution(s, idx, orient, true)
	return s, append(events, compEvents...), nil
}

// resolveAmbushBlock applies the player's block/no-block answer to a parked
// SWORDS_AMBUSH_BLOCK prompt.
func resolveAmbushBlock(s RunState, a Action) (RunState, []Event, error) {
	p := s.Pending
	idx := p.SlotIndex
	id := s.Room.Slots[idx]
	v := id.Rank().NumberedValue()
	orient := effectiveOrientation(s, idx)
	s.Pending = nil

	dmg := v
	if a.Block {
		if s.Player.Weapon == nil {
			return s, nil, illegalf("no weapon equipped to block with")
		}
		dmg = v - s.Player.Weapon.Value
		if dmg < 0 {
			dmg = 0
		}
	}
	var events []Event
	var dmgEvents []Event
	s, dmgEvents = applyDamage(s, dmg, false)
	events = append(events, dmgEvents...)
	var compEvents []Event
	s, compEvents = completeResolution(s, idx, orient, true)
	return s, append(events, compEvents...), nil
}

// resolveCupsHighChoice applies the player's heal-vs-equip-armor answer to
// a parked CUPS_HIGH_CHOICE prompt. The prompt is only raised for upright
// cards, so no Fate is ever granted here.
func resolveCupsHighChoice(s RunState, a Action) (RunState, []Event, error) {
	p := s.Pending
	idx := p.SlotIndex
	id := s.Room.Slots[idx]
	v := id.Rank().NumberedValue()
	s.Pending = nil

	var events []Event
	if a.ChooseHeal {
		var healed int
		s, healed = applyHeal(s, v)
		if healed > 0 {
			events = append(events, hpEvent(healed, s.Player.HP))
		}
		s.Floor.Discard = append(s.Floor.Discard, id)
	} else {
		if s.Player.Armor != nil {
			events = append(events, Event{Type: EventDiscardEquipment, Equipment: EquipmentArmor, CardID: s.Player.Armor.CardID})
			s.Floor.Discard = append(s.Floor.Discard, s.Player.Armor.CardID)
		}
		s.Player.Armor = &Equipment{CardID: id, Value: v}
		events = append(events, Event{Type: EventEquipArmor, CardID: id, SlotIndex: idx, Value: v})
	}
	s.Room.ResolvedMask[idx] = true
	s.Room.AnyResolvedThisRoom = true
	events = append(events, Event{Type: EventCardResolved, CardID: id, SlotIndex: idx, Orientation: Upright})
	return s, events, nil
}

// resolveAceChoice applies the player's suit-specific answer to a parked
// ACE_CHOICE prompt. Every branch discards the Ace to the floor discard and
// grants Fate if the Ace's effective orientation was reversed.
func resolveAceChoice(s RunState, a Action) (RunState, []Event, error) {
	p := s.Pending
	idx := p.SlotIndex
	id := s.Room.Slots[idx]
	suit := id.Suit()
	orient := effectiveOrientation(s, idx)
	s.Pending = nil

	var events []Event
	switch suit {
	case SuitPentacles:
		switch a.OptionKey {
		case "pay5_heal5":
			if s.Player.Gold < 5 {
				return s, nil, illegalf("not enough gold for pay5_heal5")
			}
			before := s.Player.Gold
			s.Player.Gold -= 5
			events = append(events, goldEvent(s.Player.Gold-before, s.Player.Gold))
			var healed int
			s, healed = applyHeal(s, 5)
			if healed > 0 {
				events = append(events, hpEvent(healed, s.Player.HP))
			}
		case "gain5_take3":
			before := s.Player.Gold
			s.Player.Gold = clampGold(s.Player.Gold + 5)
			events = append(events, goldEvent(s.Player.Gold-before, s.Player.Gold))
			var dmgEvents []Event
			s, dmgEvents = applyDamage(s, 3, false)
			events = append(events, dmgEvents...)
		default:
			return s, nil, illegalf("invalid pentacles ace option %q", a.OptionKey)
		}

	case SuitCups:
		switch a.OptionKey {
		case "heal_to_full":
			var healed int
			s, healed = applyHeal(s, s.Player.MaxHP-s.Player.HP)
			if healed > 0 {
				events = append(events, hpEvent(healed, s.Player.HP))
			}
		case "cleanse_free":
			if !validOtherSlot(s, idx, a.TargetSlot) {
				return s, nil, illegalf("invalid cleanse_free target slot %d", a.TargetSlot)
			}
			if effectiveOrientation(s, a.TargetSlot) != Reversed {
				return s, nil, illegalf("cleanse_free target must be effective-reversed")
			}
			s = cleanseSlot(s, a.TargetSlot)
		default:
			return s, nil, illegalf("invalid cups ace option %q", a.OptionKey)
		}

	case SuitWands:
		switch a.OptionKey {
		case "exile_replace_free":
			if !validOtherSlot(s, idx, a.TargetSlot) {
				return s, nil, illegalf("invalid exile_replace_free target slot %d", a.TargetSlot)
			}
			var more []Event
			s, more = exileReplaceSlot(s, a.TargetSlot)
			events = append(events, more...)
		case "reroll_free":
			if !validOtherSlot(s, idx, a.TargetSlot) {
				return s, nil, illegalf("invalid reroll_free target slot %d", a.TargetSlot)
			}
			var more []Event
			s, more = rerollSlot(s, a.TargetSlot)
			events = append(events, more...)
		default:
			return s, nil, illegalf("invalid wands ace option %q", a.OptionKey)
		}

	case SuitSwords:
		switch a.OptionKey {
		case "cheat_weapon_free":
			s.Player.CheatWeaponThisRoom = true
		case "reroll_free":
			if !validOtherSlot(s, idx, a.TargetSlot) {
				return s, nil, illegalf("invalid reroll_free target slot %d", a.TargetSlot)
			}
			var more []Event
			s, more = rerollSlot(s, a.TargetSlot)
			events = append(events, more...)
		default:
			return s, nil, illegalf("invalid swords ace option %q", a.OptionKey)
		}
	}

	var compEvents []Event
	s, compEvents = completeResolution(s, idx, orient, true)
	return s, append(events, compEvents...), nil
}

// validOtherSlot reports whether target is a distinct, occupied,
// not-yet-resolved-or-exiled room slot.
func validOtherSlot(s RunState, self, target int) bool {
	if target == self || target < 0 || target >= len(s.Room.Slots) {
		return false
	}
	if s.Room.Slots[target] == "" {
		return false
	}
	return !s.Room.ResolvedMask[target] && !s.Room.ExiledMask[target]
}
