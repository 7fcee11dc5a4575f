package engine

// effectiveOrientation computes a room slot's effective orientation per
// the three ordered steps: start from the card's physical orientation;
// force reversed for a numbered minor while boss_mode is active ("boss
// corruption"); then let a pending cleanse on that slot override back to
// upright, since cleanse wins over boss corruption.
func effectiveOrientation(s RunState, idx int) Orientation {
	id := s.Room.Slots[idx]
	orient := s.Room.Orientations[idx]

	if s.Floor.BossMode && id.Rank().IsNumbered() {
		orient = Reversed
	}
	if s.Room.PendingCleanses[idx] {
		orient = Upright
	}
	return orient
}

// armorValue returns the flat damage reduction the player's equipped armor
// currently grants. Armor is single-use: the caller is responsible for
// discarding it once its reduction has applied to a hit.
func armorValue(p Player) int {
	if p.Armor == nil {
		return 0
	}
	return p.Armor.Value
}

// canUseWeapon reports whether the player's equipped weapon may be used
// against an enemy of the given effective value.
//
// Either cheat flag short-circuits to true. Otherwise: if the weapon has
// never helped defeat an enemy, it may always be used; past that, STRICT
// requires a strictly weaker enemy than the last one it helped defeat,
// while DEFAULT permits one of equal or lesser value.
func canUseWeapon(p Player, mode WeaponRestrictionMode, enemyValue int) bool {
	if p.Weapon == nil {
		return false
	}
	if p.CheatWeaponNextEnemyFight || p.CheatWeaponThisRoom {
		return true
	}
	if p.Weapon.LastHelpedDefeatValue == nil {
		return true
	}
	last := *p.Weapon.LastHelpedDefeatValue
	if mode == WeaponRestrictionStrict {
		return enemyValue < last
	}
	return enemyValue <= last
}

// applyHeal is the per-room healing limiter used by every heal source
// (Cups, Ace heals, Major bargains): a no-op once healing has already been
// used this room or amount is non-positive; otherwise HP rises by
// min(amount, max_hp-hp), and the limiter only latches if that rise was
// actually positive.
func applyHeal(s RunState, amount int) (RunState, int) {
	if s.Room.HealingUsedThisRoom || amount <= 0 {
		return s, 0
	}
	room := amount
	if headroom := s.Player.MaxHP - s.Player.HP; room > headroom {
		room = headroom
	}
	if room <= 0 {
		return s, 0
	}
	s.Player.HP += room
	s.Room.HealingUsedThisRoom = true
	return s, room
}

// fateActionDisabled reports whether a Major shadow has disabled the given
// Fate-spent action for the current room or floor.
func fateActionDisabled(s RunState, action FateActionKind) bool {
	if s.Room.DisabledFateActionsThisRoom != nil && s.Room.DisabledFateActionsThisRoom[action] {
		return true
	}
	return s.Floor.Rules.DisabledFateActionsThisFloor != nil && s.Floor.Rules.DisabledFateActionsThisFloor[action]
}

// clampHP keeps HP within [0, MaxHP].
func clampHP(hp, maxHP int) int {
	if hp < 0 {
		return 0
	}
	if hp > maxHP {
		return maxHP
	}
	return hp
}

// clampNonNegative floors a resource value at zero.
func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// clampFate keeps Fate within [0, FateCap].
func clampFate(v int) int {
	if v < 0 {
		return 0
	}
	if v > FateCap {
		return FateCap
	}
	return v
}

// clampGold keeps Gold within [0, GoldCap].
func clampGold(v int) int {
	if v < 0 {
		return 0
	}
	if v > GoldCap {
		return GoldCap
	}
	return v
}

// gainFate applies the universal rule that completing the resolution of any
// minor whose effective orientation was reversed grants +1 Fate. Cleansed
// cards are effective-upright by construction and so never trigger this.
func gainFate(s RunState, orient Orientation, idx int) (RunState, []Event) {
	if orient != Reversed {
		return s, nil
	}
	before := s.Player.Fate
	s.Player.Fate = clampFate(s.Player.Fate + 1)
	return s, []Event{fateEvent(s.Player.Fate-before, s.Player.Fate)}
}
