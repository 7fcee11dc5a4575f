package engine

import "github.com/google/uuid"

// Phase is the run's current point in the fixed per-room/per-floor state
// machine.
type Phase string

const (
	PhaseRunInit          Phase = "RUN_INIT"
	PhaseFloorStart       Phase = "FLOOR_START"
	PhaseRoomReveal       Phase = "ROOM_REVEAL"
	PhaseRoomChoice       Phase = "ROOM_CHOICE"
	PhaseEngageSetup      Phase = "ENGAGE_SETUP"
	PhasePreResolveWindow Phase = "PRE_RESOLVE_WINDOW"
	PhaseResolveCommit    Phase = "RESOLVE_COMMIT"
	PhaseResolveExecute   Phase = "RESOLVE_EXECUTE"
	PhaseRoomEnd          Phase = "ROOM_END"
	PhaseRunVictory       Phase = "RUN_VICTORY"
	PhaseRunDefeat        Phase = "RUN_DEFEAT"
)

// EquipmentKind identifies which equipment slot a card occupies.
type EquipmentKind string

const (
	EquipmentWeapon EquipmentKind = "WEAPON"
	EquipmentArmor  EquipmentKind = "ARMOR"
	EquipmentSpell  EquipmentKind = "SPELL"
)

// Equipment is a card currently occupying the weapon, armor, or spell slot.
// LastHelpedDefeatValue and TuckedEnemyIDs are only meaningful on a weapon.
type Equipment struct {
	CardID CardID `json:"card_id"`
	Value  int    `json:"value"`

	LastHelpedDefeatValue *int     `json:"last_helped_defeat_value,omitempty"`
	TuckedEnemyIDs        []CardID `json:"tucked_enemy_ids,omitempty"`
}

func (e *Equipment) clone() *Equipment {
	if e == nil {
		return nil
	}
	c := *e
	if e.LastHelpedDefeatValue != nil {
		v := *e.LastHelpedDefeatValue
		c.LastHelpedDefeatValue = &v
	}
	c.TuckedEnemyIDs = append([]CardID(nil), e.TuckedEnemyIDs...)
	return &c
}

// FateCap and GoldCap are the hard caps on the player's Fate and Gold
// counters.
const (
	FateCap = 10
	GoldCap = 9999
)

// Player is the run's persistent player-character state.
type Player struct {
	HP    int `json:"hp"`
	MaxHP int `json:"max_hp"`
	Gold  int `json:"gold"`
	Fate  int `json:"fate"`

	Weapon *Equipment `json:"weapon,omitempty"`
	Armor  *Equipment `json:"armor,omitempty"`
	Spell  *Equipment `json:"spell,omitempty"`

	CheatWeaponNextEnemyFight bool `json:"cheat_weapon_next_enemy_fight"`
	CheatWeaponThisRoom       bool `json:"cheat_weapon_this_room"`
}

func (p Player) clone() Player {
	p.Weapon = p.Weapon.clone()
	p.Armor = p.Armor.clone()
	p.Spell = p.Spell.clone()
	return p
}

// Room holds the fixed four card slots revealed for the player to act on.
// An empty CardID at a slot index means the slot is unoccupied.
type Room struct {
	Slots           [4]CardID      `json:"slots"`
	ResolvedMask    [4]bool        `json:"resolved_mask"`
	ExiledMask      [4]bool        `json:"exiled_mask"`
	Orientations    [4]Orientation `json:"orientations"`
	PendingCleanses [4]bool        `json:"pending_cleanses"`

	CarriedIndex     *int `json:"carried_index,omitempty"`
	CarryChoiceIndex *int `json:"carry_choice_index,omitempty"`

	IsEngaged bool `json:"is_engaged"`

	LeapUsedThisRoom              bool `json:"leap_used_this_room"`
	HealingUsedThisRoom           bool `json:"healing_used_this_room"`
	HangedManTriggeredThisRoom    bool `json:"hanged_man_triggered_this_room"`
	FirstResolveAttemptedThisRoom bool `json:"first_resolve_attempted_this_room"`
	AnyResolvedThisRoom           bool `json:"any_resolved_this_room"`

	DisabledFateActionsThisRoom map[FateActionKind]bool `json:"disabled_fate_actions_this_room,omitempty"`
}

func (r Room) clone() Room {
	if r.CarriedIndex != nil {
		v := *r.CarriedIndex
		r.CarriedIndex = &v
	}
	if r.CarryChoiceIndex != nil {
		v := *r.CarryChoiceIndex
		r.CarryChoiceIndex = &v
	}
	if r.DisabledFateActionsThisRoom != nil {
		m := make(map[FateActionKind]bool, len(r.DisabledFateActionsThisRoom))
		for k, v := range r.DisabledFateActionsThisRoom {
			m[k] = v
		}
		r.DisabledFateActionsThisRoom = m
	}
	return r
}

// FloorRules are the room/floor-scoped rule overrides a Major's shadow or
// gift effect may install.
type FloorRules struct {
	WeaponRestrictionMode      WeaponRestrictionMode `json:"weapon_restriction_mode"`
	WeaponRestrictionRoomScoped bool                 `json:"weapon_restriction_room_scoped"`

	OrderConstraint            OrderConstraintKind `json:"order_constraint"`
	RequiresChooseCarriedFirst bool                `json:"requires_choose_carried_first"`
	OrderConstraintRoomScoped  bool                `json:"order_constraint_room_scoped"`

	DisabledFateActionsThisFloor map[FateActionKind]bool `json:"disabled_fate_actions_this_floor,omitempty"`

	// FloorParams holds arbitrary SET_FLOOR_PARAM key/value pairs a Major
	// effect has installed for the floor. The "chariotDirection" key is
	// mirrored onto Floor.ChariotDirection as well; room reveal does not
	// read either copy.
	FloorParams map[string]string `json:"floor_params,omitempty"`
}

func (r FloorRules) clone() FloorRules {
	if r.DisabledFateActionsThisFloor != nil {
		m := make(map[FateActionKind]bool, len(r.DisabledFateActionsThisFloor))
		for k, v := range r.DisabledFateActionsThisFloor {
			m[k] = v
		}
		r.DisabledFateActionsThisFloor = m
	}
	if r.FloorParams != nil {
		m := make(map[string]string, len(r.FloorParams))
		for k, v := range r.FloorParams {
			m[k] = v
		}
		r.FloorParams = m
	}
	return r
}

// Floor is the run's current floor: its active Major, deck/discard state,
// and boss-mode progress.
type Floor struct {
	Number        int     `json:"number"`
	ActiveMajorID MajorID `json:"active_major_id,omitempty"`

	Deck    []CardID `json:"deck"`
	Discard []CardID `json:"discard"`

	EngagedRoomsCompleted int `json:"engaged_rooms_completed"`

	BossMode           bool     `json:"boss_mode"`
	BossRoomsRequired  int      `json:"boss_rooms_required,omitempty"`
	BossRoomsCompleted int      `json:"boss_rooms_completed,omitempty"`
	BossDeck           []CardID `json:"boss_deck,omitempty"`

	ChariotDirection ChariotDirection `json:"chariot_direction,omitempty"`

	Rules FloorRules `json:"rules"`
}

func (f Floor) clone() Floor {
	f.Deck = append([]CardID(nil), f.Deck...)
	f.Discard = append([]CardID(nil), f.Discard...)
	if f.BossDeck != nil {
		f.BossDeck = append([]CardID(nil), f.BossDeck...)
	}
	f.Rules = f.Rules.clone()
	return f
}

// MajorsState tracks the run-wide Major deck, which Majors have been
// defeated ("claimed"), which subset is attuned, and which attuned Majors
// have already had their gift spent this floor.
type MajorsState struct {
	Deck           []MajorID `json:"deck"`
	Claimed        []MajorID `json:"claimed"`
	Attuned        []MajorID `json:"attuned"`
	SpentThisFloor []MajorID `json:"spent_this_floor"`
}

func (m MajorsState) clone() MajorsState {
	m.Deck = append([]MajorID(nil), m.Deck...)
	m.Claimed = append([]MajorID(nil), m.Claimed...)
	m.Attuned = append([]MajorID(nil), m.Attuned...)
	m.SpentThisFloor = append([]MajorID(nil), m.SpentThisFloor...)
	return m
}

func containsMajor(list []MajorID, id MajorID) bool {
	for _, m := range list {
		if m == id {
			return true
		}
	}
	return false
}

func (m MajorsState) isAttuned(id MajorID) bool        { return containsMajor(m.Attuned, id) }
func (m MajorsState) isSpentThisFloor(id MajorID) bool { return containsMajor(m.SpentThisFloor, id) }
func (m MajorsState) isClaimed(id MajorID) bool        { return containsMajor(m.Claimed, id) }

// PendingKind identifies the shape of a parked decision.
type PendingKind string

const (
	PendingSelectAttunement  PendingKind = "SELECT_ATTUNEMENT"
	PendingAceChoice         PendingKind = "ACE_CHOICE"
	PendingCupsHighChoice    PendingKind = "CUPS_HIGH_CHOICE"
	PendingEnemyFightChoice  PendingKind = "ENEMY_FIGHT_CHOICE"
	PendingSwordsAmbushBlock PendingKind = "SWORDS_AMBUSH_BLOCK"
	PendingMajorChoice       PendingKind = "MAJOR_CHOICE"
	PendingMajorBargain      PendingKind = "MAJOR_BARGAIN"
	PendingMajorTargetSelect PendingKind = "MAJOR_TARGET_SELECT"
	PendingMajorReorder      PendingKind = "MAJOR_REORDER"
)

// PendingPrompt is a parked decision blocking phase progress until resolved
// by a matching action. Continuation carries, as static content, the
// remaining sibling effect nodes an interrupted Major effect tree still
// needs to evaluate once the prompt resolves.
type PendingPrompt struct {
	Kind      PendingKind `json:"kind"`
	SlotIndex int         `json:"slot_index,omitempty"`

	ResumeMajor  MajorID         `json:"resume_major,omitempty"`
	ResumeIsGift bool            `json:"resume_is_gift,omitempty"`
	EffectKind   EffectPrimitive `json:"effect_kind,omitempty"`
	Continuation []EffectNode    `json:"continuation,omitempty"`

	ChoiceOptions  []EffectOption  `json:"choice_options,omitempty"`
	BargainOptions []BargainOption `json:"bargain_options,omitempty"`
	OptionKeys     []string        `json:"option_keys,omitempty"`
	BargainKeys    []string        `json:"bargain_keys,omitempty"`
	CandidateSlots []int           `json:"candidate_slots,omitempty"`
	PeekCardIDs    []CardID        `json:"peek_card_ids,omitempty"`

	// EnemyValue is the computed combat value backing an ENEMY_FIGHT_CHOICE
	// prompt. A SWORDS_AMBUSH_BLOCK prompt leaves it zero; its damage is
	// re-read from the slot card's rank when the prompt resolves.
	EnemyValue int `json:"enemy_value,omitempty"`
}

// DebugPayload carries data excluded from the canonical hash: correlation
// ids and presentation-only detail for a UI to render the current prompt.
type DebugPayload struct {
	RunID uuid.UUID `json:"run_id"`

	PromptOptionLabels  map[string]string        `json:"prompt_option_labels,omitempty"`
	PromptBargainDetail map[string]BargainOption `json:"prompt_bargain_detail,omitempty"`
}

// RunState is the complete deterministic state of a run. It is a value
// type: every reducer entry point clones on the way in and hands back a
// value equal to what a fresh construction would produce, per the
// "new state out" contract — callers must never observe a previously
// returned state mutate underneath them.
type RunState struct {
	Seed            uint32 `json:"seed"`
	RunLengthTarget int    `json:"run_length_target"`
	ContentVersion  string `json:"content_version"`

	RNG RNG `json:"rng"`

	Phase  Phase       `json:"phase"`
	Player Player      `json:"player"`
	Floor  Floor       `json:"floor"`
	Majors MajorsState `json:"majors"`
	Room   Room        `json:"room"`

	// Orientations holds every minor card's current physical orientation,
	// keyed by id. Assigned once at run creation; mutated thereafter only
	// by Leap of Faith (flips one card's orientation). Rerolls and
	// exile-replaces read a replacement card's orientation from here.
	Orientations map[CardID]Orientation `json:"orientations"`

	LastRoomWasFlee bool `json:"last_room_was_flee"`

	Pending *PendingPrompt `json:"pending,omitempty"`

	TurnCount int `json:"turn_count"`

	Debug DebugPayload `json:"debug"`
}

// Clone returns a deep copy of s.
func (s RunState) Clone() RunState {
	out := s

	out.Player = s.Player.clone()
	out.Floor = s.Floor.clone()
	out.Majors = s.Majors.clone()
	out.Room = s.Room.clone()

	if s.Orientations != nil {
		out.Orientations = make(map[CardID]Orientation, len(s.Orientations))
		for k, v := range s.Orientations {
			out.Orientations[k] = v
		}
	}

	if s.Pending != nil {
		p := *s.Pending
		p.Continuation = append([]EffectNode(nil), s.Pending.Continuation...)
		p.ChoiceOptions = append([]EffectOption(nil), s.Pending.ChoiceOptions...)
		p.BargainOptions = append([]BargainOption(nil), s.Pending.BargainOptions...)
		p.OptionKeys = append([]string(nil), s.Pending.OptionKeys...)
		p.BargainKeys = append([]string(nil), s.Pending.BargainKeys...)
		p.CandidateSlots = append([]int(nil), s.Pending.CandidateSlots...)
		p.PeekCardIDs = append([]CardID(nil), s.Pending.PeekCardIDs...)
		out.Pending = &p
	}

	if s.Debug.PromptOptionLabels != nil {
		out.Debug.PromptOptionLabels = make(map[string]string, len(s.Debug.PromptOptionLabels))
		for k, v := range s.Debug.PromptOptionLabels {
			out.Debug.PromptOptionLabels[k] = v
		}
	}
	if s.Debug.PromptBargainDetail != nil {
		out.Debug.PromptBargainDetail = make(map[string]BargainOption, len(s.Debug.PromptBargainDetail))
		for k, v := range s.Debug.PromptBargainDetail {
			out.Debug.PromptBargainDetail[k] = v
		}
	}

	return out
}
