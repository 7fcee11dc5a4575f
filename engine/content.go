package engine

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MajorID identifies one of the 21 Major Arcana content entries.
type MajorID string

// Trigger identifies when a Major's shadow effect fires automatically.
type Trigger string

const (
	TriggerFloorStart               Trigger = "FLOOR_START"
	TriggerRoomRevealed             Trigger = "ROOM_REVEALED"
	TriggerOrderConstraint          Trigger = "ORDER_CONSTRAINT"
	TriggerBeforeFirstResolveAttempt Trigger = "BEFORE_FIRST_RESOLVE_ATTEMPT"
	TriggerAfterFirstResolution      Trigger = "AFTER_FIRST_RESOLUTION"
)

// EffectPrimitive is the closed set of Majors effect-tree node kinds.
type EffectPrimitive string

const (
	EffectNoop                          EffectPrimitive = "NOOP"
	EffectSequence                      EffectPrimitive = "SEQUENCE"
	EffectChoice                        EffectPrimitive = "CHOICE"
	EffectConditional                   EffectPrimitive = "CONDITIONAL"
	EffectRerollRevealed                EffectPrimitive = "REROLL_REVEALED"
	EffectExileReplaceRevealed          EffectPrimitive = "EXILE_REPLACE_REVEALED"
	EffectCleanseRevealed               EffectPrimitive = "CLEANSE_REVEALED"
	EffectPeekTopN                      EffectPrimitive = "PEEK_TOP_N"
	EffectReorderTopN                   EffectPrimitive = "REORDER_TOP_N"
	EffectReorderRoomByValue            EffectPrimitive = "REORDER_ROOM_BY_VALUE"
	EffectReorderRoomArbitrary          EffectPrimitive = "REORDER_ROOM_ARBITRARY"
	EffectBargain                       EffectPrimitive = "BARGAIN"
	EffectDisableFateAction             EffectPrimitive = "DISABLE_FATE_ACTION"
	EffectSetWeaponRestrictionMode      EffectPrimitive = "SET_WEAPON_RESTRICTION_MODE"
	EffectSetOrderConstraint            EffectPrimitive = "SET_ORDER_CONSTRAINT"
	EffectSetFloorParam                 EffectPrimitive = "SET_FLOOR_PARAM"
	EffectForcedExileFirstResolveAttempt EffectPrimitive = "FORCED_EXILE_FIRST_RESOLVE_ATTEMPT"
)

// Selector is the candidate-picking strategy for target-selecting primitives.
type Selector string

const (
	SelectorPlayerChoice             Selector = "PLAYER_CHOICE"
	SelectorRandom                   Selector = "RANDOM"
	SelectorLeftmost                 Selector = "LEFTMOST"
	SelectorHighestValue             Selector = "HIGHEST_VALUE"
	SelectorIfEnemyPresentPlayerChoice Selector = "IF_ENEMY_PRESENT_PLAYER_CHOICE"
	SelectorIfAnyReversedPlayerChoice  Selector = "IF_ANY_REVERSED_PLAYER_CHOICE"
)

// Predicate is the closed set of CONDITIONAL test kinds.
type Predicate string

const (
	PredicateRoomHasEnemy               Predicate = "ROOM_HAS_ENEMY"
	PredicateRoomHasAnyEffectiveReversed Predicate = "ROOM_HAS_ANY_EFFECTIVE_REVERSED"
	PredicatePlayerGoldAtLeast          Predicate = "PLAYER_GOLD_AT_LEAST"
)

// FateActionKind names a Fate-spent room-manipulation action that can be
// disabled by a Major shadow.
type FateActionKind string

const (
	FateActionCleanse FateActionKind = "CLEANSE"
	FateActionReroll  FateActionKind = "REROLL"
)

// EffectScope is the lifetime a rules-modifying effect is in force for.
type EffectScope string

const (
	ScopeThisRoom  EffectScope = "THIS_ROOM"
	ScopeThisFloor EffectScope = "THIS_FLOOR"
)

// WeaponRestrictionMode controls whether a carried weapon can fight a
// stronger enemy than the last one it helped defeat.
type WeaponRestrictionMode string

const (
	WeaponRestrictionDefault WeaponRestrictionMode = "DEFAULT"
	WeaponRestrictionStrict  WeaponRestrictionMode = "STRICT"
)

// OrderConstraintKind restricts which room slot may be committed next.
// ASC_ORDERING_VALUE is spelled out in full here (spec.md §3/§4.5); §4.2's
// "ASC_VALUE" is treated as shorthand for the same constant, not a distinct
// one: UnmarshalJSON decodes "ASC_VALUE" to OrderConstraintAscOrderingValue
// — see DESIGN.md.
type OrderConstraintKind string

// UnmarshalJSON decodes an order constraint, mapping the "ASC_VALUE"
// spelling onto OrderConstraintAscOrderingValue.
func (k *OrderConstraintKind) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == "ASC_VALUE" {
		v = string(OrderConstraintAscOrderingValue)
	}
	*k = OrderConstraintKind(v)
	return nil
}

const (
	OrderConstraintNone            OrderConstraintKind = "NONE"
	OrderConstraintLeftToRight     OrderConstraintKind = "LEFT_TO_RIGHT"
	OrderConstraintRightToLeft     OrderConstraintKind = "RIGHT_TO_LEFT"
	OrderConstraintSuitOrder       OrderConstraintKind = "SUIT_ORDER"
	OrderConstraintAscOrderingValue OrderConstraintKind = "ASC_ORDERING_VALUE"
)

// ChariotDirection is the value domain of the SET_FLOOR_PARAM "chariotDirection" key.
type ChariotDirection string

const (
	ChariotNone         ChariotDirection = ""
	ChariotLeftToRight  ChariotDirection = "LEFT_TO_RIGHT"
	ChariotRightToLeft  ChariotDirection = "RIGHT_TO_LEFT"
)

// EffectOption is one branch of a CHOICE node.
type EffectOption struct {
	Key      string     `json:"key"`
	LabelKey string     `json:"label_key"`
	Effect   EffectNode `json:"effect"`
}

// BargainOption is one offer of a BARGAIN node.
type BargainOption struct {
	Key        string `json:"key"`
	PayGold    int    `json:"pay_gold,omitempty"`
	TakeDamage int    `json:"take_damage,omitempty"`
	Heal       int    `json:"heal,omitempty"`
	GainGold   int    `json:"gain_gold,omitempty"`
}

// ConditionSpec is the test evaluated by a CONDITIONAL node.
type ConditionSpec struct {
	Predicate Predicate `json:"predicate"`
	Value     int       `json:"value,omitempty"`
}

// EffectNode is one node of a Major's shadow/gift effect tree. Only the
// fields relevant to Primitive are populated; the pack's content bundles
// are trusted, schema-validated JSON, not hostile input.
type EffectNode struct {
	Primitive EffectPrimitive `json:"primitive"`

	Effects []EffectNode `json:"effects,omitempty"` // SEQUENCE

	PromptKey      string          `json:"prompt_key,omitempty"`      // CHOICE, BARGAIN
	Options        []EffectOption  `json:"options,omitempty"`         // CHOICE
	BargainOptions []BargainOption `json:"bargain_options,omitempty"` // BARGAIN

	If   *ConditionSpec `json:"if,omitempty"` // CONDITIONAL
	Then *EffectNode    `json:"then,omitempty"`
	Else *EffectNode    `json:"else,omitempty"`

	Selector Selector `json:"selector,omitempty"` // REROLL/EXILE/CLEANSE_REVEALED

	N          int  `json:"n,omitempty"`           // PEEK_TOP_N, REORDER_TOP_N
	CanReorder bool `json:"can_reorder,omitempty"` // PEEK_TOP_N

	FateAction FateActionKind `json:"fate_action,omitempty"` // DISABLE_FATE_ACTION
	Scope      EffectScope    `json:"scope,omitempty"`

	Mode WeaponRestrictionMode `json:"mode,omitempty"` // SET_WEAPON_RESTRICTION_MODE

	OrderConstraint            OrderConstraintKind `json:"order_constraint,omitempty"` // SET_ORDER_CONSTRAINT
	RequiresChooseCarriedFirst bool                `json:"requires_choose_carried_first,omitempty"`

	ParamKey   string `json:"param_key,omitempty"` // SET_FLOOR_PARAM
	ParamValue string `json:"param_value,omitempty"`
}

// MajorUI is the set of opaque localized-string keys a client resolves
// against the strings bundle to render a Major.
type MajorUI struct {
	TitleKey  string `json:"title_key"`
	FlavorKey string `json:"flavor_key"`
	IconKey   string `json:"icon_key"`
}

// MajorShadow fires automatically via its Trigger; MajorGift fires only on
// an explicit USE_MAJOR_GIFT action while attuned and unspent this floor.
type MajorShadow struct {
	Trigger Trigger    `json:"trigger"`
	Effect  EffectNode `json:"effect"`
}

type MajorGift struct {
	Effect EffectNode `json:"effect"`
}

// MajorDef is one content-authored Major Arcana definition.
type MajorDef struct {
	ID     MajorID     `json:"id"`
	UI     MajorUI     `json:"ui"`
	Shadow MajorShadow `json:"shadow"`
	Gift   MajorGift   `json:"gift"`
}

// MajorsBundle is the wire shape of the Majors content input.
type MajorsBundle struct {
	ContentVersion string     `json:"content_version"`
	Majors         []MajorDef `json:"majors"`
}

// StringsBundle maps opaque string keys to localized display text.
type StringsBundle map[string]string

// ContentBundleInput is the full input accepted by LoadContent.
type ContentBundleInput struct {
	MajorsBundle  MajorsBundle  `json:"majors_bundle"`
	StringsBundle StringsBundle `json:"strings_bundle"`
}

// requiredMajorCount is the fixed size of a conforming Majors bundle.
const requiredMajorCount = 21

// contentBundle is the validated, indexed form of a loaded content input.
type contentBundle struct {
	version string
	majors  map[MajorID]MajorDef
	// order is the order Majors appear in majors_bundle.majors, and is the
	// order the run's major_deck is built from before its one shuffle.
	order   []MajorID
	strings StringsBundle
}

var (
	contentMu sync.RWMutex
	loaded    *contentBundle
)

// LoadContent validates and installs the process-wide content bundle. It
// may be called more than once (e.g. in tests); each call atomically
// replaces the previous bundle.
func LoadContent(in ContentBundleInput) error {
	b, err := validateContent(in)
	if err != nil {
		return err
	}
	contentMu.Lock()
	loaded = b
	contentMu.Unlock()
	return nil
}

// LoadContentJSON is a convenience wrapper for loading from the persisted
// JSON content-bundle shape.
func LoadContentJSON(data []byte) error {
	var in ContentBundleInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrContentInvalid, err)
	}
	return LoadContent(in)
}

// requireContent returns the active content bundle or ErrContentNotLoaded.
func requireContent() (*contentBundle, error) {
	contentMu.RLock()
	defer contentMu.RUnlock()
	if loaded == nil {
		return nil, ErrContentNotLoaded
	}
	return loaded, nil
}

func validateContent(in ContentBundleInput) (*contentBundle, error) {
	var problems []string

	if n := len(in.MajorsBundle.Majors); n != requiredMajorCount {
		problems = append(problems, fmt.Sprintf("expected exactly %d majors, got %d", requiredMajorCount, n))
	}

	seen := make(map[MajorID]bool, len(in.MajorsBundle.Majors))
	order := make([]MajorID, 0, len(in.MajorsBundle.Majors))
	majors := make(map[MajorID]MajorDef, len(in.MajorsBundle.Majors))
	usedKeys := make(map[string]bool)

	for i, m := range in.MajorsBundle.Majors {
		if m.ID == "" {
			problems = append(problems, fmt.Sprintf("majors[%d]: missing id", i))
			continue
		}
		if seen[m.ID] {
			problems = append(problems, fmt.Sprintf("majors[%d]: duplicate id %q", i, m.ID))
			continue
		}
		seen[m.ID] = true
		order = append(order, m.ID)
		majors[m.ID] = m

		for _, k := range []string{m.UI.TitleKey, m.UI.FlavorKey, m.UI.IconKey} {
			if k != "" {
				usedKeys[k] = true
			}
		}

		switch m.Shadow.Trigger {
		case TriggerFloorStart, TriggerRoomRevealed, TriggerOrderConstraint,
			TriggerBeforeFirstResolveAttempt, TriggerAfterFirstResolution:
		default:
			problems = append(problems, fmt.Sprintf("majors[%d] (%s): unknown shadow trigger %q", i, m.ID, m.Shadow.Trigger))
		}

		collectStringKeys(m.Shadow.Effect, usedKeys)
		collectStringKeys(m.Gift.Effect, usedKeys)

		if errs := validateEffectNode(m.Shadow.Effect); len(errs) > 0 {
			for _, e := range errs {
				problems = append(problems, fmt.Sprintf("majors[%d] (%s) shadow: %s", i, m.ID, e))
			}
		}
		if errs := validateEffectNode(m.Gift.Effect); len(errs) > 0 {
			for _, e := range errs {
				problems = append(problems, fmt.Sprintf("majors[%d] (%s) gift: %s", i, m.ID, e))
			}
		}
	}

	for key := range usedKeys {
		if _, ok := in.StringsBundle[key]; !ok {
			problems = append(problems, fmt.Sprintf("missing string key %q referenced by majors bundle", key))
		}
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrContentInvalid, problems)
	}

	return &contentBundle{
		version: in.MajorsBundle.ContentVersion,
		majors:  majors,
		order:   order,
		strings: in.StringsBundle,
	}, nil
}

// collectStringKeys walks an effect tree accumulating every prompt/option
// label key it references, so LoadContent can verify they all resolve.
func collectStringKeys(n EffectNode, into map[string]bool) {
	if n.PromptKey != "" {
		into[n.PromptKey] = true
	}
	for _, opt := range n.Options {
		if opt.LabelKey != "" {
			into[opt.LabelKey] = true
		}
		collectStringKeys(opt.Effect, into)
	}
	for _, e := range n.Effects {
		collectStringKeys(e, into)
	}
	if n.Then != nil {
		collectStringKeys(*n.Then, into)
	}
	if n.Else != nil {
		collectStringKeys(*n.Else, into)
	}
}

// validateEffectNode checks the structural shape rules from spec.md §4.2.
func validateEffectNode(n EffectNode) []string {
	var errs []string
	switch n.Primitive {
	case "", EffectNoop:
		// no-op nodes require nothing further.
	case EffectSequence:
		if len(n.Effects) == 0 {
			errs = append(errs, "SEQUENCE requires non-empty effects")
		}
		for _, e := range n.Effects {
			errs = append(errs, validateEffectNode(e)...)
		}
	case EffectChoice:
		if n.PromptKey == "" || len(n.Options) < 2 {
			errs = append(errs, "CHOICE requires prompt_key and >=2 options")
		}
		for _, o := range n.Options {
			errs = append(errs, validateEffectNode(o.Effect)...)
		}
	case EffectBargain:
		if n.PromptKey == "" || len(n.BargainOptions) < 2 {
			errs = append(errs, "BARGAIN requires prompt_key and >=2 options")
		}
		for _, o := range n.BargainOptions {
			if o.PayGold < 0 || o.TakeDamage < 0 || o.Heal < 0 || o.GainGold < 0 {
				errs = append(errs, "BARGAIN option values must be non-negative")
			}
		}
	case EffectConditional:
		if n.If == nil || n.Then == nil || n.Else == nil {
			errs = append(errs, "CONDITIONAL requires if, then, else")
			break
		}
		switch n.If.Predicate {
		case PredicateRoomHasEnemy, PredicateRoomHasAnyEffectiveReversed, PredicatePlayerGoldAtLeast:
		default:
			errs = append(errs, fmt.Sprintf("CONDITIONAL: unknown predicate %q", n.If.Predicate))
		}
		errs = append(errs, validateEffectNode(*n.Then)...)
		errs = append(errs, validateEffectNode(*n.Else)...)
	case EffectRerollRevealed, EffectExileReplaceRevealed, EffectCleanseRevealed:
		switch n.Selector {
		case SelectorPlayerChoice, SelectorRandom, SelectorLeftmost, SelectorHighestValue,
			SelectorIfEnemyPresentPlayerChoice, SelectorIfAnyReversedPlayerChoice:
		default:
			errs = append(errs, fmt.Sprintf("%s requires a valid selector, got %q", n.Primitive, n.Selector))
		}
	case EffectPeekTopN:
		if n.N != 3 {
			errs = append(errs, "PEEK_TOP_N requires n == 3")
		}
	case EffectReorderTopN:
		if n.N != 3 {
			errs = append(errs, "REORDER_TOP_N requires n == 3")
		}
	case EffectReorderRoomByValue, EffectReorderRoomArbitrary:
		// no further fields required.
	case EffectDisableFateAction:
		if n.FateAction != FateActionCleanse && n.FateAction != FateActionReroll {
			errs = append(errs, "DISABLE_FATE_ACTION requires fate_action CLEANSE or REROLL")
		}
		if n.Scope != ScopeThisRoom && n.Scope != ScopeThisFloor {
			errs = append(errs, "DISABLE_FATE_ACTION requires a valid scope")
		}
	case EffectSetWeaponRestrictionMode:
		if n.Mode != WeaponRestrictionDefault && n.Mode != WeaponRestrictionStrict {
			errs = append(errs, "SET_WEAPON_RESTRICTION_MODE requires a valid mode")
		}
		if n.Scope != ScopeThisRoom && n.Scope != ScopeThisFloor {
			errs = append(errs, "SET_WEAPON_RESTRICTION_MODE requires a valid scope")
		}
	case EffectSetOrderConstraint:
		switch n.OrderConstraint {
		case OrderConstraintNone, OrderConstraintLeftToRight, OrderConstraintRightToLeft,
			OrderConstraintSuitOrder, OrderConstraintAscOrderingValue:
		default:
			errs = append(errs, "SET_ORDER_CONSTRAINT requires a valid order_constraint")
		}
		if n.Scope != ScopeThisRoom && n.Scope != ScopeThisFloor {
			errs = append(errs, "SET_ORDER_CONSTRAINT requires a valid scope")
		}
	case EffectSetFloorParam:
		if n.ParamKey == "" {
			errs = append(errs, "SET_FLOOR_PARAM requires param_key")
		}
		if n.ParamKey == "chariotDirection" && n.ParamValue != string(ChariotLeftToRight) && n.ParamValue != string(ChariotRightToLeft) {
			errs = append(errs, "SET_FLOOR_PARAM chariotDirection requires LEFT_TO_RIGHT or RIGHT_TO_LEFT")
		}
		if n.Scope != ScopeThisRoom && n.Scope != ScopeThisFloor {
			errs = append(errs, "SET_FLOOR_PARAM requires a valid scope")
		}
	case EffectForcedExileFirstResolveAttempt:
		// flag-only primitive, nothing further required.
	default:
		errs = append(errs, fmt.Sprintf("unknown effect primitive %q", n.Primitive))
	}
	return errs
}
