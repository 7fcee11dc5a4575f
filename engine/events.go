package engine

// EventType is the closed set of event kinds the reducer can emit. A
// rendering client drives all of its presentation off this stream; none of
// it is re-derivable from RunState alone once a room has moved on. The
// canonical events map directly to the wire event log; a handful of
// supplementary kinds are appended for richer client presentation and are
// never part of the canonical hash.
type EventType string

const (
	EventRoomRevealed      EventType = "ROOM_REVEALED"
	EventPeekTopN          EventType = "PEEK_TOP_N"
	EventPlayerHPChanged   EventType = "PLAYER_HP_CHANGED"
	EventPlayerGoldChanged EventType = "PLAYER_GOLD_CHANGED"
	EventPlayerFateChanged EventType = "PLAYER_FATE_CHANGED"
	EventCardBottomed      EventType = "CARD_BOTTOMED"
	EventCardExiled        EventType = "CARD_EXILED"
	EventCardResolved      EventType = "CARD_RESOLVED"
	EventEquipWeapon         EventType = "EQUIP_WEAPON"
	EventEquipArmor          EventType = "EQUIP_ARMOR"
	EventEquipSpell          EventType = "EQUIP_SPELL"
	EventDiscardEquipment    EventType = "DISCARD_EQUIPMENT"
	EventOrientationFlipped  EventType = "ORIENTATION_FLIPPED"

	// Supplementary, non-canonical events.
	EventMajorClaimed     EventType = "MAJOR_CLAIMED"
	EventMajorAttuned     EventType = "MAJOR_ATTUNED"
	EventMajorShadowFired EventType = "MAJOR_SHADOW_FIRED"
	EventMajorGiftUsed    EventType = "MAJOR_GIFT_USED"
	EventFloorCompleted   EventType = "FLOOR_COMPLETED"
	EventBossModeEntered  EventType = "BOSS_MODE_ENTERED"
	EventRunVictory       EventType = "RUN_VICTORY"
	EventRunDefeat        EventType = "RUN_DEFEAT"
	EventPromptRaised     EventType = "PROMPT_RAISED"
)

// Event is a single emitted notification from one ApplyAction call. Fields
// are populated per Type; unused fields are left zero. HP/Gold/Fate events
// carry both the signed Delta and the resulting absolute value, per the
// canonical event log's {delta, hp|gold|fate} payload shape.
type Event struct {
	Type EventType `json:"type"`

	CardID      CardID      `json:"card_id,omitempty"`
	Orientation Orientation `json:"orientation,omitempty"`
	SlotIndex   int         `json:"slot_index,omitempty"`

	Delta int `json:"delta,omitempty"`
	Value int `json:"value,omitempty"`

	Equipment EquipmentKind `json:"equipment,omitempty"`

	MajorID MajorID `json:"major_id,omitempty"`

	PeekedCardIDs []CardID `json:"peeked_card_ids,omitempty"`

	PromptKind PendingKind `json:"prompt_kind,omitempty"`
}

func hpEvent(delta, hp int) Event {
	return Event{Type: EventPlayerHPChanged, Delta: delta, Value: hp}
}

func goldEvent(delta, gold int) Event {
	return Event{Type: EventPlayerGoldChanged, Delta: delta, Value: gold}
}

func fateEvent(delta, fate int) Event {
	return Event{Type: EventPlayerFateChanged, Delta: delta, Value: fate}
}
