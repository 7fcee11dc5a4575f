// Package engine implements the Fool's Gambit rules engine: a deterministic
// reducer over a roguelike tarot-card run. Given a seed and a sequence of
// player decisions it produces identical state on any platform, and emits
// an ordered event stream for a rendering client to consume.
package engine

import "fmt"

// Suit identifies one of the four minor suits. The ordering of these
// constants is the SUIT_ORDER lock order used by order constraints.
type Suit uint8

const (
	SuitCups Suit = iota
	SuitPentacles
	SuitSwords
	SuitWands
)

func (s Suit) String() string {
	switch s {
	case SuitCups:
		return "cups"
	case SuitPentacles:
		return "pentacles"
	case SuitSwords:
		return "swords"
	case SuitWands:
		return "wands"
	default:
		return "unknown"
	}
}

// Rank identifies a minor card's rank within its suit.
type Rank uint8

const (
	RankAce Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
	Rank9
	Rank10
	RankPage
	RankKnight
	RankQueen
	RankKing
)

func (r Rank) String() string {
	switch r {
	case RankAce:
		return "ace"
	case Rank2:
		return "2"
	case Rank3:
		return "3"
	case Rank4:
		return "4"
	case Rank5:
		return "5"
	case Rank6:
		return "6"
	case Rank7:
		return "7"
	case Rank8:
		return "8"
	case Rank9:
		return "9"
	case Rank10:
		return "10"
	case RankPage:
		return "page"
	case RankKnight:
		return "knight"
	case RankQueen:
		return "queen"
	case RankKing:
		return "king"
	default:
		return "unknown"
	}
}

// IsNumbered reports whether r is one of the numbered ranks 2 through 10.
func (r Rank) IsNumbered() bool { return r >= Rank2 && r <= Rank10 }

// IsCourt reports whether r is one of the four court faces.
func (r Rank) IsCourt() bool { return r >= RankPage && r <= RankKing }

// NumberedValue returns the numeric rank of a numbered minor (2..10).
// Only meaningful when IsNumbered() is true.
func (r Rank) NumberedValue() int { return int(r-Rank2) + 2 }

// EnemyBaseValue returns the base enemy value of a court card, before the
// reversed-orientation bonus.
func (r Rank) EnemyBaseValue() int {
	switch r {
	case RankPage:
		return 11
	case RankKnight:
		return 12
	case RankQueen:
		return 13
	case RankKing:
		return 14
	default:
		return 0
	}
}

// OrderingValue returns a card's value for ASC_ORDERING_VALUE comparisons:
// an ace orders as 1, a numbered minor as its rank, a court card as its
// (non-reversed-adjusted) enemy base value.
func (r Rank) OrderingValue() int {
	switch {
	case r == RankAce:
		return 1
	case r.IsNumbered():
		return r.NumberedValue()
	default:
		return r.EnemyBaseValue()
	}
}

// Orientation is the upright/reversed state of a card.
type Orientation uint8

const (
	Upright Orientation = iota
	Reversed
)

func (o Orientation) String() string {
	if o == Reversed {
		return "reversed"
	}
	return "upright"
}

// CardID is the deterministic string identity of a minor card, e.g. "cups_7"
// or "swords_queen". CardIDs are stable across the life of a run.
type CardID string

var suitOrder = [4]Suit{SuitCups, SuitPentacles, SuitSwords, SuitWands}

var rankOrder = [14]Rank{
	RankAce, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8, Rank9, Rank10,
	RankPage, RankKnight, RankQueen, RankKing,
}

// CardIDOf returns the deterministic id for a (suit, rank) pair.
func CardIDOf(s Suit, r Rank) CardID {
	return CardID(fmt.Sprintf("%s_%s", s, r))
}

// cardDef is the immutable (suit, rank) identity behind a CardID.
type cardDef struct {
	Suit Suit
	Rank Rank
}

// registry maps every one of the 56 minor card ids to its immutable identity.
var registry map[CardID]cardDef

// MinorDeckIDs is the canonical 56-id minor registry, in suit-then-rank
// lock order (cups, pentacles, swords, wands; ace..king within a suit).
var MinorDeckIDs []CardID

func init() {
	registry = make(map[CardID]cardDef, 56)
	MinorDeckIDs = make([]CardID, 0, 56)
	for _, s := range suitOrder {
		for _, r := range rankOrder {
			id := CardIDOf(s, r)
			registry[id] = cardDef{Suit: s, Rank: r}
			MinorDeckIDs = append(MinorDeckIDs, id)
		}
	}
}

// Lookup returns the (suit, rank) identity of a card id. ok is false for an
// unrecognized id — callers treat this as an engine invariant violation.
func (id CardID) Lookup() (Suit, Rank, bool) {
	d, ok := registry[id]
	return d.Suit, d.Rank, ok
}

// Suit returns the card's immutable suit. Panics on an unrecognized id,
// which can only happen from corrupted content or a save file.
func (id CardID) Suit() Suit {
	d, ok := registry[id]
	if !ok {
		panic(fmt.Sprintf("engine: unrecognized card id %q", id))
	}
	return d.Suit
}

// Rank returns the card's immutable rank.
func (id CardID) Rank() Rank {
	d, ok := registry[id]
	if !ok {
		panic(fmt.Sprintf("engine: unrecognized card id %q", id))
	}
	return d.Rank
}

// suitLockIndex returns the position of s in the SUIT_ORDER lock order.
func suitLockIndex(s Suit) int {
	for i, o := range suitOrder {
		if o == s {
			return i
		}
	}
	return len(suitOrder)
}
