package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorDeckIDsIsCanonicalOrder(t *testing.T) {
	require.Len(t, MinorDeckIDs, 56)

	wantSuits := []Suit{SuitCups, SuitPentacles, SuitSwords, SuitWands}
	idx := 0
	for _, suit := range wantSuits {
		for rank := RankAce; rank <= RankKing; rank++ {
			id := MinorDeckIDs[idx]
			gotSuit, gotRank, ok := id.Lookup()
			require.True(t, ok, "id %q should be in the registry", id)
			assert.Equal(t, suit, gotSuit)
			assert.Equal(t, rank, gotRank)
			idx++
		}
	}
}

func TestCardIDOfRoundTrips(t *testing.T) {
	id := CardIDOf(SuitSwords, RankQueen)
	assert.Equal(t, CardID("swords_queen"), id)
	assert.Equal(t, SuitSwords, id.Suit())
	assert.Equal(t, RankQueen, id.Rank())
}

func TestRankClassification(t *testing.T) {
	assert.False(t, RankAce.IsNumbered())
	assert.False(t, RankAce.IsCourt())
	assert.True(t, Rank7.IsNumbered())
	assert.False(t, Rank7.IsCourt())
	assert.True(t, RankKing.IsCourt())
	assert.False(t, RankKing.IsNumbered())
}

func TestNumberedValue(t *testing.T) {
	assert.Equal(t, 2, Rank2.NumberedValue())
	assert.Equal(t, 10, Rank10.NumberedValue())
}

func TestEnemyBaseValue(t *testing.T) {
	assert.Equal(t, 11, RankPage.EnemyBaseValue())
	assert.Equal(t, 12, RankKnight.EnemyBaseValue())
	assert.Equal(t, 13, RankQueen.EnemyBaseValue())
	assert.Equal(t, 14, RankKing.EnemyBaseValue())
	assert.Equal(t, 0, Rank7.EnemyBaseValue())
}

func TestOrderingValue(t *testing.T) {
	assert.Equal(t, 1, RankAce.OrderingValue())
	assert.Equal(t, 9, Rank9.OrderingValue())
	assert.Equal(t, 14, RankKing.OrderingValue())
}

func TestSuitLockOrder(t *testing.T) {
	assert.Less(t, suitLockIndex(SuitCups), suitLockIndex(SuitPentacles))
	assert.Less(t, suitLockIndex(SuitPentacles), suitLockIndex(SuitSwords))
	assert.Less(t, suitLockIndex(SuitSwords), suitLockIndex(SuitWands))
}

func TestUnrecognizedCardIDPanics(t *testing.T) {
	assert.Panics(t, func() {
		CardID("not_a_real_card").Suit()
	})
}
