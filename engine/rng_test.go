package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNGSeedOneRegression(t *testing.T) {
	r := NewRNG(1)
	want := []uint32{270369, 67634689, 2647435461, 307599695, 2398689233}
	for i, w := range want {
		got := r.Next()
		assert.Equal(t, w, got, "draw %d", i)
	}
}

func TestRNGZeroSeedPromotedToOne(t *testing.T) {
	r := NewRNG(0)
	assert.Equal(t, uint32(1), r.State)
}

func TestRNGIntnStaysInRange(t *testing.T) {
	r := NewRNG(42)
	for i := 0; i < 200; i++ {
		v := r.Intn(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
}

func TestRNGShuffleIsPermutation(t *testing.T) {
	r := NewRNG(99)
	ids := append([]CardID(nil), MinorDeckIDs...)
	r.Shuffle(ids)

	assert.Len(t, ids, len(MinorDeckIDs))
	seen := make(map[CardID]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	for _, id := range MinorDeckIDs {
		assert.True(t, seen[id], "shuffled deck should still contain %q", id)
	}
}

func TestRNGShuffleIsDeterministic(t *testing.T) {
	a := append([]CardID(nil), MinorDeckIDs...)
	b := append([]CardID(nil), MinorDeckIDs...)

	ra, rb := NewRNG(7), NewRNG(7)
	ra.Shuffle(a)
	rb.Shuffle(b)

	assert.Equal(t, a, b)
}
