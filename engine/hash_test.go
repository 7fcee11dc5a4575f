package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashStateIsDeterministic(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	h1, err := HashState(s)
	require.NoError(t, err)
	h2, err := HashState(s)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestHashStateIgnoresDebugSidecar(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	h1, err := HashState(s)
	require.NoError(t, err)

	s.Debug.PromptOptionLabels = map[string]string{"a": "Do the thing"}
	h2, err := HashState(s)
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "Debug is presentation-only and must not affect the hash")
}

func TestHashStateDiffersOnMaterialChange(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	h1, err := HashState(s)
	require.NoError(t, err)

	s.Player.Gold += 1
	h2, err := HashState(s)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashStateDiffersOnOrientationChange(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	h1, err := HashState(s)
	require.NoError(t, err)

	for id, o := range s.Orientations {
		flipped := Upright
		if o == Upright {
			flipped = Reversed
		}
		s.Orientations[id] = flipped
		break
	}
	h2, err := HashState(s)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "a minor card's physical orientation is gameplay-relevant and must affect the hash")
}

func TestHashStateDiffersOnLastRoomWasFleeChange(t *testing.T) {
	s := newStartedRun(t, 1, 7)
	h1, err := HashState(s)
	require.NoError(t, err)

	s.LastRoomWasFlee = !s.LastRoomWasFlee
	h2, err := HashState(s)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "flee-legality tracking is gameplay-relevant and must affect the hash")
}

func TestHashStateDiffersAcrossIndependentSeeds(t *testing.T) {
	s1 := newStartedRun(t, 1, 7)
	s2 := newStartedRun(t, 2, 7)

	h1, err := HashState(s1)
	require.NoError(t, err)
	h2, err := HashState(s2)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
