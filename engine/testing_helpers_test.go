package engine

import "testing"

// testMajorIDs is a fixed 21-id set good enough to satisfy LoadContent's
// exactly-21-majors requirement without describing any real shadow/gift
// behavior; a test that needs a specific effect tree can build its own
// single-major bundle with loadContentWithMajor instead.
func testMajorIDs() []MajorID {
	ids := make([]MajorID, requiredMajorCount)
	for i := range ids {
		ids[i] = MajorID("major_" + string(rune('a'+i)))
	}
	return ids
}

// loadTestContent installs a minimal, valid, all-no-op 21-major bundle.
func loadTestContent(t *testing.T) {
	t.Helper()
	var majors []MajorDef
	for _, id := range testMajorIDs() {
		majors = append(majors, MajorDef{
			ID:     id,
			Shadow: MajorShadow{Trigger: TriggerFloorStart, Effect: EffectNode{Primitive: EffectNoop}},
			Gift:   MajorGift{Effect: EffectNode{Primitive: EffectNoop}},
		})
	}
	if err := LoadContent(ContentBundleInput{
		MajorsBundle: MajorsBundle{ContentVersion: "test", Majors: majors},
	}); err != nil {
		t.Fatalf("loadTestContent: %v", err)
	}
}

// loadContentWithMajor installs a 21-major bundle where exactly one major
// (at index 0) carries the given shadow/gift, and every other major is an
// inert no-op. Useful for tests that exercise one specific effect tree.
func loadContentWithMajor(t *testing.T, shadow MajorShadow, gift MajorGift) MajorID {
	t.Helper()
	ids := testMajorIDs()
	var majors []MajorDef
	for i, id := range ids {
		if i == 0 {
			majors = append(majors, MajorDef{ID: id, Shadow: shadow, Gift: gift})
			continue
		}
		majors = append(majors, MajorDef{
			ID:     id,
			Shadow: MajorShadow{Trigger: TriggerFloorStart, Effect: EffectNode{Primitive: EffectNoop}},
			Gift:   MajorGift{Effect: EffectNode{Primitive: EffectNoop}},
		})
	}
	if err := LoadContent(ContentBundleInput{
		MajorsBundle: MajorsBundle{ContentVersion: "test", Majors: majors},
	}); err != nil {
		t.Fatalf("loadContentWithMajor: %v", err)
	}
	return ids[0]
}

// newStartedRun loads a minimal content bundle and starts a run with the
// given seed and run length target, returning the post-ActionStartRun
// state (FLOOR_START, attunement not yet chosen).
func newStartedRun(t *testing.T, seed uint32, runLengthTarget int) RunState {
	t.Helper()
	loadTestContent(t)
	s := CreateRun()
	s, _, err := ApplyAction(s, Action{Type: ActionStartRun, Seed: seed, RunLengthTarget: runLengthTarget})
	if err != nil {
		t.Fatalf("ActionStartRun: %v", err)
	}
	return s
}

// selectNoAttunement advances a FLOOR_START state through SELECT_ATTUNEMENT
// with the empty subset, into ROOM_CHOICE.
func selectNoAttunement(t *testing.T, s RunState) RunState {
	t.Helper()
	s, _, err := ApplyAction(s, Action{Type: ActionSelectAttunement, AttunementSet: nil})
	if err != nil {
		t.Fatalf("SELECT_ATTUNEMENT: %v", err)
	}
	return s
}

// engageRoom advances a ROOM_CHOICE state into PRE_RESOLVE_WINDOW.
func engageRoom(t *testing.T, s RunState) RunState {
	t.Helper()
	s, _, err := ApplyAction(s, Action{Type: ActionChooseEngage})
	if err != nil {
		t.Fatalf("CHOOSE_ENGAGE: %v", err)
	}
	return s
}
