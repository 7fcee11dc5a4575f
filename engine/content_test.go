package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadContentRejectsWrongMajorCount(t *testing.T) {
	err := LoadContent(ContentBundleInput{
		MajorsBundle: MajorsBundle{Majors: []MajorDef{
			{ID: "only_one", Shadow: MajorShadow{Trigger: TriggerFloorStart, Effect: EffectNode{Primitive: EffectNoop}}},
		}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentInvalid)
}

func TestLoadContentRejectsDuplicateID(t *testing.T) {
	ids := testMajorIDs()
	var majors []MajorDef
	for _, id := range ids {
		majors = append(majors, MajorDef{
			ID:     ids[0], // every entry reuses the same id
			Shadow: MajorShadow{Trigger: TriggerFloorStart, Effect: EffectNode{Primitive: EffectNoop}},
		})
		_ = id
	}
	err := LoadContent(ContentBundleInput{MajorsBundle: MajorsBundle{Majors: majors}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentInvalid)
}

func TestLoadContentRejectsUnknownTrigger(t *testing.T) {
	ids := testMajorIDs()
	var majors []MajorDef
	for i, id := range ids {
		trigger := TriggerFloorStart
		if i == 0 {
			trigger = Trigger("NOT_A_REAL_TRIGGER")
		}
		majors = append(majors, MajorDef{
			ID:     id,
			Shadow: MajorShadow{Trigger: trigger, Effect: EffectNode{Primitive: EffectNoop}},
		})
	}
	err := LoadContent(ContentBundleInput{MajorsBundle: MajorsBundle{Majors: majors}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentInvalid)
}

func TestLoadContentRejectsMissingStringKey(t *testing.T) {
	ids := testMajorIDs()
	var majors []MajorDef
	for i, id := range ids {
		m := MajorDef{
			ID:     id,
			Shadow: MajorShadow{Trigger: TriggerFloorStart, Effect: EffectNode{Primitive: EffectNoop}},
		}
		if i == 0 {
			m.UI.TitleKey = "major.title.missing"
		}
		majors = append(majors, m)
	}
	err := LoadContent(ContentBundleInput{MajorsBundle: MajorsBundle{Majors: majors}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContentInvalid)
}

func TestLoadContentAcceptsPresentStringKey(t *testing.T) {
	ids := testMajorIDs()
	var majors []MajorDef
	for i, id := range ids {
		m := MajorDef{
			ID:     id,
			Shadow: MajorShadow{Trigger: TriggerFloorStart, Effect: EffectNode{Primitive: EffectNoop}},
		}
		if i == 0 {
			m.UI.TitleKey = "major.title.present"
		}
		majors = append(majors, m)
	}
	err := LoadContent(ContentBundleInput{
		MajorsBundle:  MajorsBundle{Majors: majors},
		StringsBundle: StringsBundle{"major.title.present": "The Present Major"},
	})
	assert.NoError(t, err)
}

func TestValidateEffectNodeStructuralRules(t *testing.T) {
	cases := []struct {
		name    string
		node    EffectNode
		wantErr bool
	}{
		{"noop is valid", EffectNode{Primitive: EffectNoop}, false},
		{"sequence requires effects", EffectNode{Primitive: EffectSequence}, true},
		{"choice requires two options", EffectNode{Primitive: EffectChoice, PromptKey: "k", Options: []EffectOption{{Key: "a"}}}, true},
		{"bargain requires prompt key", EffectNode{Primitive: EffectBargain, BargainOptions: []BargainOption{{Key: "a"}, {Key: "b"}}}, true},
		{
			"conditional requires a known predicate",
			EffectNode{
				Primitive: EffectConditional,
				If:        &ConditionSpec{Predicate: "BOGUS"},
				Then:      &EffectNode{Primitive: EffectNoop},
				Else:      &EffectNode{Primitive: EffectNoop},
			},
			true,
		},
		{"peek top n requires n=3", EffectNode{Primitive: EffectPeekTopN, N: 2}, true},
		{"disable fate action requires scope", EffectNode{Primitive: EffectDisableFateAction, FateAction: FateActionCleanse}, true},
		{
			"chariot direction must be a valid value",
			EffectNode{Primitive: EffectSetFloorParam, ParamKey: "chariotDirection", ParamValue: "SIDEWAYS", Scope: ScopeThisFloor},
			true,
		},
		{
			"chariot direction accepts the locked values",
			EffectNode{Primitive: EffectSetFloorParam, ParamKey: "chariotDirection", ParamValue: string(ChariotLeftToRight), Scope: ScopeThisFloor},
			false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			errs := validateEffectNode(c.node)
			if c.wantErr {
				assert.NotEmpty(t, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestRequireContentBeforeLoad(t *testing.T) {
	contentMu.Lock()
	loaded = nil
	contentMu.Unlock()

	_, err := requireContent()
	assert.ErrorIs(t, err, ErrContentNotLoaded)

	loadTestContent(t)
	_, err = requireContent()
	assert.NoError(t, err)
}
