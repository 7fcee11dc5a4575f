package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

// hashableState is the subset of RunState that participates in the
// canonical hash. It deliberately omits Debug (presentation-only) and is
// rebuilt from RunState on every call rather than kept as a cached field,
// so there is exactly one place that decides what's hashable.
type hashableState struct {
	Seed            uint32                 `json:"seed"`
	RunLengthTarget int                    `json:"run_length_target"`
	RNGState        uint32                 `json:"rng_state"`
	ContentVersion  string                 `json:"content_version"`
	Phase           Phase                  `json:"phase"`
	Player          Player                 `json:"player"`
	Floor           Floor                  `json:"floor"`
	Majors          MajorsState            `json:"majors"`
	Room            Room                   `json:"room"`
	Orientations    map[CardID]Orientation `json:"orientations"`
	LastRoomWasFlee bool                   `json:"last_room_was_flee"`
	Pending         *PendingPrompt         `json:"pending,omitempty"`
	TurnCount       int                    `json:"turn_count"`
}

// HashState returns the canonical SHA-256 hex digest of s's hashable
// subset: a stable-key JSON encoding (Go's encoding/json already sorts map
// keys) with the Debug sidecar excluded, so two independently-computed
// RunStates that differ only in RunID or prompt-rendering detail hash
// identically.
func HashState(s RunState) (string, error) {
	canon, err := canonicalJSON(toHashable(s))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

func toHashable(s RunState) hashableState {
	return hashableState{
		Seed:            s.Seed,
		RunLengthTarget: s.RunLengthTarget,
		RNGState:        s.RNG.State,
		ContentVersion:  s.ContentVersion,
		Phase:           s.Phase,
		Player:          s.Player,
		Floor:           s.Floor,
		Majors:          s.Majors,
		Room:            s.Room,
		Orientations:    s.Orientations,
		LastRoomWasFlee: s.LastRoomWasFlee,
		Pending:         s.Pending,
		TurnCount:       s.TurnCount,
	}
}

// canonicalJSON marshals v into JSON with map keys sorted and no
// insignificant whitespace. Every map in the hashable subset
// (map[CardID]Orientation, map[FateActionKind]bool, map[string]string) has
// a string-kinded key, which encoding/json already emits in sorted order;
// normalize additionally round-trips v through map[string]any so the
// output is the same on every platform.
func canonicalJSON(v any) ([]byte, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(normalized)
}

// normalize round-trips v through JSON once to coerce every map into
// map[string]any (JSON's own key type), which json.Marshal then emits with
// sorted keys deterministically.
func normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return sortedCopy(out), nil
}

// sortedCopy is a no-op for json.Unmarshal's any output today (Go's
// encoding/json already walks map[string]any keys in sorted order when
// marshaling), but is kept as an explicit step so a future field that
// needs custom ordering has one place to change.
func sortedCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(t))
		for _, k := range keys {
			out[k] = sortedCopy(t[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sortedCopy(e)
		}
		return out
	default:
		return v
	}
}
