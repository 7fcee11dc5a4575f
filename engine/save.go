package engine

import (
	"encoding/json"
	"fmt"
)

// SaveVersion is the current on-disk save format version. Bumped whenever
// SaveBlob's shape changes in a way that requires a migration step.
const SaveVersion = 1

// SaveBlob is the persisted form of a run: its full action log plus the
// save format version, sufficient to reconstruct RunState by replay
// (spec's save-state model is "replay the log", not a state snapshot).
type SaveBlob struct {
	SaveVersion int       `json:"save_version"`
	Log         ActionLog `json:"log"`
}

// MarshalSave serializes log into its persisted JSON save form.
func MarshalSave(log ActionLog) ([]byte, error) {
	return json.Marshal(SaveBlob{SaveVersion: SaveVersion, Log: log})
}

// UnmarshalSave decodes a persisted save blob, migrating it to the current
// SaveVersion first if it was written by an older engine build.
func UnmarshalSave(data []byte) (ActionLog, error) {
	var blob SaveBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return ActionLog{}, fmt.Errorf("%w: %v", ErrContentInvalid, err)
	}
	if err := migrateSave(&blob); err != nil {
		return ActionLog{}, err
	}
	return blob.Log, nil
}

// migrateSave upgrades blob in place to SaveVersion. There is currently
// only one version, so this is a no-op beyond the version check; it exists
// so the first real migration has a home to be added to.
func migrateSave(blob *SaveBlob) error {
	if blob.SaveVersion > SaveVersion {
		return fmt.Errorf("save_version %d is newer than this engine build (%d): %w", blob.SaveVersion, SaveVersion, ErrContentInvalid)
	}
	blob.SaveVersion = SaveVersion
	return nil
}
