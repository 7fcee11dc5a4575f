package engine

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Sentinel errors for the taxonomy in spec §7. Call sites wrap these with
// fmt.Errorf("...: %w", ErrX) so errors.Is keeps working across layers.
var (
	// ErrContentInvalid is returned by LoadContent on a schema or
	// referential-integrity failure.
	ErrContentInvalid = errors.New("engine: content invalid")

	// ErrContentNotLoaded is returned by ApplyAction and LegalActions (and so
	// by ReplayLog) when called before LoadContent has succeeded.
	ErrContentNotLoaded = errors.New("engine: content not loaded")

	// ErrIllegalAction is returned when an action is not present in
	// LegalActions(state) or otherwise fails a precondition.
	ErrIllegalAction = errors.New("engine: illegal action")

	// ErrDeckExhausted indicates a draw was requested from an empty active
	// deck. This can only happen from an engine bug or corrupted state —
	// it is never expected under valid inputs.
	ErrDeckExhausted = errors.New("engine: deck exhausted")

	// ErrPromptMismatch is returned when an action does not match the kind
	// of the currently pending prompt.
	ErrPromptMismatch = errors.New("engine: action does not match pending prompt")
)

// fatalLog is the structured logger used for diagnostics on fatal engine
// errors (content/save corruption, invariant violations). Mirrors the
// teacher service's use of logrus for structured fields.
var fatalLog = logrus.New()

// logFatalError records diagnostics for an error class that spec §7
// classifies as fatal: it should abort the run, not be silently retried.
func logFatalError(err error, contentVersion string, seed uint32, log ActionLog, offending Action) {
	fatalLog.WithFields(logrus.Fields{
		"engine_version":  EngineVersion,
		"content_version": contentVersion,
		"seed":            seed,
		"actions_applied": len(log.Actions),
		"offending":       offending.Type,
	}).Error(err)
}

// illegalf builds an ErrIllegalAction with a formatted reason, preserving
// errors.Is(err, ErrIllegalAction).
func illegalf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrIllegalAction)
}
