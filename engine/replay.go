package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ReplayLog reconstructs the final RunState and a per-action hash trail by
// replaying log sequentially from CreateRun's RUN_INIT state. The log's
// leading action is conventionally an ActionStartRun carrying the seed and
// run length target; everything about the run's RNG stream and content
// version is only known once that action has applied. ReplayLog returns the
// hash of the state after every action, keyed by that action's index, so a
// caller can pinpoint exactly where two replays diverge.
func ReplayLog(log ActionLog) (RunState, map[int]string, error) {
	s := CreateRun()

	hashes := make(map[int]string, len(log.Actions))
	for i, a := range log.Actions {
		var err error
		s, _, err = ApplyAction(s, a)
		if err != nil {
			logFatalError(err, s.ContentVersion, s.Seed, log, a)
			return s, hashes, fmt.Errorf("replay diverged at action %d: %w", i, err)
		}
		if i == 0 && log.ContentVersion != "" && log.ContentVersion != s.ContentVersion {
			return s, hashes, fmt.Errorf("replay content version %q does not match loaded content %q: %w", log.ContentVersion, s.ContentVersion, ErrContentInvalid)
		}
		h, err := HashState(s)
		if err != nil {
			return s, hashes, err
		}
		hashes[i] = h
	}
	return s, hashes, nil
}

// CorpusResult is one ReplayLog outcome within a ValidateCorpus batch.
type CorpusResult struct {
	Index      int
	FinalHash  string
	FinalState RunState
	Err        error
}

// ValidateCorpus replays every log in logs concurrently, bounded by
// corpusConcurrency (FOOLS_GAMBIT_CORPUS_CONCURRENCY, else GOMAXPROCS), and
// returns one CorpusResult per log in input order.
// Each log replays independently against its own fresh RunState, so
// concurrent replay cannot affect determinism.
func ValidateCorpus(ctx context.Context, logs []ActionLog) ([]CorpusResult, error) {
	results := make([]CorpusResult, len(logs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(corpusConcurrency())

	for i, log := range logs {
		i, log := i, log
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			finalState, hashes, err := ReplayLog(log)
			finalHash := ""
			if n := len(log.Actions); n > 0 {
				finalHash = hashes[n-1]
			} else if err == nil {
				finalHash, err = HashState(finalState)
			}
			results[i] = CorpusResult{Index: i, FinalHash: finalHash, FinalState: finalState, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
