package engine

import (
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// envLoadOnce guards the one-time .env load so concurrent callers (e.g. a
// test suite and ValidateCorpus running in the same process) don't race on
// os.Setenv via godotenv.Load.
var envLoadOnce sync.Once

func loadDotEnvOnce() {
	envLoadOnce.Do(func() {
		// Absence of a .env file is expected outside local development;
		// godotenv.Load's error in that case is intentionally ignored.
		_ = godotenv.Load()
	})
}

// ContentBundleDir returns the directory replay/corpus tooling should load
// a content bundle from by default: FOOLS_GAMBIT_CONTENT_DIR if set,
// otherwise "./content".
func ContentBundleDir() string {
	loadDotEnvOnce()
	if v := os.Getenv("FOOLS_GAMBIT_CONTENT_DIR"); v != "" {
		return v
	}
	return "./content"
}

// corpusConcurrency returns how many logs ValidateCorpus may replay at
// once: FOOLS_GAMBIT_CORPUS_CONCURRENCY if set to a positive integer,
// otherwise runtime.GOMAXPROCS(0).
func corpusConcurrency() int {
	loadDotEnvOnce()
	if v := os.Getenv("FOOLS_GAMBIT_CORPUS_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.GOMAXPROCS(0)
}
