package mutate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"github.com/cleohq/cleo/internal/apperr"
	"github.com/cleohq/cleo/internal/model"
)

// WaveCache memoizes dependency-wave computation keyed on a digest of
// the task set's (id, status, parentId, depends) tuples (spec.md §4.F:
// "cache-memoized with an invalidation key derived from the sorted
// (id, status, parentId, depends) digest"). Safe for concurrent use by
// multiple goroutines within one process; cross-process invalidation
// is unnecessary since each process computes its own digest from
// whatever it just read.
type WaveCache struct {
	mu     sync.Mutex
	digest string
	waves  [][]string
}

// NewWaveCache returns an empty cache.
func NewWaveCache() *WaveCache {
	return &WaveCache{}
}

// waveDigest computes the cache key for a task set.
func waveDigest(tasks []*model.Task) string {
	ids := make([]string, len(tasks))
	byID := make(map[string]*model.Task, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
		byID[t.ID] = t
	}
	sort.Strings(ids)

	h := sha256.New()
	for _, id := range ids {
		t := byID[id]
		depends := append([]string{}, t.Depends...)
		sort.Strings(depends)
		fmt.Fprintf(h, "%s|%s|%s|%v\n", t.ID, t.Status, t.ParentID, depends)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Waves computes (or returns the cached) dependency waves for tasks.
// Wave 0 is every live task with no unresolved depends; wave N is
// every task whose depends all sit in waves < N. A cycle among live
// tasks surfaces as a VALIDATION_ERROR rather than an infinite wave
// (spec.md §4.F, §9).
func (c *WaveCache) Waves(tasks []*model.Task) ([][]string, error) {
	digest := waveDigest(tasks)

	c.mu.Lock()
	if c.digest == digest && c.waves != nil {
		cached := c.waves
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	waves, err := computeWaves(tasks)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.digest = digest
	c.waves = waves
	c.mu.Unlock()

	return waves, nil
}

func computeWaves(tasks []*model.Task) ([][]string, error) {
	byID := make(map[string]*model.Task, len(tasks))
	for _, t := range tasks {
		if t.IsLive() {
			byID[t.ID] = t
		}
	}

	waveOf := make(map[string]int, len(byID))
	var waves [][]string

	remaining := make(map[string]bool, len(byID))
	for id := range byID {
		remaining[id] = true
	}

	for len(remaining) > 0 {
		var ready []string
		for id := range remaining {
			t := byID[id]
			resolved := true
			for _, dep := range t.Depends {
				if _, stillLive := byID[dep]; !stillLive {
					continue // a dependency outside the live set can't block wave assignment
				}
				if _, done := waveOf[dep]; !done {
					resolved = false
					break
				}
			}
			if resolved {
				ready = append(ready, id)
			}
		}
		if len(ready) == 0 {
			// Every remaining task is blocked on something also
			// remaining: a cycle among live tasks.
			var chain []string
			for id := range remaining {
				chain = append(chain, id)
			}
			sort.Strings(chain)
			return nil, apperr.New(apperr.CodeValidationError, fmt.Sprintf("dependency cycle among tasks: %v", chain)).
				WithFix("break the cycle by removing one `depends` edge")
		}
		sort.Strings(ready)
		level := len(waves)
		for _, id := range ready {
			waveOf[id] = level
			delete(remaining, id)
		}
		waves = append(waves, ready)
	}

	return waves, nil
}
