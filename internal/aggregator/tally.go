package aggregator

import (
	"sort"

	"github.com/vburojevic/logstat/internal/domain"
)

// tally maps keys to values and remembers the order keys were first seen.
type tally struct {
	index   map[string]int
	entries []domain.RankedEntry
}

func newTally() *tally {
	return &tally{index: make(map[string]int)}
}

func (t *tally) slot(key string) *domain.RankedEntry {
	i, ok := t.index[key]
	if !ok {
		i = len(t.entries)
		t.index[key] = i
		t.entries = append(t.entries, domain.RankedEntry{Key: key})
	}
	return &t.entries[i]
}

// add increments key by n.
func (t *tally) add(key string, n int64) {
	t.slot(key).Value += n
}

// max stores v for key when it is strictly larger than the stored value.
// The key is recorded on first sight even if v does not raise it.
func (t *tally) max(key string, v int64) {
	e := t.slot(key)
	if e.Value < v {
		e.Value = v
	}
}

func (t *tally) len() int {
	return len(t.entries)
}

// ranked returns the entries sorted by value descending. Equal values keep
// first-seen order. A negative limit keeps every entry.
func (t *tally) ranked(limit int) domain.Ranking {
	out := make(domain.Ranking, len(t.entries))
	copy(out, t.entries)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
