package risks

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// Rank selects the risk index used to order risks.
type Rank string

// Rankings.
const (
	RankCost Rank = "cost"
	RankTime Rank = "time"
)

// ParseRank validates a ranking name. An empty value selects RankCost.
func ParseRank(s string) (Rank, error) {
	switch Rank(s) {
	case "", RankCost:
		return RankCost, nil
	case RankTime:
		return RankTime, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRank, s)
}

func (k Rank) index(r Risk) float64 {
	if k == RankTime {
		return r.RITime
	}
	return r.RICost
}

// LevelSummary aggregates the risks of one level.
type LevelSummary struct {
	Level  Level   `json:"level"`
	Count  int     `json:"count"`
	RICost float64 `json:"ri_cost"`
	RITime float64 `json:"ri_time"`
}

// Summary aggregates a ledger by level in hierarchy order.
type Summary struct {
	Total  int            `json:"total"`
	Levels []LevelSummary `json:"levels"`
}

// Ledger is an ordered set of risks with unique IDs. Order is insertion order;
// replacing a risk keeps its position. A Ledger is not safe for concurrent use.
type Ledger struct {
	items []Risk
	index map[string]int
}

// NewLedger builds a ledger from items. Later duplicates replace earlier ones.
func NewLedger(items ...Risk) (*Ledger, error) {
	l := &Ledger{index: make(map[string]int, len(items))}
	for _, r := range items {
		if _, err := l.Upsert(r); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Len returns the number of risks held.
func (l *Ledger) Len() int {
	return len(l.items)
}

// All returns a copy of the risks in ledger order.
func (l *Ledger) All() []Risk {
	return slices.Clone(l.items)
}

// Find returns the risk with the given ID.
func (l *Ledger) Find(id string) (Risk, bool) {
	i, ok := l.index[id]
	if !ok {
		return Risk{}, false
	}
	return l.items[i], true
}

// Upsert normalizes and stores r, replacing any risk with the same ID.
// It reports whether an existing risk was replaced. A replacement may not
// change the level of the stored risk.
func (l *Ledger) Upsert(r Risk) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}
	r.Normalize()

	if i, ok := l.index[r.ID]; ok {
		if l.items[i].Level != r.Level {
			return false, fmt.Errorf("%w: %s is %s", ErrLevelImmutable, r.ID, l.items[i].Level)
		}
		l.items[i] = r
		return true, nil
	}

	if l.index == nil {
		l.index = make(map[string]int)
	}
	l.index[r.ID] = len(l.items)
	l.items = append(l.items, r)
	return false, nil
}

// Delete removes the risk with the given ID.
func (l *Ledger) Delete(id string) error {
	i, ok := l.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	l.items = slices.Delete(l.items, i, i+1)
	delete(l.index, id)
	for j := i; j < len(l.items); j++ {
		l.index[l.items[j].ID] = j
	}
	return nil
}

// Filter returns the risks at the given level in ledger order.
func (l *Ledger) Filter(level Level) []Risk {
	out := make([]Risk, 0)
	for _, r := range l.items {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// Top returns up to n risks ordered by the selected index, highest first.
// Ties keep ledger order.
func (l *Ledger) Top(rank Rank, n int) []Risk {
	return TopOf(l.items, rank, n)
}

// Summary aggregates the ledger by level.
func (l *Ledger) Summary() Summary {
	return Summarize(l.items)
}

// TopOf returns up to n of items ordered by the selected index, highest first.
func TopOf(items []Risk, rank Rank, n int) []Risk {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Risk) int {
		return cmp.Compare(rank.index(b), rank.index(a))
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Summarize aggregates items by level in hierarchy order.
func Summarize(items []Risk) Summary {
	s := Summary{
		Total:  len(items),
		Levels: make([]LevelSummary, len(levels)),
	}
	for i, lvl := range levels {
		s.Levels[i].Level = lvl
	}
	for _, r := range items {
		i := slices.Index(levels, r.Level)
		if i < 0 {
			continue
		}
		s.Levels[i].Count++
		s.Levels[i].RICost += r.RICost
		s.Levels[i].RITime += r.RITime
	}
	return s
}

// LoadLedger reads a ledger from a JSON array file. A missing file yields an
// empty ledger.
func LoadLedger(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger()
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var items []Risk
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", path, err)
	}
	return NewLedger(items...)
}

// Save writes the ledger to path as an indented JSON array.
func (l *Ledger) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
	}

	items := l.items
	if items == nil {
		items = []Risk{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}
