package risks

import (
	"fmt"
	"strconv"
	"strings"
)

// Sequence returns n for ids of the form "R<n>", or 0.
func Sequence(id string) int {
	digits, ok := strings.CutPrefix(id, "R")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// MaxSequence returns the highest Sequence among items.
func MaxSequence(items []Risk) int {
	m := 0
	for _, r := range items {
		m = max(m, Sequence(r.ID))
	}
	return m
}

// Renumber returns a copy of batch with ids R<after+1>..R<after+n> in order.
func Renumber(batch []Risk, after int) []Risk {
	out := make([]Risk, len(batch))
	for i, r := range batch {
		r.ID = fmt.Sprintf("R%d", after+i+1)
		out[i] = r
	}
	return out
}

// Ingest stores an assessment batch. With replace the ledger is emptied
// first and the batch keeps its ids; otherwise the batch is renumbered to
// follow the highest existing sequence so no stored risk is overwritten.
// The stored records are returned in batch order.
func (l *Ledger) Ingest(batch []Risk, replace bool) ([]Risk, error) {
	next := &Ledger{index: make(map[string]int, len(batch))}
	if !replace {
		next.items = l.All()
		for i, r := range next.items {
			next.index[r.ID] = i
		}
		batch = Renumber(batch, MaxSequence(next.items))
	}

	stored := make([]Risk, 0, len(batch))
	for _, r := range batch {
		if _, err := next.Upsert(r); err != nil {
			return nil, err
		}
		saved, _ := next.Find(r.ID)
		stored = append(stored, saved)
	}

	*l = *next
	return stored, nil
}
