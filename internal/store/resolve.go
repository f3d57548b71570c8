package store

import (
	"sort"

	"github.com/rcliao/qa-keywords/internal/model"
)

// valueRow is one active value joined with the entry that owns it.
type valueRow struct {
	Keyword  string
	EntryID  string
	Priority int
	ValueID  string
	Value    model.ResolvedValue
}

// resolve picks the values of the top-priority entries of a single keyword.
// Entries tied at the top priority contribute all of their values. Values are
// ordered by order_num, then by entry and value ID. IDs are ULIDs, so equal
// orders follow insertion order only for writes from one process while the
// clock does not step back; entries written by different processes (or
// imported) within the same millisecond compare by their random ULID suffix.
func resolve(rows []valueRow) []model.ResolvedValue {
	out := make([]model.ResolvedValue, 0, len(rows))
	if len(rows) == 0 {
		return out
	}

	top := rows[0].Priority
	for _, r := range rows[1:] {
		if r.Priority > top {
			top = r.Priority
		}
	}

	winners := make([]valueRow, 0, len(rows))
	for _, r := range rows {
		if r.Priority == top {
			winners = append(winners, r)
		}
	}

	sort.SliceStable(winners, func(i, j int) bool {
		a, b := winners[i], winners[j]
		if a.Value.Order != b.Value.Order {
			return a.Value.Order < b.Value.Order
		}
		if a.EntryID != b.EntryID {
			return a.EntryID < b.EntryID
		}
		return a.ValueID < b.ValueID
	})

	for _, r := range winners {
		out = append(out, r.Value)
	}
	return out
}

// resolveIndex applies resolve independently to every keyword in rows.
func resolveIndex(rows []valueRow) model.ScopeIndex {
	byKeyword := make(map[string][]valueRow)
	for _, r := range rows {
		byKeyword[r.Keyword] = append(byKeyword[r.Keyword], r)
	}

	idx := make(model.ScopeIndex, len(byKeyword))
	for kw, krows := range byKeyword {
		idx[kw] = resolve(krows)
	}
	return idx
}
