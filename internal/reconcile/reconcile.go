// Package reconcile reduces batches of regional samples to one canonical
// row per region.
//
// Input batches are expected newest first (timestamp descending, region as
// tiebreak), which is how the score queries order them. The first row seen
// for a region wins. The ordering is trusted and not re-checked, so a
// misordered batch still yields one row per region but not necessarily the
// latest one.
package reconcile

import (
	"encoding/json"

	"airplane-watch/sleepwatch/internal/constants"
	"airplane-watch/sleepwatch/internal/models/entities"
)

// LatestBy keeps the first element for each key and drops the rest,
// preserving first-appearance order. The input slice is not modified.
func LatestBy[T any, K comparable](rows []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, row)
	}
	return out
}

// Board is the reconciled view of a score batch: at most one record per
// region, in first-appearance order. A Board is never mutated after
// Reconcile returns it.
type Board struct {
	records []entities.ScoreRecord
	index   map[string]int
}

// Reconcile builds a Board from rows ordered newest first.
func Reconcile(rows []entities.ScoreRecord) *Board {
	records := LatestBy(rows, func(r entities.ScoreRecord) string { return r.Region })
	index := make(map[string]int, len(records))
	for i, r := range records {
		index[r.Region] = i
	}
	return &Board{records: records, index: index}
}

// ReconcileAlerts applies the same newest-per-region rule to alert rows.
func ReconcileAlerts(rows []entities.AlertRecord) []entities.AlertRecord {
	return LatestBy(rows, func(r entities.AlertRecord) string { return r.Region })
}

// Len returns the number of distinct regions.
func (b *Board) Len() int {
	if b == nil {
		return 0
	}
	return len(b.records)
}

// Records returns a copy of the canonical rows in first-appearance order.
func (b *Board) Records() []entities.ScoreRecord {
	if b == nil {
		return []entities.ScoreRecord{}
	}
	out := make([]entities.ScoreRecord, len(b.records))
	copy(out, b.records)
	return out
}

// Regions returns region names in first-appearance order.
func (b *Board) Regions() []string {
	if b == nil {
		return []string{}
	}
	out := make([]string, len(b.records))
	for i, r := range b.records {
		out[i] = r.Region
	}
	return out
}

// Get returns the canonical record for region.
func (b *Board) Get(region string) (entities.ScoreRecord, bool) {
	if b == nil {
		return entities.ScoreRecord{}, false
	}
	i, ok := b.index[region]
	if !ok {
		return entities.ScoreRecord{}, false
	}
	return b.records[i], true
}

// Global returns the record for the reserved aggregate region.
func (b *Board) Global() (entities.ScoreRecord, bool) {
	return b.Get(constants.GlobalRegion)
}

// Regional returns every canonical record except the aggregate one.
func (b *Board) Regional() []entities.ScoreRecord {
	out := make([]entities.ScoreRecord, 0, b.Len())
	for _, r := range b.Records() {
		if r.Region != constants.GlobalRegion {
			out = append(out, r)
		}
	}
	return out
}

// MarshalJSON encodes the board as an ordered array so region order
// survives the round trip.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Records())
}
