package service

import (
	"sort"

	calendarentity "meetsync/modules/calendar/entity"
	"meetsync/modules/conflict/entity"
)

// DetectedPair is one overlapping event pair found by a scan.
type DetectedPair struct {
	Event1ID     int64
	Event2ID     int64
	ConflictType entity.ConflictType
}

// Detector finds temporal overlaps within one user's event set.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

// DetectOverlaps returns every pair (e1, e2) with e1.ID < e2.ID whose
// intervals overlap under the half-open test: an event ending exactly when
// another starts is not a conflict. Events sharing identical start and end
// are classified as duplicates.
//
// The scan sweeps events sorted by start time and only compares each event
// against the still-open ones, so runs are O(n log n + k) for k overlaps
// instead of pairing all n^2 combinations.
func (d *Detector) DetectOverlaps(events []calendarentity.Event) []DetectedPair {
	if len(events) < 2 {
		return nil
	}

	sorted := make([]calendarentity.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartTime.Equal(sorted[j].StartTime) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	var pairs []DetectedPair
	var open []calendarentity.Event

	for _, current := range sorted {
		// drop events that ended at or before the current start
		active := open[:0]
		for _, o := range open {
			if o.EndTime.After(current.StartTime) {
				active = append(active, o)
			}
		}
		open = active

		// every still-open event overlaps the current one
		for _, o := range open {
			pairs = append(pairs, newPair(o, current))
		}

		open = append(open, current)
	}

	return pairs
}

func newPair(a, b calendarentity.Event) DetectedPair {
	first, second := a, b
	if second.ID < first.ID {
		first, second = second, first
	}

	conflictType := entity.ConflictTypeOverlap
	if a.StartTime.Equal(b.StartTime) && a.EndTime.Equal(b.EndTime) {
		conflictType = entity.ConflictTypeDuplicate
	}

	return DetectedPair{
		Event1ID:     first.ID,
		Event2ID:     second.ID,
		ConflictType: conflictType,
	}
}
