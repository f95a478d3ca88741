package schedule

import "valet_manager/internal/domain/entities"

// MergeBookings folds secondary into primary by booking id.
//
// Primary wins: when an id appears in both, the secondary copy is dropped
// whole, never merged field by field. Output keeps primary order first, then
// the unseen secondary entries in their original order. Repeated ids inside a
// single input keep their first occurrence, so the result is idempotent:
// MergeBookings(MergeBookings(a, b), b) equals MergeBookings(a, b).
func MergeBookings(primary, secondary []entities.Booking) []entities.Booking {
	out := make([]entities.Booking, 0, len(primary)+len(secondary))
	seen := make(map[string]struct{}, len(primary)+len(secondary))

	add := func(list []entities.Booking) {
		for _, b := range list {
			if _, ok := seen[b.ID]; ok {
				continue
			}
			seen[b.ID] = struct{}{}
			out = append(out, b)
		}
	}
	add(primary)
	add(secondary)
	return out
}

// UpsertBooking replaces the entry with the same id in place, or appends b.
// It is the write-side counterpart of MergeBookings for collection stores.
func UpsertBooking(list []entities.Booking, b entities.Booking) []entities.Booking {
	merged := MergeBookings(list, nil)
	for i := range merged {
		if merged[i].ID == b.ID {
			merged[i] = b
			return merged
		}
	}
	return append(merged, b)
}

// RemoveBooking drops every entry with the given id.
func RemoveBooking(list []entities.Booking, id string) ([]entities.Booking, bool) {
	out := make([]entities.Booking, 0, len(list))
	removed := false
	for _, b := range list {
		if b.ID == id {
			removed = true
			continue
		}
		out = append(out, b)
	}
	return out, removed
}
