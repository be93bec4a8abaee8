package catalog

// Result reports how the current snapshot relates to the previous one.
//
// Changed and New are separate signals on purpose: a removal-only change
// flips Changed while yielding no new entries.
type Result struct {
	Changed bool
	New     []Entry
}

// Diff compares two snapshots by id set.
//
// New preserves cur's catalog order and is not deduplicated: if an unseen id
// appears twice in cur, both occurrences are reported. Callers handle the
// seeding case (no previous snapshot) themselves; Diff assumes prev is a
// real baseline.
func Diff(prev, cur Snapshot) Result {
	prevIDs := idSet(prev)
	curIDs := idSet(cur)

	changed := len(prevIDs) != len(curIDs)
	if !changed {
		for id := range curIDs {
			if _, ok := prevIDs[id]; !ok {
				changed = true
				break
			}
		}
	}

	var fresh []Entry
	for _, e := range cur {
		if _, ok := prevIDs[e.ID]; !ok {
			fresh = append(fresh, e)
		}
	}

	return Result{Changed: changed, New: fresh}
}

func idSet(s Snapshot) map[string]struct{} {
	ids := make(map[string]struct{}, len(s))
	for _, e := range s {
		ids[e.ID] = struct{}{}
	}
	return ids
}
