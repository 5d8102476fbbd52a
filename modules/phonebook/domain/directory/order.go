package directory

import "sort"

// ReconcileOrder merges a persisted group order with the set of currently
// known group names and returns a dense 1..N ranking.
//
// Groups present in both keep their relative order, ties broken by name.
// Groups missing from the persisted map are appended after all known ones in
// name order. Reconciling an already-dense map against the same group set
// returns it unchanged.
func ReconcileOrder(existing map[string]int, names []string) map[string]int {
	type ranked struct {
		name string
		rank int
	}
	known := make([]ranked, 0, len(names))
	missing := make([]string, 0)
	for _, name := range names {
		if rank, ok := existing[name]; ok {
			known = append(known, ranked{name: name, rank: rank})
		} else {
			missing = append(missing, name)
		}
	}
	sort.Slice(known, func(i, j int) bool {
		if known[i].rank != known[j].rank {
			return known[i].rank < known[j].rank
		}
		return known[i].name < known[j].name
	})
	sort.Strings(missing)

	out := make(map[string]int, len(names))
	next := 0
	for _, k := range known {
		next++
		out[k.name] = next
	}
	for _, name := range missing {
		next++
		out[name] = next
	}
	return out
}
