package aggregator

import "dealradar/internal/deal"

// Deduplicate collapses deals that represent the same underlying offer.
// Input order is the configured source priority order, so first-seen-wins
// keeps the higher-priority source's record. Every kept deal claims both its
// identity key and its link, so a lower-priority record pointing at the same
// offer is discarded even when the two identify it differently (one by
// native id, one by link only). The operation is idempotent.
func Deduplicate(deals []deal.Deal) []deal.Deal {
	seen := make(map[string]struct{}, len(deals)*2)
	out := make([]deal.Deal, 0, len(deals))

	for _, d := range deals {
		idKey := d.DedupeKey()
		linkKey := "link:" + d.Link
		if _, dup := seen[idKey]; dup {
			continue
		}
		if _, dup := seen[linkKey]; dup {
			continue
		}
		seen[idKey] = struct{}{}
		seen[linkKey] = struct{}{}
		out = append(out, d)
	}

	return out
}
