package catalog

// FilterKnown returns the ids present in active, preserving input order.
// Used as the final step of the soft-delete filter: the caller looks up which
// of the ids still reference an active record and drops the rest.
func FilterKnown(ids []string, active map[string]struct{}) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := active[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Dedupe removes duplicate ids, keeping the first occurrence of each in order.
func Dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// MergeIDs unions existing and incoming id lists: existing ids first, then
// newly introduced ids in incoming order, duplicates removed.
func MergeIDs(existing, incoming []string) []string {
	return Dedupe(append(append([]string{}, existing...), incoming...))
}
