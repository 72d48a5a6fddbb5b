package dag

import "sort"

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copySet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}

// filterEmpty returns, in ascending order, the keys whose set is empty.
func filterEmpty(adj map[string]map[string]struct{}) []string {
	var ids []string
	for id, set := range adj {
		if len(set) == 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
