package products

// Categories returns the distinct categories of entries in order of first
// occurrence.
func Categories(entries []Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0)
	for _, e := range entries {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// CategoryCount is a category with the number of entries filed under it.
type CategoryCount struct {
	Category string `json:"category" yaml:"category"`
	Count    int    `json:"count" yaml:"count"`
}

// CountByCategory returns per-category totals in the same order as Categories.
func CountByCategory(entries []Entry) []CategoryCount {
	index := make(map[string]int, len(entries))
	out := make([]CategoryCount, 0)
	for _, e := range entries {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryCount{Category: e.Category})
		}
		out[i].Count++
	}
	return out
}
