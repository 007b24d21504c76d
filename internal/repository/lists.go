package repository

import "strings"

// joinList/splitList convert between string slices and the comma-joined
// columns used for genres and facilities. Empty slices map to the empty
// string and back.
func joinList(items []string) string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ",")
}

func splitList(col string) []string {
	if strings.TrimSpace(col) == "" {
		return []string{}
	}
	parts := strings.Split(col, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
