package recommend

import (
	"strings"

	"github.com/naija-connect/naija_connect/internal/catalog"
)

// Match scans assistant text for plan names and returns the mentioned plans in
// catalog order, each at most once. Matching is a case-insensitive substring
// check, so a name contained in a longer name matches both ("Monthly 10GB"
// matches inside "Monthly 10GB Plus"). Returns an empty slice when nothing
// matches.
func Match(text string, plans []catalog.Plan) []catalog.Plan {
	lower := strings.ToLower(text)
	matched := make([]catalog.Plan, 0)
	seen := make(map[string]bool)
	for _, p := range plans {
		if seen[p.ID] {
			continue
		}
		if strings.Contains(lower, strings.ToLower(p.Name)) {
			matched = append(matched, p)
			seen[p.ID] = true
		}
	}
	return matched
}
