package reconcile

import (
	"regexp"
	"strconv"
	"strings"

	"TrackerSync/internal/domain"
)

// The URL column is user-editable free text, so key extraction tries a
// URL-shaped pattern first and a looser one second. Cells matching neither
// contribute no key.
var (
	problemURLExpr = regexp.MustCompile(`problem(?:set/problem|/problem|/contest)/(\d+)/([A-Za-z0-9]+)`)
	looseKeyExpr   = regexp.MustCompile(`/(\d+)/([A-Za-z0-9]+)(?:$|[^A-Za-z0-9])`)
)

// ExtractKeys parses problem identities out of the persisted URL column.
func ExtractKeys(values []string) map[domain.ProblemKey]struct{} {
	keys := make(map[domain.ProblemKey]struct{})
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		match := problemURLExpr.FindStringSubmatch(value)
		if match == nil {
			match = looseKeyExpr.FindStringSubmatch(value)
		}
		if match == nil {
			continue
		}
		contestID, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		keys[domain.ProblemKey{ContestID: contestID, Index: match[2]}] = struct{}{}
	}
	return keys
}
