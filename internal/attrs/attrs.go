// Package attrs converts specification tags into reporting attributes.
package attrs

import (
	"strings"

	"github.com/picklejar/pickleback/report"
)

// FromTags derives attributes from a tag list. Tags of the form "@key:value"
// split on the first colon into a keyed attribute; all other tags become
// value-only attributes. The leading "@" is stripped, empty tags are skipped,
// and duplicates are dropped while preserving input order.
func FromTags(tags []string) []report.Attribute {
	var out []report.Attribute
	seen := make(map[report.Attribute]struct{}, len(tags))

	for _, tag := range tags {
		tag = strings.TrimPrefix(tag, "@")
		if tag == "" {
			continue
		}

		attr := report.Attribute{Value: tag}
		if key, value, ok := strings.Cut(tag, ":"); ok && key != "" && value != "" {
			attr = report.Attribute{Key: key, Value: value}
		}

		if _, dup := seen[attr]; dup {
			continue
		}
		seen[attr] = struct{}{}
		out = append(out, attr)
	}
	return out
}
