package diff

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-contentschema/pkg/schema"
)

// NoChanges is the report printed for an empty diff.
const NoChanges = "No changes detected."

// Format renders a line oriented report grouped by change kind. Only
// non-empty groups are printed, separated by a blank line.
func Format(d schema.SchemaDiff) string {
	if len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0 {
		return NoChanges
	}

	var groups []string
	if len(d.Added) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "Added (%d):", len(d.Added))
		for _, field := range d.Added {
			fmt.Fprintf(&b, "\n  + %s", field.Path)
		}
		groups = append(groups, b.String())
	}
	if len(d.Removed) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "Removed (%d):", len(d.Removed))
		for _, field := range d.Removed {
			fmt.Fprintf(&b, "\n  - %s", field.Path)
		}
		groups = append(groups, b.String())
	}
	if len(d.Modified) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "Modified (%d):", len(d.Modified))
		for _, change := range d.Modified {
			fmt.Fprintf(&b, "\n  ~ %s: %s", change.Path, strings.Join(change.Changes, ", "))
		}
		groups = append(groups, b.String())
	}
	return strings.Join(groups, "\n\n")
}

// Summary is a one-line count suitable for log messages.
func Summary(d schema.SchemaDiff) string {
	return fmt.Sprintf("%d added, %d removed, %d modified", len(d.Added), len(d.Removed), len(d.Modified))
}
