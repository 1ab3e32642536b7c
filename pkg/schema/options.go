package schema

import "strings"

// Choice is one entry of a field's options list.
type Choice struct {
	Value string
	Label string
}

// ParseOptions splits an options attribute into choices. Entries are comma
// separated; an entry may carry a label after a colon (`sm:Small`).
// Without a label the humanized value is used. Blank entries are skipped.
func ParseOptions(options string) []Choice {
	var out []Choice
	for entry := range strings.SplitSeq(options, ",") {
		value, label, _ := strings.Cut(entry, ":")
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		label = strings.TrimSpace(label)
		if label == "" {
			label = Humanize(value)
		}
		out = append(out, Choice{Value: value, Label: label})
	}
	return out
}
