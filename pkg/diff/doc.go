// Package diff compares two ProjectSchema snapshots field by field and
// renders the result as a stable plain-text report.
package diff
