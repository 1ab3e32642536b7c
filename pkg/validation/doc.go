// Package validation checks ProjectSchema documents for structural problems
// such as slug/path disagreement introduced by manual edits. Problems are
// reported as warning strings, never as errors.
package validation
