// Package snapshot persists the ProjectSchema hand-off document and the
// generated type declarations, and reads the previous snapshot back as the
// baseline for the next diff.
package snapshot
