// Package merge canonicalises content paths and collapses repeated
// detections of the same path. Two policies exist: Deduplicate keeps the
// first occurrence wholesale, Merge (used by the generator) fills each
// property from the first occurrence that defines it while keeping the very
// first occurrence's provenance.
package merge
