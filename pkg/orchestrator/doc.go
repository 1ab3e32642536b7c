// Package orchestrator wires the scan → generate → validate → diff → write
// pipeline behind a single Run call, and provides the Debouncer used to
// coalesce bursts of file change notifications into one run.
package orchestrator
