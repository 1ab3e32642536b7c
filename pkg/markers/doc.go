// Package markers detects content-bearing elements and parses their marker
// attributes into a typed property bag. Coercion is centralised per property
// class (Bool, Number, Width, String) so edge-case policy such as rejecting
// out-of-range widths lives in one place.
package markers
