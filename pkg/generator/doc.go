// Package generator groups canonical fields into the page → section → field
// hierarchy of a ProjectSchema. Path segment 0 names the page, segment 1 the
// section; a wildcard segment after the section marks the section as a
// repeater.
package generator
