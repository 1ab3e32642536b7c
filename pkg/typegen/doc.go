// Package typegen derives TypeScript declarations describing the content
// shape of a ProjectSchema, for use by frontend build tooling.
package typegen
