// Package source walks a tree of component sources and turns each file into
// the parser-neutral elements the marker extractor inspects.
//
// JSX-family files (.jsx, .tsx, .js, .ts, .mjs, .astro, .mdx) go through a
// small tag scanner that skips script text; HTML-family files (.html, .htm,
// .vue, .svelte) go through the golang.org/x/net/html tokenizer. Both report
// 1-based line and column positions of each opening tag.
package source
