// Package condition parses and evaluates the visibility expressions authors
// attach to fields with the condition attribute, for example
//
//	data-cms-condition="hero.showCta == true && hero.variant != 'minimal'"
//
// Identifiers are dotted content paths. The grammar supports ==, !=, <, <=,
// >, >=, &&, ||, ! and parentheses, with string, number, boolean and null
// literals. A bare identifier is tested for truthiness.
package condition
