// Package header splits a rule document into its header and body.
//
// A document starts with a header block delimited by "---" lines, followed by
// free text:
//
//	---
//	name: block-rm
//	event: bash
//	conditions:
//	  - field: command, operator: regex_match, pattern: rm\s+-rf
//	  - field: cwd
//	    operator: contains
//	    pattern: /prod
//	---
//
//	Dangerous command detected!
//
// The header syntax is a small, forgiving subset of YAML: top-level scalars,
// flat lists, and lists of maps written either inline (comma separated pairs)
// or across several indented lines. It is scanned line by line and is not a
// YAML parser; documents that rely on other YAML features are read
// differently.
package header
