// Package rule builds hook rules from rule documents.
//
// A rule document is a Markdown file named "hookify.<identifier>.local.md"
// with a header block (see package header) and a message body. [New] turns a
// parsed header into a [Rule], [LoadFile] reads a single document, and
// [LoadDir] reads every rule document in a directory, reporting the ones it
// cannot use instead of failing.
package rule
