// Package exclusion compiles human-entered exclusion strings into matchers.
//
// A pattern excludes a row when it appears, case-insensitively and literally,
// inside either the item id or the display name. Patterns are never treated as
// regular expressions and whitespace inside a pattern is matched as written.
package exclusion
