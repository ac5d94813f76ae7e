// Package utils provides the loose-text coercion helpers used when reading
// spreadsheet feeds. The conversions never fail: anything unparsable becomes
// the zero value.
package utils
