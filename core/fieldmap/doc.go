// Package fieldmap extracts canonical item fields from arbitrary spreadsheet rows.
//
// Each canonical Field owns a ranked list of header aliases. Extraction tries
// exact headers before case-insensitive ones, and earlier aliases before later
// ones. Numeric fields are coerced with a strip-then-parse rule that normalizes
// anything unreadable to zero.
//
// The first alias of every field is also the header used on export, which keeps
// exported feeds re-importable without loss.
package fieldmap
