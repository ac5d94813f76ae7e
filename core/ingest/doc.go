// Package ingest turns loosely structured tabular feeds into canonical
// inventory items and merges them into an item store.
//
// A feed goes through three steps:
//
//  1. Parse reads the header row, resolves each canonical field through
//     the fieldmap aliases, drops empty and excluded rows and collects
//     every row-level error and warning.
//  2. Merge writes the items under one of two policies. ModeReplace makes
//     the store hold exactly the parsed set; ModeUpdate only overwrites the
//     quantity of known items and inserts the rest.
//  3. Import chains the two and returns a Report with counts.
//
// Export is the inverse of Parse.
package ingest
