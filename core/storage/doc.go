// Package storage wraps the MinIO client for the objects the reconciler
// exchanges with the outside world.
//
// The bucket is laid out by prefix:
//
//	feeds/                 CSV feeds dropped by upstream systems
//	snapshots/<id>.json    archived snapshots
//	exports/               CSV exports of the live inventory
//
// Client is kept narrow so that core/storage/mocks can stand in for it in
// tests. The package level helpers (EnsureBucket, Put, Read, List, Remove)
// wrap errors with the object key.
package storage
