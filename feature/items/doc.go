// Package items serves the live inventory.
//
// It lists items with their stock status, applies manual edits and stock
// adjustments, keeps the transaction log, reports velocity, and moves whole
// feeds in and out through CSV imports, OCR readings and CSV exports.
//
// # Components
//
//   - Service: Evaluates items and runs imports against the stores.
//   - Handler: Exposes the HTTP endpoints below.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /items : List items (status, search, sort=urgency).
//   - GET|PATCH|DELETE /items/:id : Read, partially update or remove an item.
//   - POST /items/:id/adjust : Apply a stock movement and log it.
//   - GET /items/:id/transactions : Transaction log of one item.
//   - GET /items/:id/velocity : Outbound rate and days of cover.
//   - GET /transactions : Transaction log by date range.
//   - DELETE /transactions/:id : Remove a log entry.
//   - POST /imports : Import a CSV body (mode, strict).
//   - POST /imports/ocr : Import OCR readings.
//   - GET /imports/feeds, POST /imports/feed : Stored feeds.
//   - GET /exports/csv, POST /exports/archive : CSV exports.
package items
