// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header.
//   - rayid: assigns every request a RayID, stored in the Fiber locals for
//     logger.WithRayID and echoed in the X-Ray-ID response header.
//
// RayID must be registered first so that every later log line carries it.
package middleware
