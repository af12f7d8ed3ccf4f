// Package httpapi exposes the tracker over HTTP.
//
// The surface is a plain JSON API on net/http: one Server wrapping the
// store and the backfill engine, routes registered with method-qualified
// patterns on a ServeMux, and a uniform error envelope {"error": "..."}
// whose status code is derived from the puzzle error taxonomy.
package httpapi
