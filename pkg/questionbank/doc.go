// Package questionbank provides the core of a medical exam question viewer:
// a hydration engine that resolves double-bracketed asset placeholders
// embedded in rich-text question markup into display-safe output plus an
// ordered list of referenced assets.
//
// The package is storage-agnostic. Questions and asset documents live behind
// the Repository interface (in-memory and PostgreSQL implementations under
// repo/), media files behind the BlobStore interface (filesystem, S3 and
// in-memory implementations under storage/), and media URL rendering behind
// the URLStrategy interface (static paths or inline data payloads, under
// mediaurl/).
package questionbank
