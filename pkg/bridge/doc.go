// Package bridge is the embedding boundary between the enumeration engine
// and a foreign host process.
//
// It owns the lifecycle state machine (initialized, connected, destroyed),
// serializes host calls through a bounded single-worker queue, and records
// a typed error for every operation so the C surface can report a stable
// error code next to its pass/fail result.
//
// The package is pure Go; cmd/libtgscraper wraps it in the actual cgo
// exports and the C memory ownership contract.
package bridge
