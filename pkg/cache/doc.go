// Package cache implements the deduplicating member store used by the
// enumeration scheduler.
//
// The pattern sweep queries overlap heavily (the same member matches many
// prefixes), so every batch is funneled through Store.TryInsert, which
// admits each member id exactly once. First-seen wins: a record already in
// the store is never overwritten by a later discovery.
//
// Snapshot returns records in first-seen order, which is what makes
// repeated runs against a deterministic backend reproduce byte-identical
// output.
package cache
