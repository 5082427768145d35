// Package telegram provides the transport client for the messaging
// platform: session setup, channel resolution, and the participant-search
// primitive the enumeration scheduler drives.
//
// The search backend is a deterministic placeholder that synthesizes
// member records instead of performing wire requests; the session,
// resolution, and error semantics match what a real client exposes, so
// the rest of the system is written against the final interface.
package telegram
