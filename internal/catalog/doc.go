// Package catalog publishes the merged plugin registry and its scanned
// capabilities as an immutable, versioned snapshot.
//
// Readers call Store.Current and use the returned Snapshot without locking.
// Store.Reload rebuilds a snapshot from disk off to the side and swaps it in
// atomically; in-flight readers keep the snapshot they already hold.
// Concurrent reload requests share a single rebuild.
package catalog
