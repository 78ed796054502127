// Package annotations provides an out-of-band metadata side-table: named
// values attached to arbitrary target objects without touching the targets
// themselves.
//
// Metadata lives in the Store, keyed by target identity, so the data a
// library associates with an object survives independent of the object's own
// fields and disappears in one call when no longer needed. The typical
// target is a pointer (identity semantics) or a comparable type key.
//
// # Usage
//
//	store := annotations.NewStore()
//	store.Define(user, "audit:owner", "billing")
//	owner, ok := store.GetOwn(user, "audit:owner")
//	store.Delete(user, "audit:owner")
//
// A package-level default store is available through the Define, GetOwn,
// Delete, Keys, and Has functions for libraries that want process-wide
// metadata without threading a Store through their API.
//
// # Ownership
//
// The store holds strong references to targets and values. It must never be
// the sole owner of a target: callers are expected to Delete (or have the
// consuming library unset) a target's annotations when they let go of the
// target, otherwise the entry keeps the target reachable.
//
// # Concurrency
//
// All operations are safe for concurrent use; reads take a shared lock.
package annotations
