// Package board is the assignment engine behind pairboard.
//
// A board holds a pool of unassigned entries and an ordered set of named
// slots, each holding at most one entry. Entries move between the pool and
// the slots through drag sessions (see Tracker and Resolve), are removed
// through the deletion cascade, and the whole board round-trips through a
// Snapshot stored in an opaque key-value store.
//
// Every entry is always in exactly one place: the pool or a single slot.
package board
