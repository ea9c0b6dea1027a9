// Package fleet holds the mutable fleet state behind admission snapshots.
//
// A Provider produces the read-only model.Snapshot consumed by the admission
// coordinator. MemoryStore is the in-process Provider used by the service; it
// also applies the side effects admission never performs itself: refuels,
// mission creation and the mission lifecycle.
package fleet
