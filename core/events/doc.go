// Package events defines the admission events emitted on the event bus.
//
// Available event types:
//   - DecisionEvent: an admission evaluation finished
//   - RefuelEvent: fuel was added to a truck
//   - MissionEvent: a mission was created or changed status
package events
