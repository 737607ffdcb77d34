// Package event defines the synchronous pub-sub bus and event types that
// decouple the orchestration components of cadre.
//
// The specialist engine, collaboration sessions, the consensus tracker, and
// the task execution engine all publish lifecycle events to a shared [Bus].
// Observers (CLI output, log sinks, tests) subscribe without the publishing
// component knowing about them.
//
// # Dispatch Semantics
//
// Publishing is synchronous: state is updated first, then handlers run in the
// caller's goroutine before Publish returns. Handlers subscribed to a specific
// event type run before wildcard handlers; within each group, registration
// order is preserved. A handler that panics is recovered and logged so one
// misbehaving observer cannot block delivery to the others.
//
// Unsubscribe is race-free relative to in-flight dispatch: a dispatch that
// began before removal may still deliver to the handler, but once Unsubscribe
// returns the handler will never be invoked again.
//
// # Naming
//
// Event types follow the "category.action" convention, e.g. "agent.invoked",
// "session.turn_advanced", "task.awaiting_confirmation".
package event
