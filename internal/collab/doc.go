// Package collab implements multi-participant collaboration sessions.
//
// A [Session] holds an ordered participant list, an append-only message log,
// a copy-on-write [SharedContext], and a monotonically increasing turn
// counter. The active participant is always participants[turn mod n], so
// turn order cycles indefinitely once the participant list is fixed. Session
// status is a finite state machine; all transitions go through guarded
// methods that publish session.status_changed on success.
//
// The [Runner] drives a session to termination against a specialist engine,
// applying the protocol-specific turn rules: round-robin and debate invoke
// the single active participant, broadcast fans out to every participant
// within one turn, and consensus/voting gate completion on a vote tally
// rather than on turn count alone.
package collab
