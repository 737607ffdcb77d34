// Package specialist implements the specialist agent model and the
// invocation engine that dispatches work to specialists.
//
// A [Agent] is an immutable configuration binding one role to a system
// prompt, a capability set, and a sampling temperature. The [Engine] holds
// one specialist per catalog role and dispatches single, chained, parallel,
// and delegated invocations against the model client, recording history and
// per-role statistics and publishing lifecycle events for every attempt.
//
// # Event Order
//
// Every invocation publishes agent.invoked before the model call and
// agent.responded after it, synchronously in the caller's goroutine, before
// the invocation returns. Failed model calls still publish both events so
// observers always see the attempt.
package specialist
