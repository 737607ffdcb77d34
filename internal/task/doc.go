// Package task implements the constrained task-execution state machine.
//
// An [AgentTask] moves through Pending, Planning, Executing, and
// AwaitingConfirmation before reaching a terminal Completed, Failed, or
// Cancelled status. The [Engine] drives tasks step by step, enforcing the
// task's [Constraints] before each step: step and token budgets are hard
// pre-step gates that fail the whole task, capability and permission checks
// fail the offending step only, and sensitive operations suspend the task
// on user confirmation when the constraints require it.
//
// A task exclusively owns its step list (append-only) and its result (set
// at most once). Execution is single-flow per task: steps are appended by
// one driver at a time, serialized through the engine.
package task
