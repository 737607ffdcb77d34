// Package consensus tracks votes on a proposal and derives an
// accept/reject/pending status from a configurable approval threshold.
//
// One [State] exists per proposal; it is owned by whichever session or task
// step created it and is never shared across concurrent proposals. Each
// participant holds exactly one vote: re-voting overwrites the earlier vote
// (last write wins). Status is derived only when [State.UpdateStatus] is
// called explicitly, and only once every expected participant has voted.
// "Not yet decided" is the ordinary Pending status, never an error.
package consensus
