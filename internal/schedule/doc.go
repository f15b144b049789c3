// Package schedule runs re-arming timer callbacks.
//
// A callback registered with Register runs once its delay has passed and
// returns the delay until its next run. Returning zero or a negative duration
// unregisters it. All callbacks run sequentially on the goroutine that calls
// Run (or RunDue), so a callback never races with another callback of the
// same Scheduler.
package schedule
