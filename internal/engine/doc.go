// Package engine turns controller events into smoothed property writes.
//
// An Engine owns the animation state of one mapping collection. Transport
// goroutines hand it events through Push; everything else happens inside
// Tick, which the caller runs from a single goroutine at a fixed cadence:
//
//  1. drain pending events and route them to matching mappings
//  2. advance every mapping's smoothing state toward its target
//  3. ease the smoothed value and write each target through the path resolver
//  4. call the redraw hook
//
// Failures while writing a target are logged and skipped; they never stop the
// other targets or mappings from animating.
package engine
