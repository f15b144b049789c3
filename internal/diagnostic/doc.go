// Package diagnostic provides structured errors, warnings and notes produced
// while validating controller mapping files.
//
// Key capabilities:
//   - Per-mapping and per-target locations
//   - Stable codes for tooling ("invalid_path", "cc_out_of_range", ...)
//   - "Did you mean" suggestions
package diagnostic
