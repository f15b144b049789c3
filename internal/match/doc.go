// Package match ranks known names by similarity to a misspelled one.
//
// It backs the "did you mean" hints attached to mapping diagnostics, for
// example an expression calling "sine" is answered with "sin".
package match
