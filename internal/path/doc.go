// Package path parses textual property references and resolves them against
// a graph.Accessor.
//
// # Path Syntax
//
// A path is a dot-separated list of segments rooted at a sentinel prefix:
//
//	root.objects['Cube'].location[0]
//	root.scene.render.fps
//	root.nodes["Group.001"].inputs[2]
//
// Each segment is an identifier, optionally followed by one bracketed key.
// Keys are decimal integers or single/double-quoted strings. Dots inside
// brackets or quotes never split segments.
//
// Resolution walks every segment but the last and returns the container,
// the final field name, and the final integer index (-1 for scalar fields).
package path
