// Package mapping provides the mapping data model, its JSON and YAML
// persistence, validation, and the editing operations on a collection of
// mappings.
//
// A mapping binds one controller input (a knob or a key) to one or more
// property targets. The engine smooths the input, shapes it with an easing
// curve and writes the result to every target.
//
// # File format
//
// A mapping file is a JSON array (YAML is accepted with the same keys):
//
//	[
//	  {
//	    "name": "Lid",
//	    "cc": 21,
//	    "note": false,
//	    "abs": false,
//	    "speed": 0.1,
//	    "curve": "QUAD_OUT",
//	    "targets": [
//	      {"path": "root.objects[\"Box\"].rotation[0]", "min": 0, "max": 1.57, "mode": "SET", "expr": ""}
//	    ]
//	  }
//	]
//
// Missing keys take defaults: name "Import", cc 0, note and abs false,
// speed 0.1, curve LINEAR, min 0, max 1, mode SET and an empty expression.
//
// # Output priority
//
// For every target the output is computed from the first rule that applies:
//  1. a non-empty expression, evaluated with x, time and frame bound
//  2. absolute output, x * 127
//  3. linear scaling between min and max (min may exceed max)
//
// # Drive modes
//
//   - SET overwrites the property with the computed output.
//   - ACCUMULATE adds a delta to the current property value on every tick.
package mapping
