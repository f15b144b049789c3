// Package graph defines the capability set the path resolver needs from a
// host object graph, and ships two hosts:
//
//   - Tree: a loosely typed document of maps and slices, as decoded from
//     JSON or YAML scene files.
//   - Reflect: an arbitrary Go value graph (structs, maps, slices, arrays)
//     reached through reflection.
//
// Keys passed to Indexed and SetIndexed are either an int (sequence slot) or
// a string (keyed lookup). A string key on a sequence selects the element
// whose "name" attribute equals the key, so `objects['Cube']` works on both
// keyed and named collections.
package graph
