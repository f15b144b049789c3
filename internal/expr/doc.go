// Package expr implements the arithmetic expression language used by mapping
// targets.
//
// Source text is tokenized, parsed into a small syntax tree by a Pratt parser
// and evaluated against a map of variables. Nothing outside the tree is ever
// consulted: identifiers resolve from the variables map only, and calls are
// restricted to a fixed set of math functions.
//
// Grammar, lowest to highest binding:
//
//	sum     = product { ("+" | "-") product }
//	product = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ ("^" | "**") unary ]
//	primary = number | ident | ident "(" [ sum { "," sum } ] ")" | "(" sum ")"
package expr
