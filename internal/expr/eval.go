package expr

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// ErrExpression is wrapped by every compile and evaluation failure.
var ErrExpression = errors.New("expression error")

// Standard variable names supplied by the engine.
const (
	VarX     = "x"
	VarTime  = "time"
	VarFrame = "frame"
)

// constants are resolved before variables and cannot be shadowed.
var constants = map[string]float64{
	"pi": math.Pi,
}

type function struct {
	minArgs int
	maxArgs int // -1 means variadic
	call    func(args []float64) float64
}

func (f function) arity() string {
	switch {
	case f.maxArgs < 0:
		return fmt.Sprintf("at least %d arguments", f.minArgs)
	case f.minArgs == f.maxArgs && f.minArgs == 1:
		return "1 argument"
	case f.minArgs == f.maxArgs:
		return fmt.Sprintf("%d arguments", f.minArgs)
	default:
		return fmt.Sprintf("%d to %d arguments", f.minArgs, f.maxArgs)
	}
}

func unary(fn func(float64) float64) function {
	return function{minArgs: 1, maxArgs: 1, call: func(a []float64) float64 { return fn(a[0]) }}
}

var functions = map[string]function{
	"sin":  unary(math.Sin),
	"cos":  unary(math.Cos),
	"tan":  unary(math.Tan),
	"sqrt": unary(math.Sqrt),
	"abs":  unary(math.Abs),
	"pow": {minArgs: 2, maxArgs: 2, call: func(a []float64) float64 {
		return math.Pow(a[0], a[1])
	}},
	"round": {minArgs: 1, maxArgs: 2, call: func(a []float64) float64 {
		if len(a) == 1 {
			return math.RoundToEven(a[0])
		}

		scale := math.Pow(10, math.Trunc(a[1]))

		return math.RoundToEven(a[0]*scale) / scale
	}},
	"min": {minArgs: 1, maxArgs: -1, call: func(a []float64) float64 {
		return slices.Min(a)
	}},
	"max": {minArgs: 1, maxArgs: -1, call: func(a []float64) float64 {
		return slices.Max(a)
	}},
}

// FunctionNames returns the callable function names, sorted.
func FunctionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// MaxTokens bounds the size of an expression. Evaluation walks the tree
// recursively, so long operator chains are capped here.
const MaxTokens = 4096

// Program is a compiled expression. It is immutable and safe for concurrent use.
type Program struct {
	source string
	root   *Node
	idents []string
}

// Compile parses src into a Program.
func Compile(src string) (*Program, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrExpression)
	}

	tokens, err := NewLexer(src).Tokenize()
	if err != nil {
		return nil, err
	}

	if len(tokens) > MaxTokens {
		return nil, fmt.Errorf("%w: expression longer than %d tokens", ErrExpression, MaxTokens)
	}

	root, err := NewParser(tokens).Parse()
	if err != nil {
		return nil, err
	}

	var idents []string

	root.walk(func(n *Node) {
		if n.Type == NodeIdent && !slices.Contains(idents, n.Name) {
			idents = append(idents, n.Name)
		}
	})

	slices.Sort(idents)

	return &Program{source: src, root: root, idents: idents}, nil
}

// Source returns the text the program was compiled from.
func (p *Program) Source() string {
	return p.source
}

// String returns the parsed form of the program, fully parenthesized.
func (p *Program) String() string {
	return p.root.String()
}

// Identifiers returns the sorted identifiers the program reads.
func (p *Program) Identifiers() []string {
	return slices.Clone(p.idents)
}

// Uses reports whether the program reads identifier name.
func (p *Program) Uses(name string) bool {
	_, ok := slices.BinarySearch(p.idents, name)

	return ok
}

// UsesClock reports whether the result depends on the time or frame variables.
func (p *Program) UsesClock() bool {
	return p.Uses(VarTime) || p.Uses(VarFrame)
}

// Eval evaluates the program. Unbound identifiers read as 0.
func (p *Program) Eval(vars map[string]float64) (float64, error) {
	v, err := eval(p.root, vars)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s evaluates to %v", ErrExpression, p.source, v)
	}

	return v, nil
}

// Evaluate compiles and evaluates src, returning 0 on any failure.
func Evaluate(src string, vars map[string]float64) float64 {
	prog, err := Compile(src)
	if err != nil {
		return 0
	}

	v, err := prog.Eval(vars)
	if err != nil {
		return 0
	}

	return v
}

func eval(n *Node, vars map[string]float64) (float64, error) {
	switch n.Type {
	case NodeNumber:
		return n.Num, nil
	case NodeIdent:
		if c, ok := constants[n.Name]; ok {
			return c, nil
		}

		return vars[n.Name], nil
	case NodeUnary:
		v, err := eval(n.Children[0], vars)
		if err != nil {
			return 0, err
		}

		if n.Operator == "-" {
			return -v, nil
		}

		return v, nil
	case NodeBinary:
		return evalBinary(n, vars)
	case NodeCall:
		fn, ok := functions[n.Name]
		if !ok {
			return 0, fmt.Errorf("%w: unknown function %q", ErrExpression, n.Name)
		}

		args := make([]float64, len(n.Children))
		for i, c := range n.Children {
			v, err := eval(c, vars)
			if err != nil {
				return 0, err
			}

			args[i] = v
		}

		return fn.call(args), nil
	default:
		return 0, fmt.Errorf("%w: unknown node type %d", ErrExpression, n.Type)
	}
}

func evalBinary(n *Node, vars map[string]float64) (float64, error) {
	left, err := eval(n.Children[0], vars)
	if err != nil {
		return 0, err
	}

	right, err := eval(n.Children[1], vars)
	if err != nil {
		return 0, err
	}

	switch n.Operator {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, fmt.Errorf("%w: division by zero", ErrExpression)
		}

		return left / right, nil
	case "^":
		return math.Pow(left, right), nil
	default:
		return 0, fmt.Errorf("%w: unknown operator %q", ErrExpression, n.Operator)
	}
}
