// Command midi-animator drives properties of a scene document from a MIDI
// controller.
//
// Subcommands:
//
//	ports                   list MIDI inputs
//	check [-dump] FILE      validate a mapping file
//	convert IN OUT          convert a mapping file between JSON and YAML
//	eval [-x v] EXPR        evaluate an expression
//	run [flags]             animate a scene until interrupted
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"midi-animator/internal/mapping"
	"midi-animator/internal/transport"
)

// errUsage marks command line mistakes; the usage text was already printed.
var errUsage = errors.New("usage error")

type command struct {
	name    string
	summary string
	run     func(args []string, stdout io.Writer) error
}

func commands() []command {
	return []command{
		{"ports", "list MIDI inputs", runPorts},
		{"check", "parse and validate a mapping file", runCheck},
		{"convert", "convert a mapping file between JSON and YAML", runConvert},
		{"eval", "evaluate an expression", runEval},
		{"run", "animate a scene from a controller", runRun},
	}
}

func main() {
	os.Exit(dispatch(os.Args[1:], os.Stdout, os.Stderr))
}

func dispatch(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
		usage(stderr)
		return 2
	}

	for _, c := range commands() {
		if c.name != args[0] {
			continue
		}

		err := c.run(args[1:], stdout)
		switch {
		case err == nil:
			return 0
		case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
			return 2
		default:
			report(stderr, err)
			return 1
		}
	}

	fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
	usage(stderr)

	return 2
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: midi-animator <command> [flags]")
	fmt.Fprintln(w)

	for _, c := range commands() {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
}

// report prints the user-facing issue of err when it carries one, followed
// by the full error chain.
func report(w io.Writer, err error) {
	if issue := fmsg.GetIssue(err); issue != "" {
		fmt.Fprintln(w, issue)
	}

	switch tag := ftag.Get(err); tag {
	case mapping.TagConfigParse, transport.TagTransport:
		fmt.Fprintf(w, "error (%s): %v\n", tag, err)
	default:
		fmt.Fprintf(w, "error: %v\n", err)
	}
}

func newFlagSet(name, args string, stdout io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: midi-animator %s %s\n", name, args)
		fs.PrintDefaults()
	}

	return fs
}
