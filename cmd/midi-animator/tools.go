package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"midi-animator/internal/diagnostic"
	"midi-animator/internal/engine"
	"midi-animator/internal/expr"
	"midi-animator/internal/mapping"
	"midi-animator/internal/path"
	"midi-animator/internal/transport"
)

// newMIDIDriver opens the system MIDI driver. Tests replace it.
var newMIDIDriver = func() (drivers.Driver, error) {
	return rtmididrv.New()
}

func runPorts(args []string, stdout io.Writer) error {
	fs := newFlagSet("ports", "", stdout)
	if err := fs.Parse(args); err != nil {
		return err
	}

	drv, err := newMIDIDriver()
	if err != nil {
		return transport.Wrap(err, "open driver", "Could not open the system MIDI driver")
	}
	defer drv.Close()

	names, err := transport.NewMIDI(drv, nil).Inputs()
	if err != nil {
		return transport.Wrap(err, "list inputs", "Could not list MIDI inputs")
	}

	if len(names) == 0 {
		fmt.Fprintln(stdout, "no MIDI inputs")
		return nil
	}

	for i, n := range names {
		fmt.Fprintf(stdout, "%d: %s\n", i, n)
	}

	return nil
}

func runCheck(args []string, stdout io.Writer) error {
	fs := newFlagSet("check", "[-dump] [-root prefix] FILE", stdout)
	dump := fs.Bool("dump", false, "dump the decoded mappings")
	root := fs.String("root", path.DefaultPrefix, "first segment of target paths")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	ms, diags, err := mapping.LoadFile(fs.Arg(0), *root)
	printDiagnostics(stdout, diags)

	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%d mappings OK\n", len(ms))

	if *dump {
		spew.Fdump(stdout, ms)
	}

	return nil
}

func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics) {
	if diags == nil {
		return
	}

	for _, d := range diags.All() {
		fmt.Fprintf(w, "%s: %s\n", d.Severity, d)
	}
}

func runConvert(args []string, stdout io.Writer) error {
	fs := newFlagSet("convert", "[-root prefix] IN OUT", stdout)
	root := fs.String("root", path.DefaultPrefix, "first segment of target paths")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return errUsage
	}

	ms, diags, err := mapping.LoadFile(fs.Arg(0), *root)
	if err != nil {
		printDiagnostics(stdout, diags)
		return err
	}

	if err := mapping.WriteFile(ms, fs.Arg(1)); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %d mappings to %s\n", len(ms), fs.Arg(1))

	return nil
}

func runEval(args []string, stdout io.Writer) error {
	fs := newFlagSet("eval", "[-x v] [-frame n] [-fps f] EXPR", stdout)
	x := fs.Float64("x", 0, "eased mapping value")
	frame := fs.Int("frame", 0, "current frame")
	fps := fs.Float64("fps", engine.DefaultFPS, "frames per second")
	tree := fs.Bool("tree", false, "print the parsed expression")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}

	prog, err := expr.Compile(fs.Arg(0))
	if err != nil {
		return err
	}

	if *tree {
		fmt.Fprintln(stdout, prog)
	}

	clock := engine.NewStepClock(*fps)
	for range *frame {
		clock.Step()
	}

	v, err := prog.Eval(map[string]float64{
		expr.VarX:     *x,
		expr.VarTime:  engine.Seconds(clock),
		expr.VarFrame: float64(clock.Frame()),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, strconv.FormatFloat(v, 'g', -1, 64))

	return nil
}
