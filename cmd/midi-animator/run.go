package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"midi-animator/internal/config"
	"midi-animator/internal/engine"
	"midi-animator/internal/graph"
	"midi-animator/internal/listener"
	"midi-animator/internal/logging"
	"midi-animator/internal/mapping"
	"midi-animator/internal/schedule"
	"midi-animator/internal/transport"
)

// runFlags override fields of the configuration file.
type runFlags struct {
	config   string
	device   string
	mappings string
	scene    string
	replay   string
	save     string
	linger   time.Duration
	debug    bool
}

func (f *runFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.config, "config", "", "configuration file")
	fs.StringVar(&f.device, "device", "", "MIDI input name, or part of it")
	fs.StringVar(&f.mappings, "mappings", "", "mapping file (JSON or YAML)")
	fs.StringVar(&f.scene, "scene", "", "scene document to animate (JSON or YAML)")
	fs.StringVar(&f.replay, "replay", "", "play a recorded event file instead of a device")
	fs.StringVar(&f.save, "save", "", "write the scene here on exit")
	fs.DurationVar(&f.linger, "linger", 2*time.Second, "keep animating this long after a replay ends")
	fs.BoolVar(&f.debug, "debug", false, "log at debug level")
}

// apply loads the configuration file and overlays the flags.
func (f *runFlags) apply() (*config.Config, error) {
	cfg := config.Default()

	if f.config != "" {
		c, err := config.LoadFile(f.config)
		if err != nil {
			return nil, err
		}

		cfg = c
	}

	overrides := []struct {
		dst *string
		src string
	}{
		{&cfg.Device, f.device},
		{&cfg.Mappings, f.mappings},
		{&cfg.Scene, f.scene},
		{&cfg.Replay, f.replay},
		{&cfg.Save, f.save},
	}
	for _, o := range overrides {
		if o.src != "" {
			*o.dst = o.src
		}
	}

	if f.replay != "" {
		cfg.Driver = config.DriverReplay
	}

	if f.debug {
		cfg.Log.Level = "debug"
	}

	return cfg, cfg.Validate()
}

func runRun(args []string, stdout io.Writer) error {
	var f runFlags

	fs := newFlagSet("run", "[flags]", stdout)
	f.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := f.apply()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return animate(ctx, cfg, f.linger, log, stdout)
}

// animate runs the listener until ctx is done or a replay input finished and
// linger has passed.
func animate(ctx context.Context, cfg *config.Config, linger time.Duration, log *zap.Logger, stdout io.Writer) error {
	mappings := mapping.NewCollection()
	if cfg.Mappings != "" {
		diags, err := mappings.Import(cfg.Mappings, cfg.Root)
		if diags != nil {
			for _, d := range diags.All() {
				log.Warn("mapping diagnostic", zap.Stringer("severity", d.Severity), zap.String("finding", d.String()))
			}
		}

		if err != nil {
			return err
		}
	}

	tree := graph.NewTree(map[string]any{})
	if cfg.Scene != "" {
		t, err := graph.LoadFile(cfg.Scene)
		if err != nil {
			return err
		}

		tree = t
	}

	drv, closeDriver, err := openDriver(cfg, log)
	if err != nil {
		return err
	}
	defer closeDriver()

	sched := schedule.New(schedule.WithLogger(log))

	l := listener.New(listener.Config{
		Driver:    drv,
		Scheduler: sched,
		Mappings:  mappings,
		Graph:     tree,
		Device:    cfg.Device,
		Interval:  time.Duration(cfg.Tick),
		Engine: []engine.Option{
			engine.WithPrefix(cfg.Root),
			engine.WithFrameSource(engine.NewStepClock(cfg.FPS)),
			engine.WithAccumulateGain(cfg.AccumulateGain),
			engine.WithQueueSize(cfg.QueueSize),
		},
		Logger: log,
	})

	if err := l.Start(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "animating %d mappings from %s\n", mappings.Len(), l.Device())

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- sched.Run(runCtx) }()

	wait(runCtx, l.Done(), linger)

	eng := l.Engine()
	stopErr := l.Stop()

	cancel()
	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	stats := eng.Stats()
	fmt.Fprintf(stdout, "%d ticks, %d events, %d writes, %d failed writes, %d dropped events\n",
		stats.Ticks, stats.Events, stats.Writes, stats.Failures, eng.Dropped())

	if cfg.Save != "" {
		if err := tree.WriteFile(cfg.Save); err != nil {
			return errors.Join(stopErr, err)
		}

		fmt.Fprintf(stdout, "saved scene to %s\n", cfg.Save)
	}

	return stopErr
}

// wait blocks until ctx is done, or until done closes and linger passes.
func wait(ctx context.Context, done <-chan struct{}, linger time.Duration) {
	select {
	case <-ctx.Done():
		return
	case <-done:
	}

	select {
	case <-ctx.Done():
	case <-time.After(linger):
	}
}

func openDriver(cfg *config.Config, log *zap.Logger) (transport.Driver, func(), error) {
	if cfg.Driver == config.DriverReplay {
		r, err := transport.LoadReplay(cfg.Replay, time.Duration(cfg.ReplayInterval))
		if err != nil {
			return nil, nil, transport.Wrap(err, "load replay", "Could not load replay file "+cfg.Replay)
		}

		return r, func() {}, nil
	}

	drv, err := newMIDIDriver()
	if err != nil {
		return nil, nil, transport.Wrap(err, "open driver", "Could not open the system MIDI driver")
	}

	return transport.NewMIDI(drv, log), func() { _ = drv.Close() }, nil
}
