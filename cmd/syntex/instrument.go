package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"syntex/internal/prof"
	"syntex/internal/trace"
)

// readTraceConfig collects the --trace* persistent flags. A bare --trace
// path without --trace-level records phases.
func readTraceConfig(flags *pflag.FlagSet) (trace.Config, error) {
	var conf trace.Config
	var levelStr, modeStr string
	var errs []error
	get := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to get %s flag: %w", name, err))
		}
	}
	var err error
	conf.OutputPath, err = flags.GetString("trace")
	get("trace", err)
	levelStr, err = flags.GetString("trace-level")
	get("trace-level", err)
	modeStr, err = flags.GetString("trace-mode")
	get("trace-mode", err)
	conf.RingSize, err = flags.GetInt("trace-ring-size")
	get("trace-ring-size", err)
	conf.Heartbeat, err = flags.GetDuration("trace-heartbeat")
	get("trace-heartbeat", err)
	if len(errs) > 0 {
		return conf, errors.Join(errs...)
	}

	if conf.Level, err = trace.ParseLevel(levelStr); err != nil {
		return conf, err
	}
	if conf.Level == trace.LevelOff && conf.OutputPath != "" {
		conf.Level = trace.LevelPhase
	}
	if conf.Mode, err = trace.ParseMode(modeStr); err != nil {
		return conf, err
	}
	return conf, nil
}

// setupTracing puts a tracer (trace.Nop when off) into the command context.
// The cleanup stops the heartbeat, then flushes and closes the tracer.
func setupTracing(cmd *cobra.Command) (func(), error) {
	conf, err := readTraceConfig(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	if conf.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	tracer, err := trace.New(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	var hb *trace.Heartbeat
	if conf.Heartbeat > 0 {
		hb = trace.StartHeartbeat(tracer, conf.Heartbeat)
	}
	return func() {
		if hb != nil {
			hb.Stop()
		}
		if err := errors.Join(tracer.Flush(), tracer.Close()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		}
	}, nil
}

// setupProfiling starts the pprof outputs named by --cpu-profile,
// --mem-profile and --runtime-trace.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	for name, dst := range map[string]*string{
		"cpu-profile":   &opts.CPU,
		"mem-profile":   &opts.Mem,
		"runtime-trace": &opts.Trace,
	} {
		v, err := flags.GetString(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}

	session, err := prof.Start(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
		}
	}, nil
}
