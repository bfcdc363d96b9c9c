package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shadercheck/internal/project"
	"shadercheck/internal/prof"
	"shadercheck/internal/trace"
)

// runEnv holds what check, fix and classify set up before touching files:
// the project config, the tracer stored in the command context and the
// requested Go profiles. close undoes everything in reverse order.
type runEnv struct {
	cfg     *project.Config
	closers []func()
}

func startRun(cmd *cobra.Command) (*runEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	env := &runEnv{cfg: cfg}
	if err := env.startTracing(cmd); err != nil {
		return nil, err
	}
	if err := env.startProfiling(cmd); err != nil {
		env.close()
		return nil, err
	}
	return env, nil
}

func (e *runEnv) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// startTracing: [trace].level из конфига действует, пока не задан --trace-level.
// --trace без уровня включает phase.
func (e *runEnv) startTracing(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	output, err := flags.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelName, err := flags.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	if !flags.Changed("trace-level") && e.cfg.Trace.Level != "" {
		levelName = e.cfg.Trace.Level
	}
	level, err := trace.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}
	formatName, err := flags.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	format, err := trace.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return nil
	}

	tracer, err := trace.New(trace.Config{Level: level, Format: format, OutputPath: output})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	e.closers = append(e.closers, func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	})
	return nil
}

func (e *runEnv) startProfiling(cmd *cobra.Command) error {
	var opts prof.Options
	for name, dst := range map[string]*string{
		"cpu-profile":   &opts.CPU,
		"mem-profile":   &opts.Mem,
		"runtime-trace": &opts.Trace,
	} {
		value, err := cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = value
	}
	if !opts.Enabled() {
		return nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return err
	}
	e.closers = append(e.closers, func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
		}
	})
	return nil
}
