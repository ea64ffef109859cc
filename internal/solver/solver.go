// Package solver runs influx_si on a directory of generated configurations.
package solver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Mode selects the influx_si executable.
type Mode string

const (
	// Stationary runs influx_s.
	Stationary Mode = "influx_s"

	// Instationary runs influx_i.
	Instationary Mode = "influx_i"
)

// ParseMode accepts "influx_s" and "influx_i". Empty means Stationary.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", Stationary:
		return Stationary, nil
	case Instationary:
		return Instationary, nil
	}
	return "", fmt.Errorf("unknown solver mode %q, expected %s or %s", s, Stationary, Instationary)
}

// Runner runs the solver.
type Runner struct {
	Mode Mode
	Args []string

	// Path overrides the executable looked up from Mode.
	Path string

	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Default is slog.Default(); nil keeps it.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithPath runs the given executable instead of the one named by the mode.
func WithPath(path string) Option {
	return func(r *Runner) { r.Path = path }
}

// WithOutput sends the solver's stdout and stderr to w. Default is the
// process's own stdout and stderr.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.stdout = w
		r.stderr = w
	}
}

// New returns a runner for mode with extra command-line args.
func New(mode Mode, args []string, opts ...Option) (*Runner, error) {
	if _, err := ParseMode(string(mode)); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = Stationary
	}
	r := &Runner{Mode: mode, Args: append([]string(nil), args...), logger: slog.Default(), stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Command builds the solver command for the model prefix in dir. Args come
// after --prefix.
func (r *Runner) Command(ctx context.Context, dir, prefix string) *exec.Cmd {
	name := string(r.Mode)
	if r.Path != "" {
		name = r.Path
	}
	args := append([]string{"--prefix", prefix}, r.Args...)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd
}

// Run runs the solver and waits for it. Cancelling ctx kills the solver.
func (r *Runner) Run(ctx context.Context, dir, prefix string) error {
	if prefix == "" {
		return fmt.Errorf("solver: prefix is required")
	}
	if fi, err := os.Stat(dir); err != nil {
		return fmt.Errorf("solver: %w", err)
	} else if !fi.IsDir() {
		return fmt.Errorf("solver: %s is not a directory", dir)
	}

	cmd := r.Command(ctx, dir, prefix)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	r.logger.Info("solver started", "mode", r.Mode, "dir", dir, "prefix", prefix, "args", r.Args)
	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("solver %s cancelled: %w", r.Mode, ctx.Err())
		}
		r.logger.Error("solver failed", "mode", r.Mode, "elapsed", elapsed, "error", err)
		return fmt.Errorf("solver %s: %w", r.Mode, err)
	}
	r.logger.Info("solver finished", "mode", r.Mode, "elapsed", elapsed)
	return nil
}
