// Copyright 2024 The University of Queensland
// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// app holds what the commands share for one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg     Config
	logger  *slog.Logger
	metrics *runMetrics
	cleanup []func(context.Context) error
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, logger: slog.New(slog.DiscardHandler)}
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sortinghat",
		Short: "Assign students to elective courses",
		Long: `sortinghat places every student in one elective course, preferring
the courses they ranked highest and never exceeding a course's seats.

Settings are read from flags, then SORTINGHAT_* environment variables,
then the --config file.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	flags := cmd.PersistentFlags()
	flags.String("config", "", "YAML config file")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")
	flags.Bool("trace", false, "print OpenTelemetry spans to stderr")

	cmd.AddCommand(a.solveCmd(), a.diagnoseCmd(), a.runsCmd())
	return cmd
}

// execute runs the command line and flushes telemetry even when the command
// fails, so an infeasible run still leaves its metrics behind.
func (a *app) execute(ctx context.Context, args []string) error {
	cmd := a.root()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return errors.Join(err, a.teardown(ctx))
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = newLogger(a.stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	if cfg.Trace {
		shutdown, err := setupTracing(a.stderr)
		if err != nil {
			return err
		}
		a.cleanup = append(a.cleanup, shutdown)
	}
	if cfg.MetricsFile != "" {
		if a.metrics, err = newRunMetrics(); err != nil {
			return err
		}
	}

	a.logger.Debug("configuration loaded", "command", cmd.Name(), "backend", cfg.Backend, "mode", cfg.Mode)
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	var errs []error
	if a.metrics != nil {
		errs = append(errs, a.metrics.write(ctx, a.cfg.MetricsFile))
		a.logger.Debug("metrics written", "path", a.cfg.MetricsFile)
	}
	for _, fn := range a.cleanup {
		errs = append(errs, fn(ctx))
	}
	a.metrics, a.cleanup = nil, nil
	return errors.Join(errs...)
}
