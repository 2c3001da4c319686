// Command mailtriage summarizes an inbox table and extracts action items.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"mailtriage/internal/batch"
	"mailtriage/internal/config"
	"mailtriage/internal/extract"
	"mailtriage/internal/logging"
	"mailtriage/internal/mailio"
	"mailtriage/internal/metrics"
	"mailtriage/internal/perception"
	"mailtriage/internal/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mailtriage [input.csv] [output.csv]",
		Short: "Summarize emails and extract action items",
		Long: `Reads an email table (id,from,subject,date,body), produces a one-sentence
summary and a task list per email, and writes id,summary,tasks.

When OPENAI_API_KEY or GEMINI_API_KEY is set each email is sent to the model;
otherwise, and whenever a call fails, keyword rules are used instead.
A sample inbox is generated when the input file does not exist.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTriage,
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runTriage loads configuration, builds the logger and runs one batch.
func runTriage(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.DefaultConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	input, output := cfg.IO.Input, cfg.IO.Output
	if len(args) > 0 {
		input = args[0]
	}
	if len(args) > 1 {
		output = args[1]
	}

	logs, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logs = logs.WithRun(logging.NewRunID())
	defer logs.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, logs, input, output, cmd.OutOrStdout())
}

// run is the whole pipeline. Only input and output file failures are fatal.
func run(ctx context.Context, cfg *config.Config, logs *logging.Logger, input, output string, w io.Writer) error {
	ioLog := logs.Get(logging.CategoryIO)

	if created, err := mailio.EnsureInput(input, ioLog); err != nil {
		return err
	} else if created {
		fmt.Fprintln(w, "Saved sample emails to", input)
	}

	emails, err := mailio.ReadEmails(input)
	if err != nil {
		return err
	}
	ioLog.Info("emails loaded", zap.String("path", input), zap.Int("emails", len(emails)))

	capability := perception.Detect(ctx, cfg, logs.Get(logging.CategoryBoot))

	rules := extract.New(extract.WithLogger(logs.Get(logging.CategoryExtract)))
	recorder := metrics.NewRecorder()
	runner := batch.New(
		batch.Options{RemoteAvailable: capability.Available, CallTimeout: cfg.GetLLMTimeout()},
		capability.Client,
		rules,
		reconcile.New(rules, logs.Get(logging.CategoryPerception)),
		recorder,
		logs.Get(logging.CategoryBatch),
	)

	results, runErr := runner.Run(ctx, emails)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	// Partial results from a cancelled run are still written.
	if err := mailio.WriteResults(output, results); err != nil {
		return err
	}
	ioLog.Info("results saved", zap.String("path", output), zap.Int("rows", len(results)))
	fmt.Fprintln(w, "Saved", output)

	if path := cfg.Metrics.Textfile; path != "" {
		if err := recorder.WriteTextfile(path); err != nil {
			ioLog.Warn("metrics not written", zap.String("path", path), zap.Error(err))
		}
	}

	fmt.Fprintln(w, renderSummary(results, runner.Stats(), capability))
	return runErr
}
