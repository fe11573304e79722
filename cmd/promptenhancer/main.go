package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/zen-systems/promptenhancer/pkg/logging"
	"go.uber.org/zap"
)

const apiKeyHint = "Please check your API key configuration."

// app carries the global flags and the process logger into every command.
type app struct {
	configFile string
	offline    bool
	verbose    bool
	output     string
	logger     *zap.Logger
}

// setupError marks failures building the pipeline, as opposed to failures
// handling a query.
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var se *setupError
	if errors.As(err, &se) {
		fmt.Fprintln(w, apiKeyHint)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "promptenhancer",
		Short: "Classify a query, pick an output format and rewrite it into an enhanced prompt",
		Long: `Prompt Enhancer runs a query through two model-backed stages.

The format selector classifies the task and chooses JSON, YAML, Markdown or
Plain Text. The prompt optimizer rewrites the query for that format and
recommends a model class. Either stage falls back to deterministic rules when
its model call fails or answers out of schema.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.output != outputJSON && a.output != outputYAML {
				return fmt.Errorf("unknown output format %q (want json or yaml)", a.output)
			}
			logger, err := logging.New(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "path to agents config file (default ~/.promptenhancer/agents.yaml)")
	flags.BoolVar(&a.offline, "offline", false, "skip model calls and use the rule-based fallbacks")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVarP(&a.output, "output", "o", outputJSON, "output format: json or yaml")

	rootCmd.AddCommand(a.enhanceCmd())
	rootCmd.AddCommand(a.classifyCmd())
	rootCmd.AddCommand(a.optimizeCmd())
	rootCmd.AddCommand(a.interactiveCmd())
	rootCmd.AddCommand(a.rulesCmd())
	rootCmd.AddCommand(a.modelsCmd())

	return rootCmd
}
