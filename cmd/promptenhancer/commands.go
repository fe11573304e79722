package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zen-systems/promptenhancer/pkg/config"
	"github.com/zen-systems/promptenhancer/pkg/pipeline"
	"github.com/zen-systems/promptenhancer/pkg/schema"
	"github.com/zen-systems/promptenhancer/pkg/selector"
)

const emptyQueryWarning = "Please enter a query first!"

// maxQueryBytes bounds one interactive line.
const maxQueryBytes = 1 << 20

func queryFromArgs(args []string) (string, error) {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return "", pipeline.ErrEmptyQuery
	}
	return query, nil
}

func (a *app) enhanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enhance [query]",
		Short: "Classify a query and rewrite it into an enhanced prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := queryFromArgs(args)
			if err != nil {
				return err
			}
			p, err := a.pipeline(cmd.Context())
			if err != nil {
				return err
			}
			result, err := p.Run(cmd.Context(), query)
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), a.output, result)
		},
	}
}

func (a *app) classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [query]",
		Short: "Run the format selector only",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, err := queryFromArgs(args)
			if err != nil {
				return err
			}
			sel, _, err := a.stages(cmd.Context())
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), a.output, sel.SelectFormat(cmd.Context(), query))
		},
	}
}

func (a *app) optimizeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run the prompt optimizer on a saved format decision",
		Long: `Reads a format decision as JSON, for example the output of "classify",
from --file or stdin and runs the prompt optimizer on it. Missing fields take
their defaults: chosen_format "Plain Text", confidence 0.5.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			decision, err := schema.DecodeDecision(data)
			if err != nil {
				return fmt.Errorf("invalid decision: %w", err)
			}
			_, opt, err := a.stages(cmd.Context())
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), a.output, opt.OptimizePrompt(cmd.Context(), decision))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "decision file (defaults to stdin)")
	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}

func (a *app) interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Enhance queries read line by line from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Enter a query per line. Type 'exit' to quit.")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), maxQueryBytes)
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					break
				}
				line := scanner.Text()
				switch strings.TrimSpace(line) {
				case "exit", "quit":
					return nil
				}

				result, err := p.Run(cmd.Context(), line)
				if errors.Is(err, pipeline.ErrEmptyQuery) {
					fmt.Fprintln(out, emptyQueryWarning)
					continue
				}
				if err != nil {
					return err
				}
				if err := writeRecord(out, a.output, result); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
}

func (a *app) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the keyword rules used when the format selector falls back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RULE\tTASK TYPE\tFORMAT\tCONFIDENCE\tKEYWORDS")
			for _, r := range selector.Rules() {
				keywords := strings.Join(r.Keywords, ", ")
				if keywords == "" {
					keywords = "(default)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n", r.Name, r.TaskType, r.Format, r.Confidence, keywords)
			}
			return w.Flush()
		},
	}
}

func (a *app) modelsCmd() *cobra.Command {
	var resolveFlag bool
	var validateFlag bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available adapters, models, and aliases",
		Long: `Lists adapters, their models and whether an API key is configured.

Use --resolve to show aliases and what they resolve to.
Use --validate to check that both agents name a listed model.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, aliases, err := a.loadConfig()
			if err != nil {
				return &setupError{err: fmt.Errorf("failed to load config: %w", err)}
			}

			out := cmd.OutOrStdout()
			if resolveFlag {
				return showAliases(out, aliases)
			}
			if validateFlag {
				return validateAgents(out, cfg, aliases)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODELS\tSTATUS")
			for _, provider := range aliases.ListProviders() {
				status := "no key"
				if cfg.HasAdapter(provider) {
					status = "ready"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", provider, strings.Join(aliases.GetProviderModels(provider), ", "), status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&resolveFlag, "resolve", false, "show aliases and what they resolve to")
	cmd.Flags().BoolVar(&validateFlag, "validate", false, "check both agents name a listed model")

	return cmd
}

func showAliases(out io.Writer, aliases *config.ModelAliases) error {
	aliasMap := aliases.ListAliases()
	if len(aliasMap) == 0 {
		fmt.Fprintln(out, "No model aliases configured.")
		return nil
	}

	names := make([]string, 0, len(aliasMap))
	for name := range aliasMap {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALIAS\tMODEL\tPROVIDER")
	for _, name := range names {
		model := aliasMap[name]
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, model, aliases.GetProviderForModel(model))
	}
	return w.Flush()
}

func validateAgents(out io.Writer, cfg *config.Config, aliases *config.ModelAliases) error {
	errs := aliases.ValidateAgentsConfig(cfg.Agents)
	if len(errs) == 0 {
		fmt.Fprintln(out, "Both agents use listed models.")
		return nil
	}

	for _, err := range errs {
		fmt.Fprintf(out, "  - %s\n", err)
	}
	return fmt.Errorf("found %d validation errors", len(errs))
}
