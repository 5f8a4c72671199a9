package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/orderlens/backend/internal/domain"
	"github.com/orderlens/backend/internal/hangul"
	"github.com/orderlens/backend/internal/infrastructure/dictionary"
	"github.com/orderlens/backend/internal/infrastructure/session"
	"github.com/orderlens/backend/internal/usecase"
	"github.com/spf13/cobra"
)

type options struct {
	dictionary string
	format     string
	policy     string
	threshold  float64
	tokenized  bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "orderctl",
		Short:         "Inspect keyword dictionaries and run orders through the matcher",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.dictionary, "dictionary", "d", "data/keywords.yaml", "Keyword dictionary file")
	flags.StringVar(&opts.format, "format", dictionary.FormatAuto, "Dictionary format: auto, yaml or csv")
	flags.StringVar(&opts.policy, "policy", string(usecase.PolicyBest), "Match policy: best or first")
	flags.Float64Var(&opts.threshold, "threshold", usecase.DefaultThreshold, "Minimum similarity in (0, 1]")
	flags.BoolVar(&opts.tokenized, "tokenized", false, "Match word by word instead of scanning the utterance")

	parse := &cobra.Command{
		Use:   "parse UTTERANCE...",
		Short: "Run utterances as successive turns of one conversation",
		Long: `Run each argument as one turn of the same conversation and print the
option code and confirmation after every turn.

Example:
  orderctl parse "아이스 카페라떼 톨" "바닐라시럽 추가"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}
	parse.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print every matched keyword")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Load the dictionary and print keyword counts per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), opts)
		},
	}

	decompose := &cobra.Command{
		Use:   "decompose TEXT...",
		Short: "Print the jamo decomposition of text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, text := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", text, hangul.Decompose(text))
			}
			return nil
		},
	}

	root.AddCommand(parse, validate, decompose)
	return root
}

func (o *options) matchConfig() (usecase.MatchConfig, error) {
	policy := usecase.MatchPolicy(o.policy)
	if policy != usecase.PolicyBest && policy != usecase.PolicyFirst {
		return usecase.MatchConfig{}, fmt.Errorf("unknown policy %q", o.policy)
	}
	if o.threshold <= 0 || o.threshold > 1 {
		return usecase.MatchConfig{}, fmt.Errorf("threshold %v out of range (0, 1]", o.threshold)
	}
	return usecase.MatchConfig{Threshold: o.threshold, Policy: policy}, nil
}

func runParse(ctx context.Context, out io.Writer, opts *options, utterances []string) error {
	match, err := opts.matchConfig()
	if err != nil {
		return err
	}
	dict, err := dictionary.LoadFile(opts.dictionary, opts.format)
	if err != nil {
		return err
	}

	store := session.NewMemoryStore(session.MemoryStoreConfig{})
	defer store.Close()

	orders := usecase.NewOrderService(store, dictionary.NewProvider(dict), nil, usecase.OrderServiceConfig{
		Match: match,
		Accumulator: usecase.AccumulatorConfig{
			Defaults:  usecase.DefaultDefaults(),
			Tokenized: opts.tokenized,
		},
	}, nil)

	conversation, err := orders.StartSession(ctx)
	if err != nil {
		return err
	}

	for _, utterance := range utterances {
		fmt.Fprintf(out, "> %s\n", utterance)

		result, err := orders.ProcessTurn(ctx, conversation.ID, utterance)
		if err != nil {
			message := usecase.FailureMessage(err)
			if message == "" {
				return err
			}
			fmt.Fprintf(out, "  %s\n", message)
			continue
		}

		if opts.verbose {
			for _, m := range result.Matches {
				fmt.Fprintf(out, "  %-20s %-12s %.4f\n", m.Field, m.Keyword, m.Similarity)
			}
		}
		fmt.Fprintf(out, "  %s\n  %s\n", result.OptionCode, result.Confirmation)
	}
	return nil
}

func runValidate(out io.Writer, opts *options) error {
	dict, err := dictionary.LoadFile(opts.dictionary, opts.format)
	if err != nil {
		return err
	}

	counts := dict.Counts()
	fmt.Fprintf(out, "%s\n", dict.Source())
	var unavailable []string
	for _, category := range domain.AllCategories() {
		fmt.Fprintf(out, "  %-20s %d\n", category, counts[category])

		for _, entry := range dict.Category(category).Entries() {
			if reason := entry.Unavailable(); reason != "" {
				unavailable = append(unavailable, entry.Name+" ("+reason+")")
			}
		}
	}
	if len(unavailable) > 0 {
		fmt.Fprintf(out, "unavailable: %s\n", strings.Join(unavailable, ", "))
	}
	fmt.Fprintln(out, "ok")
	return nil
}
