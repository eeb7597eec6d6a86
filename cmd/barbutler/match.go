package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/NeuralTrust/BarButler/pkg/app/matching"
	"github.com/NeuralTrust/BarButler/pkg/dependency_container"
	"github.com/spf13/cobra"
)

type matchOptions struct {
	threshold float64
	topK      int
	jsonOut   bool
}

func newMatchCommand(rt *runtime) *cobra.Command {
	opts := &matchOptions{}
	cmd := &cobra.Command{
		Use:   "match <phrase>",
		Short: "Resolve a free-text phrase to vocabulary tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := matchProfile(cmd, opts, rt.cfg.Matching.Profiles.Taste)

			container, err := dependency_container.NewContainer(cmd.Context(), dependency_container.ContainerDI{
				Cfg:    rt.cfg,
				Logger: rt.logger,
			})
			if err != nil {
				return err
			}
			defer func() { _ = container.Close() }()

			matches, err := container.Resolver.Resolve(cmd.Context(), args[0], profile)
			if err != nil {
				return err
			}
			return printMatches(cmd, opts.jsonOut, matches)
		},
	}
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "minimum cosine similarity (defaults to the taste profile)")
	cmd.Flags().IntVar(&opts.topK, "top-k", 0, "maximum number of tags (defaults to the taste profile)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print matches as JSON")
	return cmd
}

// matchProfile overrides the fallback only with flags the user actually set.
func matchProfile(cmd *cobra.Command, opts *matchOptions, fallback matching.Profile) matching.Profile {
	profile := fallback
	if cmd.Flags().Changed("threshold") {
		profile.Threshold = opts.threshold
	}
	if cmd.Flags().Changed("top-k") {
		profile.TopK = opts.topK
	}
	return profile
}

func printMatches(cmd *cobra.Command, jsonOut bool, matches []matching.Match) error {
	out := cmd.OutOrStdout()
	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}
	if len(matches) == 0 {
		fmt.Fprintln(out, "no tags matched")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tSCORE")
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%.4f\n", m.Tag, m.Score)
	}
	return w.Flush()
}
