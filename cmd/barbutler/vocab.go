package main

import (
	"fmt"

	"github.com/NeuralTrust/BarButler/pkg/dependency_container"
	"github.com/spf13/cobra"
)

func newVocabCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Manage the tasting note vocabulary index",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Embed the vocabulary again and overwrite the embedding cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, err := dependency_container.NewContainer(cmd.Context(), dependency_container.ContainerDI{
				Cfg:    rt.cfg,
				Logger: rt.logger,
			})
			if err != nil {
				return err
			}
			defer func() { _ = container.Close() }()

			if err := container.Index.Rebuild(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "vocabulary %q rebuilt\n", rt.cfg.Matching.Vocabulary.Name)
			return nil
		},
	})
	return cmd
}
