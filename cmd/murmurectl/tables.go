package main

import (
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/murmure-go/internal/tables"
)

func newTablesCmd() *cobra.Command {
	var tablesFile string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the effective derivation tables as YAML",
		Long: `Print the emotion, tier, transition and ambience tables. With --tables the
file is merged over the built-in defaults first, which makes this a quick way
to check an override file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tables.Load(tablesFile)
			if err != nil {
				return err
			}
			return tables.Write(cmd.OutOrStdout(), t)
		},
	}

	cmd.Flags().StringVar(&tablesFile, "tables", "", "YAML tables file to merge over the defaults")
	return cmd
}
