package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"coverserver/internal/adapter/repo"
	"coverserver/internal/infra"
)

func newCategoriesCmd() *cobra.Command {
	var (
		flags  catalogFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the category catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cat.All())
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tELEMENTS\tSTYLES")
			for _, c := range cat.All() {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", c.ID, c.Name, len(c.Elements()), len(c.Styles()))
			}
			return tw.Flush()
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	cmd.AddCommand(newCategoriesSyncCmd())
	return cmd
}

func newCategoriesSyncCmd() *cobra.Command {
	var (
		path        string
		databaseURL string
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Write a catalog file (or the built-in catalog) into PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or CATALOG_DATABASE_URL is required")
			}
			src := catalogFlags{path: path}
			cat, err := src.load(cmd.Context())
			if err != nil {
				return err
			}
			pool, err := infra.NewDBPool(cmd.Context(), databaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			categories := repo.NewCategoryRepository(pool)
			if err := categories.EnsureSchema(cmd.Context()); err != nil {
				return err
			}
			n, err := categories.Upsert(cmd.Context(), cat.All())
			if err != nil {
				return err
			}
			log := cliLogger(cmd)
			log.Info().Int("categories", n).Msg("catalog synced")
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "catalog", "", "catalog file to sync; empty uses the built-in catalog")
	cmd.Flags().StringVar(&databaseURL, "database-url", os.Getenv("CATALOG_DATABASE_URL"), "target PostgreSQL URL")
	return cmd
}
