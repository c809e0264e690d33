package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"coverserver/internal/adapter/repo"
	"coverserver/internal/catalog"
	"coverserver/internal/domain"
	"coverserver/internal/infra"
)

// catalogFlags selects where the category catalog is read from.
type catalogFlags struct {
	path        string
	databaseURL string
}

func (f *catalogFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.path, "catalog", os.Getenv("CATALOG_PATH"), "catalog file (.yaml, .yml, .toml or .json); empty uses the built-in catalog")
	cmd.Flags().StringVar(&f.databaseURL, "database-url", os.Getenv("CATALOG_DATABASE_URL"), "PostgreSQL URL holding the categories table")
}

func (f *catalogFlags) load(ctx context.Context) (*catalog.Catalog, error) {
	var source domain.CategoryRepository
	if f.databaseURL != "" {
		pool, err := infra.NewDBPool(ctx, f.databaseURL)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		source = repo.NewCategoryRepository(pool)
	}
	return catalog.Load(ctx, f.path, source)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverctl",
		Short: "Operator tools for the document cover service",
		Long: `coverctl inspects the category catalog, previews image prompts and
renders captioned covers locally without running the HTTP service.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	cmd.AddCommand(newCategoriesCmd())
	cmd.AddCommand(newPromptCmd())
	cmd.AddCommand(newOverlayCmd())

	return cmd
}

func cliLogger(cmd *cobra.Command) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
}

func printf(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
