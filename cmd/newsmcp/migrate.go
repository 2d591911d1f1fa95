package main

import (
	"errors"
	"fmt"
	"time"

	"news_mcp/internal/db"
	"news_mcp/internal/logger"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the articles table and its indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			database, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("✓ Schema is up to date (table "+database.Table()+")"))
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample articles into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")

			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			database, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			inserted, err := database.Seed(cmd.Context(), time.Now(), force)
			if errors.Is(err, db.ErrNotEmpty) {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render("⚠ Table already has articles; use --force to replace them"))
				return err
			}
			if err != nil {
				return err
			}

			logger.Log.WithField("count", inserted).Info("Inserted sample articles")
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", okStyle.Render(fmt.Sprintf("✓ Inserted %d sample articles", inserted)))
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Delete existing articles before seeding")
	return cmd
}
