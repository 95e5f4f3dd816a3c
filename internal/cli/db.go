package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shopdash/internal/repos"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create any missing tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := repos.OpenDB(rootOpts.Config.DBDriver, rootOpts.Config.DBDSN)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load fixture data into an empty database",
		Long: `Load fixture data into an empty database.

Without --file the bundled demo data is used. The command refuses to run
when the users table already has rows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.OutOrStdout(), rootOpts, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixtures file")
	return cmd
}

func runSeed(out io.Writer, opts *RootOptions, file string) error {
	fx, err := loadFixtures(file)
	if err != nil {
		return err
	}

	db, err := repos.OpenDB(opts.Config.DBDriver, opts.Config.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("database already has %d user(s); refusing to seed", n)
	}
	if err := repos.Seed(db, fx, time.Now()); err != nil {
		return err
	}
	fmt.Fprintf(out, "seeded %d categories, %d products, %d users, %d orders\n",
		len(fx.Categories), len(fx.Products), len(fx.Users), len(fx.Orders))
	return nil
}

func loadFixtures(file string) (*repos.Fixtures, error) {
	if file == "" {
		return repos.DefaultFixtures()
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return repos.LoadFixtures(f)
}
