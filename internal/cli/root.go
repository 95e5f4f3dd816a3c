package cli

import (
	"github.com/spf13/cobra"

	"shopdash/internal/config"
)

// RootOptions holds global flags and the resolved configuration.
type RootOptions struct {
	Port   string
	Driver string
	DSN    string

	Config config.Config
}

// NewRootCommand creates the shopdash command. Without a subcommand it
// serves HTTP.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopdash",
		Short: "Shopdash - e-commerce admin dashboard",
		Long:  "Admin dashboard backend: products, orders, customers, settings and analytics over a SQL store.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Config = config.Load()
			// flags win over the environment
			if opts.Port != "" {
				opts.Config.Port = opts.Port
			}
			if opts.Driver != "" {
				opts.Config.DBDriver = opts.Driver
			}
			if opts.DSN != "" {
				opts.Config.DBDSN = opts.DSN
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Port, "port", "", "HTTP port (overrides PORT)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "database driver: sqlite|postgres (overrides DB_DRIVER)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "database DSN (overrides DB_DSN)")

	serve := NewServeCommand(opts)
	cmd.RunE = serve.RunE
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))

	return cmd
}
