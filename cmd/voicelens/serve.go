package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/voicelens/app"
	"github.com/kbukum/voicelens/bootstrap"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a, err := bootstrap.NewApp(cfg)
			if err != nil {
				return err
			}
			if err := app.Setup(a); err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}
