package main

import (
	"os"

	app "github.com/rocketscienceinc/tictactoe-timetravel/internal"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the game over HTTP, one session per client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig(cmd)

			return app.RunServer(initLogger(conf, os.Stdout), conf)
		},
	}
}
