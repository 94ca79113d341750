package main

import (
	"os"

	app "github.com/rocketscienceinc/tictactoe-timetravel/internal"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a hot-seat game in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := initConfig(cmd)

			// logs go to stderr so they never interleave with the board
			return app.RunConsole(initLogger(conf, os.Stderr))
		},
	}
}
