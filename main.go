package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/config"
	"github.com/spf13/cobra"
)

// main - is the entry point of the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tictactoe",
		Short:         "Tic-tac-toe with move history and time travel",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "config.yml", "path to the config file")

	rootCmd.AddCommand(newServeCmd(), newPlayCmd())

	return rootCmd
}

// initialize config.
func initConfig(cmd *cobra.Command) *config.Config {
	flag := cmd.Flag("config")
	if flag == nil {
		panic(fmt.Errorf("command %q has no config flag", cmd.Name()))
	}

	return config.MustLoad(flag.Value.String())
}

// initialize logger.
func initLogger(conf *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level

	switch strings.ToLower(conf.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
