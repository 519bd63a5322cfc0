// Command murmurectl analyzes narration text locally or submits it to a
// running murmure server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/murmure-go/internal/logging"
)

// Version information (set at build time)
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "murmurectl",
		Short: "Turn narrative text into voice directives and an audio timeline",
		Long: titleStyle.Render("murmurectl") + `

Analyze text into emotion-tagged segments with synthesis parameters, ambience
and timing, either locally or through a murmure server.

` + dimStyle.Render("Use 'murmurectl [command] --help' for more information."),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	logger := func(cmd *cobra.Command) *slog.Logger {
		return logging.NewWriter(cmd.ErrOrStderr(), logLevel, "text")
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(logger),
		newSubmitCmd(logger),
		newTablesCmd(),
	)
	return rootCmd
}

// loggerFunc builds the command logger once flags are parsed.
type loggerFunc func(cmd *cobra.Command) *slog.Logger

// readInput reads the named file, or stdin for "-" and no argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
