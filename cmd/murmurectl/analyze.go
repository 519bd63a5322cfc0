package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/murmure-go/internal/analyzer"
	"github.com/dgnsrekt/murmure-go/internal/config"
	"github.com/dgnsrekt/murmure-go/internal/llm"
	"github.com/dgnsrekt/murmure-go/internal/pipeline"
	"github.com/dgnsrekt/murmure-go/internal/tables"
)

func newAnalyzeCmd(newLogger loggerFunc) *cobra.Command {
	var (
		format     string
		tablesFile string
		offline    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze text locally and print the timeline",
		Long: `Analyze text read from a file or stdin. The remote model configured through
LLM_PROVIDER is tried first unless --offline is set; the lexical classifier
takes over when it fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd)

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			p, err := buildPipeline(tablesFile, offline, logger)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			res, err := p.Run(ctx, text)
			if err != nil {
				return err
			}

			return writeResult(cmd.OutOrStdout(), format, res)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().StringVar(&tablesFile, "tables", "", "YAML tables file overriding the built-in tables")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the remote model and use lexical analysis only")
	return cmd
}

// buildPipeline reads the server configuration for the LLM settings so the
// CLI analyzes text the same way the server does.
func buildPipeline(tablesFile string, offline bool, logger *slog.Logger) (*pipeline.Pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if tablesFile == "" {
		tablesFile = cfg.TablesFile
	}

	t, err := tables.Load(tablesFile)
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{
		Remote: analyzer.RemoteConfig{
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		},
		MaxSegmentWords: cfg.MaxSegmentWords,
	}
	if !offline {
		completer, err := llm.New(cfg.LLM())
		if err != nil {
			return nil, err
		}
		opts.Completer = completer
	}

	return pipeline.New(t, opts, logger)
}
