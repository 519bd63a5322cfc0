package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/murmure-go/internal/api"
	"github.com/dgnsrekt/murmure-go/internal/client"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newSubmitCmd(newLogger loggerFunc) *cobra.Command {
	var (
		server    string
		token     string
		voice     string
		engine    string
		interrupt bool
		ttl       time.Duration
		wait      bool
		outDir    string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "submit [file]",
		Short: "Submit text to a murmure server for narration",
		Long: `Submit text read from a file or stdin as a narration job. With --wait the
command polls until the job finishes, prints the timeline and, with --out,
saves one WAV file per rendered segment.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			c := client.New(server, token, newLogger(cmd))
			sub, err := c.Narrate(ctx, api.NarrateRequest{
				Text:      text,
				Voice:     voice,
				Engine:    engine,
				Interrupt: interrupt,
				TTLMS:     int(ttl / time.Millisecond),
				DedupeKey: client.DedupeKey(text),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !wait {
				fmt.Fprintln(out, successStyle.Render("✓ Narration queued"))
				fmt.Fprintf(out, "  Job:    %s\n", sub.JobID)
				fmt.Fprintf(out, "  Status: %s\n", dimStyle.Render(server+sub.StatusURL))
				return nil
			}

			status, err := c.Wait(ctx, sub.JobID, 500*time.Millisecond)
			if err != nil {
				return err
			}
			if status.Narration != nil {
				if err := writeResult(out, format, status.Narration); err != nil {
					return err
				}
			}

			if outDir == "" {
				return nil
			}
			return saveClips(ctx, c, sub.JobID, status, outDir)
		},
	}

	cmd.Flags().StringVar(&server, "server", envOr("MURMURE_URL", "http://localhost:8080"), "murmure server URL")
	cmd.Flags().StringVar(&token, "token", os.Getenv("BEARER_TOKEN"), "Bearer token for the server")
	cmd.Flags().StringVar(&voice, "voice", "", "Voice to synthesize with")
	cmd.Flags().StringVar(&engine, "engine", "", "TTS engine name (server default when empty)")
	cmd.Flags().BoolVar(&interrupt, "interrupt", false, "Cancel running and queued narrations first")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Drop the job if it has not started within this duration")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the narration to finish")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Directory to save rendered clips into (implies --wait)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format when waiting (text, json, yaml)")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if outDir != "" {
			wait = true
		}
	}
	return cmd
}

// saveClips downloads every clip of a finished job as segment-NNN.wav, named
// after the index of the segment it renders.
func saveClips(ctx context.Context, c *client.Client, id string, status *api.NarrationResponse, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for i := range status.Clips {
		data, err := c.Clip(ctx, id, i)
		if err != nil {
			return fmt.Errorf("download clip %d: %w", i, err)
		}

		name := fmt.Sprintf("clip-%03d.wav", i)
		if status.Narration != nil && i < len(status.Narration.Segments) {
			name = fmt.Sprintf("segment-%03d.wav", status.Narration.Segments[i].Index)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write clip %d: %w", i, err)
		}
	}
	return nil
}
