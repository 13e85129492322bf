package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/voicelens/app"
	"github.com/kbukum/voicelens/diarization"
	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/provider"
	"github.com/kbukum/voicelens/report"
	"github.com/kbukum/voicelens/transcription"
)

func newTranscribeCmd(root *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "transcribe <file>",
		Short: "Transcribe one audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadForTask(format)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return runFileTask(cmd.Context(), cfg, args[0], func(ctx context.Context, svc *app.Services, audio ingest.Payload) error {
				return transcribe(ctx, svc.Transcriber, audio, format, out)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func newDiarizeCmd(root *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "diarize <file>",
		Short: "Detect speakers in one audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadForTask(format)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return runFileTask(cmd.Context(), cfg, args[0], func(ctx context.Context, svc *app.Services, audio ingest.Payload) error {
				return diarize(ctx, svc.Diarizer, audio, format, out)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")
	return cmd
}

func transcribe(ctx context.Context, p transcription.Provider, audio ingest.Payload, format string, out io.Writer) error {
	if err := requireAvailable(ctx, p); err != nil {
		return err
	}
	res, err := p.Transcribe(ctx, audio)
	if err != nil {
		return err
	}
	return writeOutput(out, format, res, func(w io.Writer) error {
		return report.RenderTranscription(w, res)
	})
}

func diarize(ctx context.Context, p diarization.Provider, audio ingest.Payload, format string, out io.Writer) error {
	if err := requireAvailable(ctx, p); err != nil {
		return err
	}
	res, err := p.Diarize(ctx, audio)
	if err != nil {
		return err
	}
	return writeOutput(out, format, res, func(w io.Writer) error {
		return report.RenderSpeakers(w, res)
	})
}

func requireAvailable(ctx context.Context, p provider.Provider) error {
	if !p.IsAvailable(ctx) {
		return fmt.Errorf("%s provider is not available", p.Name())
	}
	return nil
}
