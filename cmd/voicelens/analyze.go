package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/kbukum/voicelens/app"
	"github.com/kbukum/voicelens/bootstrap"
	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/report"
)

var formats = []string{"text", "json", "yaml"}

type analyzeOptions struct {
	format      string
	emotionOnly bool
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze one audio file and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadForTask(opts.format)
			if err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), cfg, args[0], opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json or yaml")
	cmd.Flags().BoolVar(&opts.emotionOnly, "emotion-only", false, "run only the vocal emotion analysis")
	return cmd
}

// loadForTask checks format and loads the config with logs moved to stderr
// so stdout carries only the report.
func (o *rootOptions) loadForTask(format string) (*app.Config, error) {
	if !slices.Contains(formats, format) {
		return nil, fmt.Errorf("unsupported format %q (want one of %v)", format, formats)
	}
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	cfg.Logging.Output = "stderr"
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	return cfg, nil
}

// runFileTask reads path and runs fn with the domain services inside a
// bootstrap task, so staging and telemetry start and stop around it.
func runFileTask(ctx context.Context, cfg *app.Config, path string,
	fn func(ctx context.Context, svc *app.Services, audio ingest.Payload) error) error {
	a, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	store, err := app.RegisterInfrastructure(a)
	if err != nil {
		return err
	}

	return a.RunTask(ctx, func(ctx context.Context) error {
		payload, err := ingest.FromFile(path, cfg.Upload.MaxBytes())
		if err != nil {
			return err
		}
		svc, err := app.NewServices(cfg, store.Storage(), a.Logger)
		if err != nil {
			return err
		}
		return fn(ctx, svc, payload)
	})
}

func runAnalyze(ctx context.Context, cfg *app.Config, path string, opts *analyzeOptions, out io.Writer) error {
	return runFileTask(ctx, cfg, path, func(ctx context.Context, svc *app.Services, payload ingest.Payload) error {
		if opts.emotionOnly {
			res, err := svc.Orchestrator.AnalyzeVoice(ctx, payload)
			if err != nil {
				return err
			}
			return writeOutput(out, opts.format, res, func(w io.Writer) error {
				return report.RenderVoice(w, res)
			})
		}

		res, err := svc.Orchestrator.Run(ctx, payload)
		if err != nil {
			return err
		}
		return writeOutput(out, opts.format, res, func(w io.Writer) error {
			return report.Render(w, res)
		})
	})
}
