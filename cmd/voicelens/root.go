package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/voicelens/app"
)

type rootOptions struct {
	configFile string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "voicelens",
		Short:        "Transcription, diarization and vocal emotion analysis",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: cmd/voicelens/config.yml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env", "", "env file (default: .env)")

	cmd.AddCommand(
		newServeCmd(opts),
		newAnalyzeCmd(opts),
		newTranscribeCmd(opts),
		newDiarizeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func (o *rootOptions) load() (*app.Config, error) {
	return app.Load(o.configFile, o.envFile)
}
