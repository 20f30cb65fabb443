// Command vicar inspects, converts and packs VICAR image files.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arloliu/vicar"
	"github.com/arloliu/vicar/internal/config"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what the persistent flags resolve to.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *logrus.Logger
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger

	return nil
}

func (a *app) open(path string) (*vicar.File, error) {
	return vicar.Open(path, vicar.WithLogger(a.logger.WithField("file", path)))
}

func newRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "vicar",
		Short: "Inspect and convert VICAR image files",
		Long: `vicar reads VICAR image files, including files wrapped in zstd, S2, LZ4
or gzip streams, prints their labels and pixels, and writes converted copies.`,
		Version:       fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format, text or json (overrides config)")

	cmd.AddCommand(newInfoCommand(a))
	cmd.AddCommand(newLabelsCommand(a))
	cmd.AddCommand(newPixelCommand(a))
	cmd.AddCommand(newConvertCommand(a))
	cmd.AddCommand(newPackCommand(a))

	return cmd
}
