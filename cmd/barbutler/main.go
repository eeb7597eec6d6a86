package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/NeuralTrust/BarButler/pkg/config"
	infraLogger "github.com/NeuralTrust/BarButler/pkg/infra/logger"
	"github.com/NeuralTrust/BarButler/pkg/version"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logDir     string
	logLevel   string
}

// runtime is populated by the root command before any subcommand runs.
type runtime struct {
	cfg       *config.Config
	logger    *logrus.Logger
	logCloser io.Closer
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rt := &runtime{}

	cmd := &cobra.Command{
		Use:           "barbutler",
		Short:         "Whiskey recommendations from movies and tasting notes",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.init(cmd, opts)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return rt.close()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config", "directory containing config.yaml")
	cmd.PersistentFlags().StringVar(&opts.logDir, "log-dir", infraLogger.DefaultDir, "directory for log files")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (defaults to LOG_LEVEL)")

	cmd.AddCommand(
		newServeCommand(rt),
		newVocabCommand(rt),
		newMatchCommand(rt),
	)
	return cmd
}

func (rt *runtime) init(cmd *cobra.Command, opts *rootOptions) error {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	envErr := godotenv.Load(envFile)

	if err := config.Load(opts.configPath); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	rt.cfg = config.GetConfig()

	loggerOpts := []infraLogger.Option{infraLogger.WithDir(opts.logDir)}
	if opts.logLevel != "" {
		loggerOpts = append(loggerOpts, infraLogger.WithLevel(opts.logLevel))
	}
	// the cli commands print results, so their logs stay synchronous
	if cmd.Name() != serveCommandName {
		loggerOpts = append(loggerOpts, infraLogger.WithSyncConsole())
	}
	component := strings.ReplaceAll(cmd.CommandPath(), " ", "-")
	logger, closer, err := infraLogger.NewLogger(component, loggerOpts...)
	if err != nil {
		return err
	}
	rt.logger = logger
	rt.logCloser = closer

	if envErr != nil {
		logger.WithField("file", envFile).Debug("no env file found, using system environment variables")
	}
	return nil
}

func (rt *runtime) close() error {
	if rt.logCloser == nil {
		return nil
	}
	return rt.logCloser.Close()
}
