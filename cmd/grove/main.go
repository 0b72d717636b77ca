package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pbanos/grove/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type rootCmdConfig struct {
	verbose    bool
	configPath string
	logFormat  string
	settings   *config.Config
	logger     *logrus.Logger
	ctx        context.Context
	cancelFunc context.CancelFunc
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "grove",
		Short: "grove is a tool to grow decision trees and forests",
		Long:  `A tool to grow ID3 decision trees and random forests from categorical data, prune them, test them, run experiments with them and serve their predictions`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().StringVar(&(config.configPath), "config", "", "path to a YAML, TOML or JSON configuration file")
	rootCmd.PersistentFlags().StringVar(&(config.logFormat), "log-format", "text", "format of log messages: text or json")
	bind(rootCmd.PersistentFlags().Lookup("log-format"), "log.format")
	rootCmd.AddCommand(
		versionCmd(),
		growCmd(config),
		testCmd(config),
		predictCmd(config),
		forestCmd(config),
		curveCmd(config),
		compareCmd(config),
		workCmd(config),
		serveCmd(config),
		setCmd(config),
	)
	return rootCmd
}

const settingAnnotation = "grove-setting"

// bind makes the given flag override the setting under key when set
func bind(f *pflag.Flag, key string) {
	if f.Annotations == nil {
		f.Annotations = make(map[string][]string)
	}
	f.Annotations[settingAnnotation] = append(f.Annotations[settingAnnotation], key)
}

/*
Setup loads the settings, with the flags of cmd bound to them, and
builds the logger. Commands call it before anything else and exit with
the given code if it fails.
*/
func (rcc *rootCmdConfig) Setup(cmd *cobra.Command, code int) {
	flags := make(map[string]*pflag.Flag)
	collect := func(f *pflag.Flag) {
		for _, key := range f.Annotations[settingAnnotation] {
			flags[key] = f
		}
	}
	cmd.InheritedFlags().VisitAll(collect)
	cmd.Flags().VisitAll(collect)
	settings, err := config.Load(rcc.configPath, flags)
	if err != nil {
		exit(code, err)
	}
	if rcc.verbose {
		settings.Log.Level = logrus.DebugLevel.String()
	}
	logger, err := settings.Log.NewLogger(os.Stderr)
	if err != nil {
		exit(code, err)
	}
	rcc.settings = settings
	rcc.logger = logger
}

func (rcc *rootCmdConfig) Settings() *config.Config {
	return rcc.settings
}

func (rcc *rootCmdConfig) Logger() logrus.FieldLogger {
	return rcc.logger
}

// Context returns a context cancelled on SIGINT or SIGTERM
func (rcc *rootCmdConfig) Context() context.Context {
	if rcc.ctx == nil {
		rcc.ctx, rcc.cancelFunc = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
	return rcc.ctx
}
