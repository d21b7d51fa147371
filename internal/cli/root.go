// Package cli implements the trends-go command line.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"trends-go/internal/config"
	"trends-go/internal/service"
	"trends-go/pkg/logger"
	"trends-go/pkg/trends"
)

// Exit statuses
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitInput   = 2
)

// ProviderFactory builds the provider for one invocation and a func that releases it
type ProviderFactory func(cfg *config.Config) (trends.Provider, func(), error)

// GoogleProvider is the production factory
func GoogleProvider(cfg *config.Config) (trends.Provider, func(), error) {
	client, err := service.NewGoogleClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// Execute runs the command against Google Trends and returns the exit status
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	return Run(ctx, args, stdout, stderr, GoogleProvider)
}

// Run is Execute with an injectable provider
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, factory ProviderFactory) int {
	cmd := NewRootCommand(factory)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	logger.NewWithWriter(logger.Config{Level: "error"}, stderr).
		WithError(err).
		WithField("kind", trends.KindOf(err).String()).
		Error("trends-go failed")
	return ExitCode(err)
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case trends.IsInput(err):
		return ExitInput
	default:
		return ExitFailure
	}
}

// NewRootCommand builds the root command. It takes exactly one argument, a
// JSON array of keywords, and prints the flattened records as one JSON line.
func NewRootCommand(factory ProviderFactory) *cobra.Command {
	manager := config.NewManager()
	var configPath string

	cmd := &cobra.Command{
		Use:   "trends-go '<json array of keywords>'",
		Short: "Print Google Trends interest over time for keywords as JSON",
		Long: `trends-go queries Google Trends for the interest-over-time series of each
keyword and prints one JSON array of {"keyword","interest","timestamp"}
records on standard output.

Example:
  trends-go '["rust programming","go programming"]'
  trends-go --timeframe "today 12-m" --geo US '["golang"]'`,
		Args:          exactlyOneArg,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(manager.Viper(), cmd.Flags()); err != nil {
				return err
			}
			return run(cmd, manager, configPath, factory, args[0])
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return trends.NewError(trends.KindInput, "flags", err)
	})

	d := config.Default()
	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (yaml, json or toml)")
	flags.String("locale", d.Provider.Locale, "interface locale sent as hl (env: TRENDS_PROVIDER_LOCALE)")
	flags.Int("tz", d.Provider.TZOffset, "timezone offset in minutes (env: TRENDS_PROVIDER_TZ_OFFSET)")
	flags.String("timeframe", d.Provider.Timeframe, "relative time window (env: TRENDS_PROVIDER_TIMEFRAME)")
	flags.String("geo", d.Provider.Geo, "region filter, empty for worldwide (env: TRENDS_PROVIDER_GEO)")
	flags.String("log-level", d.Logger.Level, "debug, info, warn, error or disabled (env: TRENDS_LOGGER_LEVEL)")

	return cmd
}

var flagKeys = []struct{ key, flag string }{
	{"provider.locale", "locale"},
	{"provider.tz_offset", "tz"},
	{"provider.timeframe", "timeframe"},
	{"provider.geo", "geo"},
	{"logger.level", "log-level"},
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, fk := range flagKeys {
		if err := v.BindPFlag(fk.key, flags.Lookup(fk.flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", fk.flag, err)
		}
	}
	return nil
}

func exactlyOneArg(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return trends.NewError(trends.KindInput, "args",
			fmt.Errorf("expected exactly one argument, a JSON array of keywords, got %d", len(args)))
	}
	return nil
}

func run(cmd *cobra.Command, manager *config.Manager, configPath string, factory ProviderFactory, arg string) error {
	cfg, err := manager.Load(configPath)
	if err != nil {
		return err
	}
	configureLogger(cfg.Logger, cmd.ErrOrStderr())

	keywords, err := trends.ParseKeywords(arg)
	if err != nil {
		return err
	}

	provider, release, err := factory(cfg)
	if err != nil {
		return fmt.Errorf("failed to create trends provider: %w", err)
	}
	defer release()

	records, err := service.NewTrendService(cfg, provider).Fetch(cmd.Context(), keywords)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := trends.Encode(&buf, records); err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// configureLogger never writes to stdout, which carries the records
func configureLogger(cfg config.LoggerConfig, stderr io.Writer) {
	switch cfg.Output {
	case "", "stderr", "stdout":
		logger.SetLogger(logger.NewWithWriter(cfg.Logger(), stderr))
	default:
		logger.Configure(cfg.Logger())
	}
}
