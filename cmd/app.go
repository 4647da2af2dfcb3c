package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"devhub/internal/commands"
	"devhub/internal/config"
	"devhub/internal/gateway"
	"devhub/internal/locale"
	"devhub/internal/logging"
	providerfactory "devhub/internal/provider/factory"
	"devhub/internal/scanner"
)

// commonFlags are accepted by every command that talks to the gateway.
type commonFlags struct {
	configPath string
	locale     string
	verbose    bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", os.Getenv("DEVHUB_CONFIG"), "path to a YAML or TOML configuration file")
	fs.StringVar(&f.locale, "locale", "", "display language (en, pt-BR)")
	fs.BoolVar(&f.verbose, "verbose", false, "log debug output to stderr")
}

// providerFlags select the provider, key and model of one request.
type providerFlags struct {
	provider string
	apiKey   string
	model    string
}

func (f *providerFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.provider, "provider", "openai", "AI provider")
	fs.StringVar(&f.apiKey, "api-key", "", "API key (default from the environment)")
	fs.StringVar(&f.model, "model", "", "model override")
}

type app struct {
	cfg      config.Config
	logger   zerolog.Logger
	commands *commands.Commands
}

// newApp loads .env and the configuration and wires the gateway. CLI commands
// log at warn level unless --verbose is given; the bridge keeps the configured level.
func newApp(flags commonFlags, quiet bool) (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.LoadOptional(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.locale != "" {
		cfg.Locale = flags.locale
	}
	switch {
	case flags.verbose:
		cfg.Log.Level = "debug"
	case quiet:
		cfg.Log.Level = "warn"
	}

	logger := logging.New(cfg.Log, stderr)

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}

	registry, err := providerfactory.NewRegistry(cfg)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.New(registry, providerfactory.NewHTTPClient(timeout),
		gateway.WithCatalog(locale.For(cfg.Locale)),
		gateway.WithTimeout(timeout),
		gateway.WithLogger(logger),
		gateway.WithContentLogging(cfg.Log.LogContent),
	)
	if err != nil {
		return nil, err
	}

	cmds, err := commands.New(gw, scannerOptions(cfg.Scanner), logger)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, commands: cmds}, nil
}

func scannerOptions(sc config.ScannerConfig) scanner.Options {
	opts := scanner.DefaultOptions()
	opts.TopN = sc.TopN
	opts.MaxSampleFiles = sc.MaxSampleFiles
	opts.MaxFileBytes = sc.MaxFileBytes
	opts.Workers = sc.Workers
	return opts
}

// resolveAPIKey prefers the flag, then DEVHUB_<PROVIDER>_API_KEY, then <PROVIDER>_API_KEY.
func resolveAPIKey(provider, flagValue string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	name := strings.ToUpper(strings.ReplaceAll(provider, "-", "_"))
	for _, env := range []string{"DEVHUB_" + name + "_API_KEY", name + "_API_KEY"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return ""
}

// parseFlags parses args and reports whether the command should stop (help was printed).
func parseFlags(fs *flag.FlagSet, usage string, args []string) (bool, error) {
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return true, fmt.Errorf("parse %s flags: %w", fs.Name(), err)
	}
	return false, nil
}
