package cmd

import (
	"context"
	"flag"
	"fmt"

	"devhub/internal/server"
)

const serveUsage = `Usage:
  devhub serve [--config <path>] [--port <port>] [--token <token>]

Flags:
  --config  string   Path to YAML or TOML configuration file
  --port    int      Override bridge port from configuration
  --token   string   Override bridge token (a random one is generated when unset)
  --locale  string   Display language (en, pt-BR)
  --verbose          Log at debug level`

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)

	var common commonFlags
	var overridePort int
	var token string
	common.register(fs)
	fs.IntVar(&overridePort, "port", 0, "override bridge port")
	fs.StringVar(&token, "token", "", "override bridge token")

	if stop, err := parseFlags(fs, serveUsage, args); stop {
		return err
	}

	a, err := newApp(common, false)
	if err != nil {
		return err
	}

	if overridePort != 0 {
		if overridePort < 0 || overridePort > 65535 {
			return fmt.Errorf("port override %d must be a valid TCP port", overridePort)
		}
		a.cfg.Bridge.Port = overridePort
	}
	if token != "" {
		a.cfg.Bridge.Token = token
	}

	srv, err := server.New(a.cfg.Bridge, a.commands, a.logger)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}
