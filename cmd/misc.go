package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	"devhub/internal/github"
	"devhub/internal/locale"
	"devhub/internal/system"
)

const testUsage = `Usage:
  devhub test [--provider <name>] [--api-key <key>]

Sends a short probe to the provider and reports whether it answered.`

const githubUsage = `Usage:
  devhub github [--locale <tag>] <token>

Checks that a GitHub personal access token starts with ghp_ or github_pat_.`

func testConnection(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)

	var common commonFlags
	var pf providerFlags
	common.register(fs)
	pf.register(fs)

	if stop, err := parseFlags(fs, testUsage, args); stop {
		return err
	}

	a, err := newApp(common, true)
	if err != nil {
		return err
	}

	if _, err := a.commands.TestAPIConnection(ctx, pf.provider, resolveAPIKey(pf.provider, pf.apiKey)); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: connection ok\n", pf.provider)
	return nil
}

func githubToken(args []string) error {
	fs := flag.NewFlagSet("github", flag.ContinueOnError)

	var tag string
	fs.StringVar(&tag, "locale", "", "display language (en, pt-BR)")

	if stop, err := parseFlags(fs, githubUsage, args); stop {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("github requires exactly one token")
	}

	if err := github.ValidateToken(fs.Arg(0), locale.For(tag)); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "token format ok")
	return nil
}

func sysinfo(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("sysinfo takes no arguments, got %q", strings.Join(args, " "))
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(system.Current())
}

func version() error {
	fmt.Fprintf(stdout, "devhub %s\n", system.Version)
	return nil
}
