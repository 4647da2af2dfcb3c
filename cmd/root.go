package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

const usage = `devhub is the backend of the devhub desktop assistant: a multi-provider
AI gateway, a project scanner and a loopback command bridge.

Usage:
  devhub <command> [flags] [arguments]

Commands:
  serve     Start the loopback command bridge
  chat      Send a prompt to an AI provider
  code      Generate a code snippet
  test      Check that a provider accepts an API key
  analyze   Summarize a project directory
  ask       Ask a provider a question about a project
  github    Validate a GitHub personal access token
  sysinfo   Print platform, architecture and version
  version   Print the version

Run "devhub <command> -h" for command flags.

Environment:
  DEVHUB_CONFIG                 Default for --config
  DEVHUB_<PROVIDER>_API_KEY     API key, e.g. DEVHUB_OPENAI_API_KEY
  <PROVIDER>_API_KEY            Fallback API key, e.g. GROQ_API_KEY
A .env file in the working directory is loaded first when present.`

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Execute runs the CLI dispatcher with the provided arguments.
func Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return printUsage()
	}

	switch args[0] {
	case "serve":
		return serve(ctx, args[1:])
	case "chat":
		return chat(ctx, args[1:])
	case "code":
		return code(ctx, args[1:])
	case "test":
		return testConnection(ctx, args[1:])
	case "analyze":
		return analyze(ctx, args[1:])
	case "ask":
		return ask(ctx, args[1:])
	case "github":
		return githubToken(args[1:])
	case "sysinfo":
		return sysinfo(args[1:])
	case "version", "-v", "--version":
		return version()
	case "help", "-h", "--help":
		return printUsage()
	default:
		return fmt.Errorf("unknown command %q\n\n%s", args[0], usage)
	}
}

func printUsage() error {
	fmt.Fprintln(stdout, strings.TrimSpace(usage))
	return nil
}
