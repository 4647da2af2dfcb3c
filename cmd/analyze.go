package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	"devhub/internal/commands"
	"devhub/internal/models"
)

const analyzeUsage = `Usage:
  devhub analyze [--json] [path]

Summarizes the project at path (default: the working directory).

Flags:
  --json             Print the full analysis as JSON
  --config  string   Path to YAML or TOML configuration file
  --locale  string   Display language (en, pt-BR)
  --verbose          Log at debug level`

const askUsage = `Usage:
  devhub ask [--path <dir>] [--provider <name>] [--model <model>] <question>

Sends a summary of the project together with the question.

Flags:
  --path     string   Project directory (default: the working directory)
  --provider string   AI provider (default openai)
  --model    string   Model override
  --api-key  string   API key (default from the environment)
  --config   string   Path to YAML or TOML configuration file
  --locale   string   Display language (en, pt-BR)
  --verbose           Log at debug level`

func analyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)

	var common commonFlags
	var asJSON bool
	common.register(fs)
	fs.BoolVar(&asJSON, "json", false, "print the analysis as JSON")

	if stop, err := parseFlags(fs, analyzeUsage, args); stop {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("analyze takes at most one path, got %d", fs.NArg())
	}

	a, err := newApp(common, true)
	if err != nil {
		return err
	}

	analysis, err := a.commands.AnalyzeProjectStructure(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	fmt.Fprint(stdout, renderMarkdown(analysis.Summary))
	return nil
}

func ask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ContinueOnError)

	var common commonFlags
	var pf providerFlags
	var path string
	common.register(fs)
	pf.register(fs)
	fs.StringVar(&path, "path", "", "project directory")

	if stop, err := parseFlags(fs, askUsage, args); stop {
		return err
	}

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		return errors.New("ask requires a question")
	}

	a, err := newApp(common, true)
	if err != nil {
		return err
	}

	resp, err := a.commands.AskAboutProject(ctx, commands.AskRequest{
		Path:     path,
		Question: question,
		Provider: pf.provider,
		APIKey:   models.StringPtr(resolveAPIKey(pf.provider, pf.apiKey)),
		Model:    models.StringPtr(pf.model),
	})
	if err != nil {
		return err
	}

	if resp.Unsupported {
		fmt.Fprintln(stderr, resp.Content)
		return nil
	}
	fmt.Fprint(stdout, renderMarkdown(resp.Content))
	return nil
}
