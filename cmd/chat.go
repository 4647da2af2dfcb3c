package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"devhub/internal/models"
)

const chatUsage = `Usage:
  devhub chat [--provider <name>] [--model <model>] [--api-key <key>] <prompt>

Flags:
  --provider string   openai, anthropic, gemini, cohere, mistral, groq, deepseek or ollama (default openai)
  --model    string   Model override
  --api-key  string   API key (default DEVHUB_<PROVIDER>_API_KEY or <PROVIDER>_API_KEY)
  --config   string   Path to YAML or TOML configuration file
  --locale   string   Display language (en, pt-BR)
  --verbose           Log at debug level`

const codeUsage = `Usage:
  devhub code --language <language> [--provider <name>] [--model <model>] <description>

Flags:
  --language string   Target language, e.g. Go, TypeScript (required)
  --provider string   AI provider (default openai)
  --model    string   Model override
  --api-key  string   API key (default from the environment)
  --raw               Never highlight the output
  --config   string   Path to YAML or TOML configuration file
  --locale   string   Display language (en, pt-BR)
  --verbose           Log at debug level`

func chat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)

	var common commonFlags
	var pf providerFlags
	common.register(fs)
	pf.register(fs)

	if stop, err := parseFlags(fs, chatUsage, args); stop {
		return err
	}

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		return errors.New("chat requires a prompt")
	}

	a, err := newApp(common, true)
	if err != nil {
		return err
	}

	resp, err := a.commands.ChatWithAI(ctx, models.ChatRequest{
		Provider: pf.provider,
		APIKey:   models.StringPtr(resolveAPIKey(pf.provider, pf.apiKey)),
		Prompt:   prompt,
		History:  []models.ChatMessage{},
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

func code(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("code", flag.ContinueOnError)

	var common commonFlags
	var pf providerFlags
	var language string
	var raw bool
	common.register(fs)
	pf.register(fs)
	fs.StringVar(&language, "language", "", "target language")
	fs.BoolVar(&raw, "raw", false, "never highlight the output")

	if stop, err := parseFlags(fs, codeUsage, args); stop {
		return err
	}

	description := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if description == "" {
		return errors.New("code requires a description")
	}
	if strings.TrimSpace(language) == "" {
		return errors.New("code requires --language")
	}

	a, err := newApp(common, true)
	if err != nil {
		return err
	}

	resp, err := a.commands.GenerateCode(ctx, models.CodeRequest{
		Provider:    pf.provider,
		APIKey:      models.StringPtr(resolveAPIKey(pf.provider, pf.apiKey)),
		Description: description,
		Language:    language,
		Model:       models.StringPtr(pf.model),
	})
	if err != nil {
		return err
	}

	out := resp.Code
	if !raw {
		out = highlightCode(out, resp.Language)
	}
	fmt.Fprintln(stdout, strings.TrimRight(out, "\n"))
	return nil
}
