// Package commands is the command surface exposed to the desktop shell. Every
// command returns a payload or an error; rendering errors as text is left to
// the caller (the bridge or the CLI).
package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"devhub/internal/gateway"
	"devhub/internal/github"
	"devhub/internal/locale"
	"devhub/internal/models"
	"devhub/internal/scanner"
	"devhub/internal/system"
	"devhub/internal/workspace"
)

const probePrompt = "Hello"

// ErrInvalidArgument marks errors caused by the caller's input.
var ErrInvalidArgument = errors.New("invalid argument")

// argumentError keeps the caller-facing message intact while matching ErrInvalidArgument.
type argumentError struct{ msg string }

func (e *argumentError) Error() string { return e.msg }

func (e *argumentError) Is(target error) bool { return target == ErrInvalidArgument }

func invalid(format string, args ...any) error {
	return &argumentError{msg: fmt.Sprintf(format, args...)}
}

// Commands binds the gateway, scanner and workspace helpers.
type Commands struct {
	gateway *gateway.Gateway
	scan    scanner.Options
	catalog locale.Catalog
	logger  zerolog.Logger
	table   map[string]Handler
}

// New constructs the command set. The scanner options inherit the gateway's catalog.
func New(gw *gateway.Gateway, scan scanner.Options, logger zerolog.Logger) (*Commands, error) {
	if gw == nil {
		return nil, errors.New("gateway must not be nil")
	}
	cat := gw.Catalog()
	scan.Catalog = cat
	c := &Commands{
		gateway: gw,
		scan:    scan,
		catalog: cat,
		logger:  logger,
	}
	c.table = c.handlers()
	return c, nil
}

// ChatWithAI forwards one chat request to its provider.
func (c *Commands) ChatWithAI(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	c.logger.Info().
		Str("provider", req.Provider).
		Bool("api_key_present", req.APIKey != nil).
		Msg("chat request")
	return c.gateway.Chat(ctx, req)
}

// GenerateCode asks the provider for a code snippet.
func (c *Commands) GenerateCode(ctx context.Context, req models.CodeRequest) (models.CodeResponse, error) {
	return c.gateway.GenerateCode(ctx, req)
}

// TestAPIConnection sends a short probe and reports whether the provider answered.
func (c *Commands) TestAPIConnection(ctx context.Context, providerName, apiKey string) (bool, error) {
	resp, err := c.gateway.Chat(ctx, models.ChatRequest{
		Provider: providerName,
		APIKey:   &apiKey,
		Prompt:   probePrompt,
		History:  []models.ChatMessage{},
	})
	if err != nil {
		return false, err
	}
	if resp.Unsupported {
		return false, invalid("%s", resp.Content)
	}
	return true, nil
}

// AnalyzeProjectStructure scans path, or the working directory when empty.
func (c *Commands) AnalyzeProjectStructure(ctx context.Context, path string) (*scanner.Analysis, error) {
	c.logger.Info().Str("path", path).Msg("analyzing project")
	analysis, err := scanner.Analyze(ctx, path, c.scan)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("project analysis failed")
		return nil, err
	}
	return analysis, nil
}

// AskRequest is a question about a project, answered with its summary as context.
type AskRequest struct {
	Path     string  `json:"path"`
	Question string  `json:"question"`
	Provider string  `json:"provider"`
	APIKey   *string `json:"api_key,omitempty"`
	Model    *string `json:"model,omitempty"`
}

// AskAboutProject scans the project and sends its summary together with the question.
func (c *Commands) AskAboutProject(ctx context.Context, req AskRequest) (models.ChatResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return models.ChatResponse{}, invalid("question is required")
	}

	analysis, err := c.AnalyzeProjectStructure(ctx, req.Path)
	if err != nil {
		return models.ChatResponse{}, err
	}

	return c.gateway.Chat(ctx, models.ChatRequest{
		Provider: req.Provider,
		APIKey:   req.APIKey,
		Prompt:   c.catalog.ProjectPrompt(analysis.Summary, req.Question),
		History:  []models.ChatMessage{},
		Model:    req.Model,
	})
}

// ConnectGitHub validates the token format.
func (c *Commands) ConnectGitHub(token string) (bool, error) {
	if err := github.ValidateToken(token, c.catalog); err != nil {
		return false, invalid("%s", err.Error())
	}
	return true, nil
}

// GetSystemInfo reports the platform, architecture and version.
func (c *Commands) GetSystemInfo() system.Info {
	return system.Current()
}

// ListDirectory lists one level of path.
func (c *Commands) ListDirectory(path string) (workspace.Listing, error) {
	return workspace.ListDirectory(path)
}

// ExpandDirectory lists the children of a directory node.
func (c *Commands) ExpandDirectory(path string) ([]workspace.FileNode, error) {
	if strings.TrimSpace(path) == "" {
		return nil, invalid("path is required")
	}
	return workspace.ExpandDirectory(path)
}

// ReadFileContent returns the text content of path.
func (c *Commands) ReadFileContent(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", invalid("path is required")
	}
	return workspace.ReadFile(path)
}

// WriteFileContent replaces the content of path.
func (c *Commands) WriteFileContent(path, content string) error {
	if strings.TrimSpace(path) == "" {
		return invalid("path is required")
	}
	return workspace.WriteFile(path, content)
}

// RunTerminalCommand runs command in cwd and returns its combined output.
func (c *Commands) RunTerminalCommand(ctx context.Context, command, cwd string) (string, error) {
	if strings.TrimSpace(command) == "" {
		return "", invalid("command is required")
	}
	c.logger.Info().Str("cwd", cwd).Msg("running terminal command")
	return workspace.RunCommand(ctx, command, cwd)
}

// CloneAndOpen clones url into dest and opens the checkout in an editor.
// An empty dest clones next to the working directory under the repository name.
func (c *Commands) CloneAndOpen(ctx context.Context, url, dest, editor string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", invalid("url is required")
	}
	if strings.TrimSpace(dest) == "" {
		dest = repositoryName(url)
	}
	abs, err := filepath.Abs(dest)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", dest, err)
	}

	if err := workspace.CloneRepository(ctx, url, abs); err != nil {
		return "", err
	}
	c.logger.Info().Str("url", url).Str("dest", abs).Msg("repository cloned")

	if err := workspace.OpenInEditor(abs, editor); err != nil {
		return abs, err
	}
	return abs, nil
}

func repositoryName(url string) string {
	name := strings.TrimRight(url, "/")
	if idx := strings.LastIndexAny(name, "/:"); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSuffix(name, ".git")
}
