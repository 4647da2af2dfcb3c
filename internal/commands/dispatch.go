package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"devhub/internal/models"
)

// ErrUnknownCommand is returned by Dispatch for names outside the command table.
var ErrUnknownCommand = errors.New("unknown command")

// Handler decodes the JSON argument object of one command and runs it.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

type requestArgs[T any] struct {
	Request T `json:"request"`
}

type pathArgs struct {
	Path string `json:"path"`
}

type connectionArgs struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

type tokenArgs struct {
	Token string `json:"token"`
}

type writeArgs struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type terminalArgs struct {
	Command string `json:"command"`
	Cwd     string `json:"cwd"`
}

type cloneArgs struct {
	URL    string `json:"url"`
	Dest   string `json:"dest"`
	Editor string `json:"editor"`
}

func (c *Commands) handlers() map[string]Handler {
	return map[string]Handler{
		"chat_with_ai": func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args requestArgs[models.ChatRequest]
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return c.ChatWithAI(ctx, args.Request)
		},
		"generate_code": func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args requestArgs[models.CodeRequest]
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return c.GenerateCode(ctx, args.Request)
		},
		"test_api_connection": func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args connectionArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return c.TestAPIConnection(ctx, args.Provider, args.APIKey)
		},
		"analyze_project_structure": func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args pathArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return c.AnalyzeProjectStructure(ctx, args.Path)
		},
		"ask_about_project": func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args requestArgs[AskRequest]
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return c.AskAboutProject(ctx, args.Request)
		},
		"connect_github": func(_ context.Context, raw json.RawMessage) (any, error) {
			var args tokenArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return c.ConnectGitHub(args.Token)
		},
		"get_system_info": func(context.Context, json.RawMessage) (any, error) {
			return c.GetSystemInfo(), nil
		},
		"list_directory": func(_ context.Context, raw json.RawMessage) (any, error) {
			var args pathArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return c.ListDirectory(args.Path)
		},
		"expand_directory": func(_ context.Context, raw json.RawMessage) (any, error) {
			var args pathArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return c.ExpandDirectory(args.Path)
		},
		"read_file_content": func(_ context.Context, raw json.RawMessage) (any, error) {
			var args pathArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return c.ReadFileContent(args.Path)
		},
		"write_file_content": func(_ context.Context, raw json.RawMessage) (any, error) {
			var args writeArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return nil, c.WriteFileContent(args.Path, args.Content)
		},
		"run_terminal_command": func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args terminalArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return c.RunTerminalCommand(ctx, args.Command, args.Cwd)
		},
		"clone_and_open": func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args cloneArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return c.CloneAndOpen(ctx, args.URL, args.Dest, args.Editor)
		},
	}
}

// Names lists the commands Dispatch accepts, sorted.
func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.table))
	for name := range c.table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the named command with its JSON argument object. An empty
// argument body is treated as {}.
func (c *Commands) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	h, ok := c.table[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}
	return h(ctx, args)
}

func decodeArgs(raw json.RawMessage, target any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return invalid("invalid JSON arguments: %v", err)
	}
	return nil
}
