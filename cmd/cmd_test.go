package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"devhub/internal/system"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr, prevTTY := stdout, stderr, stdoutIsTTY
	stdout, stderr = &out, &errOut
	stdoutIsTTY = func() bool { return false }
	t.Cleanup(func() {
		stdout, stderr, stdoutIsTTY = prevOut, prevErr, prevTTY
	})
	return &out, &errOut
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devhub.yaml")
	content := "log:\n  format: json\ngateway:\n  timeout: 5s\n  providers:\n    openai:\n      base_url: " + baseURL + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecute_UsageAndUnknown(t *testing.T) {
	out, _ := captureOutput(t)

	require.NoError(t, Execute(context.Background(), nil))
	require.Contains(t, out.String(), "devhub <command>")

	err := Execute(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown command "frobnicate"`)
}

func TestVersionAndSysinfo(t *testing.T) {
	out, _ := captureOutput(t)

	require.NoError(t, Execute(context.Background(), []string{"version"}))
	require.Equal(t, "devhub "+system.Version+"\n", out.String())

	out.Reset()
	require.NoError(t, Execute(context.Background(), []string{"sysinfo"}))
	var info system.Info
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	require.Equal(t, runtime.GOOS, info.Platform)

	require.Error(t, Execute(context.Background(), []string{"sysinfo", "extra"}))
}

func TestGitHubCommand(t *testing.T) {
	out, _ := captureOutput(t)

	require.NoError(t, Execute(context.Background(), []string{"github", "ghp_abc"}))
	require.Equal(t, "token format ok\n", out.String())

	err := Execute(context.Background(), []string{"github", "--locale", "pt-BR", "abc"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Token do GitHub inválido")

	require.Error(t, Execute(context.Background(), []string{"github"}))
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("DEVHUB_GROQ_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "from-plain")
	require.Equal(t, "from-plain", resolveAPIKey("groq", ""))

	t.Setenv("DEVHUB_GROQ_API_KEY", "from-devhub")
	require.Equal(t, "from-devhub", resolveAPIKey("groq", ""))
	require.Equal(t, "from-flag", resolveAPIKey("groq", " from-flag "))

	t.Setenv("DEVHUB_OLLAMA_API_KEY", "")
	t.Setenv("OLLAMA_API_KEY", "")
	require.Equal(t, "", resolveAPIKey("ollama", ""))
}

func TestChatCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" || r.Header.Get("Authorization") != "Bearer sk-cli" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hi from the mock"}}]}`))
	}))
	defer srv.Close()

	cfgPath := writeConfig(t, srv.URL+"/v1")
	t.Setenv("DEVHUB_OPENAI_API_KEY", "sk-cli")

	out, errOut := captureOutput(t)
	require.NoError(t, Execute(context.Background(), []string{"chat", "--config", cfgPath, "hello", "there"}))
	require.Equal(t, "hi from the mock\n", out.String())

	out.Reset()
	require.NoError(t, Execute(context.Background(), []string{"chat", "--config", cfgPath, "--provider", "bard", "hello"}))
	require.Empty(t, out.String())
	require.Contains(t, errOut.String(), "Unsupported AI provider.")

	err := Execute(context.Background(), []string{"chat", "--config", cfgPath, "--api-key", "wrong", "hello"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid response")

	require.Error(t, Execute(context.Background(), []string{"chat", "--config", cfgPath}))
}

func TestCodeCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"` + "```go\\nfunc add(a, b int) int { return a + b }\\n```" + `"}}]}`))
	}))
	defer srv.Close()

	cfgPath := writeConfig(t, srv.URL)
	out, _ := captureOutput(t)

	require.NoError(t, Execute(context.Background(), []string{"code", "--config", cfgPath, "--api-key", "k", "--language", "go", "add", "two", "ints"}))
	require.Equal(t, "func add(a, b int) int { return a + b }\n", out.String())

	require.Error(t, Execute(context.Background(), []string{"code", "--config", cfgPath, "--api-key", "k", "add"}))
}

func TestAnalyzeCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))

	out, _ := captureOutput(t)
	require.NoError(t, Execute(context.Background(), []string{"analyze", "--json", root}))

	var got struct {
		TotalFiles int    `json:"total_files"`
		Summary    string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, 1, got.TotalFiles)
	require.Contains(t, got.Summary, "### main.go")

	out.Reset()
	require.NoError(t, Execute(context.Background(), []string{"analyze", root}))
	require.True(t, strings.HasPrefix(out.String(), "# Project: "))

	require.Error(t, Execute(context.Background(), []string{"analyze", root, root}))
}

func TestStripFence(t *testing.T) {
	require.Equal(t, "x := 1\n", stripFence("```go\nx := 1\n```"))
	require.Equal(t, "x := 1\n", stripFence("  ```\nx := 1\n```\n"))
	require.Equal(t, "plain", stripFence("plain"))
	require.Equal(t, "```inline```", stripFence("```inline```"))
}
