package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const (
	maxOutputBytes = 1 << 20 // 1 MiB
	waitDelay      = time.Second
)

// RunCommand runs command through the platform shell in cwd and returns the
// combined stdout and stderr. A non-zero exit is an error carrying the output.
func RunCommand(ctx context.Context, command, cwd string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", errors.New("command is required")
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	if strings.TrimSpace(cwd) != "" {
		cmd.Dir = cwd
	}
	cmd.WaitDelay = waitDelay

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	output := truncateOutput(out.Bytes())

	if ctxErr := ctx.Err(); ctxErr != nil {
		return output, fmt.Errorf("command %q: %w", command, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, fmt.Errorf("command exited with code %d: %s", exitErr.ExitCode(), strings.TrimSpace(output))
		}
		return output, fmt.Errorf("run command %q: %w", command, err)
	}
	return output, nil
}

func truncateOutput(b []byte) string {
	if len(b) <= maxOutputBytes {
		return string(b)
	}
	return string(b[:maxOutputBytes]) + "\n[output truncated]"
}

// CloneRepository runs git clone of url into dest, which must not exist yet.
func CloneRepository(ctx context.Context, url, dest string) error {
	url = strings.TrimSpace(url)
	if !isCloneURL(url) {
		return fmt.Errorf("unsupported repository URL %q", url)
	}
	if strings.TrimSpace(dest) == "" {
		return errors.New("destination is required")
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("destination %q already exists", dest)
	}

	out, err := exec.CommandContext(ctx, "git", "clone", "--", url, dest).CombinedOutput()
	if err != nil {
		return fmt.Errorf("git clone: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func isCloneURL(url string) bool {
	for _, prefix := range []string{"https://", "http://", "ssh://", "git@", "file://"} {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

// OpenInEditor launches editor on dir without waiting for it. The editor
// defaults to $VISUAL, then $EDITOR, then "code".
func OpenInEditor(dir, editor string) error {
	editor = strings.TrimSpace(editor)
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "code"
	}

	fields := strings.Fields(editor)
	cmd := exec.Command(fields[0], append(fields[1:], dir)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %q in %s: %w", dir, fields[0], err)
	}
	return cmd.Process.Release()
}
