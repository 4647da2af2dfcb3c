package cmd

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// stdoutIsTTY is swapped in tests.
var stdoutIsTTY = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderMarkdown renders markdown for the terminal. Piped output and render
// failures get the original text.
func renderMarkdown(content string) string {
	if !stdoutIsTTY() {
		return ensureNewline(content)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return ensureNewline(content)
	}
	rendered, err := r.Render(content)
	if err != nil {
		return ensureNewline(content)
	}
	return rendered
}

// highlightCode colours code for a 256-colour terminal. Markdown fences around
// the snippet are dropped first.
func highlightCode(code, language string) string {
	code = stripFence(code)
	if !stdoutIsTTY() {
		return code
	}

	lexer := lexers.Get(strings.ToLower(language))
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// stripFence removes a single surrounding ``` fence, which models often add
// despite being asked for bare code.
func stripFence(code string) string {
	trimmed := strings.TrimSpace(code)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") || len(trimmed) < 6 {
		return code
	}
	body := strings.TrimSuffix(trimmed, "```")
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return code
	}
	return strings.TrimRight(body[nl+1:], "\n") + "\n"
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
