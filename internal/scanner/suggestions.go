package scanner

import (
	"strings"

	"devhub/internal/locale"
)

const (
	testsThreshold      = 20
	typeScriptThreshold = 30
	ciThreshold         = 50
	largeThreshold      = 100
)

// signals are name-based facts noticed while walking.
type signals struct {
	hasTests  bool
	hasReadme bool
	hasESLint bool
	hasCI     bool
}

func (s *signals) observe(rel, name string) {
	lower := strings.ToLower(name)

	if isTestFile(rel, lower) {
		s.hasTests = true
	}
	if !strings.Contains(rel, "/") && strings.HasPrefix(lower, "readme") {
		s.hasReadme = true
	}
	if strings.HasPrefix(lower, ".eslintrc") || strings.HasPrefix(lower, "eslint.config.") {
		s.hasESLint = true
	}
	if strings.HasPrefix(rel, ".github/workflows/") ||
		strings.HasPrefix(rel, ".circleci/") ||
		lower == ".gitlab-ci.yml" ||
		lower == "jenkinsfile" ||
		lower == "azure-pipelines.yml" {
		s.hasCI = true
	}
}

func isTestFile(rel, lower string) bool {
	switch {
	case strings.Contains(lower, ".test."), strings.Contains(lower, ".spec."):
		return true
	case strings.HasSuffix(lower, "_test.go"), strings.HasSuffix(lower, "_test.py"), strings.HasSuffix(lower, "_spec.rb"):
		return true
	case strings.HasPrefix(lower, "test_") && strings.HasSuffix(lower, ".py"):
		return true
	}
	for _, dir := range strings.Split(rel, "/") {
		if dir == "tests" || dir == "__tests__" {
			return true
		}
	}
	return false
}

// suggest applies the fixed heuristics in order. It always returns at least one entry.
func suggest(totalFiles int, histogram map[string]int, sig signals, cat locale.Catalog) []string {
	var out []string

	hasTypeScript := histogram["ts"] > 0 || histogram["tsx"] > 0
	hasJavaScript := histogram["js"] > 0 || histogram["jsx"] > 0

	if !sig.hasTests && totalFiles > testsThreshold {
		out = append(out, cat.SuggestTests)
	}
	if !sig.hasReadme {
		out = append(out, cat.SuggestReadme)
	}
	if hasJavaScript && !hasTypeScript && totalFiles > typeScriptThreshold {
		out = append(out, cat.SuggestTypeScript)
	}
	if !sig.hasESLint && (hasTypeScript || hasJavaScript) {
		out = append(out, cat.SuggestESLint)
	}
	if totalFiles > largeThreshold {
		out = append(out, cat.SuggestModularize)
	}
	if !sig.hasCI && totalFiles > ciThreshold {
		out = append(out, cat.SuggestCI)
	}

	if len(out) == 0 {
		out = append(out, cat.WellStructured)
	}
	return out
}
