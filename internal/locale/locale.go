// Package locale holds the display strings shown to the user in each supported language.
package locale

import (
	"fmt"

	"golang.org/x/text/language"
)

// Catalog is the set of user-facing strings for one display language.
type Catalog struct {
	Tag language.Tag

	UnsupportedProvider string
	InvalidGitHubToken  string

	codePrompt    string
	projectPrompt string

	SuggestTests      string
	SuggestReadme     string
	SuggestTypeScript string
	SuggestESLint     string
	SuggestModularize string
	SuggestCI         string
	WellStructured    string
}

// CodePrompt renders the code-generation prompt.
func (c Catalog) CodePrompt(language, description string) string {
	return fmt.Sprintf(c.codePrompt, language, description)
}

// ProjectPrompt joins a project summary and a question into one prompt.
func (c Catalog) ProjectPrompt(summary, question string) string {
	return fmt.Sprintf(c.projectPrompt, summary, question)
}

var english = Catalog{
	Tag:                 language.English,
	UnsupportedProvider: "Unsupported AI provider.",
	InvalidGitHubToken:  "Invalid GitHub token. It must start with 'ghp_' or 'github_pat_'",
	codePrompt:          "Generate a code snippet in %s for: %s\n\nReturn only the code, no explanations.",
	projectPrompt:       "Here is an overview of my project:\n\n%s\n\n%s",
	SuggestTests:        "Consider adding automated tests to guarantee code quality.",
	SuggestReadme:       "Add a README.md to document the project and ease onboarding.",
	SuggestTypeScript:   "Migrating to TypeScript can improve maintainability and prevent bugs.",
	SuggestESLint:       "Configure ESLint to keep the code consistent and catch problems.",
	SuggestModularize:   "Large project detected. Consider splitting the code into smaller packages.",
	SuggestCI:           "Configure CI/CD (GitHub Actions, GitLab CI) to automate tests and deploys.",
	WellStructured:      "Well structured project! Keep following good development practices.",
}

var brazilianPortuguese = Catalog{
	Tag:                 language.BrazilianPortuguese,
	UnsupportedProvider: "Provedor de IA não suportado.",
	InvalidGitHubToken:  "Token do GitHub inválido. Deve começar com 'ghp_' ou 'github_pat_'",
	codePrompt:          "Gere um snippet de código em %s para: %s\n\nRetorne apenas o código, sem explicações.",
	projectPrompt:       "Aqui está uma visão geral do meu projeto:\n\n%s\n\n%s",
	SuggestTests:        "Considere adicionar testes automatizados para garantir qualidade do código.",
	SuggestReadme:       "Adicione um README.md para documentar o projeto e facilitar onboarding.",
	SuggestTypeScript:   "Migrar para TypeScript pode melhorar a manutenibilidade e prevenir bugs.",
	SuggestESLint:       "Configure ESLint para manter consistência de código e identificar problemas.",
	SuggestModularize:   "Projeto grande detectado. Considere modularizar o código em pacotes menores.",
	SuggestCI:           "Configure CI/CD (GitHub Actions, GitLab CI) para automatizar testes e deploys.",
	WellStructured:      "Projeto bem estruturado! Continue mantendo boas práticas de desenvolvimento.",
}

var (
	catalogs = []Catalog{english, brazilianPortuguese}
	matcher  = language.NewMatcher([]language.Tag{english.Tag, brazilianPortuguese.Tag})
)

// Default returns the English catalog.
func Default() Catalog {
	return english
}

// For returns the catalog closest to the BCP 47 tag. Unparseable or unknown tags
// fall back to English.
func For(tag string) Catalog {
	if tag == "" {
		return english
	}
	t, err := language.Parse(tag)
	if err != nil {
		return english
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return english
	}
	return catalogs[idx]
}
