// Package github checks personal access tokens before they are stored.
package github

import (
	"errors"
	"strings"

	"devhub/internal/locale"
)

var tokenPrefixes = []string{"ghp_", "github_pat_"}

// ValidateToken accepts classic ("ghp_") and fine-grained ("github_pat_")
// personal access tokens. It does not contact GitHub.
func ValidateToken(token string, cat locale.Catalog) error {
	token = strings.TrimSpace(token)
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(token, prefix) && len(token) > len(prefix) {
			return nil
		}
	}
	return errors.New(cat.InvalidGitHubToken)
}
