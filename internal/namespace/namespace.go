// Package namespace parses "<repository>/<template>" identifiers.
//
// Template and repository names never contain "/", so an identifier has at
// most one separator. "a/b/c" is rejected instead of being read as template
// "b/c" in repository "a".
package namespace

import (
	"strings"
	"unicode"

	"github.com/YangQing-Lin/templo-cli/internal/apperr"
)

// DefaultRepository is used when an identifier names only a template.
const DefaultRepository = "main"

// Namespace is the resolved address of a template.
type Namespace struct {
	Repository string
	Template   string
}

func (n Namespace) String() string {
	return n.Repository + "/" + n.Template
}

// Resolve splits input on its first "/". Without a separator the template
// lives in DefaultRepository.
func Resolve(input string) (Namespace, error) {
	if err := ValidatePath(input); err != nil {
		return Namespace{}, err
	}

	repo, name, found := strings.Cut(input, "/")
	if !found {
		repo, name = DefaultRepository, input
	}

	if err := ValidateRepositoryName(repo); err != nil {
		return Namespace{}, err
	}
	if err := ValidateTemplateName(name); err != nil {
		return Namespace{}, err
	}

	return Namespace{Repository: repo, Template: name}, nil
}

// ValidatePath rejects path-like user input with a backslash or a trailing
// forward slash.
func ValidatePath(s string) error {
	if strings.Contains(s, `\`) {
		return apperr.InvalidInput("invalid path %q: backslashes are not allowed", s)
	}
	if strings.HasSuffix(s, "/") {
		return apperr.InvalidInput("invalid path %q: must not end with \"/\"", s)
	}
	return nil
}

// ValidateTemplateName checks a template name.
func ValidateTemplateName(name string) error {
	return validateName("template", name)
}

// ValidateRepositoryName checks a repository name. Names starting with "."
// are reserved for files the store keeps next to repositories.
func ValidateRepositoryName(name string) error {
	if err := validateName("repository", name); err != nil {
		return err
	}
	if strings.HasPrefix(name, ".") {
		return apperr.InvalidInput("the repository name %q cannot start with \".\"", name)
	}
	return nil
}

func validateName(kind, name string) error {
	if name == "" {
		return apperr.InvalidInput("the %s name cannot be empty", kind)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return apperr.InvalidInput("the %s name %q cannot have whitespaces", kind, name)
	}
	if strings.ContainsAny(name, `/\`) {
		return apperr.InvalidInput("the %s name %q cannot contain path separators", kind, name)
	}
	if name == "." || name == ".." {
		return apperr.InvalidInput("the %s name %q is reserved", kind, name)
	}
	return nil
}
