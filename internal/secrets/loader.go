package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrMissing is matched when neither the file nor the inline value holds a secret.
	ErrMissing = errors.New("secret missing")
	// ErrPlaceholder is matched when the resolved secret is a documentation sample.
	ErrPlaceholder = errors.New("placeholder secret")
)

// Source describes where an API key comes from.
type Source struct {
	// Name prefixes error messages, e.g. "gemini api key".
	Name  string
	Value string
	// File takes precedence over Value when set.
	File string
}

// Load resolves and trims the secret. Missing and placeholder secrets match
// ErrMissing and ErrPlaceholder; unreadable files are returned as they are.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	value := src.Value
	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		value = string(data)
	}

	secret := strings.TrimSpace(value)
	switch {
	case secret == "" && file != "":
		return "", fmt.Errorf("%s file %q is empty: %w", name, file, ErrMissing)
	case secret == "":
		return "", fmt.Errorf("%s is not configured: %w", name, ErrMissing)
	case IsPlaceholder(secret):
		return "", fmt.Errorf("%s is a placeholder value: %w", name, ErrPlaceholder)
	}

	return secret, nil
}
