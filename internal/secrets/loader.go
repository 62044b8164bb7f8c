package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes how to load a secret value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration or flags.
	Value string
	// File points to a file containing the secret value. When set it takes
	// precedence over Env and Value.
	File string
	// Env names an environment variable holding the secret. It takes
	// precedence over Value.
	Env string
}

// Load returns the resolved secret value from the provided source. File wins
// over Env, Env wins over Value. The returned secret is always trimmed. An
// error is returned when no source contains a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if src.Env != "" {
			return "", fmt.Errorf("%s is not configured (checked $%s)", name, src.Env)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
