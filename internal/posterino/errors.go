package posterino

import (
	"errors"
	"fmt"
	"strings"
)

// MissingCredentialError is returned when required configuration is missing.
type MissingCredentialError struct {
	Provider string
	Keys     []string
	Path     string
}

func (e MissingCredentialError) Error() string {
	msg := fmt.Sprintf("%s credentials not configured", e.Provider)
	if len(e.Keys) > 0 {
		msg += fmt.Sprintf(" (missing %s)", strings.Join(e.Keys, ", "))
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" in %s", e.Path)
	}
	return msg
}

// ConfigNotFoundError is returned after a template config has been written.
type ConfigNotFoundError struct {
	Path string
}

func (e ConfigNotFoundError) Error() string {
	return fmt.Sprintf("config file not found; an example config has been created at %s, please fill in your credentials", e.Path)
}

// ValidationError captures provider-specific validation issues.
type ValidationError struct {
	Provider string
	Reason   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Provider, e.Reason)
}

// UnsupportedPlatformError is returned for an unknown platform selector.
type UnsupportedPlatformError struct {
	Name string
}

func (e UnsupportedPlatformError) Error() string {
	names := make([]string, 0, len(Platforms)+1)
	for _, p := range Platforms {
		names = append(names, string(p))
	}
	names = append(names, All)
	return fmt.Sprintf("unsupported platform %q (supported: %s)", e.Name, strings.Join(names, ", "))
}

// IsConfigError reports whether err stems from missing or incomplete
// configuration rather than from talking to a platform.
func IsConfigError(err error) bool {
	var (
		missing  MissingCredentialError
		notFound ConfigNotFoundError
	)
	return errors.As(err, &missing) || errors.As(err, &notFound)
}
