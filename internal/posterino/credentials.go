package posterino

import (
	"maps"
	"slices"
	"strings"
)

// placeholderPrefix marks template values that were never filled in.
const placeholderPrefix = "your_"

var requiredKeys = map[Platform][]string{
	Twitter:  {"consumer_key", "consumer_secret", "access_token", "access_token_secret"},
	Mastodon: {"access_token", "instance_url"},
	Bluesky:  {"identifier", "password", "instance_url"},
}

// RequiredKeys lists the credential keys a platform client needs.
func RequiredKeys(p Platform) []string {
	return slices.Clone(requiredKeys[p])
}

// Credentials is a read-only set of named values for one platform.
type Credentials struct {
	platform Platform
	values   map[string]string
}

// NewCredentials copies values into a credential set for platform.
func NewCredentials(platform Platform, values map[string]string) Credentials {
	return Credentials{platform: platform, values: maps.Clone(values)}
}

// Platform returns the platform the credentials belong to.
func (c Credentials) Platform() Platform { return c.platform }

// Get returns the trimmed value for key, or "" when unset.
func (c Credentials) Get(key string) string {
	return strings.TrimSpace(c.values[key])
}

// Validate checks that every required key holds a real value.
func (c Credentials) Validate() error {
	keys, ok := requiredKeys[c.platform]
	if !ok {
		return UnsupportedPlatformError{Name: string(c.platform)}
	}

	var missing []string
	for _, key := range keys {
		v := c.Get(key)
		if v == "" || strings.HasPrefix(v, placeholderPrefix) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return MissingCredentialError{Provider: string(c.platform), Keys: missing}
	}
	return nil
}

// ValidateFor is Validate plus a check that the set belongs to want.
func (c Credentials) ValidateFor(want Platform) error {
	if c.platform != want {
		return ValidationError{Provider: string(want), Reason: "credentials for " + string(c.platform) + " supplied"}
	}
	return c.Validate()
}
