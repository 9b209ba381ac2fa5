package posterino

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeMessage turns the literal two character sequence `\n` into a
// newline.
func NormalizeMessage(message string) string {
	return strings.ReplaceAll(message, `\n`, "\n")
}

// NormalizeBaseURL validates an instance URL and strips trailing slashes so
// endpoint paths can be appended directly.
func NormalizeBaseURL(provider, raw string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(base)
	if err != nil {
		return "", ValidationError{Provider: provider, Reason: fmt.Sprintf("invalid instance_url %q: %v", raw, err)}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ValidationError{Provider: provider, Reason: fmt.Sprintf("invalid instance_url %q: expected http(s)://host", raw)}
	}
	return base, nil
}
