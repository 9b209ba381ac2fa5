package posterino

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Platform names one of the supported social networks.
type Platform string

const (
	Twitter  Platform = "twitter"
	Mastodon Platform = "mastodon"
	Bluesky  Platform = "bluesky"
)

// All selects every supported platform.
const All = "all"

// DefaultTimeout bounds a single HTTP round trip.
const DefaultTimeout = 30 * time.Second

// Platforms lists the supported platforms in reporting order.
var Platforms = []Platform{Twitter, Mastodon, Bluesky}

// ParsePlatform resolves a user supplied platform name.
func ParsePlatform(name string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(name)))
	for _, supported := range Platforms {
		if p == supported {
			return p, nil
		}
	}
	return "", UnsupportedPlatformError{Name: name}
}

// Request defines the message payload shared across all providers.
type Request struct {
	Message string
}

// Receipt identifies a post created on a platform.
type Receipt struct {
	ID  string
	URL string
}

// Poster abstracts a social network that can publish content.
type Poster interface {
	Name() string
	Post(ctx context.Context, req Request) (Receipt, error)
}

// ClientOptions carries transport settings shared by every platform client.
type ClientOptions struct {
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
}

// NewHTTPClient returns the configured HTTP client, or a fresh one bounded by
// Timeout.
func (o ClientOptions) NewHTTPClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Outcome is the result of one post attempt.
type Outcome struct {
	Platform Platform
	Receipt  Receipt
	Err      error
	// Skipped is set when the client was built but nothing was posted.
	Skipped bool
}

// OK reports whether the attempt succeeded.
func (o Outcome) OK() bool { return o.Err == nil }
