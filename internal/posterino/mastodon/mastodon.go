package mastodon

import (
	"context"
	"fmt"

	"github.com/blacktop/posterino/internal/logutil"
	"github.com/blacktop/posterino/internal/posterino"
	mastodonapi "github.com/mattn/go-mastodon"
)

const (
	providerName = "mastodon"

	visibilityPublic = "public"
)

// Client wraps the Mastodon API client with posterino semantics.
type Client struct {
	client *mastodonapi.Client
	server string
}

// New constructs a Mastodon poster for the configured instance.
func New(creds posterino.Credentials, opts posterino.ClientOptions) (posterino.Poster, error) {
	if err := creds.ValidateFor(posterino.Mastodon); err != nil {
		return nil, err
	}

	server, err := posterino.NormalizeBaseURL(providerName, creds.Get("instance_url"))
	if err != nil {
		return nil, err
	}

	mastodonClient := mastodonapi.NewClient(&mastodonapi.Config{
		Server:      server,
		AccessToken: creds.Get("access_token"),
	})
	mastodonClient.Client = *opts.NewHTTPClient()
	if opts.UserAgent != "" {
		mastodonClient.UserAgent = opts.UserAgent
	}

	return &Client{client: mastodonClient, server: server}, nil
}

// Name identifies the provider.
func (c *Client) Name() string { return providerName }

// Post publishes a new public status to {server}/api/v1/statuses.
func (c *Client) Post(ctx context.Context, req posterino.Request) (posterino.Receipt, error) {
	logutil.Debugf("posting status: server=%s bytes=%d", c.server, len(req.Message))
	status, err := c.client.PostStatus(ctx, &mastodonapi.Toot{
		Status:     req.Message,
		Visibility: visibilityPublic,
	})
	if err != nil {
		return posterino.Receipt{}, fmt.Errorf("post status: %w", err)
	}
	logutil.Debugf("status posted: id=%s", status.ID)

	return posterino.Receipt{ID: string(status.ID), URL: status.URL}, nil
}
