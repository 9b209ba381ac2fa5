package twitter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blacktop/posterino/internal/logutil"
	"github.com/blacktop/posterino/internal/posterino"
	"github.com/michimani/gotwi"
	"github.com/michimani/gotwi/tweet/managetweet"
	managetweettypes "github.com/michimani/gotwi/tweet/managetweet/types"
)

const (
	providerName = "twitter"

	statusURLFormat = "https://x.com/i/web/status/%s"
)

// Client implements the Poster interface for X (Twitter).
type Client struct {
	api *gotwi.Client
}

// New constructs a Twitter poster using gotwi and OAuth 1.0a user-context
// credentials. gotwi signs every request with HMAC-SHA1 over the method, URL
// and parameters using a fresh nonce and timestamp.
func New(creds posterino.Credentials, opts posterino.ClientOptions) (posterino.Poster, error) {
	if err := creds.ValidateFor(posterino.Twitter); err != nil {
		return nil, err
	}

	debugEnabled := os.Getenv("POSTERINO_TWITTER_DEBUG") == "1"

	client, err := gotwi.NewClient(&gotwi.NewClientInput{
		HTTPClient:           opts.NewHTTPClient(),
		AuthenticationMethod: gotwi.AuthenMethodOAuth1UserContext,
		OAuthToken:           creds.Get("access_token"),
		OAuthTokenSecret:     creds.Get("access_token_secret"),
		APIKey:               creds.Get("consumer_key"),
		APIKeySecret:         creds.Get("consumer_secret"),
		Debug:                debugEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("create X client: %w", err)
	}

	if !client.IsReady() {
		return nil, fmt.Errorf("twitter client not ready")
	}

	return &Client{api: client}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string { return providerName }

// Post publishes the message to X.
func (c *Client) Post(ctx context.Context, req posterino.Request) (posterino.Receipt, error) {
	input := &managetweettypes.CreateInput{
		Text: gotwi.String(req.Message),
	}

	logutil.Debugf("posting tweet: bytes=%d", len(req.Message))
	res, err := managetweet.Create(ctx, c.api, input)
	if err != nil {
		return posterino.Receipt{}, fmt.Errorf("post tweet: %w", unwrapGotwiError(err))
	}

	var id string
	if res != nil && res.Data.ID != nil {
		id = *res.Data.ID
	}
	logutil.Debugf("tweet posted: id=%s", id)

	receipt := posterino.Receipt{ID: id}
	if id != "" {
		receipt.URL = fmt.Sprintf(statusURLFormat, id)
	}
	return receipt, nil
}

func unwrapGotwiError(err error) error {
	var gwErr *gotwi.GotwiError
	if errors.As(err, &gwErr) && gwErr != nil {
		return errors.New(summarizeGotwiError(gwErr))
	}
	return err
}

func summarizeGotwiError(err *gotwi.GotwiError) string {
	if err == nil {
		return "unknown X API error"
	}

	parts := make([]string, 0, 4)
	if err.Title != "" {
		parts = append(parts, err.Title)
	}
	if err.Detail != "" {
		parts = append(parts, err.Detail)
	}
	for _, apiErr := range err.APIErrors {
		if apiErr.Message != "" {
			parts = append(parts, apiErr.Message)
		}
	}
	if len(parts) == 0 {
		if msg := err.Error(); msg != "" {
			parts = append(parts, msg)
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "X API request failed")
	}

	return strings.Join(parts, "; ")
}
