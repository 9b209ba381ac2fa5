package bluesky

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/blacktop/posterino/internal/logutil"
	"github.com/blacktop/posterino/internal/posterino"
	"github.com/bluesky-social/indigo/api/atproto"
	"github.com/bluesky-social/indigo/api/bsky"
	"github.com/bluesky-social/indigo/atproto/syntax"
	"github.com/bluesky-social/indigo/lex/util"
	"github.com/bluesky-social/indigo/xrpc"
)

const (
	providerName = "bluesky"

	postCollection = "app.bsky.feed.post"
	postURLFormat  = "https://bsky.app/profile/%s/post/%s"
)

// ErrNoAccessToken is returned when createSession succeeds without a token.
var ErrNoAccessToken = errors.New("session response did not include an access token")

// Client implements the posterino.Poster interface for Bluesky.
type Client struct {
	host       string
	identifier string
	password   string
	httpClient *http.Client
	userAgent  string
	now        func() time.Time
}

// New constructs a Bluesky poster. No network call happens until Post.
func New(creds posterino.Credentials, opts posterino.ClientOptions) (posterino.Poster, error) {
	if err := creds.ValidateFor(posterino.Bluesky); err != nil {
		return nil, err
	}

	host, err := posterino.NormalizeBaseURL(providerName, creds.Get("instance_url"))
	if err != nil {
		return nil, err
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "posterino/1"
	}

	return &Client{
		host:       host,
		identifier: creds.Get("identifier"),
		password:   creds.Get("password"),
		httpClient: opts.NewHTTPClient(),
		userAgent:  userAgent,
		now:        time.Now,
	}, nil
}

// Name identifies the provider.
func (c *Client) Name() string { return providerName }

// Post opens a session and creates a feed post. A failed session aborts the
// attempt before any record is written.
func (c *Client) Post(ctx context.Context, req posterino.Request) (posterino.Receipt, error) {
	xrpcClient := &xrpc.Client{
		Client:    c.httpClient,
		Host:      c.host,
		UserAgent: &c.userAgent,
	}

	logutil.Debugf("creating session: host=%s", c.host)
	session, err := atproto.ServerCreateSession(ctx, xrpcClient, &atproto.ServerCreateSession_Input{
		Identifier: c.identifier,
		Password:   c.password,
	})
	if err != nil {
		return posterino.Receipt{}, fmt.Errorf("login: %w", err)
	}
	if session.AccessJwt == "" {
		return posterino.Receipt{}, fmt.Errorf("login: %w", ErrNoAccessToken)
	}

	xrpcClient.Auth = &xrpc.AuthInfo{
		AccessJwt:  session.AccessJwt,
		RefreshJwt: session.RefreshJwt,
		Handle:     session.Handle,
		Did:        session.Did,
	}

	repo := session.Did
	if repo == "" {
		repo = c.identifier
	}

	post := &bsky.FeedPost{
		LexiconTypeID: postCollection,
		CreatedAt:     c.now().UTC().Format(time.RFC3339),
		Text:          req.Message,
		Facets:        linkFacets(req.Message),
	}

	logutil.Debugf("creating record: repo=%s facets=%d", repo, len(post.Facets))
	out, err := atproto.RepoCreateRecord(ctx, xrpcClient, &atproto.RepoCreateRecord_Input{
		Collection: postCollection,
		Repo:       repo,
		Record: &util.LexiconTypeDecoder{
			Val: post,
		},
	})
	if err != nil {
		return posterino.Receipt{}, fmt.Errorf("create record: %w", err)
	}

	return posterino.Receipt{ID: out.Uri, URL: webURL(out.Uri)}, nil
}

// webURL maps an at:// record URI to its bsky.app page.
func webURL(uri string) string {
	aturi, err := syntax.ParseATURI(uri)
	if err != nil {
		return ""
	}
	rkey := aturi.RecordKey().String()
	if rkey == "" {
		return ""
	}
	return fmt.Sprintf(postURLFormat, aturi.Authority().String(), rkey)
}
