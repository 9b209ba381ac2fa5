package mastodon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blacktop/posterino/internal/posterino"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method     string
	path       string
	auth       string
	status     string
	visibility string
}

func newTestServer(t *testing.T, code int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()

	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		_ = r.ParseForm()
		captured.status = r.PostForm.Get("status")
		captured.visibility = r.PostForm.Get("visibility")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newClient(t *testing.T, instanceURL string) *Client {
	t.Helper()

	poster, err := New(posterino.NewCredentials(posterino.Mastodon, map[string]string{
		"access_token": "secret-token",
		"instance_url": instanceURL,
	}), posterino.ClientOptions{})
	require.NoError(t, err)
	return poster.(*Client)
}

func TestPostPublicStatus(t *testing.T) {
	srv, captured := newTestServer(t, http.StatusOK, `{"id":"109","url":"https://example.social/@me/109"}`)
	client := newClient(t, srv.URL)

	receipt, err := client.Post(context.Background(), posterino.Request{Message: "first\nsecond"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/api/v1/statuses", captured.path)
	assert.Equal(t, "Bearer secret-token", captured.auth)
	assert.Equal(t, "first\nsecond", captured.status)
	assert.Equal(t, "public", captured.visibility)
	assert.Equal(t, posterino.Receipt{ID: "109", URL: "https://example.social/@me/109"}, receipt)
}

func TestTrailingSlashProducesSameEndpoint(t *testing.T) {
	for _, suffix := range []string{"", "/", "//"} {
		t.Run("suffix="+suffix, func(t *testing.T) {
			srv, captured := newTestServer(t, http.StatusOK, `{"id":"1"}`)
			client := newClient(t, srv.URL+suffix)
			assert.Equal(t, srv.URL, client.server)

			_, err := client.Post(context.Background(), posterino.Request{Message: "hi"})
			require.NoError(t, err)
			assert.Equal(t, "/api/v1/statuses", captured.path)
		})
	}

	assert.Equal(t,
		newClient(t, "https://example.social/").server,
		newClient(t, "https://example.social").server,
	)
}

func TestPostNon2xxIsError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnprocessableEntity, `{"error":"Validation failed: Text can't be blank"}`)
	client := newClient(t, srv.URL)

	_, err := client.Post(context.Background(), posterino.Request{Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post status")
}

func TestPostTransportError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	client := newClient(t, srv.URL)
	srv.Close()

	_, err := client.Post(context.Background(), posterino.Request{Message: "hi"})
	require.Error(t, err)
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{name: "missing token", values: map[string]string{"instance_url": "https://example.social"}},
		{name: "missing instance", values: map[string]string{"access_token": "tok"}},
		{name: "no scheme", values: map[string]string{"access_token": "tok", "instance_url": "example.social"}},
		{name: "placeholder", values: map[string]string{"access_token": "tok", "instance_url": "your_mastodon_instance_url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(posterino.NewCredentials(posterino.Mastodon, tt.values), posterino.ClientOptions{})
			require.Error(t, err)
		})
	}
}
