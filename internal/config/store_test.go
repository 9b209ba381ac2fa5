package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blacktop/posterino/internal/posterino"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const filledConfig = `
[twitter]
consumer_key = "ck"
consumer_secret = "cs"
access_token = "at"
access_token_secret = "ats"

[mastodon]
instance_url = "https://example.social/"
access_token = "tok"
`

func newTestStore(t *testing.T, contents string, env map[string]string) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "posterino", "config.toml")
	if contents != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	}

	store, err := NewStore(path)
	require.NoError(t, err)
	store.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return store
}

func TestLoadBootstrapsTemplate(t *testing.T) {
	// Arrange
	store := newTestStore(t, "", nil)

	// Act
	_, err := store.Load(posterino.Twitter)

	// Assert
	var notFound posterino.ConfigNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, store.Path(), notFound.Path)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, template, string(data))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadUneditedTemplateKeepsFailing(t *testing.T) {
	store := newTestStore(t, "", nil)

	_, err := store.Load(posterino.Mastodon)
	require.ErrorAs(t, err, new(posterino.ConfigNotFoundError))

	for range 2 {
		_, err = store.Load(posterino.Mastodon)
		var missing posterino.MissingCredentialError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"access_token", "instance_url"}, missing.Keys)
		assert.Equal(t, store.Path(), missing.Path)
	}

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, template, string(data))
}

func TestLoadSections(t *testing.T) {
	store := newTestStore(t, filledConfig, nil)

	creds, err := store.Load(posterino.Twitter)
	require.NoError(t, err)
	assert.Equal(t, posterino.Twitter, creds.Platform())
	assert.Equal(t, "ck", creds.Get("consumer_key"))
	assert.Equal(t, "ats", creds.Get("access_token_secret"))

	creds, err = store.Load(posterino.Mastodon)
	require.NoError(t, err)
	assert.Equal(t, "https://example.social/", creds.Get("instance_url"))
}

func TestLoadMissingSection(t *testing.T) {
	store := newTestStore(t, filledConfig, nil)

	_, err := store.Load(posterino.Bluesky)
	var missing posterino.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "bluesky", missing.Provider)
	assert.Equal(t, []string{"identifier", "password", "instance_url"}, missing.Keys)
}

func TestLoadMissingKey(t *testing.T) {
	store := newTestStore(t, `
[twitter]
consumer_key = "ck"
consumer_secret = "cs"
access_token = "at"
`, nil)

	_, err := store.Load(posterino.Twitter)
	var missing posterino.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"access_token_secret"}, missing.Keys)
}

func TestLoadEnvironmentOverlay(t *testing.T) {
	store := newTestStore(t, filledConfig, map[string]string{
		"POSTERINO_MASTODON_ACCESS_TOKEN": "from-env",
		"POSTERINO_BLUESKY_IDENTIFIER":    "me.bsky.social",
		"POSTERINO_BLUESKY_PASSWORD":      "pw",
		"POSTERINO_BLUESKY_INSTANCE_URL":  "https://bsky.social",
		"POSTERINO_TWITTER_CONSUMER_KEY":  "  ",
	})

	creds, err := store.Load(posterino.Mastodon)
	require.NoError(t, err)
	assert.Equal(t, "from-env", creds.Get("access_token"))

	creds, err = store.Load(posterino.Bluesky)
	require.NoError(t, err)
	assert.Equal(t, "me.bsky.social", creds.Get("identifier"))

	creds, err = store.Load(posterino.Twitter)
	require.NoError(t, err)
	assert.Equal(t, "ck", creds.Get("consumer_key"), "blank env values are ignored")
}

func TestLoadMalformedFile(t *testing.T) {
	store := newTestStore(t, "[twitter\nconsumer_key = ", nil)

	_, err := store.Load(posterino.Twitter)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadUnsupportedPlatform(t *testing.T) {
	store := newTestStore(t, filledConfig, nil)

	_, err := store.Load("friendster")
	require.ErrorAs(t, err, new(posterino.UnsupportedPlatformError))
}

func TestInit(t *testing.T) {
	store := newTestStore(t, "", nil)

	created, err := store.Init()
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, os.WriteFile(store.Path(), []byte(filledConfig), 0o600))
	created, err = store.Init()
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, filledConfig, string(data), "existing config must not be overwritten")
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")
	t.Setenv("AppData", "/tmp/appdata")

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "config.toml", filepath.Base(path))
	assert.Equal(t, "posterino", filepath.Base(filepath.Dir(path)))
}

func TestTemplateParses(t *testing.T) {
	store := newTestStore(t, template, nil)

	sections, err := store.read()
	require.NoError(t, err)
	for _, p := range posterino.Platforms {
		for _, key := range posterino.RequiredKeys(p) {
			assert.Contains(t, sections[string(p)], key, "%s.%s", p, key)
		}
	}
}
