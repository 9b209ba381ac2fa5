package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/blacktop/posterino/internal/logutil"
	"github.com/blacktop/posterino/internal/posterino"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	appName  = "posterino"
	fileName = "config.toml"
)

const template = `# posterino credentials
#
# Fill in the sections for the platforms you post to. Values can also be
# overridden with POSTERINO_<PLATFORM>_<KEY> environment variables.

[twitter]
consumer_key = "your_twitter_consumer_key"
consumer_secret = "your_twitter_consumer_secret"
access_token = "your_twitter_access_token"
access_token_secret = "your_twitter_access_token_secret"

[mastodon]
instance_url = "your_mastodon_instance_url"
access_token = "your_mastodon_access_token"

[bluesky]
instance_url = "https://bsky.social"
identifier = "your_bluesky_handle"
password = "your_bluesky_app_password"
`

// DefaultPath returns <user config dir>/posterino/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, appName, fileName), nil
}

// Store loads per-platform credentials from a TOML file.
type Store struct {
	path      string
	lookupEnv func(string) (string, bool)
}

// NewStore returns a Store reading path, or DefaultPath when path is empty.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	return &Store{path: path, lookupEnv: os.LookupEnv}, nil
}

// Path returns the config file location.
func (s *Store) Path() string { return s.path }

// Init writes the template config if no file exists yet. It reports whether
// a file was created.
func (s *Store) Init() (bool, error) {
	err := s.writeTemplate()
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Load returns the complete credential set for platform.
//
// A missing file is replaced by the template and reported as
// ConfigNotFoundError. A missing section, key or placeholder value is
// reported as MissingCredentialError.
func (s *Store) Load(platform posterino.Platform) (posterino.Credentials, error) {
	if _, err := posterino.ParsePlatform(string(platform)); err != nil {
		return posterino.Credentials{}, err
	}

	sections, err := s.read()
	if err != nil {
		return posterino.Credentials{}, err
	}

	values := make(map[string]string)
	for k, v := range sections[string(platform)] {
		values[k] = v
	}
	for _, key := range posterino.RequiredKeys(platform) {
		if v, ok := s.lookupEnv(envKey(platform, key)); ok && strings.TrimSpace(v) != "" {
			logutil.Debugf("%s: %s taken from environment", platform, key)
			values[key] = v
		}
	}

	creds := posterino.NewCredentials(platform, values)
	if err := creds.Validate(); err != nil {
		var missing posterino.MissingCredentialError
		if errors.As(err, &missing) {
			missing.Path = s.path
			return posterino.Credentials{}, missing
		}
		return posterino.Credentials{}, err
	}
	return creds, nil
}

func (s *Store) read() (map[string]map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		switch err := s.writeTemplate(); {
		case err == nil:
			logutil.Debugf("wrote config template: %s", s.path)
		case !errors.Is(err, fs.ErrExist):
			return nil, err
		}
		return nil, posterino.ConfigNotFoundError{Path: s.path}
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var sections map[string]map[string]string
	if err := toml.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", s.path, err)
	}
	return sections, nil
}

func (s *Store) writeTemplate() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(template); err != nil {
		f.Close()
		return fmt.Errorf("write config template: %w", err)
	}
	return f.Close()
}

func envKey(platform posterino.Platform, key string) string {
	return envPrefix + strings.ToUpper(string(platform)+"_"+key)
}
