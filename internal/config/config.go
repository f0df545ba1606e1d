package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/sokinpui/clipply/internal/source"
)

const (
	appDirName     = "clipply"
	configFileName = "config.yaml"

	// PathPlaceholder is replaced by the workspace-relative file path.
	PathPlaceholder = "{path}"

	DefaultCommitMessageTemplate = "Automated commit: Update " + PathPlaceholder
)

// Config holds defaults read from the config file. Flags override them.
type Config struct {
	ClipboardAttempts     int           `yaml:"clipboard_attempts"`
	ClipboardRetryDelay   time.Duration `yaml:"clipboard_retry_delay"`
	CommitMessageTemplate string        `yaml:"commit_message_template"`
	Deny                  []string      `yaml:"deny"`
	Reveal                *bool         `yaml:"reveal"`
	LogFile               string        `yaml:"log_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	reveal := true
	return &Config{
		ClipboardAttempts:     source.DefaultAttempts,
		ClipboardRetryDelay:   source.DefaultRetryDelay,
		CommitMessageTemplate: DefaultCommitMessageTemplate,
		Reveal:                &reveal,
	}
}

// DefaultPath returns the config location under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// Load reads the config at path over the defaults. An empty path means the
// default location, where a missing file is fine; a missing explicit path
// is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, errors.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.ClipboardAttempts < 1 {
		return errors.Errorf("clipboard_attempts must be at least 1, got %d", c.ClipboardAttempts)
	}
	if c.ClipboardRetryDelay < 0 {
		return errors.Errorf("clipboard_retry_delay must not be negative, got %s", c.ClipboardRetryDelay)
	}
	if strings.TrimSpace(c.CommitMessageTemplate) == "" {
		return errors.New("commit_message_template must not be empty")
	}
	return nil
}

// CommitMessage renders the commit message template for relPath.
func (c *Config) CommitMessage(relPath string) string {
	return strings.ReplaceAll(c.CommitMessageTemplate, PathPlaceholder, filepath.ToSlash(relPath))
}

// RevealEnabled reports whether files should be opened after writing.
func (c *Config) RevealEnabled() bool {
	return c.Reveal == nil || *c.Reveal
}
