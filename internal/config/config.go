package config

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"dario.cat/mergo"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"

	"github.com/vango-dev/webcell/internal/errors"
)

// FileNames are the configuration files looked up in a project directory,
// in order of preference.
var FileNames = []string{"webcell.yaml", "webcell.yml", "webcell.json"}

const (
	// DefaultPort is the default preview server port.
	DefaultPort = 3000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"
)

// Config is the complete webcell configuration.
type Config struct {
	// Preview configures the preview server.
	Preview PreviewConfig `json:"preview,omitempty"`

	// Render configures static markup output.
	Render RenderConfig `json:"render,omitempty"`

	// Publish configures uploads to object storage.
	Publish PublishConfig `json:"publish,omitempty"`

	// Metrics configures the prometheus collectors.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Log configures the logger.
	Log LogConfig `json:"log,omitempty"`

	path string
}

// PreviewConfig contains preview server settings.
type PreviewConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// Document is an HTML file loaded into the preview document on start.
	Document string `json:"document,omitempty"`
}

// RenderConfig contains serializer settings.
type RenderConfig struct {
	Pretty bool   `json:"pretty,omitempty"`
	Indent string `json:"indent,omitempty"`
	Lang   string `json:"lang,omitempty"`
	Title  string `json:"title,omitempty"`
}

// PublishConfig contains S3 settings.
type PublishConfig struct {
	Bucket string `json:"bucket,omitempty"`
	Region string `json:"region,omitempty"`
	Prefix string `json:"prefix,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3 compatible stores.
	Endpoint string `json:"endpoint,omitempty"`

	// ContentType is the content type of uploaded pages.
	ContentType string `json:"contentType,omitempty"`
}

// MetricsConfig contains prometheus settings.
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty"`
	Subsystem string `json:"subsystem,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`
}

// Default returns the configuration used for every field a file leaves
// empty.
func Default() *Config {
	return &Config{
		Preview: PreviewConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Render: RenderConfig{
			Indent: "  ",
			Lang:   "en",
		},
		Publish: PublishConfig{
			Region:      "us-east-1",
			ContentType: "text/html; charset=utf-8",
		},
		Metrics: MetricsConfig{
			Namespace: "webcell",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the first configuration file found in dir. A directory
// without one yields the defaults.
func Load(fs afero.Fs, dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return nil, errors.New("W040").Wrap(err)
		}
		if ok {
			return LoadFile(fs, path)
		}
	}
	return Default(), nil
}

// LoadFile reads configuration from path. YAML and JSON are both accepted.
func LoadFile(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.New("W040").
			WithDetail(path).
			Wrap(pkgerrors.Wrap(err, "read config"))
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("W040").
			WithDetail("Failed to parse " + filepath.Base(path)).
			WithSuggestion("Check that the file is valid YAML or JSON").
			Wrap(err)
	}
	if err := mergo.Merge(cfg, Default()); err != nil {
		return nil, errors.New("W040").Wrap(pkgerrors.Wrap(err, "apply defaults"))
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration as YAML.
func (c *Config) SaveTo(fs afero.Fs, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("W040").Wrap(err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.New("W040").Wrap(pkgerrors.Wrapf(err, "write %s", path))
	}
	c.path = path
	return nil
}

// Path returns the file the configuration was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.New("W040").
			WithDetailf("preview.port %d out of range", c.Preview.Port).
			WithSuggestion("Port must be between 0 and 65535")
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return errors.New("W040").
			WithDetailf("log.level %q", c.Log.Level).
			WithSuggestion("Use one of debug, info, warn or error")
	}
	return nil
}

// PreviewAddress returns the listen address of the preview server.
func (c *Config) PreviewAddress() string {
	return c.Preview.Host + ":" + strconv.Itoa(c.Preview.Port)
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	return levels[strings.ToLower(c.Log.Level)]
}
