package config

import (
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
	ModeStatic Mode = "static"
)

type Config struct {
	Token       string `toml:"token" mapstructure:"token"`
	Host        string `toml:"host" mapstructure:"host"`
	Port        string `toml:"port" mapstructure:"port"`
	LogLevel    string `toml:"log_level" mapstructure:"log_level"`
	LogFormat   string `toml:"log_format" mapstructure:"log_format"`
	MaxUploadMB int64  `toml:"max_upload_mb" mapstructure:"max_upload_mb"`

	// Offline serves every prediction from the sample catalog.
	Offline   bool   `toml:"offline" mapstructure:"offline"`
	LocalURL  string `toml:"local_url" mapstructure:"local_url"`
	RemoteURL string `toml:"remote_url" mapstructure:"remote_url"`
	// Timeout in seconds for one backend call.
	Timeout int `toml:"timeout" mapstructure:"timeout"`

	SampleDir     string `toml:"sample_dir" mapstructure:"sample_dir"`
	CatalogFile   string `toml:"catalog_file" mapstructure:"catalog_file"`
	SampleDelayMs int    `toml:"sample_delay_ms" mapstructure:"sample_delay_ms"`
	PreviewSize   int    `toml:"preview_size" mapstructure:"preview_size"`
}

// Mode reports which prediction strategy the configuration selects.
func (c Config) Mode() Mode {
	switch {
	case c.Offline:
		return ModeStatic
	case c.RemoteURL != "":
		return ModeRemote
	default:
		return ModeLocal
	}
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c Config) SampleDelay() time.Duration {
	return time.Duration(c.SampleDelayMs) * time.Millisecond
}

func Default() Config {
	return Config{
		Token:         "",
		Host:          "0.0.0.0",
		Port:          "8000",
		LogLevel:      "info",
		LogFormat:     "text",
		MaxUploadMB:   10,
		LocalURL:      "http://127.0.0.1:5000",
		Timeout:       60,
		SampleDir:     ".",
		SampleDelayMs: 1000,
		PreviewSize:   320,
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, err
	}
	return c, nil
}

var (
	cfg      = Default()
	path     = "config.toml"
	loadOnce sync.Once
)

// SetPath changes the file C reads. It has no effect after the first call to C.
func SetPath(p string) {
	path = p
}

func C() Config {
	loadOnce.Do(func() {
		c, err := Load(path)
		if err != nil {
			panic(err)
		}
		cfg = c
	})
	return cfg
}
