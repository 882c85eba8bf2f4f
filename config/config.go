// Package config loads the runtime settings from an optional YAML file and
// STICKR_ prefixed environment variables.
package config

import (
	"io"
	"strings"

	"github.com/esimov/stickr"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. STICKR_LOG_LEVEL.
const EnvPrefix = "STICKR"

type Config struct {
	Assets AssetsConfig `mapstructure:"assets"`
	Editor EditorConfig `mapstructure:"editor"`
	Censor CensorConfig `mapstructure:"censor"`
	Export ExportConfig `mapstructure:"export"`
	Log    LogConfig    `mapstructure:"log"`
}

type AssetsConfig struct {
	Dir       string `mapstructure:"dir"`
	Catalog   string `mapstructure:"catalog"`
	CacheSize int    `mapstructure:"cache_size"`
}

type EditorConfig struct {
	// HistoryLimit bounds the undo stack, 0 keeps every snapshot.
	HistoryLimit int `mapstructure:"history_limit"`
}

type CensorConfig struct {
	BlurMethod string  `mapstructure:"blur_method"`
	BlurSigma  float64 `mapstructure:"blur_sigma"`
	BlurRadius int     `mapstructure:"blur_radius"`
	Watermark  string  `mapstructure:"watermark"`
	Margin     int     `mapstructure:"margin"`
}

type ExportConfig struct {
	JPEGQuality int `mapstructure:"jpeg_quality"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func setDefaults(v *viper.Viper) {
	def := stickr.DefaultCensorOptions()

	v.SetDefault("assets.dir", "assets")
	v.SetDefault("assets.catalog", "")
	v.SetDefault("assets.cache_size", 64)
	v.SetDefault("editor.history_limit", 0)
	v.SetDefault("censor.blur_method", string(def.Method))
	v.SetDefault("censor.blur_sigma", def.Sigma)
	v.SetDefault("censor.blur_radius", def.Radius)
	v.SetDefault("censor.watermark", def.Watermark)
	v.SetDefault("censor.margin", def.Margin)
	v.SetDefault("export.jpeg_quality", stickr.DefaultJPEGQuality)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig returns a viper instance holding the defaults, the YAML file at
// path when path is not empty, and the environment overrides.
func LoadConfig(path string) (*viper.Viper, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "cannot read the config file %s", path)
		}
	}
	return v, nil
}

// ReadConfig is like LoadConfig but reads the YAML document from r.
func ReadConfig(r io.Reader) (*viper.Viper, error) {
	v := newViper()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, errors.Wrap(err, "cannot parse the config")
	}
	return v, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ParseConfig decodes and validates the settings held by v.
func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unable to decode the config")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load is LoadConfig followed by ParseConfig.
func Load(path string) (*Config, error) {
	v, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(v)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch stickr.BlurMethod(c.Censor.BlurMethod) {
	case stickr.BlurGaussian, stickr.BlurStack:
	default:
		return errors.Errorf("censor.blur_method must be gaussian or stack, got %q", c.Censor.BlurMethod)
	}
	if c.Censor.BlurSigma <= 0 {
		return errors.New("censor.blur_sigma must be > 0")
	}
	if c.Censor.BlurRadius <= 0 {
		return errors.New("censor.blur_radius must be > 0")
	}
	if c.Censor.Margin < 0 {
		return errors.New("censor.margin must be >= 0")
	}
	if c.Editor.HistoryLimit < 0 {
		return errors.New("editor.history_limit must be >= 0")
	}
	if c.Export.JPEGQuality < 1 || c.Export.JPEGQuality > 100 {
		return errors.New("export.jpeg_quality must be between 1 and 100")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// CensorOptions converts the censor settings for the composition engine.
func (c *Config) CensorOptions() stickr.CensorOptions {
	opts := stickr.DefaultCensorOptions()
	opts.Method = stickr.BlurMethod(c.Censor.BlurMethod)
	opts.Sigma = c.Censor.BlurSigma
	opts.Radius = c.Censor.BlurRadius
	opts.Margin = c.Censor.Margin
	if c.Censor.Watermark != "" {
		opts.Watermark = c.Censor.Watermark
	}
	return opts
}

// NewLogger builds the logger described by the log settings, writing to w.
func (c *Config) NewLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		l.SetLevel(lvl)
	}
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
