package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/esimov/stickr"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	assert := assert.New(t)

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal("assets", c.Assets.Dir)
	assert.Equal(64, c.Assets.CacheSize)
	assert.Equal(0, c.Editor.HistoryLimit)
	assert.Equal("gaussian", c.Censor.BlurMethod)
	assert.Equal(20.0, c.Censor.BlurSigma)
	assert.Equal(stickr.DefaultWatermark, c.Censor.Watermark)
	assert.Equal(10, c.Censor.Margin)
	assert.Equal(90, c.Export.JPEGQuality)
	assert.Equal("info", c.Log.Level)
	assert.Equal("text", c.Log.Format)

	assert.Equal(stickr.DefaultCensorOptions(), c.CensorOptions())
}

func TestConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stickr.yaml")
	doc := `
assets:
  dir: /srv/stickers
  cache_size: 8
editor:
  history_limit: 25
censor:
  blur_method: stack
  blur_radius: 12
  margin: 0
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/stickers", c.Assets.Dir)
	assert.Equal(t, 8, c.Assets.CacheSize)
	assert.Equal(t, 25, c.Editor.HistoryLimit)

	opts := c.CensorOptions()
	assert.Equal(t, stickr.BlurStack, opts.Method)
	assert.Equal(t, 12, opts.Radius)
	assert.Equal(t, 0, opts.Margin)

	var buf bytes.Buffer
	l := c.NewLogger(&buf)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	l.Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STICKR_CENSOR_WATERMARK", "Shot on Stickr")
	t.Setenv("STICKR_EXPORT_JPEG_QUALITY", "75")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Shot on Stickr", c.Censor.Watermark)
	assert.Equal(t, 75, c.Export.JPEGQuality)
}

func TestConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"blur method":   "censor: {blur_method: box}",
		"sigma":         "censor: {blur_sigma: -1}",
		"margin":        "censor: {margin: -4}",
		"history limit": "editor: {history_limit: -1}",
		"jpeg quality":  "export: {jpeg_quality: 101}",
		"log level":     "log: {level: loud}",
		"log format":    "log: {format: xml}",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := ReadConfig(strings.NewReader(doc))
			require.NoError(t, err)
			_, err = ParseConfig(v)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
