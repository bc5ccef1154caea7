// Package config loads the ttyl settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fyne-io/ttyl"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"
)

// Config is the contents of the settings file.
type Config struct {
	Rows       int               `yaml:"rows"`
	Cols       int               `yaml:"cols"`
	Shell      string            `yaml:"shell,omitempty"`
	Args       []string          `yaml:"args,omitempty"`
	StartDir   string            `yaml:"start_dir,omitempty"`
	Encoding   string            `yaml:"encoding,omitempty"`
	Scrollback int               `yaml:"scrollback"`
	Debug      bool              `yaml:"debug,omitempty"`
	Palette    map[string]string `yaml:"palette,omitempty"` // color name or index to #rrggbb
}

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		Rows:       24,
		Cols:       80,
		Encoding:   "utf-8",
		Scrollback: 10000,
	}
}

// DefaultPath returns the default settings file path
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ttyl/config.yaml"
	}
	return filepath.Join(home, ".ttyl", "config.yaml")
}

// Load reads the settings at path, a missing file gives the defaults.
// Missing keys keep their default values.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the settings to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) expandEnvVars() {
	c.Shell = os.ExpandEnv(c.Shell)
	c.StartDir = os.ExpandEnv(c.StartDir)
	for i, a := range c.Args {
		c.Args[i] = os.ExpandEnv(a)
	}
}

// Validate checks the size, encoding and palette.
func (c *Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("%w: %dx%d", ttyl.ErrInvalidSize, c.Rows, c.Cols)
	}
	if c.Scrollback < 0 {
		return fmt.Errorf("scrollback must not be negative, got %d", c.Scrollback)
	}
	if c.Encoding != "" {
		if _, err := htmlindex.Get(c.Encoding); err != nil {
			return fmt.Errorf("%w: %q", ttyl.ErrUnknownEncoding, c.Encoding)
		}
	}
	_, err := c.ParsePalette()
	return err
}

var colorNames = map[string]ttyl.ColorCode{
	"black":          ttyl.Black,
	"red":            ttyl.Red,
	"green":          ttyl.Green,
	"yellow":         ttyl.Yellow,
	"blue":           ttyl.Blue,
	"magenta":        ttyl.Magenta,
	"cyan":           ttyl.Cyan,
	"white":          ttyl.White,
	"bright_black":   ttyl.BrightBlack,
	"bright_red":     ttyl.BrightRed,
	"bright_green":   ttyl.BrightGreen,
	"bright_yellow":  ttyl.BrightYellow,
	"bright_blue":    ttyl.BrightBlue,
	"bright_magenta": ttyl.BrightMagenta,
	"bright_cyan":    ttyl.BrightCyan,
	"bright_white":   ttyl.BrightWhite,
}

// ParsePalette converts the palette section into color overrides.
func (c *Config) ParsePalette() (ttyl.Palette, error) {
	if len(c.Palette) == 0 {
		return nil, nil
	}

	p := make(ttyl.Palette, len(c.Palette))
	for key, value := range c.Palette {
		code, err := parseColorKey(key)
		if err != nil {
			return nil, err
		}
		rgb, err := parseHexColor(value)
		if err != nil {
			return nil, fmt.Errorf("palette %s: %w", key, err)
		}
		p[code] = rgb
	}
	return p, nil
}

func parseColorKey(key string) (ttyl.ColorCode, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
	if code, ok := colorNames[name]; ok {
		return code, nil
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < 0 || n > 15 {
		return 0, fmt.Errorf("unknown palette color %q", key)
	}
	return ttyl.ColorCode(n), nil
}

func parseHexColor(s string) (ttyl.RGB, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok || len(hex) != 6 {
		return ttyl.RGB{}, fmt.Errorf("invalid color %q, expected #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return ttyl.RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return ttyl.RGB{
		R: float64(v>>16&0xff) / 255,
		G: float64(v>>8&0xff) / 255,
		B: float64(v&0xff) / 255,
	}, nil
}

// Options converts the settings into terminal options.
// The palette is assumed to be valid, as Load checks it.
func (c *Config) Options() []ttyl.Option {
	opts := []ttyl.Option{
		ttyl.WithSize(c.Rows, c.Cols),
		ttyl.WithScrollbackLimit(c.Scrollback),
		ttyl.WithDebug(c.Debug),
		ttyl.WithEncoding(c.Encoding),
	}
	if c.Shell != "" {
		opts = append(opts, ttyl.WithShell(c.Shell, c.Args...))
	}
	if c.StartDir != "" {
		opts = append(opts, ttyl.WithStartDir(c.StartDir))
	}
	if p, err := c.ParsePalette(); err == nil && p != nil {
		opts = append(opts, ttyl.WithPalette(p))
	}
	return opts
}
