// Package config loads policydoc settings from defaults, an optional TOML
// file and POLICYDOC_* environment variables, in that order.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/goliatone/go-policydoc/export"
)

const (
	EngineChromium   = "chromium"
	EnginePlaywright = "playwright"
)

// Config holds every policydoc setting.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Export     ExportConfig     `toml:"export"`
	Browser    BrowserConfig    `toml:"browser"`
	Typography TypographyConfig `toml:"typography"`
	Log        LogConfig        `toml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

// ExportConfig holds pipeline settings.
type ExportConfig struct {
	Filename      string   `toml:"filename"`
	Scale         float64  `toml:"scale"`
	DPI           float64  `toml:"dpi"`
	ReadyFallback Duration `toml:"ready_fallback"`
	FontTimeout   Duration `toml:"font_timeout"`
	SettleDelay   Duration `toml:"settle_delay"`
	Compress      bool     `toml:"compress"`
	// MaxRasterWidth downscales captures wider than this before embedding.
	// Zero keeps the full resolution.
	MaxRasterWidth int `toml:"max_raster_width"`
}

// BrowserConfig selects and tunes the rasterization engine.
type BrowserConfig struct {
	Engine              string   `toml:"engine"`
	Path                string   `toml:"path"`
	Headless            bool     `toml:"headless"`
	Args                []string `toml:"args"`
	Timeout             Duration `toml:"timeout"`
	BlockExternalAssets bool     `toml:"block_external_assets"`
	InstallPlaywright   bool     `toml:"install_playwright"`
}

// TypographyConfig mirrors export.Typography.
type TypographyConfig struct {
	FontFamily string  `toml:"font_family"`
	FontCSSURL string  `toml:"font_css_url"`
	FontSizePx int     `toml:"font_size_px"`
	LineHeight float64 `toml:"line_height"`
	Padding    string  `toml:"padding"`
	Color      string  `toml:"color"`
	Background string  `toml:"background"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration decodes TOML strings such as "500ms".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	typo := export.DefaultTypography()
	return Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
		},
		Export: ExportConfig{
			Filename:      export.DefaultFilename,
			Scale:         export.DefaultCaptureScale,
			DPI:           export.ReferenceDPI,
			ReadyFallback: Duration{export.DefaultReadyFallback},
			FontTimeout:   Duration{export.DefaultFontTimeout},
			SettleDelay:   Duration{export.DefaultSettleDelay},
			Compress:      true,
		},
		Browser: BrowserConfig{
			Engine:   EngineChromium,
			Headless: true,
			Timeout:  Duration{30 * time.Second},
		},
		Typography: TypographyConfig{
			FontFamily: typo.FontFamily,
			FontCSSURL: typo.FontCSSURL,
			FontSizePx: typo.FontSizePx,
			LineHeight: typo.LineHeight,
			Padding:    typo.Padding,
			Color:      typo.Color,
			Background: typo.Background,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load returns the defaults overlaid with the TOML file at path (when set)
// and the process environment.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, errors.CategoryExternal, "read config file failed").
				WithTextCode("CONFIG_READ")
		}
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return Config{}, errors.Wrap(err, errors.CategoryValidation, "config file invalid TOML").
				WithTextCode("CONFIG_INVALID")
		}
	}
	ApplyEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from POLICYDOC_* variables read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if cfg == nil || getenv == nil {
		return
	}
	if host := getenv("POLICYDOC_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := getenv("POLICYDOC_PORT"); port != "" {
		cfg.Server.Port = port
	}
	if filename := getenv("POLICYDOC_FILENAME"); filename != "" {
		cfg.Export.Filename = filename
	}
	if scale := getenv("POLICYDOC_SCALE"); scale != "" {
		if parsed, err := strconv.ParseFloat(scale, 64); err == nil && parsed > 0 {
			cfg.Export.Scale = parsed
		}
	}
	if settle := getenv("POLICYDOC_SETTLE_DELAY"); settle != "" {
		if parsed, err := time.ParseDuration(settle); err == nil {
			cfg.Export.SettleDelay = Duration{parsed}
		}
	}
	if fonts := getenv("POLICYDOC_FONT_TIMEOUT"); fonts != "" {
		if parsed, err := time.ParseDuration(fonts); err == nil {
			cfg.Export.FontTimeout = Duration{parsed}
		}
	}
	if maxWidth := getenv("POLICYDOC_MAX_RASTER_WIDTH"); maxWidth != "" {
		if parsed, err := strconv.Atoi(maxWidth); err == nil && parsed >= 0 {
			cfg.Export.MaxRasterWidth = parsed
		}
	}

	if engine := getenv("POLICYDOC_ENGINE"); engine != "" {
		cfg.Browser.Engine = strings.ToLower(strings.TrimSpace(engine))
	}
	if path := getenv("POLICYDOC_BROWSER_PATH"); path != "" {
		cfg.Browser.Path = path
	} else if path := getenv("CHROME_BIN"); path != "" && cfg.Browser.Path == "" {
		cfg.Browser.Path = path
	}
	if headless := getenv("POLICYDOC_HEADLESS"); headless != "" {
		if parsed, err := strconv.ParseBool(headless); err == nil {
			cfg.Browser.Headless = parsed
		}
	}
	if args := getenv("POLICYDOC_BROWSER_ARGS"); args != "" {
		cfg.Browser.Args = SplitCSV(args)
	}
	if timeout := getenv("POLICYDOC_BROWSER_TIMEOUT"); timeout != "" {
		if parsed, err := time.ParseDuration(timeout); err == nil && parsed > 0 {
			cfg.Browser.Timeout = Duration{parsed}
		}
	}
	if block := getenv("POLICYDOC_BLOCK_EXTERNAL_ASSETS"); block != "" {
		if parsed, err := strconv.ParseBool(block); err == nil {
			cfg.Browser.BlockExternalAssets = parsed
		}
	}

	if family := getenv("POLICYDOC_FONT_FAMILY"); family != "" {
		cfg.Typography.FontFamily = family
	}
	if fontURL, ok := lookup(getenv, "POLICYDOC_FONT_CSS_URL"); ok {
		cfg.Typography.FontCSSURL = fontURL
	}
	if level := getenv("POLICYDOC_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
}

// Validate reports settings the pipeline cannot run with.
func (c Config) Validate() error {
	switch c.Browser.Engine {
	case EngineChromium, EnginePlaywright:
	default:
		return errors.New("unknown browser engine "+strconv.Quote(c.Browser.Engine), errors.CategoryValidation).
			WithTextCode("CONFIG_ENGINE")
	}
	if c.Export.Scale <= 0 {
		return errors.New("export scale must be positive", errors.CategoryValidation).
			WithTextCode("CONFIG_SCALE")
	}
	return nil
}

// TypographySettings converts the typography section for the pipeline.
func (c Config) TypographySettings() export.Typography {
	t := c.Typography
	return export.Typography{
		FontFamily: t.FontFamily,
		FontCSSURL: t.FontCSSURL,
		FontSizePx: t.FontSizePx,
		LineHeight: t.LineHeight,
		Padding:    t.Padding,
		Color:      t.Color,
		Background: t.Background,
	}
}

// Addr returns host:port.
func (c Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// SplitCSV splits a comma separated list, dropping empty entries.
func SplitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// "none" clears the font stylesheet so offline hosts skip the fetch.
func lookup(getenv func(string) string, key string) (string, bool) {
	value := getenv(key)
	if value == "" {
		return "", false
	}
	if strings.EqualFold(value, "none") {
		return "", true
	}
	return value, true
}
