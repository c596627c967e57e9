package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/ui-locator-mcp/internal/feedback"
	"github.com/ironsheep/ui-locator-mcp/internal/geometry"
	"github.com/ironsheep/ui-locator-mcp/internal/imaging"
	"github.com/ironsheep/ui-locator-mcp/internal/locate"
	"github.com/ironsheep/ui-locator-mcp/internal/ocr"
	"github.com/ironsheep/ui-locator-mcp/internal/vision"
)

// EnvPrefix prefixes every environment override, e.g. UI_LOCATOR_VISION_MODEL.
const EnvPrefix = "UI_LOCATOR"

// Config is the complete application configuration.
type Config struct {
	Vision   VisionConfig    `mapstructure:"vision" yaml:"vision"`
	OCR      OCRConfig       `mapstructure:"ocr" yaml:"ocr"`
	Screen   ScreenConfig    `mapstructure:"screen" yaml:"screen"`
	Locate   locate.Options  `mapstructure:"locate" yaml:"locate"`
	Feedback feedback.Config `mapstructure:"feedback" yaml:"feedback"`
	Log      LogConfig       `mapstructure:"log" yaml:"log"`
}

// VisionConfig selects the vision model endpoint.
type VisionConfig struct {
	// BaseURL points at any OpenAI-compatible endpoint; empty uses OpenAI.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// APIKey may reference an environment variable as ${NAME}.
	APIKey         string  `mapstructure:"api_key" yaml:"api_key"`
	Provider       string  `mapstructure:"provider" yaml:"provider"`
	Model          string  `mapstructure:"model" yaml:"model"`
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries     int     `mapstructure:"max_retries" yaml:"max_retries"`
	StrictSchema   bool    `mapstructure:"strict_schema" yaml:"strict_schema"`
}

// OCRConfig configures the Tesseract extractor.
type OCRConfig struct {
	Enabled        bool    `mapstructure:"enabled" yaml:"enabled"`
	Language       string  `mapstructure:"language" yaml:"language"`
	TessdataPrefix string  `mapstructure:"tessdata_prefix" yaml:"tessdata_prefix"`
	MinConfidence  float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
	Preprocess     bool    `mapstructure:"preprocess" yaml:"preprocess"`
}

// ScreenConfig describes the display. The defaults are used whenever the
// display cannot be queried.
type ScreenConfig struct {
	// Live enables querying the OS for the screen, focused window and captures.
	Live bool `mapstructure:"live" yaml:"live"`
	// Display names the X11 display; empty uses $DISPLAY.
	Display       string  `mapstructure:"display" yaml:"display"`
	DefaultWidth  int     `mapstructure:"default_width" yaml:"default_width"`
	DefaultHeight int     `mapstructure:"default_height" yaml:"default_height"`
	DefaultScale  float64 `mapstructure:"default_scale" yaml:"default_scale"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	model := vision.DefaultModelConfig()
	return &Config{
		Vision: VisionConfig{
			APIKey:         "${OPENAI_API_KEY}",
			Provider:       model.Provider,
			Model:          model.Model,
			Temperature:    model.Temperature,
			MaxTokens:      model.MaxTokens,
			TimeoutSeconds: 60,
			MaxRetries:     3,
		},
		OCR: OCRConfig{
			Enabled:       true,
			Language:      "eng",
			MinConfidence: ocr.DefaultMinConfidence,
			Preprocess:    true,
		},
		Screen: ScreenConfig{
			Live:          true,
			DefaultWidth:  1920,
			DefaultHeight: 1080,
			DefaultScale:  1.0,
		},
		Locate: locate.DefaultOptions(),
		Feedback: feedback.Config{
			Type: feedback.StoreJSONL,
			Path: feedback.DefaultPath(feedback.StoreJSONL),
		},
		Log: LogConfig{Level: "info"},
	}
}

// defaultValues flattens DefaultConfig into dotted viper keys. Every leaf
// needs a default so that AutomaticEnv can override it.
func defaultValues() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"vision.base_url":        d.Vision.BaseURL,
		"vision.api_key":         d.Vision.APIKey,
		"vision.provider":        d.Vision.Provider,
		"vision.model":           d.Vision.Model,
		"vision.temperature":     d.Vision.Temperature,
		"vision.max_tokens":      d.Vision.MaxTokens,
		"vision.timeout_seconds": d.Vision.TimeoutSeconds,
		"vision.max_retries":     d.Vision.MaxRetries,
		"vision.strict_schema":   d.Vision.StrictSchema,
		"ocr.enabled":            d.OCR.Enabled,
		"ocr.language":           d.OCR.Language,
		"ocr.tessdata_prefix":    d.OCR.TessdataPrefix,
		"ocr.min_confidence":     d.OCR.MinConfidence,
		"ocr.preprocess":         d.OCR.Preprocess,
		"screen.live":            d.Screen.Live,
		"screen.display":         d.Screen.Display,
		"screen.default_width":   d.Screen.DefaultWidth,
		"screen.default_height":  d.Screen.DefaultHeight,
		"screen.default_scale":   d.Screen.DefaultScale,
		"locate.max_elements":    d.Locate.MaxElements,
		"locate.region_size":     d.Locate.RegionSize,
		"locate.max_correction":  d.Locate.MaxCorrection,
		"locate.max_image_width": d.Locate.MaxImageWidth,
		"locate.marker_color":    d.Locate.MarkerColor,
		"feedback.type":          d.Feedback.Type,
		"feedback.path":          d.Feedback.Path,
		"log.level":              d.Log.Level,
	}
}

// Manager loads configuration from defaults, an optional YAML file and
// UI_LOCATOR_* environment variables, in increasing precedence.
type Manager struct {
	mu     sync.RWMutex
	v      *viper.Viper
	config *Config
}

// NewManager creates a config manager and loads the configuration. An empty
// cfgFile searches for config.yaml in the working directory and in
// $HOME/.ui-locator; a missing file is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	m := &Manager{v: viper.New()}

	if err := m.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := m.load()
	if err != nil {
		return nil, err
	}
	m.config = cfg
	return m, nil
}

func (m *Manager) initViper(cfgFile string) error {
	v := m.v
	for key, value := range defaultValues() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.ui-locator")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func (m *Manager) load() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// ConfigFile returns the file the configuration was read from, if any.
func (m *Manager) ConfigFile() string {
	return m.v.ConfigFileUsed()
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	switch c.Feedback.Type {
	case feedback.StoreJSONL, feedback.StoreSQLite, feedback.StoreMemory:
	default:
		return fmt.Errorf("invalid feedback.type %q (want jsonl, sqlite or memory)", c.Feedback.Type)
	}
	if c.Vision.Temperature < 0 || c.Vision.Temperature > 2 {
		return fmt.Errorf("invalid vision.temperature %v (want 0-2)", c.Vision.Temperature)
	}
	if c.OCR.MinConfidence < 0 || c.OCR.MinConfidence > 100 {
		return fmt.Errorf("invalid ocr.min_confidence %v (want 0-100)", c.OCR.MinConfidence)
	}
	if c.Locate.MarkerColor != "" {
		if _, err := imaging.ParseHexColor(c.Locate.MarkerColor); err != nil {
			return fmt.Errorf("invalid locate.marker_color: %w", err)
		}
	}
	return nil
}

// ModelConfig returns the default model for resolutions.
func (c VisionConfig) ModelConfig() vision.ModelConfig {
	return vision.ModelConfig{
		Provider:    c.Provider,
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}.WithDefaults()
}

// ClientConfig returns the OpenAI client settings with ${ENV_VAR}
// references in the API key resolved.
func (c VisionConfig) ClientConfig() vision.Config {
	return vision.Config{
		APIKey:       ResolveEnvVars(c.APIKey),
		BaseURL:      c.BaseURL,
		StrictSchema: c.StrictSchema,
		Timeout:      time.Duration(c.TimeoutSeconds) * time.Second,
		MaxRetries:   c.MaxRetries,
	}
}

// Options returns the extractor options.
func (c OCRConfig) Options() ocr.Options {
	return ocr.Options{
		Language:       c.Language,
		TessdataPrefix: c.TessdataPrefix,
		MinConfidence:  c.MinConfidence,
		Preprocess:     c.Preprocess,
	}
}

// Fallback returns the screen used when the display cannot be queried.
func (c ScreenConfig) Fallback() geometry.ScreenInfo {
	return geometry.DefaultScreenInfo(c.DefaultWidth, c.DefaultHeight, c.DefaultScale)
}

var envRefPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envRefPattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := gotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// WriteDefault writes the default configuration to path. An existing file is
// only replaced when overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# ui-locator configuration
# Values can be overridden with UI_LOCATOR_<SECTION>_<KEY> environment variables,
# e.g. UI_LOCATOR_VISION_MODEL=gpt-4o. The API key uses ${ENV_VAR} syntax.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
