package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      App      `mapstructure:"app"`
	Gemini   Gemini   `mapstructure:"gemini"`
	Naver    Naver    `mapstructure:"naver"`
	Images   Images   `mapstructure:"images"`
	Pipeline Pipeline `mapstructure:"pipeline"`
	Cache    Cache    `mapstructure:"cache"`
	Output   Output   `mapstructure:"output"`
	Publish  Publish  `mapstructure:"publish"`
	Server   Server   `mapstructure:"server"`
	Logging  Logging  `mapstructure:"logging"`
}

// App holds general application configuration
type App struct {
	Debug bool `mapstructure:"debug"`
}

// Gemini holds Google Gemini configuration
type Gemini struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Naver holds Naver news search configuration
type Naver struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	BaseURL      string `mapstructure:"base_url"`
	Display      int    `mapstructure:"display"`
	Sort         string `mapstructure:"sort"`
}

// Images holds image provider configuration
type Images struct {
	UnsplashKey string `mapstructure:"unsplash_key"`
	PixabayKey  string `mapstructure:"pixabay_key"`
	MarkerStyle string `mapstructure:"marker_style"`
	PerKeyword  int    `mapstructure:"per_keyword"`
}

// Pipeline holds generation run configuration
type Pipeline struct {
	Timeout string `mapstructure:"timeout"`
}

// Cache holds news search cache configuration
type Cache struct {
	RedisURL string `mapstructure:"redis_url"`
	NewsTTL  string `mapstructure:"news_ttl"`
}

// Output holds local output configuration
type Output struct {
	Directory string   `mapstructure:"directory"`
	Formats   []string `mapstructure:"formats"`
}

// Publish holds S3 publishing configuration
type Publish struct {
	S3Bucket     string `mapstructure:"s3_bucket"`
	S3Prefix     string `mapstructure:"s3_prefix"`
	Region       string `mapstructure:"region"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
}

// Server holds HTTP server configuration
type Server struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Logging holds logging configuration
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	// ErrMissingGeminiKey is reported when generation is requested without a key.
	ErrMissingGeminiKey = errors.New("gemini API key is not configured")

	// ErrMissingNaverCredentials is reported when news search has no credentials.
	ErrMissingNaverCredentials = errors.New("naver API credentials are not configured")
)

// Load reads configuration from the optional config file, .env, and the
// environment. Each call builds its own viper instance.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".newsblog")
		v.SetConfigType("yaml")
	}

	setDefaults(v)
	bindEnvironmentVariables(v)

	v.SetEnvPrefix("NEWSBLOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.debug", false)

	v.SetDefault("gemini.model", "gemini-2.5-flash")

	v.SetDefault("naver.display", 50)
	v.SetDefault("naver.sort", "date")

	v.SetDefault("images.marker_style", "html")
	v.SetDefault("images.per_keyword", 1)

	v.SetDefault("pipeline.timeout", "3m")

	v.SetDefault("cache.news_ttl", "10m")

	v.SetDefault("output.directory", "posts")
	v.SetDefault("output.formats", []string{"json", "markdown", "html"})

	v.SetDefault("publish.region", "ap-northeast-2")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func bindEnvironmentVariables(v *viper.Viper) {
	// Gemini API key - support multiple formats
	bindEnvKeys(v, "gemini.api_key", []string{
		"GEMINI_API_KEY",
		"GOOGLE_GEMINI_API_KEY",
		"GOOGLE_AI_API_KEY",
	})

	bindEnvKeys(v, "naver.client_id", []string{"NAVER_CLIENT_ID"})
	bindEnvKeys(v, "naver.client_secret", []string{"NAVER_CLIENT_SECRET"})

	bindEnvKeys(v, "images.unsplash_key", []string{
		"UNSPLASH_ACCESS_KEY",
		"UNSPLASH_API_KEY",
	})
	bindEnvKeys(v, "images.pixabay_key", []string{"PIXABAY_API_KEY"})

	bindEnvKeys(v, "cache.redis_url", []string{"REDIS_URL"})

	bindEnvKeys(v, "publish.s3_bucket", []string{"NEWSBLOG_S3_BUCKET"})
	bindEnvKeys(v, "publish.region", []string{"AWS_REGION", "AWS_DEFAULT_REGION"})

	bindEnvKeys(v, "app.debug", []string{"DEBUG", "NEWSBLOG_DEBUG"})
}

// bindEnvKeys binds the first found environment variable to a viper key
func bindEnvKeys(v *viper.Viper, viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if value := os.Getenv(envKey); value != "" {
			v.Set(viperKey, value)
			return
		}
	}
}

func postProcessConfig(config *Config) error {
	if config.Output.Directory != "" {
		config.Output.Directory = expandPath(config.Output.Directory)
	}

	durations := map[string]string{
		"pipeline.timeout": config.Pipeline.Timeout,
		"cache.news_ttl":   config.Cache.NewsTTL,
	}
	for key, duration := range durations {
		if duration == "" {
			continue
		}
		d, err := time.ParseDuration(duration)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %s", key, duration)
		}
		if d < 0 {
			return fmt.Errorf("negative duration for %s: %s", key, duration)
		}
	}

	switch strings.ToLower(config.Images.MarkerStyle) {
	case "", "html", "markdown", "md":
	default:
		return fmt.Errorf("unknown images.marker_style %q (supported: html, markdown)", config.Images.MarkerStyle)
	}

	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", config.Server.Port)
	}
	return nil
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// ValidateForSearch reports missing Naver credentials.
func (c *Config) ValidateForSearch() error {
	var missing []string
	if c.Naver.ClientID == "" {
		missing = append(missing, "Naver client ID is required. Set NAVER_CLIENT_ID or naver.client_id in the config file.")
	}
	if c.Naver.ClientSecret == "" {
		missing = append(missing, "Naver client secret is required. Set NAVER_CLIENT_SECRET or naver.client_secret in the config file.")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrMissingNaverCredentials, strings.Join(missing, "\n- "))
	}
	return nil
}

// ValidateForGeneration checks everything a full generation run needs.
func (c *Config) ValidateForGeneration() error {
	var errs []error
	if c.Gemini.APIKey == "" {
		errs = append(errs, fmt.Errorf("%w. Set GEMINI_API_KEY or gemini.api_key in the config file.\nGet your API key from: https://aistudio.google.com/app/apikey", ErrMissingGeminiKey))
	}
	if err := c.ValidateForSearch(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %w", errors.Join(errs...))
	}
	return nil
}

// PipelineTimeout returns the parsed run timeout.
func (c *Config) PipelineTimeout() time.Duration {
	return parseDuration(c.Pipeline.Timeout, 3*time.Minute)
}

// NewsTTL returns how long search results stay cached.
func (c *Config) NewsTTL() time.Duration {
	return parseDuration(c.Cache.NewsTTL, 10*time.Minute)
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
