package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Paths       PathsConfig       `yaml:"paths"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	Fetcher     FetcherConfig     `yaml:"fetcher"`
	Registry    RegistryConfig    `yaml:"registry"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type PathsConfig struct {
	Uploads string `yaml:"uploads"`
	Outputs string `yaml:"outputs"`
	Temp    string `yaml:"temp"`
	Watch   string `yaml:"watch"` // optional drop-folder intake
}

type FFmpegConfig struct {
	BinaryPath  string `yaml:"binary_path"`
	ProbePath   string `yaml:"probe_path"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

type WhisperConfig struct {
	PythonPath string `yaml:"python_path"`
	Device     string `yaml:"device"`
	Compute    string `yaml:"compute"`
}

type FetcherConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

type RegistryConfig struct {
	Backend     string `yaml:"backend"` // memory or redis
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
}

type SummarizerConfig struct {
	Enabled bool     `yaml:"enabled"`
	APIKeys []string `yaml:"api_keys"`
	Model   string   `yaml:"model"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

// Load reads and validates a YAML configuration file
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.Uploads == "" {
		return fmt.Errorf("paths.uploads is required")
	}
	if c.Paths.Outputs == "" {
		return fmt.Errorf("paths.outputs is required")
	}
	if c.Registry.Backend == "redis" && c.Registry.RedisAddr == "" {
		return fmt.Errorf("registry.redis_addr is required for the redis backend")
	}
	if c.Summarizer.Enabled && len(c.Summarizer.APIKeys) == 0 {
		return fmt.Errorf("summarizer.api_keys is required when summarizer is enabled")
	}

	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = "ffprobe"
	}
	if c.FFmpeg.TimeoutSecs == 0 {
		c.FFmpeg.TimeoutSecs = 300
	}
	if c.Whisper.PythonPath == "" {
		c.Whisper.PythonPath = "python3"
	}
	if c.Whisper.Device == "" {
		c.Whisper.Device = "cpu"
	}
	if c.Whisper.Compute == "" {
		c.Whisper.Compute = "int8"
	}
	if c.Fetcher.BinaryPath == "" {
		c.Fetcher.BinaryPath = "yt-dlp"
	}
	if c.Registry.Backend == "" {
		c.Registry.Backend = "memory"
	}
	if c.Registry.RedisPrefix == "" {
		c.Registry.RedisPrefix = "transcipt"
	}
	if c.Summarizer.Model == "" {
		c.Summarizer.Model = "gemini-2.5-flash"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
