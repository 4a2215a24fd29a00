package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		Paths: PathsConfig{
			Uploads: "data/uploads",
			Outputs: "data/outputs",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing uploads path",
			mutate:  func(c *Config) { c.Paths.Uploads = "" },
			wantErr: true,
		},
		{
			name:    "missing outputs path",
			mutate:  func(c *Config) { c.Paths.Outputs = "" },
			wantErr: true,
		},
		{
			name:    "redis backend without address",
			mutate:  func(c *Config) { c.Registry.Backend = "redis" },
			wantErr: true,
		},
		{
			name: "redis backend with address",
			mutate: func(c *Config) {
				c.Registry.Backend = "redis"
				c.Registry.RedisAddr = "localhost:6379"
			},
		},
		{
			name:    "summarizer enabled without keys",
			mutate:  func(c *Config) { c.Summarizer.Enabled = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.FFmpeg.BinaryPath != "ffmpeg" {
		t.Errorf("FFmpeg.BinaryPath = %q, want ffmpeg", cfg.FFmpeg.BinaryPath)
	}
	if cfg.FFmpeg.TimeoutSecs != 300 {
		t.Errorf("FFmpeg.TimeoutSecs = %d, want 300", cfg.FFmpeg.TimeoutSecs)
	}
	if cfg.Whisper.PythonPath != "python3" {
		t.Errorf("Whisper.PythonPath = %q, want python3", cfg.Whisper.PythonPath)
	}
	if cfg.Registry.Backend != "memory" {
		t.Errorf("Registry.Backend = %q, want memory", cfg.Registry.Backend)
	}
	if cfg.Performance.MaxConcurrent != 2 {
		t.Errorf("Performance.MaxConcurrent = %d, want 2", cfg.Performance.MaxConcurrent)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
paths:
  uploads: data/uploads
  outputs: data/outputs
logging:
  level: debug
performance:
  max_concurrent: 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Performance.MaxConcurrent != 4 {
		t.Errorf("Performance.MaxConcurrent = %d, want 4", cfg.Performance.MaxConcurrent)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}
