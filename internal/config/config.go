package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config holds all configurable paths and processing settings.
type Config struct {
	// Paths
	InputDir   string `json:"input_dir" yaml:"input_dir"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`
	SystemJSON string `json:"system_json" yaml:"system_json"`

	// Processing
	Mode         string `json:"mode" yaml:"mode"`     // "decrypt" or "encrypt"
	Key          string `json:"key" yaml:"key"`       // 32 hex chars, empty = recover per file
	Engine       string `json:"engine" yaml:"engine"` // "mv" or "mz", encrypt only
	ImageFormat  string `json:"image_format" yaml:"image_format"`
	MaxImageSize int    `json:"max_image_size" yaml:"max_image_size"`
	Workers      int    `json:"workers" yaml:"workers"`
	LogLevel     string `json:"log_level" yaml:"log_level"`
}

// Load reads a JSON or YAML config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Key != "" {
		c.Key = flags.Key
	}
	if flags.Engine != "" {
		c.Engine = flags.Engine
	}
	if flags.ImageFormat != "" {
		c.ImageFormat = flags.ImageFormat
	}
	if flags.MaxImageSize > 0 {
		c.MaxImageSize = flags.MaxImageSize
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.InputDir == "" {
		c.InputDir, _ = os.Getwd()
	}

	if c.SystemJSON == "" {
		c.SystemJSON = findSystemJSON(c.InputDir)
	} else if !filepath.IsAbs(c.SystemJSON) {
		c.SystemJSON = filepath.Join(c.InputDir, c.SystemJSON)
	}

	if c.Mode == "" {
		c.Mode = "decrypt"
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, c.Mode+"ed")
	} else if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}

	// Defaults for processing settings
	if c.Engine == "" {
		c.Engine = "mz"
	}
	if c.ImageFormat == "" {
		c.ImageFormat = "png"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir     string
	OutputDir    string
	Mode         string
	Key          string
	Engine       string
	ImageFormat  string
	MaxImageSize int
	Workers      int
	LogLevel     string
}

// systemFile is the part of data/System.json that matters here.
type systemFile struct {
	EncryptionKey string `json:"encryptionKey"`
}

// LoadSystemKey reads the project encryption key from System.json.
// It returns "" without error when the project has no key recorded.
func LoadSystemKey(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("config: read %s: %w", path, err)
	}
	// The editor writes System.json with a UTF-8 BOM on some platforms.
	data = []byte(strings.TrimPrefix(string(data), "\ufeff"))

	var sys systemFile
	if err := json.Unmarshal(data, &sys); err != nil {
		return "", fmt.Errorf("config: parse %s: %w", path, err)
	}
	return sys.EncryptionKey, nil
}

// findSystemJSON looks for the project's System.json: MZ keeps it under
// data/, MV deployments under www/data/.
func findSystemJSON(inputDir string) string {
	candidates := []string{
		filepath.Join(inputDir, "data", "System.json"),
		filepath.Join(inputDir, "www", "data", "System.json"),
		filepath.Join(filepath.Dir(inputDir), "data", "System.json"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
