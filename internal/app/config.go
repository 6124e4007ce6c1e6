package app

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath  string `validate:"required"`
	ConfigPath string

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`

	PreviewURL       string `validate:"omitempty,url"`
	PreviewNamespace string
	ConnectTimeout   time.Duration

	Variables map[string]any
}

// Defaults are applied to every field left empty by flags and the config file.
var Defaults = Config{
	LogFormat:        "text",
	LogLevel:         "info",
	PreviewNamespace: "/",
	ConnectTimeout:   15 * time.Second,
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig fills defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if err := mergo.Merge(&cfg, Defaults); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}
	if cfg.Variables == nil {
		cfg.Variables = make(map[string]any)
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			problems := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed '%s'", fe.Field(), fe.Tag()))
			}
			return nil, fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
		}
		return nil, err
	}
	return &cfg, nil
}

// FileConfig is the optional YAML configuration file.
type FileConfig struct {
	Variables map[string]any `yaml:"variables"`
	LogLevel  string         `yaml:"log_level"`
	LogFormat string         `yaml:"log_format"`
	Preview   struct {
		URL       string `yaml:"url"`
		Namespace string `yaml:"namespace"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"preview"`
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &fc, nil
}

// Merge fills the fields of cfg left empty by flags from the file. Every
// variable set on the command line wins over a file variable of the same
// name, even when its value is empty.
func Merge(cfg Config, file *FileConfig) (Config, error) {
	if file == nil {
		return cfg, nil
	}
	fromFile := Config{
		LogLevel:         file.LogLevel,
		LogFormat:        file.LogFormat,
		PreviewURL:       file.Preview.URL,
		PreviewNamespace: file.Preview.Namespace,
	}
	if file.Preview.Timeout != "" {
		d, err := time.ParseDuration(file.Preview.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("preview timeout: %w", err)
		}
		fromFile.ConnectTimeout = d
	}

	flagVars := cfg.Variables
	cfg.Variables = nil
	if err := mergo.Merge(&cfg, fromFile); err != nil {
		cfg.Variables = flagVars
		return cfg, fmt.Errorf("merging config file: %w", err)
	}

	vars := make(map[string]any, len(file.Variables)+len(flagVars))
	maps.Copy(vars, file.Variables)
	maps.Copy(vars, flagVars)
	cfg.Variables = vars
	return cfg, nil
}

// ParseVars parses "name=value" pairs. Values are kept as strings; the
// expression compiler converts them where a number or bool is read.
func ParseVars(pairs []string) (map[string]any, error) {
	vars := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable '%s', expected name=value", pair)
		}
		vars[name] = value
	}
	return vars, nil
}
