// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigName is the name, without extension, of the settings file
	// looked up in the working directory.
	ConfigName = "coviscope"

	// DefaultModelPath is where the exported classifier weights live.
	DefaultModelPath = "assets/sars_variant_classifier.npz"

	// DefaultReferencePath is where the encoded reference genome lives.
	DefaultReferencePath = "assets/encoded_reference_sequence.npy"
)

// Config is the root-level settings struct and is a mix
// of settings available in coviscope.yaml, the environment
// and those available from the command line
type Config struct {
	// name and version reported by the API
	APIName    string `mapstructure:"api-name"`
	APIVersion string `mapstructure:"api-version"`

	// port the API listens on
	Port int `mapstructure:"port"`

	// origins allowed to call the API from a browser
	CORSOrigins []string `mapstructure:"cors-origins"`

	// path to the .npz classifier weights
	ModelPath string `mapstructure:"model"`

	// path to the .npy encoded reference genome
	ReferencePath string `mapstructure:"reference"`

	// number of most relevant positions inspected for mutations
	TopN int `mapstructure:"top-n"`

	// number of sequences classified at once by the batch command
	Workers int `mapstructure:"workers"`
}

// env variable bound to each setting
var envKeys = map[string]string{
	"api-name":     "API_NAME",
	"api-version":  "API_VERSION",
	"port":         "PORT",
	"cors-origins": "CORS_ORIGINS",
	"model":        "MODEL_PATH",
	"reference":    "REFERENCE_PATH",
	"top-n":        "TOP_N",
	"workers":      "WORKERS",
}

// SetDefaults registers default values and env bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api-name", "SARS_ANALYSIS")
	v.SetDefault("api-version", "1.0")
	v.SetDefault("port", 8000)
	v.SetDefault("cors-origins", []string{"http://localhost:3000"})
	v.SetDefault("model", DefaultModelPath)
	v.SetDefault("reference", DefaultReferencePath)
	v.SetDefault("top-n", 15)
	v.SetDefault("workers", runtime.NumCPU())

	for key, env := range envKeys {
		_ = v.BindEnv(key, env)
	}
}

// ReadFile reads settings from path or, when path is empty, from an
// optional coviscope.yaml in the working directory.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// New returns a new Config struct populated by the global Viper
// settings (the local coviscope.yaml, env and command line arguments)
func New() (*Config, error) {
	return Load(viper.GetViper())
}

// Load unmarshals a Config from v.
func Load(v *viper.Viper) (*Config, error) {
	// CORS_ORIGINS may be a JSON array or a comma separated list
	if raw, ok := v.Get("cors-origins").(string); ok {
		v.Set("cors-origins", ParseOrigins(raw))
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if c.TopN < 1 {
		return nil, fmt.Errorf("top-n must be positive, got %d", c.TopN)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}

	return &c, nil
}

// ParseOrigins reads a list of origins from either a JSON array or a comma
// separated string.
func ParseOrigins(raw string) []string {
	var origins []string
	if err := json.Unmarshal([]byte(raw), &origins); err == nil {
		return origins
	}

	origins = []string{}
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
