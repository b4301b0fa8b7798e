package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"svgtint/svg"
)

//go:embed config.yaml
var defaultConfig []byte

type (
	// ColoringConfig mirrors svg.Config for the YAML surface.
	ColoringConfig struct {
		Palette             []string `yaml:"palette"`
		PreserveLinearStyle bool     `yaml:"preserve_linear_style"`
		IndependentColors   bool     `yaml:"independent_colors"`
		GradientProbability float64  `yaml:"gradient_probability"`
	}

	PreviewConfig struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	}

	Config struct {
		Version  int            `yaml:"version"`
		Coloring ColoringConfig `yaml:"coloring"`
		Preview  PreviewConfig  `yaml:"preview"`
		Logging  LoggingConfig  `yaml:"logging"`
	}
)

// ColoringConfigFor converts the YAML surface into the library
// configuration. The debug flag comes from the command line, not the file.
func (conf *Config) ColoringConfigFor(debug bool) svg.Config {
	return svg.Config{
		Palette:             conf.Coloring.Palette,
		PreserveLinearStyle: conf.Coloring.PreserveLinearStyle,
		IndependentColors:   conf.Coloring.IndependentColors,
		GradientProbability: conf.Coloring.GradientProbability,
		Debug:               debug,
	}
}

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposing its values on top of the embedded defaults. An empty path
// returns the defaults unchanged.
func LoadConfiguration(path string) (*Config, error) {
	cfg, err := unmarshalConfig(defaultConfig, &Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	if len(path) == 0 {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if cfg, err = unmarshalConfig(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	if cfg.Version != 1 {
		return nil, fmt.Errorf("unsupported configuration version %d", cfg.Version)
	}
	if cfg.Coloring.GradientProbability < 0 || cfg.Coloring.GradientProbability > 1 {
		return nil, fmt.Errorf("gradient_probability %f is out of [0,1]", cfg.Coloring.GradientProbability)
	}
	return cfg, nil
}

// Prepare returns the default embedded configuration.
func Prepare() ([]byte, error) {
	return append([]byte(nil), defaultConfig...), nil
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
