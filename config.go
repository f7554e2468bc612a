package fpsim

import (
	"unicode/utf8"

	"github.com/spf13/viper"
)

const (
	// DefaultDelimiter separates cells in matrix files
	DefaultDelimiter = " "
	// DefaultAlpha and DefaultBeta realize the Tanimoto coefficient
	DefaultAlpha = 1.0
	DefaultBeta  = 1.0
	// DefaultCutoff is the similarity threshold handed to the predictor
	DefaultCutoff = 0.5
	// DefaultWorkers selects all available CPUs
	DefaultWorkers = 0
	DefaultGPUID   = 0
)

// Config holds configuration parameters shared by the similarity and
// prediction tools
type Config struct {
	// Delimiter separates cells on matrix input and output.
	// Must be exactly one character.
	Delimiter string `mapstructure:"delimiter"`

	// Alpha and Beta weight the two asymmetric difference terms of the
	// Tversky index. The 1/1 defaults realize the Tanimoto coefficient;
	// 0.5/0.5 the Dice coefficient.
	Alpha float64 `mapstructure:"alpha"`
	Beta  float64 `mapstructure:"beta"`

	// Workers bounds the parallel row computation; 0 uses all CPUs
	Workers int `mapstructure:"workers"`

	// Cutoff and Weighted shape the featurization step of the prediction
	// collaborator
	Cutoff   float64 `mapstructure:"cutoff"`
	Weighted bool    `mapstructure:"weighted"`

	// GPU and GPUID select the compute device of the prediction collaborator
	GPU   bool `mapstructure:"gpu"`
	GPUID int  `mapstructure:"gpu_id"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Delimiter: DefaultDelimiter,
		Alpha:     DefaultAlpha,
		Beta:      DefaultBeta,
		Workers:   DefaultWorkers,
		Cutoff:    DefaultCutoff,
		Weighted:  false,
		GPU:       false,
		GPUID:     DefaultGPUID,
	}
}

// LoadFromYAML loads configuration from a YAML file
func LoadFromYAML(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := v.UnmarshalKey("fpsim", config); err != nil {
		return nil, err
	}

	// Validate the loaded configuration
	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func Validate(config *Config) error {
	if config == nil {
		return ErrInvalidConfiguration
	}

	if utf8.RuneCountInString(config.Delimiter) != 1 {
		return ErrInvalidConfiguration
	}

	if config.Alpha < 0 || config.Beta < 0 {
		return ErrNegativeCoefficient
	}

	if config.Workers < 0 {
		return ErrInvalidConfiguration
	}

	if config.Cutoff < 0 {
		return ErrInvalidConfiguration
	}

	if config.GPUID < 0 {
		return ErrInvalidConfiguration
	}

	return nil
}
