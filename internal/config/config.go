// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the application file.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/datetime"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// DateLayout is the format expected for dates in config files.
const DateLayout = constants.DateLayout

// Configuration holds all configuration for loan-calculator.
type Configuration struct {
	AsOf         string        `yaml:"asOf,omitempty"`
	Applications []Application `yaml:"applications"`
	Logging      LoggingConfig `yaml:"logging,omitempty"`
	Output       OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, yaml
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	v.SetEnvPrefix("LOAN")
	v.AutomaticEnv()

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// EvaluationDate returns the configured asOf date, or now when none is set.
func (conf *Configuration) EvaluationDate(now time.Time) (time.Time, error) {
	asOf, err := datetime.ParseDateOr(conf.AsOf, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse asOf: %w", err)
	}
	return asOf, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	forms := make([]validation.ApplicationForm, 0, len(conf.Applications))
	for _, app := range conf.Applications {
		forms = append(forms, app.ToForm())
	}

	validator := validation.ConfigValidator{Applications: forms}
	warnings := validator.ValidateAll()
	if len(conf.Applications) == 0 {
		warnings = append(warnings, "No applications defined")
	}
	return warnings
}
