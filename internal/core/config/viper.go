package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads runner configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*RunnerConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultRunnerConfig
	v.SetDefault("runner.data_dir", "./data")
	v.SetDefault("runner.input_delimiter", ",")
	v.SetDefault("runner.output_mode", OutputFixed)
	v.SetDefault("runner.output_delimiter", "|")
	v.SetDefault("runner.null_token", "")
	v.SetDefault("runner.max_record_fields", 1024)
	v.SetDefault("runner.database_url", "")

	// Bind environment variables with FT_ prefix
	v.SetEnvPrefix("FT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &RunnerConfig{
		DatabaseURL:     v.GetString("runner.database_url"),
		DataDir:         v.GetString("runner.data_dir"),
		InputDelimiter:  v.GetString("runner.input_delimiter"),
		OutputMode:      v.GetString("runner.output_mode"),
		OutputDelimiter: v.GetString("runner.output_delimiter"),
		NullToken:       v.GetString("runner.null_token"),
		MaxRecordFields: v.GetInt("runner.max_record_fields"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
