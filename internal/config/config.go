package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr    string   `mapstructure:"http_addr"`
	DBDriver    string   `mapstructure:"db_driver"`
	DBDSN       string   `mapstructure:"db_dsn"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	MetricsEnabled bool `mapstructure:"metrics_enabled"`
}

// Load reads configuration from an optional YAML file, with EXAMD_* env
// variables overriding file values and defaults filling the rest. An empty
// path means "use ./examd.yaml if present".
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "")
	v.SetDefault("cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("metrics_enabled", true)

	v.SetEnvPrefix("EXAMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		v.SetConfigName("examd")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		var nf viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &nf) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
