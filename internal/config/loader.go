package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var (
	// GlobalConfig holds the global configuration instance
	GlobalConfig *Config

	// loaded is the viper instance behind GlobalConfig; WatchConfig
	// re-reads through it
	loaded *viper.Viper
)

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
		v.AddConfigPath("/etc/order-composite")
		v.AddConfigPath("$HOME/.order-composite")
	}

	// Environment variables override file values, e.g.
	// COMPOSITE_SERVICES_PRODUCT_URL
	v.SetEnvPrefix("COMPOSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Printf("Config file not found, using defaults and environment variables\n")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.SetDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	GlobalConfig = config
	loaded = v

	return config, nil
}

// WatchConfig watches the loaded config file and re-reads it on change.
// A rewritten file that fails validation is rejected and the previous
// configuration stays active. The callback receives each accepted config.
func WatchConfig(callback func(*Config)) {
	if loaded == nil || loaded.ConfigFileUsed() == "" {
		return
	}

	loaded.OnConfigChange(func(e fsnotify.Event) {
		fmt.Printf("Config file changed: %s\n", e.Name)

		config := &Config{}
		if err := loaded.Unmarshal(config); err != nil {
			fmt.Printf("Failed to reload config: %v\n", err)
			return
		}
		config.SetDefaults()
		if err := config.Validate(); err != nil {
			fmt.Printf("Rejecting reloaded config: %v\n", err)
			return
		}

		GlobalConfig = config
		if callback != nil {
			callback(config)
		}
	})
	loaded.WatchConfig()
}
