package cmd

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the CLI configuration loaded from flags, environment
// variables, .env files, and the config file, in that order of precedence.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// Store configuration
	StorePath string

	// Tag template configuration
	TableTemplate string
	FieldTemplate string

	// Sync configuration
	Policy  string
	Workers int

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.tagsync.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("TAGSYNC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".tagsync")
	}

	v.SetDefault("store", "tagsync.yaml")
	v.SetDefault("policy", "schema-authority")
	v.SetDefault("workers", 1)

	// Config file is optional.
	_ = v.ReadInConfig()

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),

		ConfigFile: v.ConfigFileUsed(),

		StorePath: v.GetString("store"),

		TableTemplate: v.GetString("templates.table"),
		FieldTemplate: v.GetString("templates.field"),

		Policy:  v.GetString("policy"),
		Workers: v.GetInt("workers"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}

	return config, nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env; neither is required.
func loadEnvFiles() {
	for _, file := range []string{".env", ".env.local"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Overload(file)
		}
	}
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
