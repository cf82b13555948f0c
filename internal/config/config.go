package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// MCP transport types for the external data source.
const (
	ClientTypeSSE            = "sse"
	ClientTypeStreamableHTTP = "streamable_http"
	ClientTypeStdio          = "stdio"
)

// Config holds the application configuration
type Config struct {
	LLM         LLMConfig         `mapstructure:"llm"`
	Server      ServerConfig      `mapstructure:"server"`
	ExternalAPI ExternalAPIConfig `mapstructure:"external_api"`
	Fixtures    FixturesConfig    `mapstructure:"fixtures"`
	Log         LogConfig         `mapstructure:"log"`
}

// LLMConfig holds the language-model configuration backing the classifier.
// When Offline is true the keyword-rule classifier is used instead and no
// remote calls are made.
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Offline  bool   `mapstructure:"offline"`
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// ExternalAPIConfig selects the external data source. Exactly one of the
// variants is used: the offline substitute when Offline is true, the MCP
// tool source when MCP is configured, otherwise the plain HTTP API.
type ExternalAPIConfig struct {
	BaseURL string           `mapstructure:"base_url"`
	Offline bool             `mapstructure:"offline"`
	MCP     *MCPServerConfig `mapstructure:"mcp"`
}

// MCPServerConfig describes how to reach an MCP server exposing data tools.
type MCPServerConfig struct {
	Name    string            `mapstructure:"name"`
	Type    string            `mapstructure:"type"`
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
	Command string            `mapstructure:"command"`
	Args    []string          `mapstructure:"args"`
	Env     map[string]string `mapstructure:"env"`
}

// FixturesConfig points at the JSON seed collections loaded once at startup.
type FixturesConfig struct {
	Users         string `mapstructure:"users"`
	Conversations string `mapstructure:"conversations"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads the configuration from config.yaml in the working directory,
// or from the file named by the CONFIG_PATH environment variable.
// A missing config file is not an error: defaults apply.
func Load() (*Config, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("fixtures.users", "fixtures/users.json")
	viper.SetDefault("fixtures.conversations", "fixtures/conversations.json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
