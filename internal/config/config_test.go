package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

const sampleConfig = `
llm:
  provider: openai
  base_url: https://api.example.com/v1
  api_key: dummy
  model: gpt-4o
  offline: true
external_api:
  base_url: https://data.example.com
  offline: false
  mcp:
    name: data-tools
    type: streamable_http
    url: http://localhost:9000/mcp
    headers:
      Authorization: Bearer dummy
server:
  host: 127.0.0.1
  port: "9090"
fixtures:
  users: testdata/users.json
  conversations: testdata/conversations.json
log:
  level: debug
`

func TestLoad(t *testing.T) {
	viper.Reset()

	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString(sampleConfig); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if !cfg.LLM.Offline {
		t.Fatalf("expected llm.offline true")
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Fatalf("unexpected model: %s", cfg.LLM.Model)
	}
	if cfg.ExternalAPI.Offline {
		t.Fatalf("expected external_api.offline false")
	}
	if cfg.ExternalAPI.MCP == nil {
		t.Fatalf("expected MCP config to be parsed")
	}
	if cfg.ExternalAPI.MCP.Type != ClientTypeStreamableHTTP {
		t.Fatalf("unexpected MCP type: %s", cfg.ExternalAPI.MCP.Type)
	}
	if v := cfg.ExternalAPI.MCP.Headers["authorization"]; v != "Bearer dummy" {
		t.Fatalf("headers not parsed: %v", cfg.ExternalAPI.MCP.Headers)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != "9090" {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Fixtures.Users != "testdata/users.json" {
		t.Fatalf("unexpected fixtures config: %+v", cfg.Fixtures)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.Log.Level)
	}
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	viper.Reset()

	// No config.yaml exists in the package directory; defaults apply.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected default server config: %+v", cfg.Server)
	}
	if cfg.LLM.Offline || cfg.ExternalAPI.Offline {
		t.Fatalf("offline switches must default to the live services")
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("unexpected default log level: %s", cfg.Log.Level)
	}
	if cfg.Fixtures.Users != "fixtures/users.json" {
		t.Fatalf("unexpected default fixtures: %+v", cfg.Fixtures)
	}
}

func TestLoadMalformedConfig(t *testing.T) {
	viper.Reset()

	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := tmp.WriteString("llm: [not: valid"); err != nil {
		t.Fatalf("write: %v", err)
	}
	tmp.Close()

	t.Setenv("CONFIG_PATH", tmp.Name())

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}
