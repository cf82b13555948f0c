package main

import (
	"fmt"
	"net/http"

	"github.com/chatpipe-io/chatpipe/internal/classifier"
	"github.com/chatpipe-io/chatpipe/internal/config"
	"github.com/chatpipe-io/chatpipe/internal/external"
	"github.com/chatpipe-io/chatpipe/internal/llm"
	"github.com/chatpipe-io/chatpipe/internal/logger"
	"github.com/chatpipe-io/chatpipe/internal/pipeline"
	"github.com/chatpipe-io/chatpipe/internal/server"
	"github.com/chatpipe-io/chatpipe/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		return
	}
	logger.SetLevel(cfg.Log.Level)

	// Conversation store, seeded once from the static fixtures.
	st := store.New()
	if err := st.LoadFixtures(cfg.Fixtures.Users, cfg.Fixtures.Conversations); err != nil {
		logger.L.Warn("failed to load fixtures; starting with an empty store", "error", err)
	}

	// Classifier variant, selected once at construction time.
	var cls classifier.Classifier
	if cfg.LLM.Offline {
		logger.L.Info("using offline keyword classifier")
		cls = classifier.NewKeywordClassifier()
	} else {
		cls = classifier.NewLLMClassifier(llm.NewClient(cfg.LLM), cfg.LLM.Model)
	}

	// External data source variant.
	var ext external.Client
	switch {
	case cfg.ExternalAPI.Offline:
		logger.L.Info("using offline external data client")
		ext = external.NewOfflineClient()
	case cfg.ExternalAPI.MCP != nil:
		mcpSource, err := external.NewMCPSource(*cfg.ExternalAPI.MCP)
		if err != nil {
			logger.L.Error("failed to initialize MCP data source; falling back to offline data", "error", err)
			ext = external.NewOfflineClient()
			break
		}
		defer func() {
			if err := mcpSource.Close(); err != nil {
				logger.L.Warn("MCP data source close error", "error", err)
			}
		}()
		ext = mcpSource
	default:
		ext = external.NewHTTPClient(cfg.ExternalAPI.BaseURL)
	}

	pl := pipeline.New(st, cls, ext)
	handler := server.New(st, pl)

	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.L.Info("starting server", "address", serverAddr)
	if err := http.ListenAndServe(serverAddr, handler); err != nil {
		logger.L.Error("failed to start server", "error", err)
	}
}
