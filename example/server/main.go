// Command server hosts the form engine over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/intakekit/intake/httpapi"
	"github.com/intakekit/intake/session"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "sessions.db", "sqlite path for checkpoints")
	apiKey := flag.String("api-key", "", "OpenAI-compatible API key (empty = deterministic strategies only)")
	baseURL := flag.String("base-url", "", "model API base URL")
	model := flag.String("model", "gpt-4o-mini", "model name")
	flag.Parse()

	ctx := context.Background()
	store, err := session.NewSQLiteCheckpointStore(*dbPath)
	if err != nil {
		log.Fatalf("open checkpoint store: %v", err)
	}
	defer store.Close()

	var engine *session.Engine
	if *apiKey == "" {
		slog.Info("no model configured, using deterministic strategies only")
		engine = session.NewLocalEngine(store)
	} else {
		cm, mErr := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  *apiKey,
			Model:   *model,
			BaseURL: *baseURL,
		})
		if mErr != nil {
			log.Fatalf("init chat model: %v", mErr)
		}
		engine, err = session.NewToolBasedEngine(store, cm, session.DefaultOracleTimeout, session.Options{})
		if err != nil {
			log.Fatalf("init engine: %v", err)
		}
	}

	router := httpapi.NewRouter(engine)
	slog.Info("listening", "addr", *addr)
	if err := router.Run(*addr); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
