// Command onboarding runs a form session over stdin/stdout. Without an API
// key it uses the deterministic strategies only; with one, quality steps go
// through the configured OpenAI-compatible model.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/output"
	"github.com/intakekit/intake/session"
	"github.com/intakekit/intake/types"
)

func main() {
	conf := flag.String("config", "config.json", "path to config file")
	formID := flag.String("form", "employment_onboarding", "built-in form id")
	mode := flag.String("mode", "hybrid", "strategy mode: fast, quality, hybrid")
	dbPath := flag.String("db", "", "optional sqlite path for durable checkpoints")
	outPath := flag.String("out", "", "optional JSON file for the final result")
	flag.Parse()

	if err := run(context.Background(), *conf, *formID, *mode, *dbPath, *outPath); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run(ctx context.Context, confPath, formID, mode, dbPath, outPath string) error {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	schema := form.Lookup(formID)
	if schema == nil {
		return fmt.Errorf("unknown form id %q", formID)
	}

	var store session.CheckpointStore
	if dbPath != "" {
		sqliteStore, err := session.NewSQLiteCheckpointStore(dbPath)
		if err != nil {
			return err
		}
		defer sqliteStore.Close()
		store = sqliteStore
	} else {
		store = session.NewMemoryCheckpointStore()
	}

	engine, err := buildEngine(ctx, confPath, store)
	if err != nil {
		return err
	}

	start, err := engine.StartSession(ctx, schema, types.Mode(mode))
	if err != nil {
		return err
	}
	fmt.Printf("Form: %s (session %s)\n\n", schema.Name, start.SessionID)
	fmt.Printf("Assistant: %s\n", start.Question)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("You: ")
		input, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("input closed, exiting")
			return nil
		}
		turn, sErr := engine.SubmitAnswer(ctx, start.SessionID, strings.TrimSpace(input))
		if sErr != nil {
			return sErr
		}
		if turn.Complete {
			fmt.Println("\nAll done. Collected fields:")
			for _, e := range turn.Collected {
				fmt.Printf("  %s = %v (confidence %.2f)\n", e.FieldID, e.Result.Value, e.Result.Confidence)
				for _, note := range e.Result.Notes {
					fmt.Printf("    note: %s\n", note)
				}
			}
			if outPath != "" {
				sink := &output.JSONFileSink{Path: outPath}
				res := &output.Result{
					SessionID: start.SessionID,
					FormID:    schema.ID,
					Mode:      types.Mode(mode),
					Completed: time.Now().UTC(),
					Fields:    turn.Collected,
				}
				if wErr := sink.Write(ctx, res); wErr != nil {
					return wErr
				}
				fmt.Printf("Result written to %s\n", outPath)
			}
			return nil
		}
		fmt.Printf("Assistant: %s\n", turn.Question)
	}
}

func buildEngine(ctx context.Context, confPath string, store session.CheckpointStore) (*session.Engine, error) {
	config, err := loadConfig(confPath)
	if err != nil || config.APIKey == "" {
		slog.Info("no model configured, using deterministic strategies only")
		return session.NewLocalEngine(store), nil
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		Model:   config.Model,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return session.NewToolBasedEngine(store, cm, session.DefaultOracleTimeout, session.Options{})
}
