package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/catascopic/solstice/api"
	"github.com/catascopic/solstice/codebook"
	"github.com/catascopic/solstice/config"
	"github.com/catascopic/solstice/loghandler"
	"github.com/catascopic/solstice/relay"
	"github.com/catascopic/solstice/storage"
	"github.com/catascopic/solstice/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Print("No .env file found; using environment variables.")
	}

	cfg := config.Load()
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stderr, slog.LevelInfo)))

	slog.Info("configuration",
		"tag", "main",
		"wsPort", cfg.WSPort,
		"httpPort", cfg.HTTPPort,
		"goalTarget", cfg.GoalTarget,
		"gracePeriodMS", cfg.GracePeriodMS)

	source, err := codebook.LoadSource(cfg.CodebookPath)
	if err != nil {
		log.Fatal(err)
	}
	victory, err := codebook.LoadVictory(cfg.VictoryPath)
	if err != nil {
		log.Fatal(err)
	}
	slog.Info("codebooks loaded", "tag", "main", "books", source.Books())

	var events relay.EventSink
	if cfg.DatabaseURL != "" {
		store, err := storage.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("connecting event store: %v", err)
		}
		defer store.Close()
		events = store
		slog.Info("event store connected", "tag", "main", "runID", store.RunID())
	} else {
		slog.Info("DATABASE_URL not set; event history disabled", "tag", "main")
	}

	session := relay.NewSession(cfg, source, victory, events)

	// HTTP side: guide redirect, name check, static files.
	handler := api.NewHandler(cfg, session)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		slog.Info("http listening", "tag", "main", "addr", addr)
		log.Fatal(http.ListenAndServe(addr, handler.Router()))
	}()

	// Websocket side: the connection path encodes the identity.
	gateway := ws.NewGateway(session)
	addr := fmt.Sprintf(":%d", cfg.WSPort)
	slog.Info("relay listening", "tag", "main", "addr", addr)
	log.Fatal(http.ListenAndServe(addr, gateway))
}
