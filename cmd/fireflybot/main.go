package main

import (
	"context"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"fireflybot/internal/adapters/ledger"
	boltstore "fireflybot/internal/adapters/storage/bolt"
	memstore "fireflybot/internal/adapters/storage/memory"
	"fireflybot/internal/adapters/telegram"
	"fireflybot/internal/app/dialogue"
	"fireflybot/internal/config"
	"fireflybot/internal/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	// Storage: Bolt file or memory
	var store domain.SessionStore
	switch cfg.StorageBackend {
	case "memory":
		log.Println("[STORE] Using in-memory storage (sessions will not survive a restart)")
		store = memstore.NewSessionStore()
	default:
		path := filepath.Join(cfg.ConfigDir, "sessions.db")
		log.Printf("[STORE] Using Bolt storage (%s)", path)
		bs, err := boltstore.Open(path)
		if err != nil {
			log.Fatalf("error opening session store: %v", err)
		}
		store = bs
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("error closing session store: %v", err)
		}
	}()

	engine := dialogue.New(store, ledger.Dialer(cfg.HTTPTimeout))

	client := telegram.NewClient(cfg.BotToken, cfg.HTTPTimeout)
	botID, err := client.Me(ctx)
	if err != nil {
		log.Fatalf("error verifying bot token: %v", err)
	}
	log.Printf("[BOT] Authorized as bot id %d", botID)

	// Blocks until SIGINT/SIGTERM, then drains in-flight turns.
	telegram.NewPoller(client, engine).Run(ctx)
}
