package main

// Run the reminder sweep from the command line, e.g. from cron:
//   go run ./cmd/remind            # all users with documents
//   go run ./cmd/remind -user bob  # one user

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"driver-portal/internal/documents"
	"driver-portal/internal/push"
	"driver-portal/internal/reminders"
	"driver-portal/internal/shared/clock"
	"driver-portal/internal/shared/config"
	"driver-portal/internal/shared/storage/db"
	"driver-portal/internal/subscriptions"
)

func main() {
	user := flag.String("user", "", "run for a single username instead of every user")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	var docRepo documents.Repo
	var subRepo subscriptions.Repo
	var ledger reminders.Ledger
	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database: %v", err)
			os.Exit(1)
		}
		defer sqlDB.Close()
		docRepo = &documents.PGRepo{DB: sqlDB}
		subRepo = &subscriptions.PGRepo{DB: sqlDB}
		ledger = &reminders.PGLedger{DB: sqlDB}
	} else {
		docRepo = documents.NewFileRepo(cfg.DataDir)
		subRepo = subscriptions.NewFileRepo(cfg.DataDir)
		ledger = reminders.NewFileLedger(cfg.DataDir)
	}

	transport := push.NewWebPushTransport(cfg.VAPIDSubject, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	dispatcher := push.NewDispatcher(subRepo, transport, cfg.PushConfigured())
	engine := reminders.NewEngine(docRepo, ledger, dispatcher, clock.UTC{}, cfg.AppName)

	var out any
	var err error
	if *user != "" {
		out, err = engine.RunForUser(ctx, *user)
	} else {
		out, err = engine.RunAll(ctx)
	}
	if err != nil {
		log.Printf("reminder sweep failed: %v", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Printf("encode summary: %v", err)
		os.Exit(1)
	}
}
