package main

import (
	"context"
	"errors"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"botbridge-backend/internal/auth"
	"botbridge-backend/internal/config"
	"botbridge-backend/internal/dialogflow"
	"botbridge-backend/internal/logger"
	"botbridge-backend/internal/server"
	"botbridge-backend/internal/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		stdlog.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalw("mongo connection failed", "error", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDatabase)

	sessions, err := dialogflow.NewSessionsClient(ctx, cfg.DialogflowCredentialsFile)
	if err != nil {
		log.Fatalw("dialogflow client failed", "error", err)
	}
	defer func() { _ = sessions.Close() }()

	bot := dialogflow.NewService(cfg.DialogflowProjectID, sessions, log, cfg.DebugExchangeCommand, cfg.DebugBranchOverrideCommand)
	authSvc := auth.NewService(store.NewUserStore(db), log, []byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience)
	srv := server.NewServer(cfg, log, authSvc, store.NewBotConfigStore(db), bot)

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
		// Open websocket sessions inherit this context, so shutdown also
		// cancels their in-flight provider calls.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Infow("botbridge server listening", "addr", httpSrv.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalw("server error", "error", err)
	}
}
