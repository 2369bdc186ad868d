package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobradar/internal/api"
	"go-jobradar/internal/config"
	"go-jobradar/internal/database"
	"go-jobradar/internal/logging"
	"go-jobradar/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	boot := logging.New("info")
	cfg, err := config.Load(*configPath, boot)
	if err != nil {
		boot.Error("❌ Failed to load config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.General.LogLevel)

	addr := cfg.Server.Addr

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []api.Option
	if cfg.Database.URL != "" {
		repo, err := database.ConnectDB(ctx, cfg.Database.URL)
		if err != nil {
			log.Warn("⚠️ Database unavailable, /db/jobs disabled", "error", err)
		} else {
			defer repo.Close()
			opts = append(opts, api.WithJobLister(repo))
		}
	}

	gin.SetMode(gin.ReleaseMode)
	st := store.New(cfg.General.OutputFilename, cfg.General.FinalColumns, store.WithLogger(log))
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(st, cfg.Server.ReportPath, log, opts...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("🌐 Server listening", "addr", addr, "store", st.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("❌ Failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ Shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("👋 Server stopped")
}
