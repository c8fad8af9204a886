package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Navneet1710/ten-days-of-voice-agents-2025/agents"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/cart"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/config"
	"github.com/Navneet1710/ten-days-of-voice-agents-2025/store"
)

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	fs.Parse(args)

	cfg := loadConfig(*configPath)
	logger := initLogger(cfg.Log)
	defer logger.Sync()

	logger.Info("starting voiceagents",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("cases_backend", cfg.Cases.Backend),
	)

	cases, err := newCaseStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open case store", zap.Error(err))
	}
	defer cases.Close()

	orders, err := store.NewFileOrderStore(cfg.Storage.OrdersDir)
	if err != nil {
		logger.Fatal("failed to open order store", zap.Error(err))
	}
	defer orders.Close()

	checkins, err := store.NewFileCheckinStore(cfg.Storage.WellnessDir)
	if err != nil {
		logger.Fatal("failed to open check-in store", zap.Error(err))
	}
	defer checkins.Close()

	srv := newHTTPServer(cfg, cases, orders, checkins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", zap.Int("port", cfg.Server.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("voiceagents stopped")
}

// newHTTPServer wires the operational endpoints. Tool execution itself is
// driven by the conversation platform, which instantiates assistants per
// conversation; the HTTP surface exposes health, metrics and the agent
// catalog.
func newHTTPServer(cfg *config.Config, cases store.CaseStore, orders store.OrderStore, checkins store.CheckinStore, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		if err := cases.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body = map[string]string{"status": "degraded", "cases": err.Error()}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/agents", func(w http.ResponseWriter, r *http.Request) {
		// Fresh instances just to describe the catalog; conversation
		// state starts when the platform creates its own.
		catalog := []*agents.Assistant{
			agents.NewFraudAssistant(cases, logger).Assistant,
			agents.NewFoodOrderAssistant(cart.DefaultMenu(), orders, logger).Assistant,
			agents.NewWellnessAssistant(r.Context(), checkins, logger).Assistant,
			agents.NewBaristaAssistant(orders, logger).Assistant,
		}

		type agentInfo struct {
			Name  string   `json:"name"`
			Tools []string `json:"tools"`
		}
		out := make([]agentInfo, 0, len(catalog))
		for _, a := range catalog {
			info := agentInfo{Name: a.Name()}
			for _, s := range a.ToolSchemas() {
				info.Tools = append(info.Tools, s.Name)
			}
			out = append(out, info)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	})

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// exitErr prints an error and exits. Used by the non-serve commands that
// have no logger yet.
func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
