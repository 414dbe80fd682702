// Package main is the entry point for the Leaf Rush game server.
// It only handles dependency injection and server initialization.
// NO business logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/MaraisVerde/LeafRushGame/server/internal/domain/plant"
	"github.com/MaraisVerde/LeafRushGame/server/internal/events"
	"github.com/MaraisVerde/LeafRushGame/server/internal/game"
	"github.com/MaraisVerde/LeafRushGame/server/internal/infra/storage"
	"github.com/MaraisVerde/LeafRushGame/server/internal/network"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/config"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/logger"
	"github.com/MaraisVerde/LeafRushGame/server/internal/platform/metrics"
)

// SQLitePersisterAdapter translates domain events to storage events.
type SQLitePersisterAdapter struct {
	repo *storage.SQLiteEventRepository
}

func (a *SQLitePersisterAdapter) Append(event events.GameEvent) error {
	var payloadMap map[string]interface{}
	if event.Payload != nil {
		payloadBytes, _ := json.Marshal(event.Payload)
		json.Unmarshal(payloadBytes, &payloadMap)
	}

	storageEvent := storage.GameEvent{
		ID:        event.ID,
		SessionID: event.SessionID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		OrderID:   event.OrderID,
		PlantKey:  event.PlantKey,
		Payload:   payloadMap,
	}
	err := a.repo.Append(context.Background(), storageEvent)
	metrics.Get().RecordEventWrite(err)
	return err
}

// SQLiteResultSink writes finished session summaries to the sessions table.
type SQLiteResultSink struct {
	repo *storage.SQLiteSessionRepository
}

func (s *SQLiteResultSink) RecordSessionResult(result game.SessionResult) error {
	record := storage.SessionRecord{
		SessionID:       result.SessionID,
		StartedAt:       result.StartedAt,
		EndedAt:         result.EndedAt,
		FinalScore:      result.FinalScore,
		OrdersCompleted: result.OrdersCompleted,
		OrdersFailed:    result.OrdersFailed,
	}
	return s.repo.Upsert(context.Background(), record)
}

func main() {
	log.Println("[LEAF-SERVER] Initializing 'Leaf Rush' Authoritative Server...")

	appLogger := logger.NewLogger()

	cfg, err := config.LoadServer()
	if err != nil {
		appLogger.Error("Failed to load configuration: " + err.Error())
		os.Exit(1)
	}

	rules := config.DefaultRules()
	if cfg.RulesPath != "" {
		rules, err = config.LoadRules(cfg.RulesPath)
		if err != nil {
			appLogger.Error("Failed to load rules file: " + err.Error())
			os.Exit(1)
		}
	}
	if err := rules.Validate(); err != nil {
		appLogger.Error("Invalid rules: " + err.Error())
		os.Exit(1)
	}

	appLogger.Infof("Initializing SQLite database %q...", cfg.DBPath)
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	defer db.Close()

	eventRepo := storage.NewSQLiteEventRepository(db)
	sessionRepo := storage.NewSQLiteSessionRepository(db)

	appLogger.Info("Bootstrapping EventLog...")
	eventLog := events.NewLog(&SQLitePersisterAdapter{repo: eventRepo})

	appLogger.Info("Bootstrapping Game...")
	leafGame := game.NewGame(rules, plant.Catalog, game.SystemClock{}, eventLog, appLogger)
	leafGame.SetResultSink(&SQLiteResultSink{repo: sessionRepo})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticker := game.NewTicker(leafGame, appLogger, rules.TickEvery)
	go ticker.Start(ctx)

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(leafGame, appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(appLogger))

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		serveWs(hub, w, req, appLogger)
	})

	r.Get("/state", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(leafGame.Snapshot())
	})

	r.Get("/sessions", func(w http.ResponseWriter, req *http.Request) {
		records, err := sessionRepo.ListRecent(req.Context(), 20)
		if err != nil {
			http.Error(w, "failed to list sessions", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Get("/metrics", metrics.Handler())
	r.Get("/metrics/prometheus", metrics.PrometheusHandler())

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Printf("[LEAF-SERVER] HTTP API & WS Server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[LEAF-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[LEAF-SERVER] Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)
}

// requestLogger logs one line per request in the platform logger format.
func requestLogger(appLogger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			appLogger.Infof("%s %s -> %d (%s) request_id=%s",
				r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
		})
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow cross-origin requests for the Svelte dev server
	},
}

// serveWs handles websocket requests from the peer.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn)
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
