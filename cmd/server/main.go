// Package main provides the unified governance server:
// - Aggregation (scheduled): per-engine performance metrics over trade sources
// - Promotion API: classify, promote and demote tickers per horizon
// - Variant API: composite-score ranking of filter variants
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"perf-governor/internal/domain"
	"perf-governor/internal/metrics"
	"perf-governor/internal/normalize"
	"perf-governor/internal/observability"
	"perf-governor/internal/promotion"
	"perf-governor/internal/scoring"
	"perf-governor/internal/storage"
	chstore "perf-governor/internal/storage/clickhouse"
	"perf-governor/internal/storage/memory"
	"perf-governor/internal/storage/migrations"
	pgstore "perf-governor/internal/storage/postgres"
	"perf-governor/internal/stream"
)

// Server holds all components of the unified service.
type Server struct {
	// Configuration
	postgresDSN       string
	clickhouseDSN     string
	useMemory         bool
	engines           []domain.EngineIdentity
	engineVersion     string
	aggregateInterval time.Duration

	// Components
	stores     *allStores
	aggregator *metrics.Aggregator
	evaluator  *promotion.Evaluator
	hub        *stream.Hub
	logger     *log.Logger

	// State
	mu                 sync.Mutex
	latest             []*domain.EngineMetrics
	lastAggregation    time.Time
	aggregationRunning bool
	started            time.Time

	// Stats
	aggregationRuns int
}

// allStores holds all storage implementations.
type allStores struct {
	liveTradeStore    storage.LiveTradeStore
	shadowStockStore  storage.ShadowStockTradeStore
	shadowCryptoStore storage.ShadowCryptoTradeStore
	snapshotStore     storage.SnapshotStore
	tickerStatsStore  storage.TickerStatsStore
	universeStore     storage.UniverseStore
	variantStatsStore storage.VariantStatsStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	engines := flag.String("engines", os.Getenv("ENGINES"), "Comma-separated engine identities (key/version/mode/class)")
	engineVersion := flag.String("engine-version", envOr("ENGINE_VERSION", "v2"), "Engine version for promotion review and variant ranking")
	aggregateInterval := flag.Duration("aggregate-interval", 5*time.Minute, "Metrics aggregation interval")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	httpAddr := flag.String("http-addr", ":8080", "HTTP API address")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	// Resolve monitored engine identities
	engineList, err := parseEngines(*engines)
	if err != nil {
		logger.Fatalf("Invalid --engines: %v", err)
	}
	if len(engineList) == 0 {
		logger.Fatal("No engines specified. Use --engines (key/version/mode/class,...)")
	}
	logger.Printf("Monitoring %d engines", len(engineList))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create stores
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Create components
	aggregator := metrics.NewAggregator(normalize.Stores{
		LiveTrades:   stores.liveTradeStore,
		ShadowStock:  stores.shadowStockStore,
		ShadowCrypto: stores.shadowCryptoStore,
		Snapshots:    stores.snapshotStore,
	}, metrics.DefaultConfig(), log.New(os.Stdout, "[metrics] ", log.LstdFlags|log.Lshortfile))

	evaluator := promotion.NewEvaluator(stores.tickerStatsStore, stores.universeStore,
		log.New(os.Stdout, "[promotion] ", log.LstdFlags|log.Lshortfile))

	hub := stream.NewHub(log.New(os.Stdout, "[stream] ", log.LstdFlags|log.Lshortfile))
	defer hub.Close()

	server := &Server{
		postgresDSN:       *postgresDSN,
		clickhouseDSN:     *clickhouseDSN,
		useMemory:         *useMemory,
		engines:           engineList,
		engineVersion:     *engineVersion,
		aggregateInterval: *aggregateInterval,
		stores:            stores,
		aggregator:        aggregator,
		evaluator:         evaluator,
		hub:               hub,
		logger:            logger,
		started:           time.Now(),
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start HTTP server
	go server.startHTTPServer(*httpAddr)

	// Run the aggregation scheduler
	err = server.Run(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// Run starts the scheduled aggregation loop.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Printf("Starting aggregation scheduler (interval: %v)...", s.aggregateInterval)

	// Run immediately on start
	s.runAggregation(ctx)

	ticker := time.NewTicker(s.aggregateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runAggregation(ctx)
		}
	}
}

// runAggregation recomputes metrics for every monitored engine and caches
// the result for the API. Broadcasts the fresh set to stream subscribers.
func (s *Server) runAggregation(ctx context.Context) {
	s.mu.Lock()
	if s.aggregationRunning {
		s.mu.Unlock()
		s.logger.Println("Aggregation already running, skipping...")
		return
	}
	s.aggregationRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.aggregationRunning = false
		s.lastAggregation = time.Now()
		s.aggregationRuns++
		s.mu.Unlock()
	}()

	s.logger.Println("Running aggregation...")
	start := time.Now()

	results := s.aggregator.MetricsForEngines(ctx, s.engines)

	s.mu.Lock()
	s.latest = results
	s.mu.Unlock()

	skipped := len(s.engines) - len(results)
	s.logger.Printf("Aggregation completed in %v: %d engines, %d skipped",
		time.Since(start), len(results), skipped)

	observability.RecordAggregationRun("success", time.Since(start).Seconds(), len(results), skipped)

	s.hub.Broadcast(map[string]interface{}{
		"type":    "engine_metrics",
		"engines": engineMetricsResponse(results),
	})
}

// startHTTPServer starts the HTTP server for the JSON API, health and metrics.
func (s *Server) startHTTPServer(addr string) {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	// JSON API
	mux.HandleFunc("/api/engines", s.handleEngines)
	mux.HandleFunc("/api/promotion/", s.handlePromotionReview)
	mux.HandleFunc("/api/promote", s.handlePromote)
	mux.HandleFunc("/api/demote", s.handleDemote)
	mux.HandleFunc("/api/variants", s.handleVariants)

	// WebSocket stream of aggregation results
	mux.Handle("/ws", s.hub)

	s.logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		s.logger.Printf("HTTP server error: %v", err)
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status             string    `json:"status"`
	Uptime             string    `json:"uptime"`
	Engines            int       `json:"engines"`
	LastAggregation    time.Time `json:"last_aggregation,omitempty"`
	AggregationRuns    int       `json:"aggregation_runs"`
	AggregationRunning bool      `json:"aggregation_running"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:             "running",
		Uptime:             time.Since(s.started).String(),
		Engines:            len(s.engines),
		LastAggregation:    s.lastAggregation,
		AggregationRuns:    s.aggregationRuns,
		AggregationRunning: s.aggregationRunning,
	}

	writeJSON(w, http.StatusOK, resp)
}

// EngineResponse is one engine's metrics row in the /api/engines payload.
type EngineResponse struct {
	EngineKey      string                     `json:"engine_key"`
	EngineVersion  string                     `json:"engine_version"`
	RunMode        domain.RunMode             `json:"run_mode"`
	AssetClass     domain.AssetClass          `json:"asset_class"`
	TotalTrades    int                        `json:"total_trades"`
	Winners        int                        `json:"winners"`
	Losers         int                        `json:"losers"`
	WinRate        float64                    `json:"win_rate"`
	TotalPnL       float64                    `json:"total_pnl"`
	TodaysPnL      float64                    `json:"todays_pnl"`
	AvgR           float64                    `json:"avg_r"`
	MaxDrawdownPct float64                    `json:"max_drawdown_pct"`
	CurrentEquity  float64                    `json:"current_equity"`
	NetReturnPct   float64                    `json:"net_return_pct"`
	EquityCurve    []domain.PortfolioSnapshot `json:"equity_curve"`
	RecentTrades   []*domain.TradeRecord      `json:"recent_trades"`
}

func engineMetricsResponse(ms []*domain.EngineMetrics) []EngineResponse {
	out := make([]EngineResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, EngineResponse{
			EngineKey:      m.Identity.EngineKey,
			EngineVersion:  m.Identity.EngineVersion,
			RunMode:        m.Identity.RunMode,
			AssetClass:     m.Identity.AssetClass,
			TotalTrades:    m.TotalTrades,
			Winners:        m.Winners,
			Losers:         m.Losers,
			WinRate:        m.WinRate,
			TotalPnL:       m.TotalPnL,
			TodaysPnL:      m.TodaysPnL,
			AvgR:           m.AvgR,
			MaxDrawdownPct: m.MaxDrawdownPct,
			CurrentEquity:  m.CurrentEquity,
			NetReturnPct:   m.NetReturnPct,
			EquityCurve:    m.EquityCurve,
			RecentTrades:   m.RecentTrades,
		})
	}
	return out
}

// handleEngines returns the latest cached aggregation results.
func (s *Server) handleEngines(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	latest := s.latest
	generated := s.lastAggregation
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"generated_at": generated,
		"engines":      engineMetricsResponse(latest),
	})
}

// handlePromotionReview classifies a horizon's tickers on demand.
// Path: /api/promotion/{horizon}
func (s *Server) handlePromotionReview(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/promotion/")
	horizon := domain.Horizon(strings.ToLower(strings.TrimSuffix(raw, "/")))
	if !horizon.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown horizon %q", raw))
		return
	}

	cls, err := s.evaluator.Classify(r.Context(), s.engineVersion, horizon)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	observability.RecordClassification(string(horizon), len(cls.Candidates), len(cls.RedFlags), len(cls.Universe))
	writeJSON(w, http.StatusOK, cls)
}

// promotionRequest is the body for /api/promote and /api/demote.
type promotionRequest struct {
	Ticker  string `json:"ticker"`
	Horizon string `json:"horizon"`
}

func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	s.handleUniverseMutation(w, r, s.evaluator.Promote, observability.RecordPromotion)
}

func (s *Server) handleDemote(w http.ResponseWriter, r *http.Request) {
	s.handleUniverseMutation(w, r, s.evaluator.Demote, observability.RecordDemotion)
}

func (s *Server) handleUniverseMutation(w http.ResponseWriter, r *http.Request,
	mutate func(context.Context, string, domain.Horizon) error, record func(string)) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req promotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	horizon := domain.Horizon(strings.ToLower(strings.TrimSpace(req.Horizon)))
	if err := mutate(r.Context(), req.Ticker, horizon); err != nil {
		if errors.Is(err, storage.ErrInvalidInput) || errors.Is(err, promotion.ErrUnknownHorizon) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	record(string(horizon))
	writeJSON(w, http.StatusOK, map[string]string{
		"ticker":  strings.ToUpper(strings.TrimSpace(req.Ticker)),
		"horizon": string(horizon),
		"status":  "ok",
	})
}

// handleVariants returns the ranked variant list for the configured version.
func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	rows, err := s.stores.variantStatsStore.ListByVersion(r.Context(), s.engineVersion)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	ranked := scoring.Rank(rows, scoring.DefaultWeights)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"engine_version": s.engineVersion,
		"variants":       ranked,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseEngines parses a comma-separated list of key/version/mode/class specs.
func parseEngines(spec string) ([]domain.EngineIdentity, error) {
	var out []domain.EngineIdentity
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "/")
		if len(parts) != 4 {
			return nil, fmt.Errorf("engine %q: want key/version/mode/class", entry)
		}
		id := domain.EngineIdentity{
			EngineKey:     strings.TrimSpace(parts[0]),
			EngineVersion: strings.TrimSpace(parts[1]),
			RunMode:       domain.RunMode(strings.ToUpper(strings.TrimSpace(parts[2]))),
			AssetClass:    domain.AssetClass(strings.ToLower(strings.TrimSpace(parts[3]))),
		}
		if id.RunMode != domain.RunModePrimary && id.RunMode != domain.RunModeShadow {
			return nil, fmt.Errorf("engine %q: unknown run mode %q", entry, parts[2])
		}
		out = append(out, id)
	}
	return out, nil
}

// createStores creates all required stores.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			liveTradeStore:    memory.NewLiveTradeStore(),
			shadowStockStore:  memory.NewShadowStockTradeStore(),
			shadowCryptoStore: memory.NewShadowCryptoTradeStore(),
			snapshotStore:     memory.NewSnapshotStore(),
			tickerStatsStore:  memory.NewTickerStatsStore(),
			universeStore:     memory.NewUniverseStore(),
			variantStatsStore: memory.NewVariantStatsStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse
	chConn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	if err := migrations.RunClickhouseMigrations(ctx, chConn); err != nil {
		chConn.Close()
		pool.Close()
		return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	stores := &allStores{
		// PostgreSQL stores (trade sources + governance)
		liveTradeStore:    pgstore.NewLiveTradeStore(pool),
		shadowStockStore:  pgstore.NewShadowStockTradeStore(pool),
		shadowCryptoStore: pgstore.NewShadowCryptoTradeStore(pool),
		tickerStatsStore:  pgstore.NewTickerStatsStore(pool),
		universeStore:     pgstore.NewUniverseStore(pool),

		// ClickHouse stores (time series + variant aggregates)
		snapshotStore:     chstore.NewSnapshotStore(chConn),
		variantStatsStore: chstore.NewVariantStatsStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
