// Package main is the entry point for the Kivo arbitrage scanner.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/devJaja/kivo-scanner/business/arbitrage"
	arbitrageDI "github.com/devJaja/kivo-scanner/business/arbitrage/di"
	"github.com/devJaja/kivo-scanner/business/blockchain"
	"github.com/devJaja/kivo-scanner/business/bridge"
	bridgeDomain "github.com/devJaja/kivo-scanner/business/bridge/domain"
	"github.com/devJaja/kivo-scanner/business/history"
	historyDI "github.com/devJaja/kivo-scanner/business/history/di"
	"github.com/devJaja/kivo-scanner/business/pricing"
	pricingDI "github.com/devJaja/kivo-scanner/business/pricing/di"
	"github.com/devJaja/kivo-scanner/business/pricing/infra/feed"
	"github.com/devJaja/kivo-scanner/internal/apm"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/health"
	"github.com/devJaja/kivo-scanner/internal/logger"
	"github.com/devJaja/kivo-scanner/internal/metrics"
	"github.com/devJaja/kivo-scanner/internal/monolith"
	"github.com/devJaja/kivo-scanner/pkg/ui"
)

var strategies = []string{"cross-chain", "dex", "fast"}

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	strategy := flag.String("strategy", "cross-chain", "Scan strategy in CLI mode (cross-chain, dex, fast)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("kivo-scanner %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode, *strategy); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool, strategy string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set TUI mode in config so modules pick the right reporter
	cfg.Scanner.TUIMode = tuiMode

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting kivo scanner",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Readiness follows RPC reachability per configured chain.
	for _, chain := range cfg.Chains {
		client := mono.ChainClient(chain.ChainID)
		if client == nil {
			continue
		}
		healthServer.RegisterCheck("rpc-"+chain.Name, func(ctx context.Context) (bool, string) {
			if _, err := client.SuggestGasPrice(ctx); err != nil {
				return false, err.Error()
			}
			return true, ""
		})
	}

	// Modules in dependency order
	modules := []monolith.Module{
		&blockchain.Module{},
		&pricing.Module{},
		&bridge.Module{},
		&history.Module{},
		&arbitrage.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if tuiMode {
		start := func() error {
			return mono.StartModules(ctx, modules...)
		}
		return runTUI(ctx, mono, start, log)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	startPriceProxy(ctx, mono, log)

	return runCLI(ctx, mono, strategy, log)
}

// startPriceProxy serves GET /api/prices when a listen address is
// configured.
func startPriceProxy(ctx context.Context, mono monolith.Monolith, log *logger.Logger) {
	addr := mono.Config().Feed.ListenAddress
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/api/prices", feed.NewHandler(pricingDI.GetPriceFeed(mono.Services()), log))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(ctx, "price proxy stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Info(ctx, "price proxy started", "address", addr)
}

func runCLI(ctx context.Context, mono monolith.Monolith, strategy string, log *logger.Logger) error {
	scheduler := arbitrageDI.SchedulerByStrategy(mono.Services(), strategy)
	if scheduler == nil {
		return fmt.Errorf("unknown strategy %q", strategy)
	}

	reporter := arbitrageDI.GetReporter(mono.Services())
	if err := reporter.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reporter: %w", err)
	}

	log.Info(ctx, "all modules started, beginning scan", "strategy", strategy)
	scheduler.Start(ctx)

	<-ctx.Done()

	log.Info(ctx, "shutting down")
	scheduler.Stop()
	return reporter.Stop()
}

func runTUI(ctx context.Context, mono monolith.Monolith, start func() error, log *logger.Logger) error {
	services := mono.Services()

	// Scan control from the dashboard. Only one scheduler runs at a
	// time; switching strategy stops the previous one. The callbacks
	// fire from separate goroutines, so the active strategy is guarded.
	var (
		activeMu sync.Mutex
		active   string
	)
	ui.OnStartScan = func(strategy string) {
		activeMu.Lock()
		if active != "" && active != strategy {
			if prev := arbitrageDI.SchedulerByStrategy(services, active); prev != nil {
				prev.Stop()
			}
		}
		sched := arbitrageDI.SchedulerByStrategy(services, strategy)
		if sched != nil {
			active = strategy
		}
		activeMu.Unlock()
		if sched != nil {
			sched.Start(ctx)
		}
	}
	ui.OnStopScan = func() {
		activeMu.Lock()
		strategy := active
		activeMu.Unlock()
		if sched := arbitrageDI.SchedulerByStrategy(services, strategy); sched != nil {
			sched.Stop()
		}
	}
	ui.OnExecute = func() {
		activeMu.Lock()
		strategy := active
		activeMu.Unlock()
		executeTop(ctx, mono, strategy)
	}

	// The TUI shows its welcome screen while modules connect.
	p := tea.NewProgram(ui.New(strategies), tea.WithAltScreen())
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		if err := start(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}
		startPriceProxy(ctx, mono, log)
		go pollChainStatus(ctx, mono)
		go pollStats(ctx, mono)

		<-ctx.Done()
		ui.OnStopScan()
		errCh <- nil
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

// executeTop bridges the top-ranked cross-chain opportunity of the
// active scheduler, streaming stage progress to the dashboard.
func executeTop(ctx context.Context, mono monolith.Monolith, active string) {
	scheduler := arbitrageDI.SchedulerByStrategy(mono.Services(), active)
	if scheduler == nil {
		return
	}
	opps := scheduler.Opportunities()
	if len(opps) == 0 {
		return
	}
	opp := opps[0]

	coordinator := arbitrageDI.GetCoordinator(mono.Services())
	err := coordinator.Execute(ctx, opp, func(p bridgeDomain.Progress) {
		msg := ui.ExecutionMsg{
			OpportunityID: opp.ID,
			Stage:         string(p.Stage),
			Status:        string(p.Status),
		}
		if p.TxHash != (common.Hash{}) {
			msg.TxHash = p.TxHash.Hex()
		}
		ui.Send(msg)
	})
	if err != nil {
		ui.Send(ui.ErrorMsg{Error: err})
	}
}

// pollChainStatus probes each configured chain's RPC periodically.
func pollChainStatus(ctx context.Context, mono monolith.Monolith) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	probe := func() {
		for _, chain := range mono.Config().Chains {
			client := mono.ChainClient(chain.ChainID)
			if client == nil {
				continue
			}

			msg := ui.ChainStatusMsg{Name: chain.Name, ChainID: chain.ChainID}
			probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			gasPrice, err := client.SuggestGasPrice(probeCtx)
			cancel()
			if err == nil {
				msg.Online = true
				gwei, _ := new(big.Float).Quo(
					new(big.Float).SetInt(gasPrice),
					big.NewFloat(1e9),
				).Float64()
				msg.GasGwei = gwei
			} else {
				msg.Fallback = true
			}
			ui.Send(msg)
		}
	}

	probe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}

// pollStats refreshes the dashboard stats pane from the schedulers
// and, when enabled, the history store.
func pollStats(ctx context.Context, mono monolith.Monolith) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	services := mono.Services()
	refresh := func() {
		msg := ui.StatsMsg{}
		for _, strategy := range strategies {
			if sched := arbitrageDI.SchedulerByStrategy(services, strategy); sched != nil {
				msg.Passes += sched.Passes()
				msg.Found += uint64(len(sched.Opportunities()))
			}
		}
		if mono.Config().History.Enabled {
			summary, err := historyDI.GetRecorder(services).Summary(ctx)
			if err == nil {
				msg.HistoryOnline = true
				msg.HistoryRows = summary.Opportunities + summary.Executions
				msg.Executed = summary.Successes
			}
		}
		ui.Send(msg)
	}

	refresh()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
