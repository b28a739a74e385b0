package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"

	"go-currency-pages/caching"
	"go-currency-pages/config"
	"go-currency-pages/exchange"
	transport "go-currency-pages/http"
	"go-currency-pages/rates"
	"go-currency-pages/render"

	nhttp "net/http"
)

func main() {
	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	cfg, err := config.Load()
	if err != nil {
		logger.Log("msg", "loading config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ratesService := rates.NewService(cfg.RatesURL)
	ratesService = rates.NewLoggingService(log.With(logger, "component", "rates_rest"), ratesService)
	ratesService = rates.NewCachingService(cfg.RefreshInterval, log.With(logger, "component", "rates_cache"), ratesService)
	ratesService = rates.NewInstrumentingService(ratesService)

	// Seed the cache with the app-lifetime context so the periodic
	// refresher outlives individual requests. A failure here is not fatal;
	// the first request retries the fetch.
	if _, err := ratesService.Table(ctx, cfg.BaseCurrency); err != nil {
		logger.Log("msg", "warming rates cache", "base", cfg.BaseCurrency, "err", err)
	}

	exchangeService := exchange.NewService(ratesService, cfg.BaseCurrency)
	exchangeService = exchange.NewLoggingService(log.With(logger, "component", "exchange"), exchangeService)
	exchangeService = exchange.NewInstrumentingService(exchangeService)

	renderer := &render.Renderer{
		Templates: render.FileStore{Path: cfg.TemplatePath},
		AssetBase: cfg.AssetBase,
	}

	server := transport.NewServer(&transport.Server{
		Exchange:  exchangeService,
		Rates:     ratesService,
		Renderer:  renderer,
		Policy:    caching.Policy{BrowserTTL: cfg.BrowserTTL, EdgeTTL: cfg.EdgeTTL},
		Base:      cfg.BaseCurrency,
		StaticDir: cfg.StaticDir,
		Source:    cfg.RatesURL,
		Logger:    log.With(logger, "component", "http"),
	})

	httpServer := &nhttp.Server{
		Addr:    ":" + cfg.Port,
		Handler: server,
	}

	go func() {
		<-ctx.Done()
		logger.Log("msg", "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Log("msg", "shutdown", "err", err)
		}
	}()

	logger.Log("msg", "listening", "port", cfg.Port, "base", cfg.BaseCurrency)
	if err := httpServer.ListenAndServe(); err != nil && err != nhttp.ErrServerClosed {
		logger.Log("msg", "server failed", "err", err)
		os.Exit(1)
	}
}
