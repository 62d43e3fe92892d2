package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/startpage/internal/infrastructure/config"
	"github.com/bnema/startpage/internal/infrastructure/metadata"
	"github.com/bnema/startpage/internal/infrastructure/proxy"
	"github.com/bnema/startpage/internal/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the suggestion and metadata proxy",
	Long: `Run the HTTP proxy used by the search box:

  GET /suggest?engine=&q=&target_url=   relay an engine's autocomplete request
  GET /fetch-title?url=                 {"title": string|null}
  GET /fetch-favicon?url=               {"faviconDataUrl": string|null}

Only hosts on the allow-list (proxy.allowed_suggest_hosts plus the hosts of
the live engines' suggest URLs) are relayed. The config file is watched and
the allow-list follows it without a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.listen_addr)")
}

func runServe(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	cfg := a.Config

	ctx, stop := signal.NotifyContext(logging.WithComponent(a.Ctx(), "serve"), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	allow := proxy.NewAllowList(cfg.Proxy.AllowedSuggestHosts, func(ctx context.Context) []string {
		return a.EnginesUC.Registry(ctx).SuggestHosts()
	})
	scraper := metadata.NewScraper(
		metadata.WithUserAgent(cfg.Proxy.UserAgent),
		metadata.WithMaxPageBytes(cfg.Proxy.MaxPageBytes),
	)
	srv := proxy.NewServer(proxyOptions(cfg), allow, scraper, nil)

	if a.Manager != nil {
		a.Manager.OnConfigChange(func(next *config.Config) {
			allow.SetConfigured(next.Proxy.AllowedSuggestHosts)
			log.Info().Strs("hosts", next.Proxy.AllowedSuggestHosts).Msg("allow-list reloaded")
		})
		if err := a.Manager.Watch(); err != nil {
			log.Warn().Err(err).Msg("config watch unavailable")
		}
	}

	addr := cfg.Server.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(ctx),
		ReadTimeout:       cfg.Server.ReadTimeout(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout(),
		WriteTimeout:      cfg.Server.WriteTimeout(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("proxy listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout())
		defer cancel()

		log.Info().Msg("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func proxyOptions(cfg *config.Config) proxy.Options {
	return proxy.Options{
		UpstreamTimeout:      cfg.Proxy.UpstreamTimeout(),
		MetadataTimeout:      cfg.Proxy.MetadataTimeout(),
		MaxSuggestBytes:      cfg.Proxy.MaxSuggestBytes,
		RateLimit:            cfg.Proxy.RateLimitPerSecond,
		RateBurst:            cfg.Proxy.RateLimitBurst,
		MaxConcurrentFetches: cfg.Proxy.MaxConcurrentFetches,
		UserAgent:            cfg.Proxy.UserAgent,
		MetadataCacheSize:    cfg.Proxy.MetadataCacheSize,
		MetadataCacheTTL:     cfg.Proxy.MetadataCacheTTL(),
		AllowedOrigins:       cfg.Server.AllowedOrigins,
	}
}
