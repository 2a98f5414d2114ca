package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notifyhub/bankapp/internal/api"
	"github.com/notifyhub/bankapp/internal/app"
	"github.com/notifyhub/bankapp/internal/bank"
	"github.com/notifyhub/bankapp/internal/config"
	"github.com/notifyhub/bankapp/internal/logger"
	"github.com/notifyhub/bankapp/internal/metrics"
	"github.com/notifyhub/bankapp/internal/provider"
	"github.com/notifyhub/bankapp/internal/ratelimiter"
	"github.com/notifyhub/bankapp/internal/worker"
)

type options struct {
	statistics bool
	serve      bool
	adminAddr  string
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "bankapp",
		Short: "Bank client registry with asynchronous welcome emails",
		Long: "Registers a sample client, runs a few account transactions and prints\n" +
			"balances. With --statistics it waits for a command on stdin instead.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.adminAddr != "" {
				cfg.AdminAddr = opts.adminAddr
			}
			return run(cmd.Context(), cfg, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&opts.statistics, "statistics", "s", false, "read one statistics command from stdin instead of printing balances")
	cmd.Flags().BoolVar(&opts.serve, "serve", false, "keep running until SIGINT or SIGTERM (useful with the admin API)")
	cmd.Flags().StringVar(&opts.adminAddr, "admin-addr", "", "listen address of the admin API, overrides ADMIN_ADDR")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, opts options, in io.Reader, out io.Writer) error {
	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	prov, err := newProvider(cfg, out, log)
	if err != nil {
		return err
	}

	onSent, onFailed := m.WorkerHooks()
	emails := worker.New(prov, log,
		worker.WithRateLimiter(ratelimiter.New(cfg.EmailRateLimit)),
		worker.WithHooks(worker.Hooks{OnSent: onSent, OnFailed: onFailed}),
		worker.WithQueueObserver(m.QueueObserver()),
	)
	defer emails.Shutdown()

	b := bank.NewDefault(out, emails, log)
	listeners := b.Listeners()
	counters := make([]metrics.ListenerCounter, 0, len(listeners))
	for _, l := range listeners {
		counters = append(counters, l)
	}
	metrics.RegisterBank(reg, b, counters)

	var srv *http.Server
	if cfg.AdminAddr != "" {
		srv = &http.Server{
			Addr:         cfg.AdminAddr,
			Handler:      api.NewRouter(b, emails, reg, log),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
		go func() {
			log.Info("admin server starting", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("admin server error", zap.Error(err))
			}
		}()
	}

	if err := app.New(b, in, out, log).Run(opts.statistics); err != nil {
		return err
	}

	if opts.serve {
		sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		<-sigCtx.Done()
		stop()
		log.Info("shutdown signal received")
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("admin server shutdown error", zap.Error(err))
		}
	}

	emails.Shutdown()
	s := emails.Stats()
	log.Info("bank application stopped",
		zap.Int64("emails_submitted", s.Submitted),
		zap.Int64("emails_delivered", s.Delivered),
		zap.Int64("emails_dropped", s.Dropped),
	)
	return nil
}

func newProvider(cfg *config.Config, out io.Writer, log *zap.Logger) (provider.Provider, error) {
	switch cfg.EmailProvider {
	case config.ProviderWebhook:
		return provider.NewWebhookProvider(cfg.WebhookURL, cfg.SendTimeout), nil
	case config.ProviderShoutrrr:
		p, err := provider.NewShoutrrrProvider(cfg.ShoutrrrURLs, cfg.SendTimeout)
		if err != nil {
			return nil, fmt.Errorf("shoutrrr provider: %w", err)
		}
		return p, nil
	case config.ProviderLog:
		return provider.NewLogProvider(out, cfg.EmailSendDelay, log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}

