package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/cuemby/brigada/pkg/client"
	"github.com/cuemby/brigada/pkg/metrics"
	"github.com/cuemby/brigada/pkg/storage"
	"github.com/spf13/cobra"
)

// Health component names
const (
	componentAPI     = "api"
	componentStorage = "storage"
	componentSession = "session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the API, the stored session and local storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPrinter(cmd)
		if err != nil {
			return err
		}

		h := newHealthChecker()
		current.session.Initialize(cmd.Context())
		current.checkHealth(cmd.Context(), h)

		report := h.Report()
		if err := p.print(report, func(w *tabwriter.Writer) {
			fmt.Fprintf(w, "Status:\t%s\n", report.Status)
			fmt.Fprintf(w, "API:\t%s\n", current.cfg.APIURL)
			for _, name := range []string{componentAPI, componentStorage, componentSession} {
				fmt.Fprintf(w, "  %s:\t%s\n", name, report.Components[name])
			}
		}); err != nil {
			return err
		}
		if report.Status == metrics.StatusUnhealthy {
			return errors.New("brigada is unhealthy")
		}
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the session and activity list fresh, serving metrics",
	Long: `Periodically refresh the session and the activity list until
interrupted. Prometheus metrics are served on /metrics and the health
report on /health.

Examples:
  brigada watch --interval 1m --metrics-addr 127.0.0.1:9464`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		addr, _ := cmd.Flags().GetString("metrics-addr")
		if interval <= 0 {
			return fmt.Errorf("--interval must be positive")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := current.requireSession(ctx); err != nil {
			return err
		}

		h := newHealthChecker()
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/health", metrics.HealthHandler(h))
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
		fmt.Printf("Watching every %s, metrics on http://%s/metrics. Press Ctrl+C to stop.\n", interval, addr)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		var runErr error
	loop:
		for {
			current.refresh(ctx, h)
			if !current.session.Authenticated() {
				runErr = errNotLoggedIn
				break
			}

			select {
			case <-ticker.C:
			case err := <-errCh:
				runErr = err
				break loop
			case <-ctx.Done():
				fmt.Println("\nShutting down...")
				break loop
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop metrics server: %w", err)
		}
		return runErr
	},
}

func newHealthChecker() *metrics.HealthChecker {
	return metrics.NewHealthChecker(Version, componentAPI, componentStorage)
}

// checkHealth probes local storage, the API and the session
func (a *app) checkHealth(ctx context.Context, h *metrics.HealthChecker) {
	if _, _, err := a.kv.Get(storage.KeyToken); err != nil {
		h.Set(componentStorage, false, err.Error())
	} else {
		h.Set(componentStorage, true, "")
	}

	if !a.session.Authenticated() {
		h.Set(componentSession, false, "not logged in")
		// any HTTP answer, even a denial, proves the API is reachable
		err := a.api.Do(ctx, client.Get("/users/me"), nil)
		a.setAPIHealth(h, err)
		return
	}

	err := a.session.RefreshProfile(ctx)
	a.setAPIHealth(h, err)
	switch {
	case err == nil:
		h.Set(componentSession, true, "")
	case client.IsDenial(err):
		h.Set(componentSession, false, "credential rejected")
	default:
		h.Set(componentSession, true, "profile could not be refreshed")
	}
}

func (a *app) setAPIHealth(h *metrics.HealthChecker, err error) {
	switch client.KindOf(err) {
	case client.KindTransient:
		h.Set(componentAPI, false, "unreachable")
	case client.KindServer:
		h.Set(componentAPI, false, fmt.Sprintf("server error %d", client.StatusOf(err)))
	default:
		h.Set(componentAPI, true, "")
	}
}

// refresh runs one watch cycle
func (a *app) refresh(ctx context.Context, h *metrics.HealthChecker) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.WatchCycleDuration)

	a.checkHealth(ctx, h)
	if !a.session.Authenticated() {
		return
	}

	before := len(a.activities.Activities())
	list, err := a.activities.Fetch(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", time.Now().Format("15:04:05"), a.activities.LastError())
		return
	}
	if len(list) != before {
		fmt.Printf("%s: %d activities (%d programmed)\n",
			time.Now().Format("15:04:05"), len(list), len(a.activities.Programmed()))
	}
}

func init() {
	watchCmd.Flags().Duration("interval", time.Minute, "Time between refreshes")
	watchCmd.Flags().String("metrics-addr", "127.0.0.1:9464", "Address to serve /metrics and /health on")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
}
