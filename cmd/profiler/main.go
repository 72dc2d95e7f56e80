package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/INLOpen/vectree"
	"github.com/INLOpen/vectree/internal/logging"
	"github.com/INLOpen/vectree/internal/metrics"
	"github.com/INLOpen/vectree/internal/workload"
)

type flags struct {
	config    string
	items     int
	workers   int
	addr      string
	logLevel  string
	logFormat string
	exit      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "profiler",
		Short: "Run a tree workload with pprof and Prometheus endpoints",
		Long: `profiler drives a shared tree with a randomized workload while serving
/debug/pprof/ and /metrics, then keeps serving until interrupted.

Example: profiler --items 5000000 --addr localhost:6060`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, f)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "YAML workload file (defaults built in)")
	fs.IntVar(&f.items, "items", 0, "operations to run, overrides the workload file")
	fs.IntVar(&f.workers, "workers", 0, "worker goroutines, overrides the workload file")
	fs.StringVar(&f.addr, "addr", "localhost:6060", "listen address for pprof and metrics")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", logging.FormatAuto, "log format (auto, console, json)")
	fs.BoolVar(&f.exit, "exit", false, "exit once the workload is done instead of serving")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, f flags) error {
	log, err := logging.New(logging.Config{Level: f.logLevel, Format: f.logFormat}, "profiler")
	if err != nil {
		return err
	}

	cfg := workload.Default()
	if f.config != "" {
		if cfg, err = workload.Load(f.config); err != nil {
			log.Error().Err(err).Msg("cannot load workload")
			return err
		}
	}
	if cmd.Flags().Changed("items") {
		cfg.Items = f.items
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = f.workers
	}

	// ผูก collector เข้ากับ tree ที่ใช้ร่วมกันระหว่าง worker
	tree := vectree.NewSynced(vectree.New[int](cfg.Growth.Options()...))
	collector := metrics.NewCollector("vectree", tree)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collector, collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	runner, err := workload.NewRunner(cfg, log, collector)
	if err != nil {
		log.Error().Err(err).Msg("invalid workload")
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: f.addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	// เปิด pprof และ metrics endpoint ใน goroutine แยก
	g.Go(func() error {
		log.Info().Str("addr", "http://"+f.addr+"/debug/pprof/").Msg("serving pprof and /metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		log.Info().
			Int("items", cfg.Items).
			Int("workers", cfg.Workers).
			Uint64("seed", cfg.Seed).
			Msg("starting tree workload")
		if _, err := runner.Run(gctx, tree); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if f.exit {
			stop()
			return nil
		}
		// ทำให้โปรแกรมทำงานค้างไว้เพื่อให้เชื่อมต่อ pprof ได้ จนกว่าจะกด Ctrl+C
		log.Info().Msg("workload done, keeping alive for profiling; press Ctrl+C to exit")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("profiler failed")
		return err
	}
	log.Info().Msg("bye")
	return nil
}
