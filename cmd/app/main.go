package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cerdo03/VWAP-NASDAQ/internal/app"
	"github.com/cerdo03/VWAP-NASDAQ/internal/domain"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	configPath := flag.String("config", app.DefaultConfigPath, "path to the YAML config (optional)")
	feedPath := flag.String("feed", "", "ITCH 5.0 feed file (overrides config)")
	pprofAddr := flag.String("pprof", "", "serve pprof on this address, e.g. localhost:6060")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [feed-file]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	feed := *feedPath
	if feed == "" && flag.NArg() > 0 {
		feed = flag.Arg(0)
	}

	// 1. Pprof Server (for performance profiling)
	if *pprofAddr != "" {
		go func() {
			slog.Info("🕵️ Pprof server started", slog.String("addr", *pprofAddr))
			if err := http.ListenAndServe(*pprofAddr, nil); err != nil {
				slog.Error("Pprof server failed", slog.Any("error", err))
			}
		}()
	}

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath, feed); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		var ce *domain.ConfigError
		if errors.As(err, &ce) {
			flag.Usage()
		}
		os.Exit(1)
	}
	defer bootstrap.Close()

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Decode the feed (single-threaded hot path)
	if err := bootstrap.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("❌ Run failed", slog.Any("error", err))
		stop()
		bootstrap.Close()
		os.Exit(1)
	}
}
