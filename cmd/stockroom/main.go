package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/stockroom/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/stockroom/config.toml)")
	prefsPath := flag.String("prefs", "", "preferences file path (optional)")
	apiBase := flag.String("api", "", "products API base URL (overrides config)")
	refresh := flag.Duration("refresh", 0, "background refresh interval, e.g. 10s (overrides config)")
	logLines := flag.Int("logs", 0, "print the last N lines of the log file and exit")
	logLevel := flag.String("logs-level", "trace", "with -logs, only show lines at this level or worse")
	flag.Parse()

	if *logLines > 0 {
		if err := app.PrintLog(os.Stdout, *configPath, *logLines, *logLevel); err != nil {
			fmt.Fprintf(os.Stderr, "stockroom: %v\n", err)
			return 1
		}
		return 0
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:   *configPath,
		PrefsPath:    *prefsPath,
		APIBase:      *apiBase,
		RefreshEvery: *refresh,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "stockroom: %v\n", err)
		return 1
	}
	return 0
}
