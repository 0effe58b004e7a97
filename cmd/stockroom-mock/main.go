package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/mockapi"
)

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", "127.0.0.1:3001", "listen address")
	resource := flag.String("resource", "/products", "collection path")
	bare := flag.Bool("bare", false, "serve the list as a bare JSON array instead of {\"data\": [...]}")
	delay := flag.Duration("delay", 0, "artificial latency per request")
	seed := flag.Bool("seed", true, "start with sample products")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	api := mockapi.New(mockapi.Options{Resource: *resource, Bare: *bare, Logger: log})
	api.SetDelay(*delay)
	if *seed {
		api.Seed(sampleProducts()...)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           api,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": *addr, "resource": *resource}).Info("mock products API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("serve")
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutdown")
			return 1
		}
		log.Info("mock products API stopped")
	}
	return 0
}

func sampleProducts() []catalog.ProductInput {
	return []catalog.ProductInput{
		{Name: "Fountain pen", Price: 45, Description: "Steel nib, blue ink", Image: "https://picsum.photos/seed/pen/200"},
		{Name: "Notebook", Price: 12, Description: "A5, dotted, 120 pages", Image: "https://picsum.photos/seed/notebook/200"},
		{Name: "Desk lamp", Price: 60, Description: "Warm LED, adjustable arm", Image: "https://picsum.photos/seed/lamp/200"},
		{Name: "Mug", Price: 9, Description: "Stoneware, 350 ml", Image: "https://picsum.photos/seed/mug/200"},
	}
}
