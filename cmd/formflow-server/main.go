package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/internal/server"
	"github.com/goliatone/go-formflow/pkg/catalog"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	flag.Parse()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	loader := catalog.NewLoader(catalog.WithHTTPFallback(10 * time.Second))
	forms, err := catalog.Catalog(ctx, loader, parseSource(cfg.Catalog.Path))
	if err != nil {
		logger.Fatal("load catalog", zap.Error(err))
	}

	srv := server.New(forms, server.WithLogger(logger))
	logger.Info("listening",
		zap.String("addr", cfg.HTTP.Addr),
		zap.Int("forms", len(forms)))

	if err := http.ListenAndServe(cfg.HTTP.Addr, srv.Router()); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func parseSource(path string) catalog.Source {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return catalog.SourceFromURL(path)
	}
	return catalog.SourceFromFile(path)
}
