// Command storefront is a headless smoke run of the client core against the
// configured backend: it builds the client from config.yaml, prints a
// recommendations tier, and resolves autocomplete for an optional query
// argument.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"bookmarket/internal/config"
	"bookmarket/internal/util"
	"bookmarket/pkg/client"
	"bookmarket/pkg/domain"
)

func main() {
	fileCfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.InitLogger(fileCfg.LogLevel)

	cfg, err := client.FromFileConfig(fileCfg)
	if err != nil {
		log.Fatalf("failed to map config: %v", err)
	}

	delivered := make(chan struct{}, 1)
	cfg.OnSuggest = func(query string, suggestions []domain.Suggestion) {
		for _, s := range suggestions {
			slog.Info("suggestion", "query", query, "text", s.Text)
		}
		delivered <- struct{}{}
	}

	c, err := client.New(cfg)
	if err != nil {
		log.Fatalf("failed to init client: %v", err)
	}

	for _, b := range c.Catalog.Recommendations(context.Background(), "trending", 4) {
		slog.Info("recommended", "title", b.Title, "author", b.Author)
	}

	if len(os.Args) > 1 {
		query := os.Args[1]
		c.Suggest.Type(query)
		select {
		case <-delivered:
		case <-time.After(5 * time.Second):
			slog.Warn("no suggestions before timeout", "query", query)
		}
	}
}
