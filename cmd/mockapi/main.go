package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"bookmarket/internal/config"
	"bookmarket/internal/mockapi"
	"bookmarket/internal/util"
	"bookmarket/pkg/auth"
	"bookmarket/pkg/domain"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel)

	port := cfg.Port
	if port == "" {
		port = "3000"
	}

	srv := mockapi.New(mockapi.Config{
		AIEnabled: os.Getenv("AI_DISABLED") == "",
	})
	seedDemoUser(srv)

	addr := ":" + port
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("mock backend listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

// seedDemoUser registers a known account so the storefront is usable
// immediately: demo@bookmarket.dev / booklover1.
func seedDemoUser(srv *mockapi.Server) {
	hash, err := auth.HashPassword("booklover1")
	if err != nil {
		log.Fatalf("failed to seed demo user: %v", err)
	}
	srv.Store().SaveUser(mockapi.User{
		Identity: domain.Identity{
			ID:        "demo-user",
			Email:     "demo@bookmarket.dev",
			Username:  "demo",
			FirstName: "Demo",
			LastName:  "Reader",
			IsActive:  true,
		},
		PasswordHash: hash,
		Status:       domain.AccountStatus{State: domain.StateActive},
	})
}
