// Package client wires the storefront core into one explicitly constructed
// context object. UI handlers receive a *Client instead of reaching for
// ambient global managers.
package client

import (
	"fmt"
	"time"

	"bookmarket/internal/config"
	"bookmarket/pkg/apiclient"
	"bookmarket/pkg/catalog"
	"bookmarket/pkg/domain"
	"bookmarket/pkg/kv"
	"bookmarket/pkg/lifecycle"
	"bookmarket/pkg/scoped"
	"bookmarket/pkg/session"
	"bookmarket/pkg/suggest"
)

// Config holds runtime configuration for the client core.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DebounceWindow time.Duration
	SuggestLimit   int

	// Backend selection, one of the config.Backend* values. Ignored when
	// Store is provided directly.
	StateBackend  string
	StatePath     string
	RedisAddr     string
	RedisPassword string
	DatabaseURL   string
	QuotaBytes    int

	Store     kv.Store
	OnSuggest func(query string, suggestions []domain.Suggestion)
}

// Client is the dependency-injected context handed to UI handlers.
type Client struct {
	KV        kv.Store
	API       *apiclient.Client
	Sessions  *session.Manager
	State     *scoped.Store
	Lifecycle *lifecycle.Manager
	Catalog   *catalog.Service
	Suggest   *suggest.Suggester
}

// New constructs the client core from configuration.
func New(cfg Config) (*Client, error) {
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("api base URL required")
	}
	store := cfg.Store
	if store == nil {
		var err error
		store, err = newStore(cfg)
		if err != nil {
			return nil, err
		}
	}

	api := apiclient.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	sessions, err := session.New(store, api)
	if err != nil {
		return nil, fmt.Errorf("init session: %w", err)
	}
	state := scoped.New(store, sessions)

	onSuggest := cfg.OnSuggest
	if onSuggest == nil {
		onSuggest = func(string, []domain.Suggestion) {}
	}

	return &Client{
		KV:        store,
		API:       api,
		Sessions:  sessions,
		State:     state,
		Lifecycle: lifecycle.New(sessions, state, api),
		Catalog:   catalog.New(api),
		Suggest:   suggest.New(api, cfg.DebounceWindow, cfg.SuggestLimit, onSuggest),
	}, nil
}

func newStore(cfg Config) (kv.Store, error) {
	quota := cfg.QuotaBytes
	if quota == 0 {
		quota = kv.DefaultQuotaBytes
	}
	switch cfg.StateBackend {
	case "", config.BackendMemory:
		return kv.NewMemoryStoreWithQuota(quota), nil
	case config.BackendFile:
		store, err := kv.NewFileStoreWithQuota(cfg.StatePath, quota)
		if err != nil {
			return nil, fmt.Errorf("init file store: %w", err)
		}
		return store, nil
	case config.BackendRedis:
		return kv.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, ""), nil
	case config.BackendPostgres:
		store, err := kv.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}

// FromFileConfig maps a loaded config file onto a client Config.
func FromFileConfig(fc config.FileConfig) (Config, error) {
	timeout, err := config.ParseRequestTimeout(fc.RequestTimeout)
	if err != nil {
		return Config{}, err
	}
	window, err := config.ParseDebounceWindow(fc.DebounceWindow)
	if err != nil {
		return Config{}, err
	}
	return Config{
		APIBaseURL:     fc.APIBaseURL,
		RequestTimeout: timeout,
		DebounceWindow: window,
		SuggestLimit:   fc.SuggestLimit,
		StateBackend:   fc.StateBackend,
		StatePath:      fc.StatePath,
		RedisAddr:      fc.RedisAddr,
		RedisPassword:  fc.RedisPassword,
		DatabaseURL:    fc.DatabaseURL,
		QuotaBytes:     fc.StorageQuotaBytes,
	}, nil
}
