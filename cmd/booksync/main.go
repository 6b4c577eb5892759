// booksync is a small operational CLI against the remote accounting API.
// It is mainly used to verify tenant credentials and connectivity: it
// fetches the chart of accounts and the bank and cash accounts for the
// configured tenant and prints a summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookkeep/backend/internal/infrastructure/books"
	"github.com/bookkeep/backend/internal/infrastructure/cache"
	"github.com/bookkeep/backend/internal/infrastructure/config"
	"github.com/bookkeep/backend/internal/infrastructure/logger"
)

func main() {
	tenantFlag := flag.String("tenant", "", "tenant UUID (required)")
	baseURLFlag := flag.String("base-url", "", "accounting API base URL (overrides config)")
	apiKeyFlag := flag.String("api-key", "", "accounting API key (overrides config)")
	noCacheFlag := flag.Bool("no-cache", false, "skip the redis read cache")
	timeoutFlag := flag.Duration("timeout", time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	tenantID, err := uuid.Parse(*tenantFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "a valid -tenant UUID is required")
		flag.Usage()
		os.Exit(2)
	}

	if *baseURLFlag != "" {
		cfg.Books.BaseURL = *baseURLFlag
	}
	if *apiKeyFlag != "" {
		cfg.Books.APIKey = *apiKeyFlag
	}

	client, err := books.NewClient(tenantID, books.Config{
		BaseURL:        cfg.Books.BaseURL,
		APIKey:         cfg.Books.APIKey,
		APIKeyHeader:   cfg.Books.APIKeyHeader,
		Timeout:        cfg.Books.Timeout,
		MaxRetries:     cfg.Books.MaxRetries,
		InitialBackoff: cfg.Books.InitialBackoff,
		MaxBackoff:     cfg.Books.MaxBackoff,
		PageSize:       cfg.Books.PageSize,
		CacheTTL:       cfg.Books.CacheTTL,
	}, log)
	if err != nil {
		log.Fatal("failed to create accounting client", zap.Error(err))
	}

	if !*noCacheFlag {
		store, err := cache.NewRedisReadCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			log.Warn("redis unavailable, running without read cache", zap.Error(err))
		} else {
			defer store.Close()
			client.SetReadCache(store)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()
	ctx, _ = logger.WithTenantID(logger.WithContext(ctx, log), log, tenantID.String())

	accounts, err := client.ChartOfAccounts(ctx)
	if err != nil {
		log.Fatal("failed to fetch chart of accounts", zap.Error(err))
	}
	fmt.Printf("chart of accounts: %d accounts\n", len(accounts))
	for _, account := range accounts {
		fmt.Printf("  %-10s %s\n", account.Code, account.Name)
	}

	bankAccounts, err := client.BankAndCashAccounts(ctx)
	if err != nil {
		log.Fatal("failed to fetch bank and cash accounts", zap.Error(err))
	}
	fmt.Printf("bank and cash accounts: %d\n", len(bankAccounts))
	for _, account := range bankAccounts {
		fmt.Printf("  %-30s %s %s\n", account.Name, account.Balance.StringFixed(2), account.Currency)
	}
}
