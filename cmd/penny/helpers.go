package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pennyledger/penny/internal/config"
	"github.com/pennyledger/penny/internal/storage"
)

// initStore opens the configured store and brings its schema up to date.
func initStore(ctx context.Context) (*storage.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/penny/penny.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	var opts []storage.Option
	if timeout := viper.GetInt("database.timeout"); timeout > 0 {
		opts = append(opts, storage.WithTimeout(time.Duration(timeout)*time.Second))
	}

	store, err := storage.Open(dbPath, opts...)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// formatAmount renders a monetary value with the configured currency symbol.
func formatAmount(amount float64) string {
	currency := viper.GetString("currency")
	if currency == "" {
		currency = "$"
	}
	return fmt.Sprintf("%s%.2f", currency, amount)
}
