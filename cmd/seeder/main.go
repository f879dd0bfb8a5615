package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/punchamoorthee/bankdash/internal/bankapi"
	"github.com/punchamoorthee/bankdash/internal/config"
	"github.com/punchamoorthee/bankdash/internal/domain"
	"github.com/punchamoorthee/bankdash/internal/logging"
	"github.com/punchamoorthee/bankdash/internal/store"
)

func main() {
	log, err := logging.NewFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()
	logging.SetGlobal(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	client, err := bankapi.New(bankapi.Options{
		BaseURL: cfg.APIURL,
		TeamID:  cfg.TeamID,
		Timeout: cfg.APITimeout,
		Logger:  log,
	})
	if err != nil {
		log.Fatal("unable to build bank api client", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Info("seeding team", zap.String("api", cfg.APIURL), zap.String("team", cfg.TeamID))
	created, err := seed(ctx, client, store.DemoAccounts())
	if err != nil {
		log.Fatal("seeding failed", zap.Int("created", created), zap.Error(err))
	}
	log.Info("seeding finished", zap.Int("created", created))
}

// accountService is the part of the client seeding needs.
type accountService interface {
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	CreateAccount(ctx context.Context, holder string, kind domain.AccountType, balance decimal.Decimal) (domain.Account, error)
	Freeze(ctx context.Context, id int64) (domain.Document, error)
}

// seed opens the demo accounts the team does not have yet and returns how
// many it created.
func seed(ctx context.Context, svc accountService, demo []domain.Account) (int, error) {
	// 1. Check existing
	existing, err := svc.ListAccounts(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) >= len(demo) {
		logging.L().Info("team already has enough accounts, skipping", zap.Int("accounts", len(existing)))
		return 0, nil
	}

	have := make(map[string]bool, len(existing))
	for _, a := range existing {
		have[a.AccountHolder] = true
	}

	// 2. Create the missing holders; frozen demo accounts are frozen after creation
	created := 0
	for _, a := range demo {
		if have[a.AccountHolder] {
			continue
		}
		acc, err := svc.CreateAccount(ctx, a.AccountHolder, a.AccountType, a.Balance)
		if err != nil {
			return created, err
		}
		created++
		if a.IsFrozen() {
			if _, err := svc.Freeze(ctx, acc.ID); err != nil {
				return created, err
			}
		}
	}
	return created, nil
}
