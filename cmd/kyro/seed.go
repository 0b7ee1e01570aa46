package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/pkg/logger"
	"github.com/kyro-pay/gateway/pkg/validation"
)

// SeedFile is the reference data normally owned by the CRUD layer in front of the gateway
type SeedFile struct {
	Networks []SeedNetwork `yaml:"networks"`
	Tokens   []SeedToken   `yaml:"tokens"`
	Wallets  []SeedWallet  `yaml:"wallets"`
}

type SeedNetwork struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	RPCURL    string `yaml:"rpc_url"`
	ChainID   int64  `yaml:"chain_id"`
	Workspace string `yaml:"workspace"`
}

type SeedToken struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Symbol          string  `yaml:"symbol"`
	NetworkID       string  `yaml:"network_id"`
	Decimals        *int32  `yaml:"decimals"`
	ContractAddress *string `yaml:"contract_address"`
	Active          *bool   `yaml:"active"`
}

type SeedWallet struct {
	ID        string `yaml:"id"`
	UserID    string `yaml:"user_id"`
	Name      string `yaml:"name"`
	Address   string `yaml:"address"`
	NetworkID string `yaml:"network_id"`
	Workspace string `yaml:"workspace"`
}

// seedStore is the part of the repository the seed command writes
type seedStore interface {
	UpsertBlockchainNetwork(ctx context.Context, network *models.BlockchainNetwork) error
	UpsertCryptoToken(ctx context.Context, token *models.CryptoToken) error
	UpsertWallet(ctx context.Context, wallet *models.Wallet) error
}

func seed(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := logger.NewLogger(cfg.Development, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	file, err := parseSeedFile(f)
	if err != nil {
		return err
	}

	db, err := openDB(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := applySeed(c.Context, db, file, time.Now().UTC()); err != nil {
		return err
	}
	log.Info("Reference data seeded",
		"networks", len(file.Networks), "tokens", len(file.Tokens), "wallets", len(file.Wallets))
	return nil
}

// parseSeedFile decodes and validates a seed file and normalizes its addresses.
// Unknown keys are rejected.
func parseSeedFile(r io.Reader) (*SeedFile, error) {
	var file SeedFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for _, n := range file.Networks {
		if n.ID == "" || n.RPCURL == "" || n.ChainID <= 0 {
			return nil, fmt.Errorf("network %q: id, rpc_url and chain_id are required", n.ID)
		}
		if !models.Workspace(n.Workspace).Valid() {
			return nil, fmt.Errorf("network %q: invalid workspace %q", n.ID, n.Workspace)
		}
	}
	for i := range file.Tokens {
		t := &file.Tokens[i]
		if t.ID == "" || t.Symbol == "" || t.NetworkID == "" {
			return nil, fmt.Errorf("token %q: id, symbol and network_id are required", t.ID)
		}
		if t.ContractAddress != nil {
			contract, err := validation.ValidateAndNormalizeAddress(*t.ContractAddress)
			if err != nil {
				return nil, fmt.Errorf("token %q: %w", t.ID, err)
			}
			t.ContractAddress = &contract
		}
		if t.Decimals != nil && (*t.Decimals < 0 || *t.Decimals > 77) {
			return nil, fmt.Errorf("token %q: decimals out of range", t.ID)
		}
	}
	for i := range file.Wallets {
		w := &file.Wallets[i]
		if w.ID == "" || w.UserID == "" || w.NetworkID == "" {
			return nil, fmt.Errorf("wallet %q: id, user_id and network_id are required", w.ID)
		}
		address, err := validation.ValidateAndNormalizeAddress(w.Address)
		if err != nil {
			return nil, fmt.Errorf("wallet %q: %w", w.ID, err)
		}
		w.Address = address
		if !models.Workspace(w.Workspace).Valid() {
			return nil, fmt.Errorf("wallet %q: invalid workspace %q", w.ID, w.Workspace)
		}
	}
	return &file, nil
}

// applySeed upserts networks first so tokens and wallets can reference them
func applySeed(ctx context.Context, store seedStore, file *SeedFile, now time.Time) error {
	for _, n := range file.Networks {
		err := store.UpsertBlockchainNetwork(ctx, &models.BlockchainNetwork{
			ID:        n.ID,
			Name:      n.Name,
			RPCURL:    n.RPCURL,
			ChainID:   n.ChainID,
			Workspace: models.Workspace(n.Workspace),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
	}
	for _, t := range file.Tokens {
		active := true
		if t.Active != nil {
			active = *t.Active
		}
		err := store.UpsertCryptoToken(ctx, &models.CryptoToken{
			ID:                  t.ID,
			Name:                t.Name,
			Symbol:              t.Symbol,
			BlockchainNetworkID: t.NetworkID,
			Decimals:            t.Decimals,
			ContractAddress:     t.ContractAddress,
			IsActive:            active,
			CreatedAt:           now,
			UpdatedAt:           now,
		})
		if err != nil {
			return err
		}
	}
	for _, w := range file.Wallets {
		err := store.UpsertWallet(ctx, &models.Wallet{
			ID:            w.ID,
			UserID:        w.UserID,
			Name:          w.Name,
			Address:       w.Address,
			NetworkTypeID: w.NetworkID,
			Workspace:     models.Workspace(w.Workspace),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
