package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/kyro-pay/gateway/internal/models"
)

// Wallets, tokens and networks are owned by the external CRUD layer. The gateway
// only reads them; the upserts exist for the seed command.

func (db *DB) GetWallet(ctx context.Context, id string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := db.Conn.WithContext(ctx).Where("id = ?", id).First(&wallet).Error; err != nil {
		return nil, wrapNotFound(err, "failed to get wallet")
	}
	return &wallet, nil
}

func (db *DB) UpsertWallet(ctx context.Context, wallet *models.Wallet) error {
	if err := db.Conn.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to upsert wallet: %w", err)
	}
	return nil
}

func (db *DB) GetCryptoToken(ctx context.Context, id string) (*models.CryptoToken, error) {
	var token models.CryptoToken
	if err := db.Conn.WithContext(ctx).Preload("BlockchainNetwork").Where("id = ?", id).First(&token).Error; err != nil {
		return nil, wrapNotFound(err, "failed to get crypto token")
	}
	return &token, nil
}

func (db *DB) UpsertCryptoToken(ctx context.Context, token *models.CryptoToken) error {
	if err := db.Conn.WithContext(ctx).Omit("BlockchainNetwork").Clauses(clause.OnConflict{UpdateAll: true}).Create(token).Error; err != nil {
		return fmt.Errorf("failed to upsert crypto token: %w", err)
	}
	return nil
}

func (db *DB) GetBlockchainNetwork(ctx context.Context, id string) (*models.BlockchainNetwork, error) {
	var network models.BlockchainNetwork
	if err := db.Conn.WithContext(ctx).Where("id = ?", id).First(&network).Error; err != nil {
		return nil, wrapNotFound(err, "failed to get blockchain network")
	}
	return &network, nil
}

func (db *DB) UpsertBlockchainNetwork(ctx context.Context, network *models.BlockchainNetwork) error {
	if err := db.Conn.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(network).Error; err != nil {
		return fmt.Errorf("failed to upsert blockchain network: %w", err)
	}
	return nil
}
