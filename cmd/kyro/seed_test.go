package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyro-pay/gateway/internal/models"
	"github.com/kyro-pay/gateway/internal/repository/repotest"
)

const seedYAML = `
networks:
  - id: net_sepolia
    name: Ethereum Sepolia
    rpc_url: https://rpc.sepolia.org
    chain_id: 11155111
    workspace: testnet
tokens:
  - id: tok_eth
    name: Ether
    symbol: ETH
    network_id: net_sepolia
    decimals: 18
  - id: tok_usdc
    name: USD Coin
    symbol: USDC
    network_id: net_sepolia
    contract_address: "0x1C7D4B196Cb0C7B01d743Fbc6116a902379C7238"
    active: false
wallets:
  - id: wal_1
    user_id: usr_1
    name: main
    address: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
    network_id: net_sepolia
    workspace: testnet
`

func TestApplySeed(t *testing.T) {
	file, err := parseSeedFile(strings.NewReader(seedYAML))
	require.NoError(t, err)

	db := repotest.NewDB(t)
	ctx := context.Background()
	require.NoError(t, applySeed(ctx, db, file, time.Now().UTC()))
	// upserts are repeatable
	require.NoError(t, applySeed(ctx, db, file, time.Now().UTC()))

	network, err := db.GetBlockchainNetwork(ctx, "net_sepolia")
	require.NoError(t, err)
	assert.Equal(t, int64(11155111), network.ChainID)
	assert.Equal(t, models.WorkspaceTestnet, network.Workspace)

	eth, err := db.GetCryptoToken(ctx, "tok_eth")
	require.NoError(t, err)
	require.NotNil(t, eth.Decimals)
	assert.Equal(t, int32(18), *eth.Decimals)
	assert.Nil(t, eth.ContractAddress)
	assert.True(t, eth.IsActive)

	usdc, err := db.GetCryptoToken(ctx, "tok_usdc")
	require.NoError(t, err)
	assert.Nil(t, usdc.Decimals)
	require.NotNil(t, usdc.ContractAddress)
	assert.Equal(t, "0x1c7d4b196cb0c7b01d743fbc6116a902379c7238", *usdc.ContractAddress)
	assert.False(t, usdc.IsActive)

	wallet, err := db.GetWallet(ctx, "wal_1")
	require.NoError(t, err)
	assert.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", wallet.Address)
}

func TestParseSeedFileRejectsInvalidData(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown key":     "networks:\n  - id: n\n    rpc: x\n",
		"bad workspace":   "networks:\n  - id: n\n    rpc_url: http://x\n    chain_id: 1\n    workspace: devnet\n",
		"bad contract":    "tokens:\n  - id: t\n    symbol: T\n    network_id: n\n    contract_address: \"0x12\"\n",
		"bad wallet":      "wallets:\n  - id: w\n    user_id: u\n    network_id: n\n    address: nope\n    workspace: testnet\n",
		"missing chainid": "networks:\n  - id: n\n    rpc_url: http://x\n    workspace: testnet\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseSeedFile(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestParseEmptySeedFile(t *testing.T) {
	file, err := parseSeedFile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, file.Networks)
}

func TestParseSeedFileNormalizesAddresses(t *testing.T) {
	file, err := parseSeedFile(strings.NewReader(seedYAML))
	require.NoError(t, err)

	require.NotNil(t, file.Tokens[1].ContractAddress)
	assert.Equal(t, "0x1c7d4b196cb0c7b01d743fbc6116a902379c7238", *file.Tokens[1].ContractAddress)
	assert.Nil(t, file.Tokens[0].ContractAddress)
	assert.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", file.Wallets[0].Address)
}
