package chain_test

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tickiton/deployer/internal/chain"
	"github.com/tickiton/deployer/internal/contracts"
	"github.com/tickiton/deployer/internal/deploy"
	"github.com/tickiton/deployer/internal/network"
)

const (
	// Hardhat account #0.
	deployerKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

	simulatedChainID = 1337

	tickItOnABI = `[{
		"type": "constructor",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "router", "type": "address"},
			{"name": "vrfCoordinator", "type": "address"},
			{"name": "priceFeed", "type": "address"},
			{"name": "link", "type": "address"},
			{"name": "subscriptionId", "type": "uint256"},
			{"name": "keyHash", "type": "bytes32"},
			{"name": "chainName", "type": "string"},
			{"name": "chainSelector", "type": "uint64"}
		]
	}]`

	// PUSH1 0 PUSH1 0 RETURN: deploys an empty contract.
	emptyInitCode = "0x60006000f3"
	// PUSH1 0 PUSH1 0 REVERT.
	revertingInitCode = "0x60006000fd"
	// Runtime code answering every call with the word 42.
	fortyTwoInitCode = "0x600a600c600039600a6000f3" + "602a60005260206000f3"
)

var deployerBalance = new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))

// autoMining commits a block after every sent transaction so WaitMined finds
// the receipt on its first poll.
type autoMining struct {
	simulated.Client
	backend *simulated.Backend
}

func (a autoMining) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := a.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	a.backend.Commit()
	return nil
}

// wideChainID reports a chain id that needs more than 64 bits.
type wideChainID struct {
	chain.Backend
}

func (wideChainID) ChainID(context.Context) (*big.Int, error) {
	return new(big.Int).Lsh(big.NewInt(1), 64), nil
}

func newSimulatedBackend(t *testing.T) *simulated.Backend {
	t.Helper()

	key, err := crypto.HexToECDSA(strings.TrimPrefix(deployerKey, "0x"))
	require.NoError(t, err)

	backend := simulated.NewBackend(types.GenesisAlloc{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: deployerBalance},
	})
	t.Cleanup(func() { _ = backend.Close() })

	return backend
}

func newArtifact(t *testing.T, rawABI, initCode string) *contracts.Artifact {
	t.Helper()

	parsed, err := abi.JSON(strings.NewReader(rawABI))
	require.NoError(t, err)

	return &contracts.Artifact{
		Name:     contracts.ContractNameTickItOn,
		ABI:      parsed,
		RawABI:   rawABI,
		Bytecode: hexutil.MustDecode(initCode),
	}
}

func simulatedRegistry(t *testing.T) *network.Registry {
	t.Helper()

	registry, err := network.NewRegistry(map[uint64]network.Profile{
		simulatedChainID: {
			Name:          "simulated",
			Router:        "0x0000000000000000000000000000000000000001",
			Coordinator:   "0x0000000000000000000000000000000000000002",
			PriceFeed:     "0x0000000000000000000000000000000000000003",
			Token:         "0x0000000000000000000000000000000000000004",
			KeyID:         "0x" + strings.Repeat("ab", 32),
			ChainSelector: network.SelectorFromUint64(16015286601757825753),
		},
	})
	require.NoError(t, err)

	return registry
}

func TestClientChainID(t *testing.T) {
	backend := newSimulatedBackend(t)

	client, err := chain.NewClient(backend.Client(), deployerKey, chain.Options{})
	require.NoError(t, err)

	chainID, err := client.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(simulatedChainID), chainID)
}

func TestClientChainIDOverflow(t *testing.T) {
	client, err := chain.NewClient(wideChainID{}, deployerKey, chain.Options{})
	require.NoError(t, err)

	_, err = client.ChainID(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not fit in 64 bits")
}

func TestClientBalance(t *testing.T) {
	backend := newSimulatedBackend(t)

	client, err := chain.NewClient(backend.Client(), deployerKey, chain.Options{})
	require.NoError(t, err)

	balance, err := client.Balance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, deployerBalance.Cmp(balance))
}

func TestDeployThroughAssembler(t *testing.T) {
	backend := newSimulatedBackend(t)

	client, err := chain.NewClient(autoMining{Client: backend.Client(), backend: backend}, deployerKey, chain.Options{
		Contract: newArtifact(t, tickItOnABI, emptyInitCode),
	})
	require.NoError(t, err)

	result, err := deploy.NewAssembler(simulatedRegistry(t), client).Deploy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "simulated", result.Network)
	assert.Equal(t, uint64(simulatedChainID), result.ChainID)
	assert.Equal(t, crypto.CreateAddress(client.From(), 0), result.Address)

	receipt, err := backend.Client().TransactionReceipt(context.Background(), result.TxHash)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	assert.Equal(t, receipt.ContractAddress, result.Address)
}

func TestDeployRevertedThroughAssembler(t *testing.T) {
	backend := newSimulatedBackend(t)

	// A fixed gas limit skips estimation, which would reject the creation
	// before it is mined.
	client, err := chain.NewClient(autoMining{Client: backend.Client(), backend: backend}, deployerKey, chain.Options{
		Contract: newArtifact(t, tickItOnABI, revertingInitCode),
		GasLimit: 500_000,
	})
	require.NoError(t, err)

	result, err := deploy.NewAssembler(simulatedRegistry(t), client).Deploy(context.Background())
	require.Error(t, err)
	assert.Equal(t, deploy.Result{}, result)

	assert.ErrorIs(t, err, chain.ErrReverted)

	var failed *deploy.DeploymentFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, "simulated", failed.Network)
	assert.Equal(t, deploy.ExitDeploymentFailed, deploy.ExitCode(err))
}

func TestDeployConfirmationTimeout(t *testing.T) {
	backend := newSimulatedBackend(t)

	// No block is ever committed, so the transaction stays pending.
	client, err := chain.NewClient(backend.Client(), deployerKey, chain.Options{
		Contract:            newArtifact(t, `[]`, emptyInitCode),
		GasLimit:            500_000,
		ConfirmationTimeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	_, err = client.DeployContract(context.Background(), nil)
	require.Error(t, err)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDeployWithoutArtifact(t *testing.T) {
	backend := newSimulatedBackend(t)

	client, err := chain.NewClient(backend.Client(), deployerKey, chain.Options{})
	require.NoError(t, err)

	_, err = client.DeployContract(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no contract artifact configured")
}

func TestTokenBalance(t *testing.T) {
	backend := newSimulatedBackend(t)

	client, err := chain.NewClient(autoMining{Client: backend.Client(), backend: backend}, deployerKey, chain.Options{
		Contract: newArtifact(t, `[]`, fortyTwoInitCode),
	})
	require.NoError(t, err)

	token, err := client.DeployContract(context.Background(), nil)
	require.NoError(t, err)

	balance, err := client.TokenBalance(context.Background(), token.Address)
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance.Int64())
}

func TestNewClientRejectsBadKey(t *testing.T) {
	_, err := chain.NewClient(wideChainID{}, "not-a-key", chain.Options{})
	require.Error(t, err)

	_, err = chain.NewClient(wideChainID{}, "", chain.Options{})
	require.Error(t, err)
}

func TestCloseWithoutConnection(t *testing.T) {
	client, err := chain.NewClient(wideChainID{}, deployerKey, chain.Options{})
	require.NoError(t, err)

	assert.NotPanics(t, client.Close)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), client.From())
}
