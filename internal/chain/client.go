package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/tickiton/deployer/internal/contracts"
	keys "github.com/tickiton/deployer/internal/crypto"
	"github.com/tickiton/deployer/internal/logger"
)

// ErrReverted is returned when the creation transaction was mined with a
// failed status.
var ErrReverted = errors.New("contract creation reverted")

type (
	// Options tune a Client. Zero values mean "let the node estimate gas" and
	// "wait for confirmation without a deadline".
	Options struct {
		Contract            *contracts.Artifact
		GasLimit            uint64
		ConfirmationTimeout time.Duration
	}

	// Deployment identifies a confirmed contract creation.
	Deployment struct {
		Address common.Address
		TxHash  common.Hash
	}

	// Backend is the part of an Ethereum RPC client the deployer uses.
	// *ethclient.Client and the simulated backend's client both satisfy it.
	Backend interface {
		bind.ContractBackend
		bind.DeployBackend
		ChainID(ctx context.Context) (*big.Int, error)
		BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	}

	// Client is a Backend bound to one deployer key.
	Client struct {
		eth        Backend
		close      func()
		privateKey *ecdsa.PrivateKey
		from       common.Address
		opts       Options
		logger     *slog.Logger
	}
)

// Dial connects to rpcURL and loads the deployer key.
func Dial(ctx context.Context, rpcURL, privateKeyHex string, opts Options) (*Client, error) {
	privateKey, err := parseKey(privateKeyHex)
	if err != nil {
		return nil, err
	}

	logger.Named("chain_client").With("url", rpcURL).Info("dialing RPC")

	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}

	client := newClient(eth, privateKey, opts)
	client.close = eth.Close

	return client, nil
}

// NewClient binds an already connected backend to the deployer key. Close is
// a no-op for clients built this way; the caller owns the backend.
func NewClient(backend Backend, privateKeyHex string, opts Options) (*Client, error) {
	privateKey, err := parseKey(privateKeyHex)
	if err != nil {
		return nil, err
	}

	return newClient(backend, privateKey, opts), nil
}

func parseKey(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	privateKey, _, err := keys.ParsePrivateKey(privateKeyHex)
	return privateKey, err
}

func newClient(backend Backend, privateKey *ecdsa.PrivateKey, opts Options) *Client {
	from := crypto.PubkeyToAddress(privateKey.PublicKey)

	return &Client{
		eth:        backend,
		privateKey: privateKey,
		from:       from,
		opts:       opts,
		logger:     logger.Named("chain_client").With("deployer", from.Hex()),
	}
}

// Close releases the RPC connection.
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

// From returns the deployer address.
func (c *Client) From() common.Address {
	return c.from
}

// ChainID returns the chain id reported by the node.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if !chainID.IsUint64() {
		return 0, fmt.Errorf("chain ID %s does not fit in 64 bits", chainID)
	}
	return chainID.Uint64(), nil
}

// DeployContract sends the creation transaction for the configured contract
// and blocks until it is mined. A mined but failed creation returns
// ErrReverted.
func (c *Client) DeployContract(ctx context.Context, args []any) (Deployment, error) {
	contract := c.opts.Contract
	if contract == nil {
		return Deployment{}, errors.New("no contract artifact configured")
	}

	packed, err := CoerceArguments(contract.ABI.Constructor, args)
	if err != nil {
		return Deployment{}, fmt.Errorf("invalid constructor arguments for %s: %w", contract.Name, err)
	}

	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return Deployment{}, fmt.Errorf("failed to get chain ID: %w", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(c.privateKey, chainID)
	if err != nil {
		return Deployment{}, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	auth.GasLimit = c.opts.GasLimit

	address, tx, _, err := bind.DeployContract(auth, contract.ABI, contract.Bytecode, c.eth, packed...)
	if err != nil {
		return Deployment{}, fmt.Errorf("failed to deploy %s: %w", contract.Name, err)
	}

	c.logger.
		With("address", address.Hex()).
		With("tx_hash", tx.Hash().Hex()).
		Info("contract deployment transaction sent, waiting for confirmation")

	waitCtx := ctx
	if c.opts.ConfirmationTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, c.opts.ConfirmationTimeout)
		defer cancel()
	}

	receipt, err := bind.WaitMined(waitCtx, c.eth, tx)
	if err != nil {
		return Deployment{}, fmt.Errorf("failed to wait for transaction %s: %w", tx.Hash().Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return Deployment{}, fmt.Errorf("%w: transaction %s in block %s", ErrReverted, tx.Hash().Hex(), receipt.BlockNumber)
	}

	if receipt.ContractAddress != (common.Address{}) {
		address = receipt.ContractAddress
	}

	return Deployment{Address: address, TxHash: tx.Hash()}, nil
}

// Balance returns the deployer's native balance.
func (c *Client) Balance(ctx context.Context) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, c.from, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// TokenBalance returns the deployer's balance of an ERC-20 token.
func (c *Client) TokenBalance(ctx context.Context, token common.Address) (*big.Int, error) {
	methodID := crypto.Keccak256([]byte("balanceOf(address)"))[:4]
	paddedAddress := common.LeftPadBytes(c.from.Bytes(), 32)
	data := append(methodID, paddedAddress...)

	msg := ethereum.CallMsg{
		To:   &token,
		Data: data,
	}

	result, err := c.eth.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call contract: %w", err)
	}

	return new(big.Int).SetBytes(result), nil
}
