package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tickiton/deployer/internal/chain"
	"github.com/tickiton/deployer/internal/logger"
	"github.com/tickiton/deployer/internal/network"
)

type (
	// ChainClient is the connection the assembler deploys through. Both calls
	// may block on the network; cancellation is the client's concern.
	ChainClient interface {
		ChainID(ctx context.Context) (uint64, error)
		DeployContract(ctx context.Context, args []any) (chain.Deployment, error)
	}

	resolver interface {
		Resolve(chainID uint64) (network.Profile, error)
	}

	// Result describes a confirmed deployment.
	Result struct {
		Network   string
		ChainID   uint64
		Address   common.Address
		TxHash    common.Hash
		Arguments Arguments
	}

	// Assembler runs one deployment attempt: detect the network, resolve and
	// validate its profile, then submit the contract creation.
	Assembler struct {
		registry resolver
		client   ChainClient
		logger   *slog.Logger
	}
)

// NewAssembler creates an assembler over the given registry and client.
func NewAssembler(registry *network.Registry, client ChainClient) *Assembler {
	return &Assembler{
		registry: registry,
		client:   client,
		logger:   logger.Named("assembler"),
	}
}

// Deploy performs a single attempt with no retries. Errors are
// *network.UnsupportedNetworkError, *ConfigurationError or
// *DeploymentFailedError, or a wrapped client error if the chain id could not
// be read.
func (a *Assembler) Deploy(ctx context.Context) (Result, error) {
	chainID, err := a.client.ChainID(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get chain ID: %w", err)
	}
	a.logger.With("chain_id", chainID).Info("detected chain ID")

	profile, err := a.registry.Resolve(chainID)
	if err != nil {
		return Result{}, err
	}

	args, err := Assemble(profile)
	if err != nil {
		return Result{}, err
	}

	a.logger.
		With("network", profile.Name).
		With("chain_selector", args.ChainSelector.String()).
		Info("deploying TickItOn")

	deployment, err := a.client.DeployContract(ctx, args.Values())
	if err != nil {
		return Result{}, &DeploymentFailedError{
			Network: profile.Name,
			ChainID: chainID,
			Cause:   err,
		}
	}

	a.logger.
		With("address", deployment.Address.Hex()).
		With("tx_hash", deployment.TxHash.Hex()).
		Info("TickItOn deployed")

	return Result{
		Network:   profile.Name,
		ChainID:   chainID,
		Address:   deployment.Address,
		TxHash:    deployment.TxHash,
		Arguments: args,
	}, nil
}
