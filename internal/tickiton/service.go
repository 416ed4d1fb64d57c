package tickiton

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tickiton/deployer/configs"
	"github.com/tickiton/deployer/internal/chain"
	"github.com/tickiton/deployer/internal/contracts"
	"github.com/tickiton/deployer/internal/deploy"
	"github.com/tickiton/deployer/internal/logger"
	"github.com/tickiton/deployer/internal/network"
	"github.com/tickiton/deployer/internal/output"
)

type (
	chainClient interface {
		deploy.ChainClient
		From() common.Address
		Balance(ctx context.Context) (*big.Int, error)
		TokenBalance(ctx context.Context, token common.Address) (*big.Int, error)
		Close()
	}

	dialer func(ctx context.Context, rpcURL, privateKey string, opts chain.Options) (chainClient, error)

	outputGenerator interface {
		Generate(ctx context.Context, record output.Record) error
		Previous(networkName string) (output.Record, bool, error)
	}

	// Service wires the registry, chain client and deployment records
	// together for the CLI commands.
	Service struct {
		registry        *network.Registry
		outputGenerator outputGenerator
		dial            dialer
		stdout          io.Writer
		now             func() time.Time
		logger          *slog.Logger
	}
)

// NewService creates a service that dials real RPC endpoints.
func NewService(registry *network.Registry, outputGenerator outputGenerator, stdout io.Writer) *Service {
	return &Service{
		registry:        registry,
		outputGenerator: outputGenerator,
		dial:            dialChain,
		stdout:          stdout,
		now:             time.Now,
		logger:          logger.Named("tickiton_service"),
	}
}

func dialChain(ctx context.Context, rpcURL, privateKey string, opts chain.Options) (chainClient, error) {
	return chain.Dial(ctx, rpcURL, privateKey, opts)
}

// Deploy deploys TickItOn to the network behind cfg's endpoint and prints the
// contract address on success.
func (s *Service) Deploy(ctx context.Context, cfg configs.Deploy) (deploy.Result, error) {
	artifact, err := contracts.LoadArtifact(cfg.Artifact, cfg.ContractName)
	if err != nil {
		return deploy.Result{}, fmt.Errorf("failed to load contract artifact: %w", err)
	}

	client, err := s.dial(ctx, cfg.Endpoint(), cfg.PrivateKey, chain.Options{
		Contract:            &artifact,
		GasLimit:            cfg.GasLimit,
		ConfirmationTimeout: cfg.ConfirmationTimeout,
	})
	if err != nil {
		return deploy.Result{}, err
	}
	defer client.Close()

	s.logger.
		With("endpoint", cfg.Network).
		With("deployer", client.From().Hex()).
		Info("starting deployment")

	result, err := deploy.NewAssembler(s.registry, client).Deploy(ctx)
	if err != nil {
		return deploy.Result{}, err
	}

	fmt.Fprintf(s.stdout, "%s deployed to: %s\n", artifact.Name, result.Address.Hex())

	// The contract is already on chain; record failures are only logged.
	s.writeRecord(ctx, output.NewRecord(result, client.From(), artifact, s.now()))

	return result, nil
}

func (s *Service) writeRecord(ctx context.Context, record output.Record) {
	previous, ok, err := s.outputGenerator.Previous(record.Network)
	if err != nil {
		s.logger.With("err", err.Error()).Warn("could not read previous deployment record")
	} else if ok {
		s.logger.
			With("network", record.Network).
			With("previous_address", previous.Address.Hex()).
			Warn("replacing earlier deployment record")
	}

	if err := s.outputGenerator.Generate(ctx, record); err != nil {
		s.logger.With("err", err.Error()).Error("failed to write deployment record")
		return
	}

	s.logger.With("network", record.Network).Info("deployment record written")
}

// Balance prints the deployer's native and LINK balances on the network
// behind cfg's endpoint.
func (s *Service) Balance(ctx context.Context, cfg configs.Deploy) error {
	client, err := s.dial(ctx, cfg.Endpoint(), cfg.PrivateKey, chain.Options{})
	if err != nil {
		return err
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return err
	}

	profile, err := s.registry.Resolve(chainID)
	if err != nil {
		return err
	}

	from := client.From()
	balance, err := client.Balance(ctx)
	fmt.Fprintln(s.stdout, FormatNativeBalance(profile.Name, from.Hex(), balance, err))

	token := common.HexToAddress(profile.Token)
	if token == (common.Address{}) {
		return nil
	}

	tokenBalance, err := client.TokenBalance(ctx, token)
	fmt.Fprintln(s.stdout, FormatTokenBalance(profile.Name, token.Hex(), tokenBalance, err))

	return nil
}

// Networks prints the registry in networks.yaml layout, headed by a comment
// with the number of supported networks.
func (s *Service) Networks() error {
	if _, err := fmt.Fprintf(s.stdout, "# %d supported networks\n", s.registry.Len()); err != nil {
		return err
	}
	return s.registry.WriteYAML(s.stdout)
}

// Review prints registry review findings and returns them.
func (s *Service) Review() []network.Finding {
	findings := network.Review(s.registry)
	for _, finding := range findings {
		s.logger.With("chain_id", finding.ChainID).Warn(finding.Message)
		fmt.Fprintln(s.stdout, finding.String())
	}
	if len(findings) == 0 {
		fmt.Fprintln(s.stdout, "no findings")
	}
	return findings
}

// FormatNativeBalance formats a wei balance for display
func FormatNativeBalance(networkName, address string, balance *big.Int, err error) string {
	if err != nil {
		return fmt.Sprintf("%s: balance query failed for %s (%v)", networkName, address, err)
	}

	return fmt.Sprintf("%s: %s balance %s (%s wei)", networkName, address, formatUnits(balance), balance.String())
}

// FormatTokenBalance formats an 18-decimal token balance for display
func FormatTokenBalance(networkName, tokenAddr string, balance *big.Int, err error) string {
	if err != nil {
		return fmt.Sprintf("%s: token balance query failed for %s (%v)", networkName, tokenAddr, err)
	}

	if balance == nil {
		return fmt.Sprintf("%s: token balance unavailable", networkName)
	}

	return fmt.Sprintf("%s: token balance %s (%s raw) [%s]", networkName, formatUnits(balance), balance.String(), tokenAddr)
}

func formatUnits(v *big.Int) string {
	units := new(big.Float).Quo(
		new(big.Float).SetInt(v),
		new(big.Float).SetInt(big.NewInt(1e18)),
	)
	return units.Text('f', 4)
}
