package configs

import (
	"errors"
	"fmt"
	"time"

	"github.com/tickiton/deployer/internal/crypto"
)

var Values Config

type (
	EndpointName string

	Config struct {
		LogLevel string  `mapstructure:"log-level"`
		Deploy   Deploy  `mapstructure:"deploy"`
		Compile  Compile `mapstructure:"compile"`
	}

	Deploy struct {
		Network             string                  `mapstructure:"network"`
		Endpoints           map[EndpointName]string `mapstructure:"endpoints"`
		PrivateKey          string                  `mapstructure:"private-key"`
		Artifact            string                  `mapstructure:"artifact"`
		ContractName        string                  `mapstructure:"contract-name"`
		Registry            string                  `mapstructure:"registry"`
		GasLimit            uint64                  `mapstructure:"gas-limit"`
		ConfirmationTimeout time.Duration           `mapstructure:"confirmation-timeout"`
		OutputDir           string                  `mapstructure:"output-dir"`
	}

	Compile struct {
		ContractsDir string `mapstructure:"contracts-dir"`
		OutputDir    string `mapstructure:"output-dir"`
	}
)

const (
	EndpointSepolia       EndpointName = "sepolia"
	EndpointPolygonAmoy   EndpointName = "polygon_amoy"
	EndpointAvalancheFuji EndpointName = "avalanche_fuji"
	EndpointLocalhost     EndpointName = "localhost"
)

// Endpoint returns the RPC URL of the selected network.
func (c *Deploy) Endpoint() string {
	return c.Endpoints[EndpointName(c.Network)]
}

// ValidateConnection checks what is needed to talk to the selected network.
func (c *Deploy) ValidateConnection() error {
	var errs []error

	if c.Network == "" {
		errs = append(errs, errors.New("deploy.network is required"))
	} else if c.Endpoint() == "" {
		errs = append(errs, fmt.Errorf("deploy.endpoints.%s is required", c.Network))
	}

	if c.PrivateKey == "" {
		errs = append(errs, errors.New("deploy.private-key is required"))
	} else if _, err := crypto.AddressFromPrivateKey(c.PrivateKey); err != nil {
		errs = append(errs, fmt.Errorf("deploy.private-key is invalid: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("deploy configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

// Validate checks everything the deploy command needs.
func (c *Deploy) Validate() error {
	var errs []error

	if err := c.ValidateConnection(); err != nil {
		errs = append(errs, err)
	}
	if c.Artifact == "" {
		errs = append(errs, errors.New("deploy.artifact is required"))
	}
	if c.ContractName == "" {
		errs = append(errs, errors.New("deploy.contract-name is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("deploy.output-dir is required"))
	}
	if c.ConfirmationTimeout < 0 {
		errs = append(errs, errors.New("deploy.confirmation-timeout must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *Compile) Validate() error {
	var errs []error

	if c.ContractsDir == "" {
		errs = append(errs, errors.New("compile.contracts-dir is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("compile.output-dir is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("compile configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}
