package deploy

import (
	"errors"
	"fmt"

	"github.com/tickiton/deployer/internal/network"
)

// Process exit statuses for the three fatal error kinds. Any other failure
// exits with ExitFailure.
const (
	ExitOK                 = 0
	ExitFailure            = 1
	ExitUnsupportedNetwork = 2
	ExitConfiguration      = 3
	ExitDeploymentFailed   = 4
)

// ConfigurationError means a known network has malformed registry data.
type ConfigurationError struct {
	Network string
	Field   string
	Value   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: network %q field %s has malformed value %q: %s", e.Network, e.Field, e.Value, e.Reason)
}

// DeploymentFailedError wraps whatever the chain client reported when the
// contract creation did not succeed.
type DeploymentFailedError struct {
	Network string
	ChainID uint64
	Cause   error
}

func (e *DeploymentFailedError) Error() string {
	return fmt.Sprintf("deployment to %s (chain id %d) failed: %v", e.Network, e.ChainID, e.Cause)
}

func (e *DeploymentFailedError) Unwrap() error {
	return e.Cause
}

// ExitCode maps an error returned by the deploy flow to a process exit status.
func ExitCode(err error) int {
	var (
		unsupported *network.UnsupportedNetworkError
		config      *ConfigurationError
		failed      *DeploymentFailedError
	)

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &unsupported):
		return ExitUnsupportedNetwork
	case errors.As(err, &config):
		return ExitConfiguration
	case errors.As(err, &failed):
		return ExitDeploymentFailed
	default:
		return ExitFailure
	}
}
