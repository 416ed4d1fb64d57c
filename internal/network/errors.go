package network

import "fmt"

// UnsupportedNetworkError is returned when a chain id has no registry entry.
type UnsupportedNetworkError struct {
	ChainID uint64
}

func (e *UnsupportedNetworkError) Error() string {
	return fmt.Sprintf("unsupported network: chain id %d has no registered profile", e.ChainID)
}
