package network

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	//go:embed networks.yaml
	defaultRegistryYAML string

	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
	defaultRegistryErr  error
)

type (
	// Registry maps chain ids to deployment profiles. It is built once and
	// never mutated; lookups return copies.
	Registry struct {
		profiles map[uint64]Profile
	}

	registryFile struct {
		Networks []registryEntry `yaml:"networks"`
	}

	registryEntry struct {
		ChainID uint64  `yaml:"chain-id"`
		Profile Profile `yaml:",inline"`
	}
)

// NewRegistry builds a registry from the given table. Names must be non-empty
// and unique across the table.
func NewRegistry(profiles map[uint64]Profile) (*Registry, error) {
	var errs []error

	byName := make(map[string]uint64, len(profiles))
	copied := make(map[uint64]Profile, len(profiles))
	for _, chainID := range sortedKeys(profiles) {
		profile := profiles[chainID]
		switch other, dup := byName[profile.Name]; {
		case profile.Name == "":
			errs = append(errs, fmt.Errorf("chain id %d: profile name is required", chainID))
		case dup:
			errs = append(errs, fmt.Errorf("chain ids %d and %d share profile name %q", other, chainID, profile.Name))
		default:
			byName[profile.Name] = chainID
		}
		copied[chainID] = profile
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid network registry: %w", errors.Join(errs...))
	}

	return &Registry{profiles: copied}, nil
}

// Load parses a registry document in the networks.yaml layout.
func Load(r io.Reader) (*Registry, error) {
	var file registryFile
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode network registry: %w", err)
	}

	profiles := make(map[uint64]Profile, len(file.Networks))
	for _, entry := range file.Networks {
		if entry.ChainID == 0 {
			return nil, fmt.Errorf("network %q: chain-id is required", entry.Profile.Name)
		}
		if _, dup := profiles[entry.ChainID]; dup {
			return nil, fmt.Errorf("chain id %d is listed more than once", entry.ChainID)
		}
		if !entry.Profile.ChainSelector.IsSet() {
			return nil, fmt.Errorf("network %q: chain-selector is required", entry.Profile.Name)
		}
		profiles[entry.ChainID] = entry.Profile
	}

	return NewRegistry(profiles)
}

// LoadFile reads a registry from disk.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open network registry: %w", err)
	}
	defer f.Close()

	registry, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return registry, nil
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	defaultRegistryOnce.Do(func() {
		defaultRegistry, defaultRegistryErr = Load(strings.NewReader(defaultRegistryYAML))
		if defaultRegistryErr != nil {
			defaultRegistryErr = fmt.Errorf("embedded networks.yaml: %w", defaultRegistryErr)
		}
	})

	return defaultRegistry, defaultRegistryErr
}

// MustDefault returns the embedded registry or panics if it cannot be parsed.
func MustDefault() *Registry {
	registry, err := Default()
	if err != nil {
		panic(err)
	}
	return registry
}

// Resolve returns the profile registered for chainID. There is no fallback:
// an unknown chain id is always an *UnsupportedNetworkError.
func (r *Registry) Resolve(chainID uint64) (Profile, error) {
	profile, ok := r.profiles[chainID]
	if !ok {
		return Profile{}, &UnsupportedNetworkError{ChainID: chainID}
	}
	return profile, nil
}

// WriteYAML encodes the registry in the layout Load reads.
func (r *Registry) WriteYAML(w io.Writer) error {
	var file registryFile
	for _, chainID := range r.ChainIDs() {
		file.Networks = append(file.Networks, registryEntry{ChainID: chainID, Profile: r.profiles[chainID]})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(file); err != nil {
		return fmt.Errorf("failed to encode network registry: %w", err)
	}
	return encoder.Close()
}

// ChainIDs returns the supported chain ids in ascending order.
func (r *Registry) ChainIDs() []uint64 {
	return sortedKeys(r.profiles)
}

// Len returns the number of supported networks.
func (r *Registry) Len() int {
	return len(r.profiles)
}

func sortedKeys(profiles map[uint64]Profile) []uint64 {
	ids := make([]uint64, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
