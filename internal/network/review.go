package network

import (
	"fmt"

	chainsel "github.com/smartcontractkit/chain-selectors"
)

// Finding is a registry entry that disagrees with the canonical CCIP selector
// table and needs a human to confirm which value is right.
type Finding struct {
	ChainID  uint64
	Network  string
	Expected string
	Actual   string
	Message  string
}

func (f Finding) String() string {
	if f.Expected == "" {
		return fmt.Sprintf("%s (chain id %d): %s", f.Network, f.ChainID, f.Message)
	}
	return fmt.Sprintf("%s (chain id %d): %s: registry has %s, expected %s", f.Network, f.ChainID, f.Message, f.Actual, f.Expected)
}

// Review cross-checks every profile's chain selector. It only reports; the
// registry is left untouched.
func Review(r *Registry) []Finding {
	var findings []Finding

	for _, chainID := range r.ChainIDs() {
		profile := r.profiles[chainID]

		expected, err := chainsel.SelectorFromChainId(chainID)
		if err != nil {
			findings = append(findings, Finding{
				ChainID: chainID,
				Network: profile.Name,
				Actual:  profile.ChainSelector.String(),
				Message: "chain id is not in the CCIP selector table",
			})
			continue
		}

		want := SelectorFromUint64(expected)
		if !want.Equal(profile.ChainSelector) {
			findings = append(findings, Finding{
				ChainID:  chainID,
				Network:  profile.Name,
				Expected: want.String(),
				Actual:   profile.ChainSelector.String(),
				Message:  "chain selector mismatch",
			})
		}
	}

	return findings
}
