package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findingsByChain(findings []Finding) map[uint64]Finding {
	out := make(map[uint64]Finding, len(findings))
	for _, f := range findings {
		out[f.ChainID] = f
	}
	return out
}

func TestReviewDefaultRegistry(t *testing.T) {
	findings := findingsByChain(Review(MustDefault()))

	assert.NotContains(t, findings, uint64(11155111))
	assert.NotContains(t, findings, uint64(43113))

	amoy, ok := findings[80002]
	require.True(t, ok, "Amoy carries the Mumbai selector and must be flagged")
	assert.Equal(t, "polygon", amoy.Network)
	assert.Equal(t, "12532609583862916517", amoy.Actual)
	assert.Contains(t, amoy.String(), "chain selector mismatch")
}

func TestReviewFlagsWrongSelector(t *testing.T) {
	registry, err := NewRegistry(map[uint64]Profile{
		11155111: {Name: "ethereum", ChainSelector: MustSelector("1")},
	})
	require.NoError(t, err)

	findings := Review(registry)
	require.Len(t, findings, 1)
	assert.Equal(t, "16015286601757825753", findings[0].Expected)
	assert.Equal(t, "1", findings[0].Actual)
}
