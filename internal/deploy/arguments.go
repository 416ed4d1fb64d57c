package deploy

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tickiton/deployer/internal/network"
)

// Arity is the number of TickItOn constructor parameters.
const Arity = 8

const (
	addressLength = 2 + 2*common.AddressLength
	keyIDLength   = 2 + 2*common.HashLength
)

// PlaceholderSubscriptionID is passed as the VRF subscription until the
// contract is wired to a real subscription.
var PlaceholderSubscriptionID = big.NewInt(0)

// Arguments is the TickItOn constructor tuple. The order of Values is fixed by
// the contract constructor and must change only together with it.
type Arguments struct {
	Router         common.Address
	Coordinator    common.Address
	PriceFeed      common.Address
	Token          common.Address
	SubscriptionID *big.Int
	KeyID          common.Hash
	Name           string
	ChainSelector  *big.Int
}

// Values returns the constructor arguments in order. A nil integer is passed
// as zero.
func (a Arguments) Values() []any {
	return []any{
		a.Router,
		a.Coordinator,
		a.PriceFeed,
		a.Token,
		bigOrZero(a.SubscriptionID),
		[32]byte(a.KeyID),
		a.Name,
		bigOrZero(a.ChainSelector),
	}
}

func bigOrZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(n)
}

// Assemble validates a resolved profile and builds its constructor tuple.
// Every malformed field is reported as a *ConfigurationError.
func Assemble(profile network.Profile) (Arguments, error) {
	var errs []error

	parseAddress := func(field, value string) common.Address {
		if !isAddress(value) {
			errs = append(errs, &ConfigurationError{
				Network: profile.Name,
				Field:   field,
				Value:   value,
				Reason:  "expected 0x followed by 40 hex digits",
			})
			return common.Address{}
		}
		return common.HexToAddress(value)
	}

	args := Arguments{
		Router:         parseAddress("router", profile.Router),
		Coordinator:    parseAddress("coordinator", profile.Coordinator),
		PriceFeed:      parseAddress("price-feed", profile.PriceFeed),
		Token:          parseAddress("token", profile.Token),
		SubscriptionID: new(big.Int).Set(PlaceholderSubscriptionID),
		Name:           profile.Name,
		ChainSelector:  profile.ChainSelector.Big(),
	}

	keyID, err := parseKeyID(profile.KeyID)
	if err != nil {
		errs = append(errs, &ConfigurationError{
			Network: profile.Name,
			Field:   "key-id",
			Value:   profile.KeyID,
			Reason:  err.Error(),
		})
	}
	args.KeyID = keyID

	if !profile.ChainSelector.IsSet() {
		errs = append(errs, &ConfigurationError{
			Network: profile.Name,
			Field:   "chain-selector",
			Reason:  "missing",
		})
	}

	if len(errs) > 0 {
		return Arguments{}, errors.Join(errs...)
	}

	return args, nil
}

func isAddress(s string) bool {
	return len(s) == addressLength && strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

func parseKeyID(s string) (common.Hash, error) {
	if len(s) != keyIDLength || !strings.HasPrefix(s, "0x") {
		return common.Hash{}, errors.New("expected 0x followed by 64 hex digits")
	}

	raw, err := hexutil.Decode(s)
	if err != nil {
		return common.Hash{}, err
	}

	return common.BytesToHash(raw), nil
}
