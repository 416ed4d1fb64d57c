package output

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tickiton/deployer/internal/network"
	"gopkg.in/yaml.v3"
)

type (
	// Record is written after every successful deployment.
	Record struct {
		Network    string               `yaml:"network" json:"network"`
		ChainID    uint64               `yaml:"chain-id" json:"chainId"`
		Contract   string               `yaml:"contract" json:"contract"`
		Address    common.Address       `yaml:"address" json:"address"`
		TxHash     common.Hash          `yaml:"tx-hash" json:"txHash"`
		Deployer   common.Address       `yaml:"deployer" json:"deployer"`
		DeployedAt time.Time            `yaml:"deployed-at" json:"deployedAt"`
		Arguments  ConstructorArguments `yaml:"constructor-arguments" json:"constructorArguments"`
		ABI        SingleQuotedString   `yaml:"abi,omitempty" json:"-"`
	}

	ConstructorArguments struct {
		Router         common.Address   `yaml:"router" json:"router"`
		Coordinator    common.Address   `yaml:"coordinator" json:"coordinator"`
		PriceFeed      common.Address   `yaml:"price-feed" json:"priceFeed"`
		Token          common.Address   `yaml:"token" json:"token"`
		SubscriptionID string           `yaml:"subscription-id" json:"subscriptionId"`
		KeyID          common.Hash      `yaml:"key-id" json:"keyId"`
		Name           string           `yaml:"name" json:"name"`
		ChainSelector  network.Selector `yaml:"chain-selector" json:"chainSelector"`
	}

	SingleQuotedString string
)

func (s SingleQuotedString) MarshalYAML() (any, error) {
	node := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.SingleQuotedStyle,
		Value: string(s),
	}
	return node, nil
}
