package network

// Profile holds the external contract addresses and protocol parameters that
// TickItOn needs on one network. Fields are kept exactly as written in the
// registry data; format checks happen when deployment arguments are assembled.
type Profile struct {
	Name          string   `yaml:"name" json:"name"`
	Router        string   `yaml:"router" json:"router"`
	Coordinator   string   `yaml:"coordinator" json:"coordinator"`
	PriceFeed     string   `yaml:"price-feed" json:"priceFeed"`
	Token         string   `yaml:"token" json:"token"`
	KeyID         string   `yaml:"key-id" json:"keyId"`
	ChainSelector Selector `yaml:"chain-selector" json:"chainSelector"`
}
