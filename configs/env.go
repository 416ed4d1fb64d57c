package configs

import (
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "TICKITON"

// BindEnv lets TICKITON_<SECTION>_<KEY> override any key, and keeps the
// variable names of the Hardhat setup (.env with PRIVATE_KEY and
// ALCHEMY_*_URL) working.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindings := [][]string{
		{"deploy.private-key", "TICKITON_DEPLOY_PRIVATE_KEY", "PRIVATE_KEY"},
		{"deploy.endpoints." + string(EndpointSepolia), "TICKITON_DEPLOY_ENDPOINTS_SEPOLIA", "ALCHEMY_SEPOLIA_URL"},
		{"deploy.endpoints." + string(EndpointPolygonAmoy), "TICKITON_DEPLOY_ENDPOINTS_POLYGON_AMOY", "ALCHEMY_AMOY_URL"},
	}
	for _, binding := range bindings {
		if err := v.BindEnv(binding...); err != nil {
			return err
		}
	}

	return nil
}
