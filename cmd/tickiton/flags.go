package main

import (
	"github.com/spf13/viper"
)

type (
	flagType interface {
		string | int | bool
	}

	// flagDef defines a command-line flag and the viper key it overrides.
	flagDef[T flagType] struct {
		name         string
		viperKey     string
		defaultValue T
		description  string
	}
)

// Defaults live in configs/config.example.yaml; flag defaults stay empty so
// they never shadow a config file or environment value.
var (
	stringFlags = []flagDef[string]{
		{"log-level", "log-level", "info", "Log level (debug, info, warn, error)"},

		// Connection
		{"network", "deploy.network", "", "Endpoint name under deploy.endpoints to connect to"},
		{"private-key", "deploy.private-key", "", "Deployer private key (prefer the PRIVATE_KEY environment variable)"},

		// Deployment
		{"artifact", "deploy.artifact", "", "Path to the compiled contract artifact"},
		{"contract-name", "deploy.contract-name", "", "Contract name inside the artifact"},
		{"registry", "deploy.registry", "", "Alternate network registry file (networks.yaml layout)"},
		{"confirmation-timeout", "deploy.confirmation-timeout", "", "Maximum wait for the creation receipt, e.g. 10m (0 waits indefinitely)"},
		{"output-dir", "deploy.output-dir", "", "Directory for deployment records"},

		// Compile
		{"contracts-dir", "compile.contracts-dir", "", "Foundry project directory"},
		{"compile-output-dir", "compile.output-dir", "", "Directory for compiled contracts"},
	}

	intFlags = []flagDef[int]{
		{"gas-limit", "deploy.gas-limit", 0, "Gas limit for the creation transaction (0 estimates)"},
	}

	boolFlags = []flagDef[bool]{}
)

func init() {
	if err := declareFlags(stringFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(intFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(boolFlags); err != nil {
		panic(err)
	}
}

// declareFlags declares multiple persistent flags and binds them to viper configuration keys.
func declareFlags[T flagType](flags []flagDef[T]) error {
	for _, flag := range flags {
		if err := declareFlag(flag.name, flag.viperKey, flag.defaultValue, flag.description); err != nil {
			return err
		}
	}
	return nil
}

// declareFlag declares a single persistent flag and binds it to a viper configuration key.
// The type parameter T determines the flag type (string, int, or bool).
func declareFlag[T flagType](flagName, viperKey string, defaultValue T, description string) error {
	flags := rootCmd.PersistentFlags()
	switch v := any(defaultValue).(type) {
	case string:
		flags.String(flagName, v, description)
	case int:
		flags.Int(flagName, v, description)
	case bool:
		flags.Bool(flagName, v, description)
	}
	return viper.BindPFlag(viperKey, flags.Lookup(flagName))
}
