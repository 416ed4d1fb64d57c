package tickiton

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tickiton/deployer/configs"
	"github.com/tickiton/deployer/internal/contracts"
	"github.com/tickiton/deployer/internal/network"
	"github.com/tickiton/deployer/internal/output"
)

func init() {
	reviewCmd.Flags().Bool("strict", false, "Exit non-zero when there are findings")
	NetworksCMD.AddCommand(reviewCmd)
}

var DeployCMD = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy TickItOn with the constructor arguments of the connected network",
	Long: `Deploy connects to the endpoint named by --network, reads the chain id the
node reports and deploys TickItOn with the registry profile for that chain id.

Exit status: 0 on success, 2 for an unsupported network, 3 for a malformed
registry profile, 4 when the deployment transaction fails, 1 otherwise.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configs.Values.Deploy
		slog.Info("starting deploy command. Validating config", slog.String("network", cfg.Network))

		if err := cfg.Validate(); err != nil {
			return err
		}

		registry, err := loadRegistry(cfg.Registry)
		if err != nil {
			return err
		}

		service := NewService(registry, output.NewGenerator(cfg.OutputDir), cmd.OutOrStdout())
		if _, err := service.Deploy(cmd.Context(), cfg); err != nil {
			return err
		}

		slog.Info("deploy completed successfully")

		return nil
	},
}

var BalanceCMD = &cobra.Command{
	Use:   "balance",
	Short: "Show the deployer's native and LINK balances on the connected network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configs.Values.Deploy
		if err := cfg.ValidateConnection(); err != nil {
			return err
		}

		registry, err := loadRegistry(cfg.Registry)
		if err != nil {
			return err
		}

		return NewService(registry, nil, cmd.OutOrStdout()).Balance(cmd.Context(), cfg)
	},
}

var NetworksCMD = &cobra.Command{
	Use:   "networks",
	Short: "Print the network registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry(configs.Values.Deploy.Registry)
		if err != nil {
			return err
		}

		return NewService(registry, nil, cmd.OutOrStdout()).Networks()
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Cross-check registry chain selectors against the CCIP selector table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry(configs.Values.Deploy.Registry)
		if err != nil {
			return err
		}

		strict, _ := cmd.Flags().GetBool("strict")
		findings := NewService(registry, nil, cmd.OutOrStdout()).Review()
		if strict && len(findings) > 0 {
			return fmt.Errorf("network registry has %d review findings", len(findings))
		}

		return nil
	},
}

var CompileCMD = &cobra.Command{
	Use:   "compile",
	Short: "Compile the contract with forge into compile.output-dir",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configs.Values.Compile
		if err := cfg.Validate(); err != nil {
			return err
		}

		var names []string
		if name := configs.Values.Deploy.ContractName; name != "" {
			names = append(names, name)
		}

		path, err := contracts.NewCompiler(cfg.ContractsDir, cfg.OutputDir).Compile(cmd.Context(), names)
		if err != nil {
			return fmt.Errorf("error occurred compiling contracts: %w", err)
		}

		if artifact := configs.Values.Deploy.Artifact; filepath.Clean(artifact) != filepath.Clean(path) {
			slog.
				With("compiled", path).
				With("deploy_artifact", artifact).
				Warn("deploy.artifact points elsewhere; set it to the compiled file to deploy this build")
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)

		return nil
	},
}

func loadRegistry(path string) (*network.Registry, error) {
	if path == "" {
		return network.Default()
	}

	slog.With("path", path).Info("loading network registry")
	return network.LoadFile(path)
}
