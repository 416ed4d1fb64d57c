package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/tickiton/deployer/internal/logger"
)

// CompiledFileName is the file Compiler writes into its output directory.
const CompiledFileName = "contracts.json"

type (
	// forgeRunner runs forge with args in dir and returns its stdout.
	forgeRunner func(ctx context.Context, dir string, args ...string) ([]byte, error)

	// compiledContract is one entry of the name-keyed map LoadArtifact reads.
	compiledContract struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode string          `json:"bytecode"`
	}

	// Compiler builds deployable artifacts from a Foundry project.
	Compiler struct {
		contractsRootDir string
		outputDir        string
		forge            forgeRunner
		logger           *slog.Logger
	}
)

// NewCompiler creates a compiler for the Foundry project in contractsRootDir.
func NewCompiler(contractsRootDir, outputDir string) *Compiler {
	return &Compiler{
		contractsRootDir: contractsRootDir,
		outputDir:        outputDir,
		forge:            runForge,
		logger:           logger.Named("contracts_compiler"),
	}
}

func runForge(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = dir
	cmd.Stderr = os.Stderr
	return cmd.Output()
}

// Compile inspects the named contracts (TickItOn when none are given), writes
// them to CompiledFileName in the output directory and checks that each one
// loads as a deploy artifact. It returns the written file path.
func (c *Compiler) Compile(ctx context.Context, contractNames []string) (string, error) {
	if len(contractNames) == 0 {
		contractNames = []string{ContractNameTickItOn}
	}

	c.logger.
		With("contracts_dir", c.contractsRootDir).
		With("contracts", contractNames).
		Info("starting contract compilation")

	compiled := make(map[string]compiledContract, len(contractNames))
	for _, name := range contractNames {
		contract, err := c.inspect(ctx, name)
		if err != nil {
			return "", fmt.Errorf("failed to compile %s: %w", name, err)
		}
		compiled[name] = contract
	}

	outputPath, err := c.write(compiled)
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", CompiledFileName, err)
	}

	for _, name := range contractNames {
		artifact, err := LoadArtifact(outputPath, name)
		if err != nil {
			return "", fmt.Errorf("compiled output is not deployable: %w", err)
		}

		c.logger.
			With("contract", artifact.Name).
			With("constructor_inputs", len(artifact.ABI.Constructor.Inputs)).
			With("bytecode_size", len(artifact.Bytecode)).
			With("artifact", outputPath).
			Info("artifact ready for deploy")
	}

	return outputPath, nil
}

func (c *Compiler) inspect(ctx context.Context, name string) (compiledContract, error) {
	c.logger.With("name", name).Debug("inspecting contract")

	abiJSON, err := c.forge(ctx, c.contractsRootDir, "inspect", name, "abi", "--json")
	if err != nil {
		return compiledContract{}, fmt.Errorf("failed to get ABI: %w", err)
	}
	if _, err := abi.JSON(strings.NewReader(string(abiJSON))); err != nil {
		return compiledContract{}, fmt.Errorf("failed to parse ABI: %w", err)
	}

	bytecode, err := c.forge(ctx, c.contractsRootDir, "inspect", name, "bytecode")
	if err != nil {
		return compiledContract{}, fmt.Errorf("failed to get bytecode: %w", err)
	}

	return compiledContract{
		ABI:      json.RawMessage(abiJSON),
		Bytecode: strings.TrimSpace(string(bytecode)),
	}, nil
}

func (c *Compiler) write(compiled map[string]compiledContract) (string, error) {
	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(compiled, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal contracts: %w", err)
	}

	outputPath := filepath.Join(c.outputDir, CompiledFileName)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", err
	}

	return outputPath, nil
}
