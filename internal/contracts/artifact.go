package contracts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ContractNameTickItOn is the contract this tool deploys.
const ContractNameTickItOn = "TickItOn"

type (
	// Artifact is a compiled contract ready for deployment.
	Artifact struct {
		Name     string
		ABI      abi.ABI
		RawABI   string
		Bytecode []byte
	}

	rawArtifact struct {
		ContractName string          `json:"contractName"`
		ABI          json.RawMessage `json:"abi"`
		Bytecode     json.RawMessage `json:"bytecode"`
	}
)

// LoadArtifact reads the named contract from path. Three layouts are accepted:
// a Hardhat artifact, a Foundry out/ artifact (bytecode.object), and the
// name-keyed map written by Compiler.
func LoadArtifact(path, name string) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to read artifact: %w", err)
	}

	artifact, err := parseArtifact(data, name)
	if err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", path, err)
	}
	return artifact, nil
}

func parseArtifact(data []byte, name string) (Artifact, error) {
	var single rawArtifact
	if err := json.Unmarshal(data, &single); err != nil {
		return Artifact{}, fmt.Errorf("failed to parse artifact: %w", err)
	}

	if len(single.ABI) == 0 {
		var compiled map[string]rawArtifact
		if err := json.Unmarshal(data, &compiled); err != nil {
			return Artifact{}, fmt.Errorf("failed to parse compiled contracts: %w", err)
		}

		entry, ok := compiled[name]
		if !ok {
			return Artifact{}, fmt.Errorf("contract %s not found in compiled contracts", name)
		}
		single = entry
	} else if single.ContractName != "" && single.ContractName != name {
		return Artifact{}, fmt.Errorf("artifact is for %s, expected %s", single.ContractName, name)
	}

	parsedABI, err := abi.JSON(bytes.NewReader(single.ABI))
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
	}

	bytecodeHex, err := bytecodeString(single.Bytecode)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to parse bytecode for %s: %w", name, err)
	}

	bytecode := common.FromHex(bytecodeHex)
	if len(bytecode) == 0 {
		return Artifact{}, fmt.Errorf("contract %s has no bytecode", name)
	}

	return Artifact{
		Name:     name,
		ABI:      parsedABI,
		RawABI:   string(single.ABI),
		Bytecode: bytecode,
	}, nil
}

// bytecodeString accepts "0x..." or {"object": "0x..."}.
func bytecodeString(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("bytecode is missing")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}

	var object struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &object); err != nil {
		return "", err
	}
	return strings.TrimSpace(object.Object), nil
}
