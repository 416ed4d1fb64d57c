package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/tickiton/deployer/internal/contracts"
	"github.com/tickiton/deployer/internal/deploy"
	"github.com/tickiton/deployer/internal/infra/filesystem"
	fsjson "github.com/tickiton/deployer/internal/infra/filesystem/json"
	"github.com/tickiton/deployer/internal/network"
	"gopkg.in/yaml.v3"
)

// Generator writes deployment records as <network>.yaml and <network>.json.
type Generator struct {
	outputDir string
	reader    filesystem.Reader
	writer    filesystem.Writer
}

func NewGenerator(outputDir string) *Generator {
	return &Generator{
		outputDir: outputDir,
		reader:    fsjson.NewReader(),
		writer:    fsjson.NewWriter(),
	}
}

// NewRecord builds the record for a confirmed deployment.
func NewRecord(result deploy.Result, deployer common.Address, artifact contracts.Artifact, deployedAt time.Time) Record {
	args := result.Arguments
	return Record{
		Network:    result.Network,
		ChainID:    result.ChainID,
		Contract:   artifact.Name,
		Address:    result.Address,
		TxHash:     result.TxHash,
		Deployer:   deployer,
		DeployedAt: deployedAt.UTC(),
		Arguments: ConstructorArguments{
			Router:         args.Router,
			Coordinator:    args.Coordinator,
			PriceFeed:      args.PriceFeed,
			Token:          args.Token,
			SubscriptionID: args.SubscriptionID.String(),
			KeyID:          args.KeyID,
			Name:           args.Name,
			ChainSelector:  network.SelectorFromBig(args.ChainSelector),
		},
		ABI: SingleQuotedString(compactJSON(artifact.RawABI)),
	}
}

// Generate writes the record for its network, replacing an earlier one.
func (g *Generator) Generate(_ context.Context, record Record) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal deployment record. Err: '%w'", err)
	}

	if err := g.writer.WriteBytes(g.path(record.Network, "yaml"), data); err != nil {
		return fmt.Errorf("could not write deployment record. Err: '%w'", err)
	}

	if err := g.writer.WriteJSON(g.path(record.Network, "json"), record); err != nil {
		return fmt.Errorf("could not write deployment record. Err: '%w'", err)
	}

	return nil
}

// Previous returns the last record written for networkName, if any.
func (g *Generator) Previous(networkName string) (Record, bool, error) {
	var record Record
	if err := g.reader.ReadJSON(g.path(networkName, "json"), &record); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return record, true, nil
}

func (g *Generator) path(networkName, ext string) string {
	return filepath.Join(g.outputDir, networkName+"."+ext)
}

func compactJSON(jsonStr string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(jsonStr)); err != nil {
		return jsonStr
	}
	return buf.String()
}
