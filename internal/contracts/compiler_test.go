package contracts

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeForge struct {
	abi      string
	bytecode string
	err      error

	calls [][]string
}

func (f *fakeForge) run(_ context.Context, _ string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return nil, f.err
	}
	if args[len(args)-1] == "--json" {
		return []byte(f.abi + "\n"), nil
	}
	return []byte(f.bytecode + "\n"), nil
}

func newTestCompiler(t *testing.T, forge *fakeForge) *Compiler {
	t.Helper()
	c := NewCompiler(t.TempDir(), filepath.Join(t.TempDir(), "compiled"))
	c.forge = forge.run
	return c
}

func TestCompileWritesDeployableArtifact(t *testing.T) {
	forge := &fakeForge{abi: testABI, bytecode: "0x6080"}
	c := newTestCompiler(t, forge)

	path, err := c.Compile(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.outputDir, CompiledFileName), path)

	assert.Equal(t, [][]string{
		{"inspect", ContractNameTickItOn, "abi", "--json"},
		{"inspect", ContractNameTickItOn, "bytecode"},
	}, forge.calls)

	artifact, err := LoadArtifact(path, ContractNameTickItOn)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80}, artifact.Bytecode)
	require.Len(t, artifact.ABI.Constructor.Inputs, 1)
	assert.JSONEq(t, testABI, artifact.RawABI)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		forge   *fakeForge
		wantErr string
	}{
		{
			name:    "forge fails",
			forge:   &fakeForge{err: errors.New("forge: command not found")},
			wantErr: "failed to get ABI",
		},
		{
			name:    "invalid abi",
			forge:   &fakeForge{abi: `{"not":"an abi"`, bytecode: "0x6080"},
			wantErr: "failed to parse ABI",
		},
		{
			name:    "empty bytecode",
			forge:   &fakeForge{abi: testABI, bytecode: "0x"},
			wantErr: "has no bytecode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestCompiler(t, tt.forge).Compile(context.Background(), []string{ContractNameTickItOn})
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
		})
	}
}
