package manager_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fractionft/fraction-marketplace/internal/manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bytecode.hex")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestFileBytecodeSource(t *testing.T) {
	source := manager.NewFileBytecodeSource(writeArtifact(t, "0x6080604052\n"))

	hexCode, err := source.CreationHex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0x6080604052", hexCode)

	raw, err := source.Creation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, raw)
}

func TestFileBytecodeSourceAddsPrefix(t *testing.T) {
	source := manager.NewFileBytecodeSource(writeArtifact(t, "6080"))

	hexCode, err := source.CreationHex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0x6080", hexCode)
}

func TestFileBytecodeSourceEmpty(t *testing.T) {
	source := manager.NewFileBytecodeSource(writeArtifact(t, "  \n"))

	_, err := source.CreationHex(context.Background())
	assert.Error(t, err)
}

func TestFileBytecodeSourceInvalidHex(t *testing.T) {
	source := manager.NewFileBytecodeSource(writeArtifact(t, "0xzzzz"))

	_, err := source.Creation(context.Background())
	assert.Error(t, err)
}

func TestFileBytecodeSourceMissingFile(t *testing.T) {
	source := manager.NewFileBytecodeSource(filepath.Join(t.TempDir(), "missing.hex"))

	_, err := source.Creation(context.Background())
	assert.Error(t, err)
}
