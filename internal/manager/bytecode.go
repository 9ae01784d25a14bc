package manager

import (
	"context"
	"encoding/hex"
	"errors"
	"os"
	"strings"
)

// BytecodeSource supplies the compiled creation bytecode for the Manager
// contract. Deployment and the bytecode HTTP endpoint share one source.
type BytecodeSource interface {
	Creation(ctx context.Context) ([]byte, error)
	CreationHex(ctx context.Context) (string, error)
}

type fileBytecodeSource struct {
	path string
}

func NewFileBytecodeSource(path string) BytecodeSource {
	return fileBytecodeSource{path}
}

func (s fileBytecodeSource) CreationHex(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return "", errors.New("empty bytecode artifact: " + s.path)
	}

	if !strings.HasPrefix(trimmed, "0x") {
		trimmed = "0x" + trimmed
	}

	return trimmed, nil
}

func (s fileBytecodeSource) Creation(ctx context.Context) ([]byte, error) {
	hexCode, err := s.CreationHex(ctx)
	if err != nil {
		return nil, err
	}

	decoded, err := hex.DecodeString(strings.TrimPrefix(hexCode, "0x"))
	if err != nil {
		return nil, err
	}

	return decoded, nil
}
