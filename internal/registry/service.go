package registry

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fractionft/fraction-marketplace/internal/chain"
	"github.com/fractionft/fraction-marketplace/internal/contract"
	"github.com/fractionft/fraction-marketplace/internal/entity"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("registry entry not found")

// Service reads and writes the Registry contract that indexes every active
// Manager deployment.
type Service interface {
	ActiveEntries(ctx context.Context) ([]entity.RegistryIndexEntry, error)
	EntriesByOwner(ctx context.Context, owner common.Address) ([]entity.RegistryIndexEntry, error)
	EntryByManager(ctx context.Context, manager common.Address) (*entity.RegistryIndexEntry, error)
	Register(ctx context.Context, manager common.Address, metadataURI string) (common.Hash, error)
	Address() common.Address
}

type service struct {
	client  chain.Client
	address common.Address
}

func NewService(client chain.Client, address common.Address) Service {
	return service{client, address}
}

type indexEntry struct {
	NftContract     common.Address
	TokenId         *big.Int
	ManagerContract common.Address
	FirstOwner      common.Address
	IsActive        bool
	CreatedAt       *big.Int
	MetadataURI     string
}

func (s service) Address() common.Address {
	return s.address
}

func (s service) ActiveEntries(ctx context.Context) ([]entity.RegistryIndexEntry, error) {
	return s.readEntries(ctx, "getActiveNFTIndices")
}

func (s service) EntriesByOwner(ctx context.Context, owner common.Address) ([]entity.RegistryIndexEntry, error) {
	return s.readEntries(ctx, "getNFTIndicesByOwner", owner)
}

func (s service) EntryByManager(ctx context.Context, manager common.Address) (*entity.RegistryIndexEntry, error) {
	values, err := s.client.Read(ctx, s.address, contract.Registry, "getNFTIndexByManager", manager)
	if err != nil {
		return nil, err
	}

	raw := *abi.ConvertType(values[0], new(indexEntry)).(*indexEntry)
	if raw.ManagerContract == (common.Address{}) {
		return nil, fmt.Errorf("%w: manager %s", ErrNotFound, manager.Hex())
	}

	entry := toEntity(raw)

	return &entry, nil
}

// Register records a freshly wired Manager in the index and blocks until the
// transaction is mined.
func (s service) Register(ctx context.Context, manager common.Address, metadataURI string) (common.Hash, error) {
	txHash, err := s.client.Write(ctx, s.address, contract.Registry, "registerSharedNFT", chain.WriteOpts{}, manager, metadataURI)
	if err != nil {
		return common.Hash{}, err
	}

	if _, err := s.client.WaitForReceipt(ctx, txHash); err != nil {
		return txHash, err
	}

	zap.L().With(
		zap.String("manager", manager.Hex()),
		zap.String("txHash", txHash.Hex()),
	).Info("Registry: manager registered")

	return txHash, nil
}

func (s service) readEntries(ctx context.Context, method string, args ...interface{}) ([]entity.RegistryIndexEntry, error) {
	values, err := s.client.Read(ctx, s.address, contract.Registry, method, args...)
	if err != nil {
		return nil, err
	}

	raw := *abi.ConvertType(values[0], new([]indexEntry)).(*[]indexEntry)

	entries := make([]entity.RegistryIndexEntry, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, toEntity(e))
	}

	return entries, nil
}

func toEntity(e indexEntry) entity.RegistryIndexEntry {
	return entity.RegistryIndexEntry{
		NftContract:     e.NftContract.Hex(),
		TokenId:         e.TokenId.String(),
		ManagerContract: e.ManagerContract.Hex(),
		FirstOwner:      e.FirstOwner.Hex(),
		IsActive:        e.IsActive,
		CreatedAt:       e.CreatedAt.Uint64(),
		MetadataURI:     e.MetadataURI,
	}
}
