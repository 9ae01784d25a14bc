package registry_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fractionft/fraction-marketplace/internal/chain"
	"github.com/fractionft/fraction-marketplace/internal/contract"
	"github.com/fractionft/fraction-marketplace/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var (
	registryAddr = common.HexToAddress("0x0000000000000000000000000000000000000011")
	managerAddr  = common.HexToAddress("0x0000000000000000000000000000000000000022")
	nftAddr      = common.HexToAddress("0x0000000000000000000000000000000000000033")
	ownerAddr    = common.HexToAddress("0x0000000000000000000000000000000000000044")
)

// fixtureEntry mirrors the registry tuple layout for packing test data the
// way the contract would return it.
type fixtureEntry struct {
	NftContract     common.Address
	TokenId         *big.Int
	ManagerContract common.Address
	FirstOwner      common.Address
	IsActive        bool
	CreatedAt       *big.Int
	MetadataURI     string
}

type fakeClient struct {
	reads   map[string][]interface{}
	readErr error
	writes  []string
	waitErr error
}

func (c *fakeClient) Read(_ context.Context, _ common.Address, _ abi.ABI, method string, _ ...interface{}) ([]interface{}, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}

	return c.reads[method], nil
}

func (c *fakeClient) Write(_ context.Context, _ common.Address, _ abi.ABI, method string, _ chain.WriteOpts, _ ...interface{}) (common.Hash, error) {
	c.writes = append(c.writes, method)
	return common.Hash{1}, nil
}

func (c *fakeClient) Deploy(_ context.Context, _ abi.ABI, _ []byte, _ chain.WriteOpts, _ ...interface{}) (common.Hash, error) {
	return common.Hash{}, errors.New("not supported")
}

func (c *fakeClient) EstimateContractGas(_ context.Context, _ *common.Address, _ common.Address, _ abi.ABI, _ string, _ *big.Int, _ ...interface{}) (uint64, error) {
	return 0, errors.New("not supported")
}

func (c *fakeClient) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (c *fakeClient) WaitForReceipt(_ context.Context, _ common.Hash) (*types.Receipt, error) {
	if c.waitErr != nil {
		return nil, c.waitErr
	}

	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func (c *fakeClient) Account() (common.Address, bool) {
	return ownerAddr, true
}

// packEntries round-trips fixtures through the real ABI codec so the service
// sees exactly what an on-chain call would produce.
func packEntries(t *testing.T, method string, entries []fixtureEntry) []interface{} {
	t.Helper()

	outputs := contract.Registry.Methods[method].Outputs

	packed, err := outputs.Pack(entries)
	require.NoError(t, err)

	values, err := outputs.Unpack(packed)
	require.NoError(t, err)

	return values
}

func packEntry(t *testing.T, entry fixtureEntry) []interface{} {
	t.Helper()

	outputs := contract.Registry.Methods["getNFTIndexByManager"].Outputs

	packed, err := outputs.Pack(entry)
	require.NoError(t, err)

	values, err := outputs.Unpack(packed)
	require.NoError(t, err)

	return values
}

func testEntry() fixtureEntry {
	return fixtureEntry{
		NftContract:     nftAddr,
		TokenId:         big.NewInt(7),
		ManagerContract: managerAddr,
		FirstOwner:      ownerAddr,
		IsActive:        true,
		CreatedAt:       big.NewInt(1700000000),
		MetadataURI:     "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
	}
}

func TestActiveEntries(t *testing.T) {
	client := &fakeClient{reads: map[string][]interface{}{
		"getActiveNFTIndices": packEntries(t, "getActiveNFTIndices", []fixtureEntry{testEntry()}),
	}}

	entries, err := registry.NewService(client, registryAddr).ActiveEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, nftAddr.Hex(), entries[0].NftContract)
	assert.Equal(t, "7", entries[0].TokenId)
	assert.Equal(t, managerAddr.Hex(), entries[0].ManagerContract)
	assert.Equal(t, ownerAddr.Hex(), entries[0].FirstOwner)
	assert.True(t, entries[0].IsActive)
	assert.Equal(t, uint64(1700000000), entries[0].CreatedAt)
	assert.Equal(t, "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG", entries[0].MetadataURI)
}

func TestActiveEntriesEmpty(t *testing.T) {
	client := &fakeClient{reads: map[string][]interface{}{
		"getActiveNFTIndices": packEntries(t, "getActiveNFTIndices", []fixtureEntry{}),
	}}

	entries, err := registry.NewService(client, registryAddr).ActiveEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEntryByManager(t *testing.T) {
	client := &fakeClient{reads: map[string][]interface{}{
		"getNFTIndexByManager": packEntry(t, testEntry()),
	}}

	entry, err := registry.NewService(client, registryAddr).EntryByManager(context.Background(), managerAddr)
	require.NoError(t, err)
	assert.Equal(t, managerAddr.Hex(), entry.ManagerContract)
}

func TestEntryByManagerNotFound(t *testing.T) {
	client := &fakeClient{reads: map[string][]interface{}{
		"getNFTIndexByManager": packEntry(t, fixtureEntry{
			TokenId:   big.NewInt(0),
			CreatedAt: big.NewInt(0),
		}),
	}}

	_, err := registry.NewService(client, registryAddr).EntryByManager(context.Background(), managerAddr)
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrNotFound))
}

func TestRegisterWaitsForReceipt(t *testing.T) {
	client := &fakeClient{reads: map[string][]interface{}{}}

	txHash, err := registry.NewService(client, registryAddr).Register(context.Background(), managerAddr, "ipfs://cid")
	require.NoError(t, err)
	assert.Equal(t, common.Hash{1}, txHash)
	assert.Equal(t, []string{"registerSharedNFT"}, client.writes)
}

func TestRegisterReceiptFailure(t *testing.T) {
	client := &fakeClient{reads: map[string][]interface{}{}, waitErr: chain.RevertedError{TxHash: common.Hash{1}}}

	_, err := registry.NewService(client, registryAddr).Register(context.Background(), managerAddr, "ipfs://cid")
	require.Error(t, err)

	var reverted chain.RevertedError
	assert.True(t, errors.As(err, &reverted))
}
