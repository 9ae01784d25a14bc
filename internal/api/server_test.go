package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fractionft/fraction-marketplace/internal/api"
	"github.com/fractionft/fraction-marketplace/internal/entity"
	"github.com/fractionft/fraction-marketplace/internal/manager"
	"github.com/fractionft/fraction-marketplace/internal/marketplace"
	"github.com/fractionft/fraction-marketplace/internal/registry"
	"github.com/fractionft/fraction-marketplace/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var (
	managerAddr = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	ownerAddr   = common.HexToAddress("0x00000000000000000000000000000000000000bb")
)

type fakeAggregator struct {
	marketplace.Aggregator
}

func (f fakeAggregator) Item(_ context.Context, addr common.Address) (*entity.MarketplaceItem, error) {
	if addr != managerAddr {
		return nil, fmt.Errorf("%w: manager %s", registry.ErrNotFound, addr.Hex())
	}

	return &entity.MarketplaceItem{Id: addr.Hex() + "-7", Manager: addr.Hex()}, nil
}

type fakeManagers struct {
	manager.Service
}

func (f fakeManagers) Snapshot(_ context.Context, addr common.Address) (*entity.ManagerSnapshot, error) {
	if addr != managerAddr {
		return nil, fmt.Errorf("%w: node down", manager.ErrUnavailable)
	}

	return &entity.ManagerSnapshot{Manager: addr.Hex(), MaxSellable: 60}, nil
}

func (f fakeManagers) CalculateCost(_ context.Context, percentage uint64, _ common.Address) (string, error) {
	return fmt.Sprintf("0.00%d", percentage), nil
}

func (f fakeManagers) EstimateGasForPurchase(_ context.Context, _ uint64, _ common.Address, _ *common.Address) entity.GasEstimate {
	return entity.GasEstimate{GasEstimate: 150000, GasCostEth: "0.0003"}
}

type fakeTokens struct {
	token.Service
}

func (f fakeTokens) FetchOwnedNFTs(_ context.Context, _ common.Address) ([]entity.UserNFT, error) {
	return []entity.UserNFT{{TokenId: "7"}}, nil
}

func (f fakeTokens) FetchSharedNFTs(_ context.Context, _ common.Address) ([]entity.UserNFT, error) {
	return []entity.UserNFT{{TokenId: "7", ManagerContract: managerAddr.Hex()}}, nil
}

func newServer() (api.Server, *marketplace.Store) {
	store := marketplace.NewStore()
	return api.NewServer(store, fakeAggregator{}, fakeManagers{}, fakeTokens{}), store
}

func get(server api.Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

	return rec
}

func TestMarketplaceServedFromStore(t *testing.T) {
	server, store := newServer()
	store.Replace([]entity.MarketplaceItem{{Id: "a", Slug: "cool-cat"}})

	rec := get(server, "/api/marketplace")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Items       []entity.MarketplaceItem `json:"items"`
		RefreshedAt string                   `json:"refreshedAt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "cool-cat", payload.Items[0].Slug)
	assert.NotEmpty(t, payload.RefreshedAt)
}

func TestMarketplaceItem(t *testing.T) {
	server, _ := newServer()

	rec := get(server, "/api/marketplace/"+managerAddr.Hex())
	require.Equal(t, http.StatusOK, rec.Code)

	var item entity.MarketplaceItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, managerAddr.Hex(), item.Manager)
}

func TestMarketplaceItemNotFound(t *testing.T) {
	server, _ := newServer()

	rec := get(server, "/api/marketplace/"+ownerAddr.Hex())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarketplaceItemBadAddress(t *testing.T) {
	server, _ := newServer()

	rec := get(server, "/api/marketplace/not-an-address")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSnapshot(t *testing.T) {
	server, _ := newServer()

	rec := get(server, "/api/manager/"+managerAddr.Hex()+"/snapshot")
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot entity.ManagerSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, uint64(60), snapshot.MaxSellable)
}

func TestSnapshotUnavailable(t *testing.T) {
	server, _ := newServer()

	rec := get(server, "/api/manager/"+ownerAddr.Hex()+"/snapshot")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCost(t *testing.T) {
	server, _ := newServer()

	rec := get(server, "/api/manager/"+managerAddr.Hex()+"/cost?percentage=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"costEth":"0.005"}`, rec.Body.String())
}

func TestCostInvalidPercentage(t *testing.T) {
	server, _ := newServer()

	for _, q := range []string{"", "percentage=0", "percentage=101", "percentage=abc"} {
		rec := get(server, "/api/manager/"+managerAddr.Hex()+"/cost?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestGasEstimate(t *testing.T) {
	server, _ := newServer()

	rec := get(server, "/api/manager/"+managerAddr.Hex()+"/gas?percentage=5")
	require.Equal(t, http.StatusOK, rec.Code)

	var estimate entity.GasEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &estimate))
	assert.Equal(t, uint64(150000), estimate.GasEstimate)
}

func TestGasEstimateBadFrom(t *testing.T) {
	server, _ := newServer()

	rec := get(server, "/api/manager/"+managerAddr.Hex()+"/gas?percentage=5&from=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOwnedAndSharedNfts(t *testing.T) {
	server, _ := newServer()

	rec := get(server, "/api/nfts/"+ownerAddr.Hex())
	require.Equal(t, http.StatusOK, rec.Code)

	var nfts []entity.UserNFT
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nfts))
	require.Len(t, nfts, 1)

	rec = get(server, "/api/nfts/"+ownerAddr.Hex()+"/shared")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &nfts))
	assert.Equal(t, managerAddr.Hex(), nfts[0].ManagerContract)
}
